package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/resource"
	"github.com/ByLCY/folio/style"
)

// Requester 按名称分发延迟加载的内容句柄，resource.Scheduler 满足该接口。
type Requester interface {
	Request(name string) *resource.Handle
}

// Options 配置 Compile。
type Options struct {
	// Data 为 ${path} 插值使用的数据。
	Data any
	// Page 为 page 节没有给出尺寸或页边距时使用的页面几何。
	Page document.Section
	// Resources 为 drawing src 提供内容句柄，nil 时引用外部内容是错误。
	Resources Requester
	// Defaults 替换内建默认值，styles 节中的 default 赋值仍会覆盖它们。
	Defaults *style.Defaults
	Logger   *zap.Logger
}

// Compiled 是编译后的文档与样式仓库。
type Compiled struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Meta     map[string]string `json:"meta,omitempty"`
	Document *document.Document
	Sheet    *style.Sheet
}

type compiler struct {
	sheet     *style.Sheet
	data      any
	res       Requester
	log       *zap.Logger
	tables    map[string]style.TableID
	numbering map[string]bool
	err       error
}

func (c *compiler) errorf(pos lexer.Position, format string, args ...any) {
	c.err = multierr.Append(c.err, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

// Compile 把语法树编译为 document 与 style 对象图。
// 引用错误与非法取值汇总为一个 error 返回；无法识别的枚举值只记录诊断。
func Compile(doc *Document, opts Options) (*Compiled, error) {
	if doc == nil {
		return nil, errors.New("dsl: 文档为空")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &compiler{
		sheet:     style.NewSheet(),
		data:      opts.Data,
		res:       opts.Resources,
		log:       log.Named("dsl"),
		tables:    map[string]style.TableID{},
		numbering: map[string]bool{},
	}
	if opts.Defaults != nil {
		c.sheet.Defaults = *opts.Defaults
	}
	out := &Compiled{Name: doc.Name, Version: doc.Version, Meta: map[string]string{}, Sheet: c.sheet}

	var page *PageSection
	for _, sec := range doc.Sections {
		if sec.Styles != nil {
			c.declareStyles(sec.Styles.Block)
		}
	}
	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			c.compileMeta(sec.Meta.Block, out.Meta)
		case sec.Styles != nil:
			c.compileStyles(sec.Styles.Block)
		case sec.Page != nil:
			if page != nil {
				c.errorf(sec.Page.Pos, "只支持一个 page 节")
				continue
			}
			page = sec.Page
		}
	}
	for _, missing := range c.sheet.BindNumbering() {
		c.err = multierr.Append(c.err, fmt.Errorf("未定义的编号 %s 第 %d 级", missing.NumID, missing.Index))
	}

	out.Document = &document.Document{Section: opts.Page}
	if page == nil {
		c.err = multierr.Append(c.err, errors.New("缺少 page 节"))
	} else {
		out.Document.Section = c.compilePageSpec(page, opts.Page)
		out.Document.Blocks = c.compileBlocks(page.Block)
	}

	if c.err != nil {
		return nil, c.err
	}
	c.log.Debug("Document compiled",
		zap.String("name", out.Name),
		zap.Int("styles", c.sheet.Len()),
		zap.Int("blocks", len(out.Document.Blocks)))
	return out, nil
}

func (c *compiler) compileMeta(b *Block, meta map[string]string) {
	for _, st := range b.Statements {
		if st.Assignment == nil {
			c.errorf(b.pos(), "meta 中只允许属性")
			continue
		}
		v, _ := c.text(st.Assignment.Value)
		meta[st.Assignment.Key] = v
	}
}

func (b *Block) pos() lexer.Position {
	for _, st := range b.Statements {
		switch {
		case st.Assignment != nil:
			return st.Assignment.Pos
		case st.Command != nil:
			return st.Command.Pos
		case st.Text != nil:
			return st.Text.Pos
		}
	}
	return lexer.Position{}
}

// paperSizes 为常用纸张尺寸（px，纵向）。
var paperSizes = map[string][2]float64{
	"a3":     {1123, 1587},
	"a4":     {794, 1123},
	"a5":     {559, 794},
	"letter": {816, 1056},
	"legal":  {816, 1344},
}

// compilePageSpec 解析 `page (A4|W H) [portrait|landscape] [margin T [R B L]]`。
func (c *compiler) compilePageSpec(p *PageSection, def document.Section) document.Section {
	sec := def
	params := p.Spec.Params
	landscape := false
	for i := 0; i < len(params); i++ {
		l := params[i]
		switch {
		case l.Kind == KindNumber:
			if i+1 >= len(params) || params[i+1].Kind != KindNumber {
				c.errorf(l.Pos, "page: 尺寸需要宽与高")
				continue
			}
			w, okW := c.length(l.Pos, "page width", l.Value)
			h, okH := c.length(params[i+1].Pos, "page height", params[i+1].Value)
			if okW && okH {
				sec.Width, sec.Height = w, h
			}
			i++
		case l.Value == "portrait":
			landscape = false
		case l.Value == "landscape":
			landscape = true
		case l.Value == "margin":
			var vals []float64
			for i+1 < len(params) && params[i+1].Kind == KindNumber {
				i++
				if v, ok := c.length(params[i].Pos, "margin", params[i].Value); ok {
					vals = append(vals, v)
				}
			}
			switch len(vals) {
			case 1:
				sec.Margin = document.Margin{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
			case 2:
				sec.Margin = document.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
			case 4:
				sec.Margin = document.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
			default:
				c.errorf(l.Pos, "page: margin 需要 1、2 或 4 个长度")
			}
		default:
			size, ok := paperSizes[strings.ToLower(l.Value)]
			if !ok {
				c.errorf(l.Pos, "page: 无法识别的参数 %q", l.Value)
				continue
			}
			sec.Width, sec.Height = size[0], size[1]
		}
	}
	if landscape && sec.Width < sec.Height {
		sec.Width, sec.Height = sec.Height, sec.Width
	}
	return sec
}

// compileBlocks 编译正文中的 paragraph 与 table。
func (c *compiler) compileBlocks(b *Block) []document.Block {
	if b == nil {
		return nil
	}
	var blocks []document.Block
	for _, st := range b.Statements {
		switch {
		case st.Command != nil && st.Command.Name == "paragraph":
			blocks = append(blocks, c.compileParagraph(st.Command))
		case st.Command != nil && st.Command.Name == "table":
			if t := c.compileTable(st.Command); t != nil {
				blocks = append(blocks, t)
			}
		case st.Command != nil:
			c.errorf(st.Command.Pos, "无法识别的块 %q", st.Command.Name)
		case st.Text != nil:
			// 裸文本视为使用默认样式的段落。
			text := binding.Interpolate(string(st.Text.Value), c.data)
			blocks = append(blocks, document.NewParagraph(style.NoID, document.Text(style.NoID, text)))
		case st.Assignment != nil:
			c.errorf(st.Assignment.Pos, "正文中不允许属性 %q", st.Assignment.Key)
		}
	}
	return blocks
}

// compileParagraph 编译 `paragraph [Style] [item first|middle|last] { ... }`。
func (c *compiler) compileParagraph(cmd *Command) *document.Paragraph {
	p := &document.Paragraph{NumberingPosition: style.Only}
	a := newArgs(c, cmd)
	for !a.empty() {
		l, _ := a.next()
		if l.Value == "item" {
			raw, pos, ok := a.value("item")
			if !ok {
				continue
			}
			switch raw {
			case "only":
				p.NumberingPosition = style.Only
			case "first":
				p.NumberingPosition = style.First
			case "middle":
				p.NumberingPosition = style.Middle
			case "last":
				p.NumberingPosition = style.Last
			default:
				c.errorf(pos, "paragraph item: 无法识别的位置 %q", raw)
			}
			continue
		}
		if p.Style != style.NoID {
			c.errorf(l.Pos, "paragraph: 重复的样式 %q", l.Value)
			continue
		}
		p.Style = c.styleRef(l.Pos, l.Value)
	}
	if cmd.Block != nil {
		p.Runs = c.compileRuns(cmd.Block, p.Style)
	}
	return p
}

// compileRuns 编译段落内容。相邻的纯文本、tab 与 break 合并为一个文本 run。
func (c *compiler) compileRuns(b *Block, par style.ID) []document.Run {
	var (
		runs  []document.Run
		plain *document.TextRun
	)
	appendPlain := func(fragments ...string) {
		if plain == nil {
			plain = &document.TextRun{Style: style.NoID}
			runs = append(runs, plain)
		}
		plain.Fragments = append(plain.Fragments, fragments...)
	}

	for _, st := range b.Statements {
		switch {
		case st.Text != nil:
			appendPlain(binding.Interpolate(string(st.Text.Value), c.data))
		case st.Command != nil:
			cmd := st.Command
			switch cmd.Name {
			case "tab", "break":
				appendPlain(c.control(cmd)...)
			case "run":
				plain = nil
				runs = append(runs, c.compileRun(cmd, par))
			case "math":
				plain = nil
				if r := c.compileMath(cmd, par); r != nil {
					runs = append(runs, r)
				}
			case "drawing":
				plain = nil
				if r := c.compileDrawing(cmd); r != nil {
					runs = append(runs, r)
				}
			default:
				c.errorf(cmd.Pos, "段落中无法识别的内容 %q", cmd.Name)
			}
		case st.Assignment != nil:
			c.errorf(st.Assignment.Pos, "段落中不允许属性 %q", st.Assignment.Key)
		}
	}
	return runs
}

// control 把 tab/break 转为分隔符片段，跟随的字符串参数作为其后的文本。
func (c *compiler) control(cmd *Command) []string {
	sep := "\t"
	if cmd.Name == "break" {
		sep = "\n"
	}
	out := []string{sep}
	for _, l := range cmd.Args {
		if l.Kind != KindString {
			c.errorf(l.Pos, "%s: 无法识别的参数 %q", cmd.Name, l.Value)
			continue
		}
		out = append(out, binding.Interpolate(l.Value, c.data))
	}
	return out
}

var runFlags = map[string]func(*style.RunStyle){
	"bold":          func(r *style.RunStyle) { r.Bold = style.Ptr(true) },
	"italic":        func(r *style.RunStyle) { r.Italic = style.Ptr(true) },
	"underline":     func(r *style.RunStyle) { r.Underline = style.Ptr(style.UnderlineSingle) },
	"strike":        func(r *style.RunStyle) { r.Strike = style.Ptr(true) },
	"double-strike": func(r *style.RunStyle) { r.DoubleStrike = style.Ptr(true) },
	"caps":          func(r *style.RunStyle) { r.Caps = style.Ptr(true) },
	"small-caps":    func(r *style.RunStyle) { r.SmallCaps = style.Ptr(true) },
	"invisible":     func(r *style.RunStyle) { r.Invisible = style.Ptr(true) },
}

// runStyle 解析 run 的参数：具名样式与行内标记合成为一个匿名样式，
// 字符属性先查行内标记与具名样式，其余回退到段落样式。
func (c *compiler) runStyle(a *args, par style.ID) style.ID {
	var rs style.RunStyle
	inline := false
	for !a.empty() {
		l := a.peek()
		if l.Kind == KindString {
			break
		}
		a.next()
		if set, ok := runFlags[l.Value]; ok {
			set(&rs)
			inline = true
			continue
		}
		switch l.Value {
		case "color":
			if v, _, ok := a.value("color"); ok {
				rs.Color = &v
				inline = true
			}
		case "size":
			if v, ok := a.length("size"); ok {
				rs.FontSize = &v
				inline = true
			}
		case "font":
			if v, _, ok := a.value("font"); ok {
				rs.FontFamily = &v
				inline = true
			}
		default:
			if rs.BasedOn != style.NoID {
				c.errorf(l.Pos, "%s: 重复的样式 %q", a.cmd.Name, l.Value)
				continue
			}
			rs.BasedOn = c.styleRef(l.Pos, l.Value)
		}
	}
	if !inline && rs.BasedOn == style.NoID {
		return style.NoID
	}
	return c.sheet.Add(style.Style{Run: rs, BasedOn: par})
}

// compileRun 编译 `run [Style] [bold] [italic] [color C] [size S] ... { "text" }`。
func (c *compiler) compileRun(cmd *Command, par style.ID) *document.TextRun {
	a := newArgs(c, cmd)
	r := &document.TextRun{Style: c.runStyle(a, par)}
	for _, l := range a.list {
		r.Fragments = append(r.Fragments, binding.Interpolate(l.Value, c.data))
	}
	if cmd.Block == nil {
		return r
	}
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Text != nil:
			r.Fragments = append(r.Fragments, binding.Interpolate(string(st.Text.Value), c.data))
		case st.Command != nil && (st.Command.Name == "tab" || st.Command.Name == "break"):
			r.Fragments = append(r.Fragments, c.control(st.Command)...)
		default:
			c.errorf(cmd.Pos, "run 中只允许文本、tab 与 break")
		}
	}
	return r
}

// compileMath 编译 `math [Style] "linearized formula"`。
func (c *compiler) compileMath(cmd *Command, par style.ID) *document.MathRun {
	a := newArgs(c, cmd)
	id := c.runStyle(a, par)
	l, ok := a.next()
	if !ok {
		c.errorf(cmd.Pos, "math 缺少公式文本")
		return nil
	}
	a.rest()
	return &document.MathRun{Text: binding.Interpolate(l.Value, c.data), Style: id}
}

var wrapNames = map[string]document.Wrap{
	"none":       document.WrapNone,
	"square":     document.WrapSquare,
	"top-bottom": document.WrapTopBottom,
}

// compileDrawing 编译
//
//	drawing W H [anchor] [x REF OFFSET] [y REF OFFSET] [wrap none|square|top-bottom] [src "name"] [{ blocks }]
func (c *compiler) compileDrawing(cmd *Command) *document.DrawingRun {
	a := newArgs(c, cmd)
	w, okW := a.length("width")
	h, okH := a.length("height")
	if !okW || !okH {
		return nil
	}
	d := &document.DrawingRun{Width: w, Height: h, RelativeX: document.RefColumn, RelativeY: document.RefParagraph}
	src := ""
	for !a.empty() {
		l, _ := a.next()
		switch l.Value {
		case "anchor":
			d.Anchor = true
		case "x", "y":
			raw, pos, ok := a.value(l.Value)
			if !ok {
				continue
			}
			ref, known := document.ParseReference(raw)
			if !known {
				c.warnEnum(&Assignment{Pos: pos, Key: "drawing " + l.Value}, raw)
			}
			off, ok := a.length(l.Value + " offset")
			if !ok {
				continue
			}
			if l.Value == "x" {
				d.RelativeX, d.OffsetX = ref, off
			} else {
				d.RelativeY, d.OffsetY = ref, off
			}
			d.Anchor = true
		case "wrap":
			raw, pos, ok := a.value("wrap")
			if !ok {
				continue
			}
			wrap, known := wrapNames[raw]
			if !known {
				c.warnEnum(&Assignment{Pos: pos, Key: "wrap"}, raw)
			}
			d.Wrap = wrap
		case "src":
			src, _, _ = a.value("src")
		default:
			c.errorf(l.Pos, "drawing: 无法识别的参数 %q", l.Value)
		}
	}

	switch {
	case src != "" && cmd.Block != nil:
		c.errorf(cmd.Pos, "drawing 不能同时指定 src 与内嵌内容")
	case src != "":
		if c.res == nil {
			c.errorf(cmd.Pos, "drawing src %q: 没有可用的资源加载器", src)
			return nil
		}
		d.Content = c.res.Request(src)
	case cmd.Block != nil:
		d.Content = resource.Ready("inline", c.compileBlocks(cmd.Block))
	}
	return d
}

// compileTable 编译
//
//	table [Style] {
//	  grid: [100px, 200px]
//	  row [Style] [min H] { cell [Style] [span N] [vmerge first|middle|last] [shading HEX] { blocks } }
//	}
func (c *compiler) compileTable(cmd *Command) *document.Table {
	t := &document.Table{}
	a := newArgs(c, cmd)
	if l, ok := a.next(); ok {
		t.Style = c.tableRef(l.Pos, l.Value)
	}
	a.rest()
	if cmd.Block == nil {
		c.errorf(cmd.Pos, "table 缺少内容")
		return nil
	}
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Assignment != nil && st.Assignment.Key == "grid":
			t.Grid = c.grid(st.Assignment)
		case st.Command != nil && st.Command.Name == "row":
			t.Rows = append(t.Rows, c.compileRow(st.Command, t.Style))
		default:
			c.errorf(cmd.Pos, "table 中只允许 grid 与 row")
		}
	}
	return t
}

func (c *compiler) grid(a *Assignment) []float64 {
	if a.Value.Array == nil {
		c.errorf(a.Pos, "grid 需要数组")
		return nil
	}
	var out []float64
	for _, v := range a.Value.Array.Values {
		raw, _ := c.text(v)
		if w, ok := c.length(a.Pos, "grid", raw); ok {
			out = append(out, w)
		}
	}
	return out
}

// derive 复制具名表格样式（若有）为新的层级样式，并把 Higher 指向上一层，形成 cell→row→table 链。
func (c *compiler) derive(pos lexer.Position, name string, kind style.TableKind, higher style.TableID) *style.TableStyle {
	var ts style.TableStyle
	if name != "" {
		if id := c.tableRef(pos, name); id != style.NoTable {
			named, _ := c.sheet.Table(id)
			ts = *named
		}
	}
	ts.Kind = kind
	ts.Higher = higher
	return &ts
}

func (c *compiler) compileRow(cmd *Command, table style.TableID) *document.TableRow {
	row := &document.TableRow{}
	a := newArgs(c, cmd)
	name := ""
	var pos lexer.Position
	for !a.empty() {
		l, _ := a.next()
		if l.Value == "min" {
			if v, ok := a.length("min"); ok {
				row.MinHeight = v
			}
			continue
		}
		name, pos = l.Value, l.Pos
	}
	row.Style = c.sheet.AddTable(*c.derive(pos, name, style.TableKindRow, table))
	if cmd.Block == nil {
		return row
	}
	for _, st := range cmd.Block.Statements {
		if st.Command == nil || st.Command.Name != "cell" {
			c.errorf(cmd.Pos, "row 中只允许 cell")
			continue
		}
		row.Cells = append(row.Cells, c.compileCell(st.Command, row.Style))
	}
	return row
}

func (c *compiler) compileCell(cmd *Command, row style.TableID) *document.TableCell {
	a := newArgs(c, cmd)
	type override func(*style.TableStyle)
	var (
		name      string
		pos       lexer.Position
		overrides []override
	)
	for !a.empty() {
		l, _ := a.next()
		switch l.Value {
		case "span":
			if n, ok := a.integer("span"); ok {
				overrides = append(overrides, func(ts *style.TableStyle) { ts.ColumnSpan = &n })
			}
		case "vmerge":
			raw, p, ok := a.value("vmerge")
			if !ok {
				continue
			}
			rs, known := parseRowSpan(raw)
			if !known {
				c.warnEnum(&Assignment{Pos: p, Key: "vmerge"}, raw)
			}
			overrides = append(overrides, func(ts *style.TableStyle) { ts.RowSpan = &rs })
		case "shading":
			if v, _, ok := a.value("shading"); ok {
				overrides = append(overrides, func(ts *style.TableStyle) { ts.Shading = &v })
			}
		case "width":
			if v, ok := a.length("width"); ok {
				overrides = append(overrides, func(ts *style.TableStyle) { ts.CellWidth = &v })
			}
		default:
			name, pos = l.Value, l.Pos
		}
	}
	ts := c.derive(pos, name, style.TableKindCell, row)
	for _, o := range overrides {
		o(ts)
	}
	return &document.TableCell{Style: c.sheet.AddTable(*ts), Blocks: c.compileBlocks(cmd.Block)}
}
