package dsl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/style"
)

// declareStyles 登记 styles 节中所有具名定义，使后续定义与正文可以前向引用。
func (c *compiler) declareStyles(b *Block) {
	for _, st := range b.Statements {
		cmd := st.Command
		if cmd == nil || len(cmd.Args) == 0 {
			continue
		}
		name := cmd.Args[0].Value
		switch cmd.Name {
		case "style":
			if _, dup := c.sheet.ByName(name); dup {
				c.errorf(cmd.Pos, "重复定义的样式 %q", name)
				continue
			}
			c.sheet.Add(style.Style{Name: name})
		case "table":
			if _, dup := c.tables[strings.ToLower(name)]; dup {
				c.errorf(cmd.Pos, "重复定义的表格样式 %q", name)
				continue
			}
			c.tables[strings.ToLower(name)] = c.sheet.AddTable(style.TableStyle{})
		}
	}
}

// compileStyles 填充 styles 节中的默认值与各项定义。
func (c *compiler) compileStyles(b *Block) {
	for _, st := range b.Statements {
		switch {
		case st.Assignment != nil:
			c.compileDefault(st.Assignment)
		case st.Command != nil:
			cmd := st.Command
			if len(cmd.Args) == 0 {
				c.errorf(cmd.Pos, "%s 缺少名称", cmd.Name)
				continue
			}
			switch cmd.Name {
			case "style":
				c.compileStyle(cmd)
			case "table":
				c.compileTableStyle(cmd)
			case "numbering":
				c.compileNumbering(cmd)
			default:
				c.errorf(cmd.Pos, "styles 中无法识别的定义 %q", cmd.Name)
			}
		case st.Text != nil:
			c.errorf(st.Text.Pos, "styles 中不允许文本")
		}
	}
}

func (c *compiler) compileDefault(a *Assignment) {
	raw, _ := c.text(a.Value)
	d := &c.sheet.Defaults
	switch a.Key {
	case "font":
		d.FontFamily = raw
	case "size":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			d.FontSize = v
		}
	case "color":
		d.Color = raw
	case "line-spacing":
		if v, ok := c.number(a.Pos, a.Key, raw); ok {
			d.LineSpacing = v
		}
	case "tab-interval":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			d.TabInterval = v
		}
	case "cell-margin-side":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			d.CellMarginSide = v
		}
	case "cell-margin-vertical":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			d.CellMarginVert = v
		}
	default:
		c.errorf(a.Pos, "无法识别的默认值 %q", a.Key)
	}
}

// compileStyle 编译 `style Name [based-on Base] { ... }`。
func (c *compiler) compileStyle(cmd *Command) {
	a := newArgs(c, cmd)
	name, _ := a.next()
	id, ok := c.sheet.ByName(name.Value)
	if !ok {
		return
	}
	s, _ := c.sheet.Style(id)
	for !a.empty() {
		l, _ := a.next()
		switch l.Value {
		case "based-on":
			if base, _, ok := a.value("based-on"); ok {
				s.BasedOn = c.styleRef(l.Pos, base)
			}
		case "run-based-on":
			if base, _, ok := a.value("run-based-on"); ok {
				s.Run.BasedOn = c.styleRef(l.Pos, base)
			}
		case "par-based-on":
			if base, _, ok := a.value("par-based-on"); ok {
				s.Par.BasedOn = c.styleRef(l.Pos, base)
			}
		default:
			c.errorf(l.Pos, "style %s: 无法识别的参数 %q", name.Value, l.Value)
		}
	}
	if cmd.Block == nil {
		return
	}
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Assignment != nil:
			as := st.Assignment
			switch as.Key {
			case "table":
				raw, _ := c.text(as.Value)
				s.Table = c.tableRef(as.Pos, raw)
			case "numbering", "level":
				c.numberingProp(as, &s.Par)
			default:
				if !c.styleProp(as, &s.Run, &s.Par) {
					c.errorf(as.Pos, "style %s: 无法识别的属性 %q", name.Value, as.Key)
				}
			}
		case st.Command != nil && st.Command.Name == "tab":
			c.tabStop(st.Command, &s.Par)
		default:
			c.errorf(cmd.Pos, "style %s: 只允许属性与 tab", name.Value)
		}
	}
	if s.Par.Numbering != nil && s.Par.Numbering.NumID == "" {
		c.errorf(cmd.Pos, "style %s: level 需要与 numbering 一起使用", name.Value)
	}
}

func (c *compiler) styleRef(pos lexer.Position, name string) style.ID {
	id, ok := c.sheet.ByName(name)
	if !ok {
		c.errorf(pos, "未定义的样式 %q", name)
		return style.NoID
	}
	return id
}

func (c *compiler) tableRef(pos lexer.Position, name string) style.TableID {
	id, ok := c.tables[strings.ToLower(name)]
	if !ok {
		c.errorf(pos, "未定义的表格样式 %q", name)
		return style.NoTable
	}
	return id
}

func (c *compiler) numberingProp(a *Assignment, par *style.ParStyle) {
	raw, _ := c.text(a.Value)
	if par.Numbering == nil {
		par.Numbering = &style.NumberingStyle{}
	}
	if a.Key == "numbering" {
		par.Numbering.NumID = raw
		return
	}
	if n, ok := c.integer(a.Pos, a.Key, raw); ok {
		par.Numbering.Index = n
	}
}

// warnEnum 记录无法识别的枚举值；属性保持未设置，由级联回退到默认值。
func (c *compiler) warnEnum(a *Assignment, raw string) {
	c.log.Warn("Unrecognized value, using default",
		zap.String("property", a.Key), zap.String("value", raw), zap.Stringer("pos", a.Pos))
}

// styleProp 把字符与段落属性写入 run/par，返回属性名是否被识别。
func (c *compiler) styleProp(a *Assignment, run *style.RunStyle, par *style.ParStyle) bool {
	raw, _ := c.text(a.Value)
	flag := func(dst **bool) {
		if v, ok := c.boolean(a.Pos, a.Key, raw); ok {
			*dst = &v
		}
	}
	size := func(dst **float64) {
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			*dst = &v
		}
	}
	num := func(dst **float64) {
		if v, ok := c.number(a.Pos, a.Key, raw); ok {
			*dst = &v
		}
	}

	switch a.Key {
	case "bold":
		flag(&run.Bold)
	case "italic":
		flag(&run.Italic)
	case "strike":
		flag(&run.Strike)
	case "double-strike":
		flag(&run.DoubleStrike)
	case "caps":
		flag(&run.Caps)
	case "small-caps":
		flag(&run.SmallCaps)
	case "invisible":
		flag(&run.Invisible)
	case "underline":
		if u, ok := style.ParseUnderline(raw); ok {
			run.Underline = &u
		} else {
			c.warnEnum(a, raw)
		}
	case "font":
		run.FontFamily = &raw
	case "size":
		size(&run.FontSize)
	case "char-spacing":
		size(&run.CharSpacing)
	case "char-stretch":
		num(&run.CharStretch)
	case "color":
		run.Color = &raw
	case "shading":
		run.Shading = &raw

	case "justification":
		if j, ok := style.ParseJustification(raw); ok {
			par.Justification = &j
		} else {
			c.warnEnum(a, raw)
		}
	case "indent":
		size(&par.Indentation)
	case "hanging":
		size(&par.Hanging)
	case "line-spacing":
		c.lineSpacing(a, raw, par)
	case "line-rule":
		if r, ok := style.ParseLineRule(raw); ok {
			par.LineRule = &r
		} else {
			c.warnEnum(a, raw)
		}
	case "lines-before":
		num(&par.LinesBefore)
	case "lines-after":
		num(&par.LinesAfter)
	case "spacing-before":
		size(&par.SpacingBefore)
	case "spacing-after":
		size(&par.SpacingAfter)
	case "auto-before":
		flag(&par.AutoBefore)
	case "auto-after":
		flag(&par.AutoAfter)
	case "par-shading":
		par.Shading = &raw
	default:
		return false
	}
	return true
}

// lineSpacing 接受无单位的原始值（auto 下为 1/240 行），带单位时换算为 twips 并默认使用 exact。
func (c *compiler) lineSpacing(a *Assignment, raw string, par *style.ParStyle) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		c.errorf(a.Pos, "%s: %v", a.Key, err)
		return
	}
	v := l.Value
	if l.Unit != layout.UnitNone {
		v = l.ToTwips()
		if par.LineRule == nil {
			par.LineRule = style.Ptr(style.LineRuleExact)
		}
	}
	par.LineSpacing = &v
}

// tabStop 编译 `tab POSITION [left|center|right|decimal|bar] [leader NAME]`。
func (c *compiler) tabStop(cmd *Command, par *style.ParStyle) {
	a := newArgs(c, cmd)
	pos, ok := a.length("position")
	if !ok {
		return
	}
	ts := style.TabStop{Position: pos}
	for !a.empty() {
		l, _ := a.next()
		if l.Value == "leader" {
			raw, _, ok := a.value("leader")
			if !ok {
				continue
			}
			if leader, ok := style.ParseTabLeader(raw); ok {
				ts.Leader = leader
			} else {
				c.warnEnum(&Assignment{Pos: l.Pos, Key: "leader"}, raw)
			}
			continue
		}
		if align, ok := style.ParseTabAlignment(l.Value); ok {
			ts.Alignment = align
		} else {
			c.warnEnum(&Assignment{Pos: l.Pos, Key: "tab"}, l.Value)
		}
	}
	if par.Tabs == nil {
		par.Tabs = []style.TabStop{}
	}
	par.Tabs = append(par.Tabs, ts)
}

var borderKeys = map[string][]style.Side{
	"border":          {style.SideStart, style.SideEnd, style.SideTop, style.SideBottom, style.SideInsideH, style.SideInsideV},
	"border-outer":    {style.SideStart, style.SideEnd, style.SideTop, style.SideBottom},
	"border-inside":   {style.SideInsideH, style.SideInsideV},
	"border-start":    {style.SideStart},
	"border-end":      {style.SideEnd},
	"border-top":      {style.SideTop},
	"border-bottom":   {style.SideBottom},
	"border-inside-h": {style.SideInsideH},
	"border-inside-v": {style.SideInsideV},
}

var marginKeys = map[string][]style.Side{
	"margin":        {style.SideStart, style.SideEnd, style.SideTop, style.SideBottom},
	"margin-start":  {style.SideStart},
	"margin-end":    {style.SideEnd},
	"margin-top":    {style.SideTop},
	"margin-bottom": {style.SideBottom},
}

// compileTableStyle 编译 `table Name [table|row|cell] [higher Parent] { ... }`。
func (c *compiler) compileTableStyle(cmd *Command) {
	a := newArgs(c, cmd)
	name, _ := a.next()
	id, ok := c.tables[strings.ToLower(name.Value)]
	if !ok {
		return
	}
	ts, _ := c.sheet.Table(id)
	for !a.empty() {
		l, _ := a.next()
		switch l.Value {
		case "table":
			ts.Kind = style.TableKindTable
		case "row":
			ts.Kind = style.TableKindRow
		case "cell":
			ts.Kind = style.TableKindCell
		case "higher":
			if parent, _, ok := a.value("higher"); ok {
				ts.Higher = c.tableRef(l.Pos, parent)
			}
		default:
			c.errorf(l.Pos, "table %s: 无法识别的参数 %q", name.Value, l.Value)
		}
	}
	if cmd.Block == nil {
		return
	}
	for _, st := range cmd.Block.Statements {
		if st.Assignment == nil {
			c.errorf(cmd.Pos, "table %s: 只允许属性", name.Value)
			continue
		}
		if !c.tableProp(st.Assignment, ts) {
			c.errorf(st.Assignment.Pos, "table %s: 无法识别的属性 %q", name.Value, st.Assignment.Key)
		}
	}
}

// tableProp 写入表格层级属性；其余键作为条件格式写入表格样式自带的 run/par。
func (c *compiler) tableProp(a *Assignment, ts *style.TableStyle) bool {
	raw, _ := c.text(a.Value)
	if sides, ok := borderKeys[a.Key]; ok {
		b, ok := c.border(a, raw)
		if !ok {
			return true
		}
		for _, side := range sides {
			ts.Borders.Set(side, b)
		}
		return true
	}
	if sides, ok := marginKeys[a.Key]; ok {
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			for _, side := range sides {
				ts.Margins.Set(side, v)
			}
		}
		return true
	}
	switch a.Key {
	case "justification":
		if j, ok := style.ParseJustification(raw); ok {
			ts.Justification = &j
		} else {
			c.warnEnum(a, raw)
		}
	case "indent":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			ts.Indentation = &v
		}
	case "cell-spacing":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			ts.CellSpacing = &v
		}
	case "width":
		if v, ok := c.length(a.Pos, a.Key, raw); ok {
			ts.CellWidth = &v
		}
	case "span":
		if n, ok := c.integer(a.Pos, a.Key, raw); ok {
			ts.ColumnSpan = &n
		}
	case "vmerge":
		if rs, ok := parseRowSpan(raw); ok {
			ts.RowSpan = &rs
		} else {
			c.warnEnum(a, raw)
		}
	case "cell-shading":
		ts.Shading = &raw
	default:
		return c.styleProp(a, &ts.Run, &ts.Par)
	}
	return true
}

func parseRowSpan(v string) (style.RowSpan, bool) {
	switch strings.ToLower(v) {
	case "only", "none":
		return style.RowSpanOnly, true
	case "first", "restart":
		return style.RowSpanFirst, true
	case "middle", "continue":
		return style.RowSpanMiddle, true
	case "last", "end":
		return style.RowSpanLast, true
	}
	return style.RowSpanOnly, false
}

// border 解析 "TYPE [SIZE] [#COLOR] [space N]"，例如 "double 4px #FF0000"。
func (c *compiler) border(a *Assignment, raw string) (*style.TableBorder, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		c.errorf(a.Pos, "%s: 边框为空", a.Key)
		return nil, false
	}
	t, ok := style.ParseBorderType(fields[0])
	if !ok {
		c.warnEnum(a, fields[0])
		t = style.BorderSingle
	}
	b := &style.TableBorder{Type: t, Size: 1}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		switch {
		case f == "space" && i+1 < len(fields):
			i++
			if v, ok := c.length(a.Pos, a.Key, fields[i]); ok {
				b.Spacing = v
			}
		case strings.HasPrefix(f, "#"):
			b.Color = strings.TrimPrefix(f, "#")
		default:
			if v, ok := c.length(a.Pos, a.Key, f); ok {
				b.Size = v
			}
		}
	}
	return b, true
}

// compileNumbering 编译编号定义：
//
//	numbering list {
//	  level 0 decimal start 1 suffix space text "%1." style Marker
//	}
func (c *compiler) compileNumbering(cmd *Command) {
	numID := cmd.Args[0].Value
	if len(cmd.Args) > 1 {
		c.errorf(cmd.Args[1].Pos, "numbering %s: 无法识别的参数 %q", numID, cmd.Args[1].Value)
	}
	if _, dup := c.numbering[numID]; dup {
		c.errorf(cmd.Pos, "重复定义的编号 %q", numID)
		return
	}
	c.numbering[numID] = true

	var levels []style.NumberingLevel
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			if st.Command == nil || st.Command.Name != "level" {
				c.errorf(cmd.Pos, "numbering %s: 只允许 level", numID)
				continue
			}
			if lvl, ok := c.numberingLevel(st.Command); ok {
				levels = append(levels, lvl)
			}
		}
	}
	c.sheet.AddNumbering(numID, levels...)
}

func (c *compiler) numberingLevel(cmd *Command) (style.NumberingLevel, bool) {
	a := newArgs(c, cmd)
	idx, ok := a.integer("index")
	if !ok {
		return style.NumberingLevel{}, false
	}
	lvl := style.NumberingLevel{Index: idx, Format: style.NumberFormatDecimal, Start: 1, Suffix: style.SuffixTab}
	lvl.Text = "%" + string(rune('1'+min(max(idx, 0), 8))) + "."
	for !a.empty() {
		l, _ := a.next()
		switch l.Value {
		case "start":
			if n, ok := a.integer("start"); ok {
				lvl.Start = n
			}
		case "suffix":
			raw, _, ok := a.value("suffix")
			if !ok {
				continue
			}
			if sfx, ok := style.ParseSuffix(raw); ok {
				lvl.Suffix = sfx
			} else {
				c.warnEnum(&Assignment{Pos: l.Pos, Key: "suffix"}, raw)
			}
		case "text":
			if raw, _, ok := a.value("text"); ok {
				lvl.Text = raw
			}
		case "style":
			if raw, _, ok := a.value("style"); ok {
				lvl.Style = c.styleRef(l.Pos, raw)
			}
		default:
			// 无法识别的格式保留下来，排版时以 "-" 渲染并记录诊断。
			f, ok := style.ParseNumberFormat(l.Value)
			if !ok {
				c.warnEnum(&Assignment{Pos: l.Pos, Key: "format"}, l.Value)
			}
			lvl.Format = f
		}
	}
	return lvl, true
}
