package layout

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

// Build 对文档做一次完整布局，生成定位图元。
// 尚未加载完成的绘图内容会被记录下来，由 Result.Await 在资源就绪后补排。
func Build(doc *document.Document, sheet *style.Sheet, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: 文档为空")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量 Metrics")
	}
	if sheet == nil {
		sheet = style.NewSheet()
	}

	e := newEngine(sheet, opts)
	sec := doc.Section
	res := &Result{
		Page: Page{
			Width:  sec.Width,
			Height: sec.Height,
			Margin: Margin{Top: sec.Margin.Top, Right: sec.Margin.Right, Bottom: sec.Margin.Bottom, Left: sec.Margin.Left},
		},
		engine: e,
	}
	e.res = res

	flow := NewPageFlow(sec)
	if flow.Width() <= 0 {
		return nil, fmt.Errorf("layout: 页面内容宽度无效 (%g)", flow.Width())
	}
	e.layoutBlocks(flow, doc.Blocks, sheet.Resolver(), false)
	res.Height = flow.MaxY()

	e.log.Debug("Layout finished",
		zap.Int("texts", len(res.Texts)),
		zap.Int("lines", len(res.Lines)),
		zap.Int("rects", len(res.Rects)),
		zap.Int("pending", len(res.pending)),
		zap.Float64("height", res.Height))
	return res, nil
}

// engine 保存一次布局过程共享的依赖。布局是单线程的，engine 不做同步。
type engine struct {
	sheet   *style.Sheet
	metrics Metrics
	log     *zap.Logger
	grace   int
	upper   cases.Caser
	res     *Result
}

func newEngine(sheet *style.Sheet, opts BuildOptions) *engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	grace := DefaultGrace
	if opts.Grace != nil {
		grace = max(0, *opts.Grace)
	}
	return &engine{
		sheet:   sheet,
		metrics: opts.Metrics,
		log:     log.Named("layout"),
		grace:   grace,
		upper:   cases.Upper(language.Und),
	}
}

// layoutBlocks 按文档顺序依次排版段落与表格。inCell 表示位于表格单元格内部。
func (e *engine) layoutBlocks(flow *Flow, blocks []document.Block, r style.Resolver, inCell bool) {
	for _, b := range blocks {
		switch b := b.(type) {
		case *document.Paragraph:
			e.layoutParagraph(flow, b, r, inCell)
		case *document.Table:
			e.layoutTable(flow, b)
		case nil:
		default:
			e.log.Warn("Unsupported block, skipping", zap.String("type", fmt.Sprintf("%T", b)))
		}
	}
}

func (e *engine) emit(lines ...TextLine) {
	e.res.Texts = append(e.res.Texts, lines...)
}
