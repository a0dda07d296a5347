package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

// layoutParagraph 排版一个段落：段前间距、编号前缀、按顺序接续的各个 run、段后间距。
// 段落期间压入的制表位与浮动对象造成的文本带收窄在段落结束时恢复。
func (e *engine) layoutParagraph(flow *Flow, p *document.Paragraph, r style.Resolver, inCell bool) {
	if p.Style != style.NoID {
		if _, ok := e.sheet.Style(p.Style); !ok {
			e.log.Warn("Paragraph references unknown style, using defaults", zap.Int("style", int(p.Style)))
		}
	}

	flow.Advance(r.SpacingBefore(p.Style))
	flow.SetLastParagraphY(flow.Y())

	tabs := r.TabStops(p.Style)
	for _, ts := range tabs {
		flow.AddTabStop(ts)
	}
	xMin, xMax := flow.XMin(), flow.XMax()

	runs := p.Runs
	if ns := r.Numbering(p.Style); ns != nil {
		if ns.Level == nil {
			e.log.Warn("Numbering reference is not bound to a level, skipping prefix",
				zap.String("numId", ns.NumID), zap.Int("level", ns.Index))
		} else {
			prefix := &document.NumberingRun{NumID: ns.NumID, Level: ns.Level, Style: p.Style}
			runs = append([]document.Run{prefix}, runs...)
		}
	}

	if blankRuns(runs) {
		flow.Advance(r.LineSpacing(p.Style))
	}

	prevX := 0.0
	for i, run := range runs {
		rc := runContext{
			resolver:    r,
			id:          run.StyleID(),
			inParagraph: style.SequenceOf(i, len(runs)),
			paragraph:   p.NumberingPosition,
			previousX:   prevX,
		}
		if rc.id == style.NoID {
			rc.id = p.Style
		}
		rc.strict = inCell && rc.inParagraph == style.Only

		switch run := run.(type) {
		case *document.TextRun:
			box := e.fitText(flow, run.Fragments, rc)
			e.emit(box.Lines()...)
			prevX = box.EndX()
		case *document.MathRun:
			box := e.layoutMath(flow, run.Text, rc)
			e.emit(box.Lines()...)
			prevX = box.EndX()
		case *document.NumberingRun:
			box := e.layoutNumbering(flow, run, rc)
			e.emit(box.Lines()...)
			prevX = box.EndX()
		case *document.DrawingRun:
			prevX = e.layoutDrawing(flow, run, rc)
		default:
			e.log.Warn("Unsupported run, skipping", zap.String("type", fmt.Sprintf("%T", run)))
		}
	}

	flow.SetBand(xMin, xMax)
	for _, ts := range tabs {
		flow.RemoveTabStop(ts)
	}
	flow.Advance(r.SpacingAfter(p.Style))
}

// blankRuns 对没有 run 或只有空文本 run 的段落返回 true。
func blankRuns(runs []document.Run) bool {
	for _, run := range runs {
		tr, ok := run.(*document.TextRun)
		if !ok || strings.Join(tr.Fragments, "") != "" {
			return false
		}
	}
	return true
}

// layoutNumbering 渲染编号前缀，然后推进该级别的计数。
// 当前级别显示 start+counter-1；上级在渲染后已被推进过，显示 start+counter-2。
func (e *engine) layoutNumbering(flow *Flow, n *document.NumberingRun, rc runContext) *RunBox {
	lvl := n.Level
	if lvl == nil {
		return (&RunBox{}).finish(e.padding(rc))
	}
	text := style.LevelText(lvl.Text, func(level int) (int, style.NumberFormat) {
		if level == lvl.Index {
			return lvl.Start + flow.Numbering(n.NumID, level) - 1, e.checkFormat(n.NumID, lvl)
		}
		if def, ok := e.sheet.NumberingLevel(n.NumID, level); ok {
			return def.Start + flow.Numbering(n.NumID, level) - 2, e.checkFormat(n.NumID, def)
		}
		return flow.Numbering(n.NumID, level) - 1, style.NumberFormatDecimal
	})
	switch lvl.Suffix {
	case style.SuffixTab:
		text += "\t"
	case style.SuffixSpace:
		text += " "
	}
	if lvl.Style != style.NoID {
		rc.id = lvl.Style
	}
	box := e.fitText(flow, []string{text}, rc)
	flow.AdvanceNumbering(n.NumID, lvl.Index)
	return box
}

func (e *engine) checkFormat(numID string, lvl *style.NumberingLevel) style.NumberFormat {
	if lvl.Format < style.NumberFormatNone || lvl.Format >= style.NumberFormatUnknown {
		e.log.Warn("Unrecognized numbering format, rendering dash",
			zap.String("numId", numID), zap.Int("level", lvl.Index), zap.Int("format", int(lvl.Format)))
	}
	return lvl.Format
}
