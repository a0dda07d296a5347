package layout

import (
	"reflect"
	"testing"

	"github.com/ByLCY/folio/style"
)

// TestJustifiedParagraphStretchesAllButLastLine: 两端对齐时只有非末行被拉伸。
func TestJustifiedParagraphStretchesAllButLastLine(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10, func(s *style.Style) { s.Par.Justification = style.Ptr(style.JustifyBoth) })
	e := newTestEngine(t, sheet)
	flow := NewFlow(0, 100, 0)

	box := e.fitText(flow, []string{"The quick brown fox jumps"}, onlyRun(sheet.Resolver(), id))
	lines := box.Lines()
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际 %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "The quick brown fox" || !lines[0].Stretched || lines[0].Width != 100 {
		t.Fatalf("第一行应被拉伸到整个文本带: %+v", lines[0])
	}
	if lines[1].Text != "jumps" || lines[1].Stretched {
		t.Fatalf("末行不应被拉伸: %+v", lines[1])
	}
}

// TestTabStopsPositionSegments: 制表符之后的段使用制表位的位置与对齐。
func TestTabStopsPositionSegments(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	flow := NewFlow(0, 300, 0)
	flow.AddTabStop(style.TabStop{Position: 100, Alignment: style.TabCenter})
	flow.AddTabStop(style.TabStop{Position: 200, Alignment: style.TabRight})

	lines := e.fitText(flow, []string{"a", "\t", "b"}, onlyRun(sheet.Resolver(), id)).Lines()
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际 %d", len(lines))
	}
	if lines[0].Text != "a" || lines[0].X != 0 || lines[0].Justification != style.JustifyLeft {
		t.Fatalf("第一段应位于默认缩进: %+v", lines[0])
	}
	b := lines[1]
	if b.Text != "b" || b.Justification != style.JustifyCenter || !almostEqual(b.X, 100-2.5) {
		t.Fatalf("第二段应以制表位 0 居中: %+v", b)
	}
	if b.Y != lines[0].Y {
		t.Fatalf("制表符不应换行: %g != %g", b.Y, lines[0].Y)
	}
	if !b.Following {
		t.Fatalf("制表符之后的段应标记为 following")
	}
}

// TestTabBeyondListUsesDefaultInterval 验证制表位不足时回退到默认制表间隔。
func TestTabBeyondListUsesDefaultInterval(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	lines := e.fitText(NewFlow(0, 300, 0), []string{"a\tb\tc"}, onlyRun(sheet.Resolver(), id)).Lines()
	if len(lines) != 3 || lines[1].X != 48 || lines[2].X != 96 {
		t.Fatalf("期望按 48px 间隔排列，实际 %+v", lines)
	}
}

// TestSingleSpaceRunAdvancesAverageWidth 验证只含一个空格的 run。
func TestSingleSpaceRunAdvancesAverageWidth(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	flow := NewFlow(0, 100, 0)
	box := e.fitText(flow, []string{" "}, runContext{resolver: sheet.Resolver(), id: id, inParagraph: style.Middle, previousX: 12})
	if len(box.Lines()) != 0 {
		t.Fatalf("单个空格不应产生可见行")
	}
	if box.EndX() != 17 {
		t.Fatalf("结束位置应前进一个平均字符宽度，实际 %g", box.EndX())
	}
	if flow.Y() != 0 {
		t.Fatalf("空格 run 不应移动纵向位置")
	}
}

// TestEmptyAndInvisibleRuns 验证空文本与隐藏文本不产生行。
func TestEmptyAndInvisibleRuns(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	hidden := sizedStyle(sheet, 10, func(s *style.Style) { s.Run.Invisible = style.Ptr(true) })
	e := newTestEngine(t, sheet)

	rc := runContext{resolver: sheet.Resolver(), id: id, inParagraph: style.Last, previousX: 33}
	if box := e.fitText(NewFlow(0, 100, 0), nil, rc); len(box.Lines()) != 0 || box.EndX() != 33 {
		t.Fatalf("空 run 应原样报告起始位置")
	}
	rc.id = hidden
	if box := e.fitText(NewFlow(0, 100, 0), []string{"secret"}, rc); len(box.Lines()) != 0 {
		t.Fatalf("隐藏 run 不应产生行")
	}
}

// TestLinesBeforeLayoutPanics 验证排版前读取结果属于使用错误。
func TestLinesBeforeLayoutPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("排版前调用 Lines 应 panic")
		}
	}()
	var box RunBox
	_ = box.Lines()
}

// TestFitIsIdempotent 验证相同的游标状态总是得到相同的几何。
func TestFitIsIdempotent(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 12, func(s *style.Style) { s.Par.Justification = style.Ptr(style.JustifyBoth) })
	e := newTestEngine(t, sheet)
	base := NewFlow(10, 160, 40)
	base.AddTabStop(style.TabStop{Position: 90, Alignment: style.TabDecimal})

	text := []string{"Lorem ipsum dolor sit amet,\tconsectetur adipiscing elit sed do eiusmod"}
	f1, f2 := base.Clone(), base.Clone()
	l1 := e.fitText(f1, text, onlyRun(sheet.Resolver(), id)).Lines()
	l2 := e.fitText(f2, text, onlyRun(sheet.Resolver(), id)).Lines()
	if !reflect.DeepEqual(l1, l2) || f1.Y() != f2.Y() {
		t.Fatalf("两次排版结果不同")
	}
}

// TestLinesStayInsideBand 验证所有行都位于文本带内，拉伸行恰好到达右边界。
func TestLinesStayInsideBand(t *testing.T) {
	sheet := style.NewSheet()
	for _, just := range []style.Justification{style.JustifyLeft, style.JustifyBoth, style.JustifyRight} {
		id := sizedStyle(sheet, 9, func(s *style.Style) {
			s.Par.Justification = style.Ptr(just)
			s.Par.Indentation = style.Ptr(6.0)
		})
		for _, width := range []float64{20, 47, 90, 133} {
			e := newTestEngine(t, sheet)
			flow := NewFlow(25, 25+width, 0)
			text := []string{"supercalifragilistic words of varying length-and dashes\nplus a forced break\tand tab"}
			for _, l := range e.fitText(flow, text, onlyRun(sheet.Resolver(), id)).Lines() {
				if l.X < flow.XMin()-1e-9 || l.X+l.Width > flow.XMax()+1e-9 {
					t.Fatalf("行超出文本带 [%g,%g]: %+v", flow.XMin(), flow.XMax(), l)
				}
				if l.Stretched && !almostEqual(l.X+l.Width, flow.XMax()) {
					t.Fatalf("拉伸行应到达右边界: %+v", l)
				}
			}
		}
	}
}

// TestContinuationStartsAtPreviousEnd 验证后续 run 的首行从前一个 run 的结束位置开始。
func TestContinuationStartsAtPreviousEnd(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	flow := NewFlow(0, 200, 0)
	r := sheet.Resolver()

	first := e.fitText(flow, []string{"Hello"}, runContext{resolver: r, id: id, inParagraph: style.First})
	second := e.fitText(flow, []string{" world"}, runContext{resolver: r, id: id, inParagraph: style.Last, previousX: first.EndX()})

	l0, l1 := first.Lines()[0], second.Lines()[0]
	if l1.X-flow.XMin() != first.EndX() {
		t.Fatalf("续排起点 %g 应等于前一个 run 的结束位置 %g", l1.X-flow.XMin(), first.EndX())
	}
	if l1.Y != l0.Y || !l1.Following || l0.Following {
		t.Fatalf("续排应位于同一基线并标记 following: %+v %+v", l0, l1)
	}
}

// TestStrictFitHasNoGrace 验证单元格严格模式不允许超出一个字符。
func TestStrictFitHasNoGrace(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)

	rc := onlyRun(sheet.Resolver(), id)
	if n := len(e.fitText(NewFlow(0, 50, 0), []string{"abcde fghij"}, rc).Lines()); n != 1 {
		t.Fatalf("自由排版允许一个字符的余量，期望 1 行，实际 %d", n)
	}
	rc.strict = true
	if n := len(e.fitText(NewFlow(0, 50, 0), []string{"abcde fghij"}, rc).Lines()); n != 2 {
		t.Fatalf("严格模式期望 2 行，实际 %d", n)
	}
}

// TestDashWrapKeepsHyphen 验证在连字符处折行时保留连字符。
func TestDashWrapKeepsHyphen(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	lines := e.fitText(NewFlow(0, 50, 0), []string{"extraordinary-thing"}, onlyRun(sheet.Resolver(), id)).Lines()
	if len(lines) != 2 || lines[0].Text != "extraordinary-" || lines[1].Text != "thing" {
		t.Fatalf("折行结果不符: %+v", lines)
	}
	if lines[0].Width != 50 {
		t.Fatalf("超宽行应被限制在文本带内，实际宽度 %g", lines[0].Width)
	}
}

// TestCapsAndEmphasis 验证大写变换与强调位。
func TestCapsAndEmphasis(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10, func(s *style.Style) {
		s.Run.SmallCaps = style.Ptr(true)
		s.Run.Bold = style.Ptr(true)
		s.Run.Color = style.Ptr("FF8000")
	})
	e := newTestEngine(t, sheet)
	l := e.fitText(NewFlow(0, 100, 0), []string{"straße"}, onlyRun(sheet.Resolver(), id)).Lines()[0]
	if l.Text != "STRASSE" {
		t.Fatalf("期望 STRASSE，实际 %q", l.Text)
	}
	if !l.Emphasis.Has(EmphasisSmallCaps) || !l.Emphasis.Has(EmphasisBold) || l.Emphasis.Has(EmphasisItalic) {
		t.Fatalf("强调位不符: %b", l.Emphasis)
	}
	if l.Color != (Color{R: 255, G: 128}) {
		t.Fatalf("颜色不符: %+v", l.Color)
	}
}

// TestVerticalAdvance 验证基线偏移、行距与末行底部的推进。
func TestVerticalAdvance(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10, func(s *style.Style) {
		s.Par.LineSpacing = style.Ptr(300.0)
		s.Par.LineRule = style.Ptr(style.LineRuleExact)
	})
	e := newTestEngine(t, sheet)
	flow := NewFlow(0, 100, 0)
	lines := e.fitText(flow, []string{"one\ntwo"}, onlyRun(sheet.Resolver(), id)).Lines()
	if lines[0].Y != 8 || lines[1].Y != 28 {
		t.Fatalf("基线位置不符: %g %g", lines[0].Y, lines[1].Y)
	}
	if want := 8.0 + 20 + 20 + 2; !almostEqual(flow.Y(), want) {
		t.Fatalf("段落结束位置期望 %g，实际 %g", want, flow.Y())
	}
}

// TestMathRunIsUnbreakable 验证公式作为一行排版。
func TestMathRunIsUnbreakable(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	box := e.layoutMath(NewFlow(0, 40, 0), "a + b = c", onlyRun(sheet.Resolver(), id))
	if len(box.Lines()) != 1 || box.Lines()[0].Text != "a + b = c" {
		t.Fatalf("公式应保持为一行: %+v", box.Lines())
	}
}
