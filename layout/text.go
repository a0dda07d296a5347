package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ByLCY/folio/style"
)

// 文本排版：把一个 run 的文本按当前文本带拆成若干已定位的行，并报告最后一行的结束位置，
// 供同一段落中的下一个 run 接续。

type breakReason int

const (
	breakNone breakReason = iota
	breakEnd
	breakLineFeed
	breakTab
	breakWrap
)

// RunBox 保存一个 run 的排版结果。
type RunBox struct {
	lines   []TextLine
	endX    float64
	laidOut bool
}

// Lines 返回排好的行。在排版之前调用属于使用错误，会直接 panic。
func (b *RunBox) Lines() []TextLine {
	b.mustBeLaidOut("Lines")
	return b.lines
}

// EndX 返回最后一行相对文本带左边界的结束位置。
func (b *RunBox) EndX() float64 {
	b.mustBeLaidOut("EndX")
	return b.endX
}

func (b *RunBox) mustBeLaidOut(op string) {
	if b == nil || !b.laidOut {
		panic("layout: RunBox." + op + " called before the run was laid out")
	}
}

func (b *RunBox) finish(endX float64) *RunBox {
	b.endX = endX
	b.laidOut = true
	return b
}

// runContext 由段落布局为每个 run 设置。
type runContext struct {
	resolver    style.Resolver
	id          style.ID
	inParagraph style.InSequence
	paragraph   style.InSequence // 段落在编号项中的位置
	previousX   float64
	strict      bool
}

// segment 为一行的起点与对齐方式；制表符之后的段由制表位决定。
type segment struct {
	x         float64
	just      style.Justification
	tab       bool
	align     style.TabAlignment
	following bool
}

func fontOf(p style.RunProps) Font {
	return Font{
		Family:  p.FontFamily,
		Size:    p.FontSize,
		Bold:    p.Bold,
		Italic:  p.Italic,
		Spacing: p.CharSpacing,
		Stretch: p.CharStretch,
	}
}

func emphasisOf(p style.RunProps) Emphasis {
	var e Emphasis
	if p.Bold {
		e |= EmphasisBold
	}
	if p.Italic {
		e |= EmphasisItalic
	}
	if p.Underline != style.UnderlineNone {
		e |= EmphasisUnderline
	}
	if p.Strike {
		e |= EmphasisStrike
	}
	if p.DoubleStrike {
		e |= EmphasisDoubleStrike
	}
	if p.SmallCaps {
		e |= EmphasisSmallCaps
	}
	return e
}

func (e *engine) padding(rc runContext) float64 {
	if rc.inParagraph.IsFirst() {
		return rc.resolver.Indentation(rc.id, rc.inParagraph, rc.paragraph)
	}
	return rc.previousX
}

func (e *engine) fit(flow *Flow, x float64, font Font) int {
	return e.metrics.FitCharacters(math.Max(0, flow.Width()-x), font)
}

// fitText 排版一个文本 run。
func (e *engine) fitText(flow *Flow, fragments []string, rc runContext) *RunBox {
	box := &RunBox{}
	props := rc.resolver.Run(rc.id)
	font := fontOf(props)
	padding := e.padding(rc)

	text := strings.Join(fragments, "")
	switch {
	case text == "":
		return box.finish(padding)
	case text == " ":
		// 单个空格不产生可见行，但仍推进一个平均字符宽度。
		return box.finish(padding + e.metrics.AverageCharWidth(font))
	case props.Invisible:
		return box.finish(padding)
	}
	if props.Caps || props.SmallCaps {
		text = e.upper.String(text)
	}
	words := SplitWords([]string{text})

	lineSpacing := rc.resolver.LineSpacing(rc.id)
	parJust := rc.resolver.Justification(rc.id)
	grace := e.grace
	if rc.strict {
		grace = 0
	}

	if rc.inParagraph.IsFirst() {
		flow.Advance(e.metrics.TopToBaseline(font))
	}

	seg := segment{x: padding, just: parJust, following: !rc.inParagraph.IsFirst()}
	avail := e.fit(flow, seg.x, font)
	tabs := 0
	start, lineLen := 0, 0
	n := words.Len()
	for i := 0; i < n; i++ {
		w := utf8.RuneCountInString(words.Words[i])
		if i == start {
			lineLen = w
		} else {
			lineLen += 1 + w
		}

		reason := breakNone
		switch {
		case i == n-1:
			reason = breakEnd
		case words.Seps[i] == SepLineFeed:
			reason = breakLineFeed
		case words.Seps[i] == SepTab:
			reason = breakTab
		case lineLen+1+utf8.RuneCountInString(words.Words[i+1]) > avail+grace:
			reason = breakWrap
		}
		if reason == breakNone {
			continue
		}

		content := words.Combine(start, i)
		if reason == breakWrap && words.Seps[i] == SepDash {
			content += "-"
		}
		line := e.placeLine(flow, content, seg, font, props)
		if parJust.Stretches() && (reason == breakWrap || reason == breakLineFeed) {
			line.Stretched = true
			line.Width = flow.XMax() - line.X
		}
		if line.Text != "" {
			box.lines = append(box.lines, line)
		}
		flow.SetLastCharX(line.X + line.Width)

		switch {
		case reason == breakTab:
		case reason == breakEnd && !rc.inParagraph.IsLast():
		default:
			flow.Advance(lineSpacing)
		}

		start = i + 1
		switch reason {
		case breakEnd:
			box.endX = line.X + line.Width - flow.XMin()
		case breakTab:
			seg = e.tabSegment(flow, tabs, line.X+line.Width-flow.XMin())
			tabs++
		default:
			seg = segment{x: rc.resolver.Indentation(rc.id, style.Middle, rc.paragraph), just: parJust}
		}
		avail = e.fit(flow, seg.x, font)
	}

	if rc.inParagraph.IsLast() {
		flow.Advance(e.metrics.BaselineToBottom(font))
	}
	box.laidOut = true
	return box
}

// tabSegment 返回第 idx 个制表符之后的段；超出制表位列表时使用下一个默认制表间隔。
func (e *engine) tabSegment(flow *Flow, idx int, curX float64) segment {
	if ts, ok := flow.Tab(idx); ok {
		return segment{x: ts.Position, just: ts.Alignment.Justification(), tab: true, align: ts.Alignment, following: true}
	}
	interval := e.sheet.Defaults.TabInterval
	if interval <= 0 {
		interval = style.DefaultDefaults().TabInterval
	}
	pos := (math.Floor(curX/interval) + 1) * interval
	return segment{x: pos, just: style.JustifyLeft, tab: true, align: style.TabLeft, following: true}
}

// placeLine 计算一行的位置与宽度，并把它限制在文本带内。
func (e *engine) placeLine(flow *Flow, text string, seg segment, font Font, props style.RunProps) TextLine {
	width := e.metrics.TextWidth(text, font)
	x := flow.XMin() + seg.x
	if seg.tab {
		switch seg.align {
		case style.TabCenter:
			x -= width / 2
		case style.TabRight, style.TabDecimal:
			x -= width
		}
	}
	x, width = clampBand(flow, x, width)
	color, ok := ParseColor(props.Color)
	if !ok {
		e.log.Debug("Unrecognized text color, using black", zap.String("color", props.Color))
	}
	return TextLine{
		Text:          text,
		X:             x,
		Y:             flow.Y(),
		Width:         width,
		Following:     seg.following,
		Color:         color,
		Font:          font.Family,
		FontSize:      font.Size,
		Emphasis:      emphasisOf(props),
		Underline:     props.Underline,
		Justification: seg.just,
		Shading:       props.Shading,
	}
}

func clampBand(flow *Flow, x, width float64) (float64, float64) {
	if x < flow.XMin() {
		x = flow.XMin()
	}
	if x > flow.XMax() {
		x = flow.XMax()
	}
	if x+width > flow.XMax() {
		width = flow.XMax() - x
	}
	return x, math.Max(0, width)
}

// layoutMath 把公式作为不可拆分的一行排版。
func (e *engine) layoutMath(flow *Flow, text string, rc runContext) *RunBox {
	box := &RunBox{}
	props := rc.resolver.Run(rc.id)
	font := fontOf(props)
	padding := e.padding(rc)
	if text == "" {
		return box.finish(padding)
	}
	if rc.inParagraph.IsFirst() {
		flow.Advance(e.metrics.TopToBaseline(font))
	}
	seg := segment{x: padding, just: rc.resolver.Justification(rc.id), following: !rc.inParagraph.IsFirst()}
	line := e.placeLine(flow, text, seg, font, props)
	box.lines = append(box.lines, line)
	flow.SetLastCharX(line.X + line.Width)
	box.endX = line.X + line.Width - flow.XMin()
	if rc.inParagraph.IsLast() {
		flow.Advance(rc.resolver.LineSpacing(rc.id))
		flow.Advance(e.metrics.BaselineToBottom(font))
	}
	box.laidOut = true
	return box
}
