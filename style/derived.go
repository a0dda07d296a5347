package style

// autoLineFactor 为 auto 行距下字体高度到行高的经验系数。
const autoLineFactor = 1.08

var (
	selBold         = Selector[bool]{Run: func(s *RunStyle) *bool { return s.Bold }}
	selItalic       = Selector[bool]{Run: func(s *RunStyle) *bool { return s.Italic }}
	selUnderline    = Selector[Underline]{Run: func(s *RunStyle) *Underline { return s.Underline }}
	selStrike       = Selector[bool]{Run: func(s *RunStyle) *bool { return s.Strike }}
	selDoubleStrike = Selector[bool]{Run: func(s *RunStyle) *bool { return s.DoubleStrike }}
	selFontFamily   = Selector[string]{Run: func(s *RunStyle) *string { return s.FontFamily }}
	selFontSize     = Selector[float64]{Run: func(s *RunStyle) *float64 { return s.FontSize }}
	selCharSpacing  = Selector[float64]{Run: func(s *RunStyle) *float64 { return s.CharSpacing }}
	selCharStretch  = Selector[float64]{Run: func(s *RunStyle) *float64 { return s.CharStretch }}
	selColor        = Selector[string]{Run: func(s *RunStyle) *string { return s.Color }}
	selCaps         = Selector[bool]{Run: func(s *RunStyle) *bool { return s.Caps }}
	selSmallCaps    = Selector[bool]{Run: func(s *RunStyle) *bool { return s.SmallCaps }}
	selInvisible    = Selector[bool]{Run: func(s *RunStyle) *bool { return s.Invisible }}

	// 字符底纹优先，其次段落底纹。
	selShading = Selector[string]{
		Run: func(s *RunStyle) *string { return s.Shading },
		Par: func(p *ParStyle) *string { return p.Shading },
	}

	selJustification = Selector[Justification]{Par: func(p *ParStyle) *Justification { return p.Justification }}
	selIndentation   = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.Indentation }}
	selHanging       = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.Hanging }}
	selLineSpacing   = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.LineSpacing }}
	selLineRule      = Selector[LineRule]{Par: func(p *ParStyle) *LineRule { return p.LineRule }}
	selLinesBefore   = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.LinesBefore }}
	selLinesAfter    = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.LinesAfter }}
	selBefore        = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.SpacingBefore }}
	selAfter         = Selector[float64]{Par: func(p *ParStyle) *float64 { return p.SpacingAfter }}
	selAutoBefore    = Selector[bool]{Par: func(p *ParStyle) *bool { return p.AutoBefore }}
	selAutoAfter     = Selector[bool]{Par: func(p *ParStyle) *bool { return p.AutoAfter }}
	selTabs          = Selector[[]TabStop]{Par: func(p *ParStyle) *[]TabStop {
		if p.Tabs == nil {
			return nil
		}
		return &p.Tabs
	}}
	selNumbering = Selector[*NumberingStyle]{Par: func(p *ParStyle) **NumberingStyle {
		if p.Numbering == nil {
			return nil
		}
		return &p.Numbering
	}}
)

// RunProps 为一次性解析出的全部字符属性。
type RunProps struct {
	FontFamily   string
	FontSize     float64
	Bold         bool
	Italic       bool
	Underline    Underline
	Strike       bool
	DoubleStrike bool
	CharSpacing  float64
	CharStretch  float64
	Color        string
	Caps         bool
	SmallCaps    bool
	Invisible    bool
	Shading      string
}

// Run 解析指定样式的全部字符属性。
func (r Resolver) Run(id ID) RunProps {
	d := r.defaults()
	return RunProps{
		FontFamily:   Resolve(r, id, selFontFamily, d.FontFamily),
		FontSize:     r.FontSize(id),
		Bold:         Resolve(r, id, selBold, false),
		Italic:       Resolve(r, id, selItalic, false),
		Underline:    Resolve(r, id, selUnderline, UnderlineNone),
		Strike:       Resolve(r, id, selStrike, false),
		DoubleStrike: Resolve(r, id, selDoubleStrike, false),
		CharSpacing:  Resolve(r, id, selCharSpacing, 0),
		CharStretch:  Resolve(r, id, selCharStretch, 100),
		Color:        Resolve(r, id, selColor, d.Color),
		Caps:         Resolve(r, id, selCaps, false),
		SmallCaps:    Resolve(r, id, selSmallCaps, false),
		Invisible:    Resolve(r, id, selInvisible, false),
		Shading:      Resolve(r, id, selShading, ""),
	}
}

func (r Resolver) defaults() Defaults {
	if r.sheet == nil {
		return DefaultDefaults()
	}
	return r.sheet.Defaults
}

// FontSize 返回字号（px）。
func (r Resolver) FontSize(id ID) float64 {
	return Resolve(r, id, selFontSize, r.defaults().FontSize)
}

// Justification 返回段落对齐方式。
func (r Resolver) Justification(id ID) Justification {
	return Resolve(r, id, selJustification, JustifyLeft)
}

// TabStops 返回段落制表位列表。
func (r Resolver) TabStops(id ID) []TabStop {
	return Resolve(r, id, selTabs, nil)
}

// Numbering 返回段落绑定的编号，未编号时为 nil。
func (r Resolver) Numbering(id ID) *NumberingStyle {
	return Resolve(r, id, selNumbering, nil)
}

// LineSpacing 返回有效行距（px）。
// auto 规则：fontSize × 1.08 × (raw / 240)；其余规则：raw 为 twips，换算为 px。
func (r Resolver) LineSpacing(id ID) float64 {
	raw := Resolve(r, id, selLineSpacing, r.defaults().LineSpacing)
	rule := Resolve(r, id, selLineRule, LineRuleAuto)
	if rule != LineRuleAuto {
		return raw / TwipsPerPx
	}
	return r.FontSize(id) * autoLineFactor * (raw / 240)
}

// SpacingBefore 返回段前间距（px）。优先级：行数×行距 > 绝对值 > auto(1.08×行距) > 0。
func (r Resolver) SpacingBefore(id ID) float64 {
	return r.spacing(id, selLinesBefore, selBefore, selAutoBefore)
}

// SpacingAfter 返回段后间距（px），优先级同 SpacingBefore。
func (r Resolver) SpacingAfter(id ID) float64 {
	return r.spacing(id, selLinesAfter, selAfter, selAutoAfter)
}

func (r Resolver) spacing(id ID, lines, abs Selector[float64], auto Selector[bool]) float64 {
	if n, ok := Lookup(r, id, lines); ok {
		return n * r.LineSpacing(id)
	}
	if v, ok := Lookup(r, id, abs); ok {
		return v
	}
	if Resolve(r, id, auto, false) {
		return autoLineFactor * r.LineSpacing(id)
	}
	return 0
}

// Indentation 返回文本起始缩进（px）。悬挂缩进只在 run 是段落的首个 run
// 且段落是所属编号项的首个段落时扣除。
func (r Resolver) Indentation(id ID, run, par InSequence) float64 {
	ind := Resolve(r, id, selIndentation, 0)
	if run.IsFirst() && par.IsFirst() {
		ind -= Resolve(r, id, selHanging, 0)
	}
	return ind
}

// Shading 返回字符或段落底纹颜色，未设置时为空串。
func (r Resolver) Shading(id ID) string {
	return Resolve(r, id, selShading, "")
}
