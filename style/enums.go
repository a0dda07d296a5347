package style

import "strings"

// 该文件定义样式模型使用的枚举，以及从标记名称解析它们的辅助函数。
// 解析函数统一返回 (value, ok)，调用方在 ok 为 false 时自行记录诊断并使用默认值。

// InSequence 标记元素在其所属序列中的位置（段落中的 run、行中的单元格、编号项中的段落）。
type InSequence int

const (
	Only InSequence = iota
	First
	Middle
	Last
)

// IsFirst 对 First 与 Only 返回 true。
func (s InSequence) IsFirst() bool { return s == First || s == Only }

// IsLast 对 Last 与 Only 返回 true。
func (s InSequence) IsLast() bool { return s == Last || s == Only }

func (s InSequence) String() string {
	switch s {
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	default:
		return "only"
	}
}

// SequenceOf returns the tag for element i of n.
func SequenceOf(i, n int) InSequence {
	switch {
	case n <= 1:
		return Only
	case i == 0:
		return First
	case i == n-1:
		return Last
	default:
		return Middle
	}
}

// Justification 表示段落或制表位的水平对齐。
type Justification int

const (
	JustifyLeft Justification = iota
	JustifyCenter
	JustifyRight
	JustifyBoth
	JustifyDistribute
)

var justificationNames = map[string]Justification{
	"left":       JustifyLeft,
	"start":      JustifyLeft,
	"center":     JustifyCenter,
	"right":      JustifyRight,
	"end":        JustifyRight,
	"both":       JustifyBoth,
	"justify":    JustifyBoth,
	"distribute": JustifyDistribute,
}

// ParseJustification 解析 left/center/right/both/distribute（以及 start/end 别名）。
func ParseJustification(v string) (Justification, bool) {
	j, ok := justificationNames[strings.ToLower(strings.TrimSpace(v))]
	return j, ok
}

func (j Justification) String() string {
	switch j {
	case JustifyCenter:
		return "center"
	case JustifyRight:
		return "right"
	case JustifyBoth:
		return "both"
	case JustifyDistribute:
		return "distribute"
	default:
		return "left"
	}
}

// Stretches 对需要拉伸到整行宽度的对齐方式返回 true。
func (j Justification) Stretches() bool { return j == JustifyBoth || j == JustifyDistribute }

// LineRule 描述 line-spacing 数值的解释方式。
type LineRule int

const (
	LineRuleAuto LineRule = iota
	LineRuleExact
	LineRuleAtLeast
)

// ParseLineRule 解析 auto/exact/atLeast。
func ParseLineRule(v string) (LineRule, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "auto":
		return LineRuleAuto, true
	case "exact":
		return LineRuleExact, true
	case "atleast", "at-least":
		return LineRuleAtLeast, true
	}
	return LineRuleAuto, false
}

// Underline 为 18 种下划线模式。
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineWords
	UnderlineDouble
	UnderlineThick
	UnderlineDotted
	UnderlineDottedHeavy
	UnderlineDash
	UnderlineDashedHeavy
	UnderlineDashLong
	UnderlineDashLongHeavy
	UnderlineDotDash
	UnderlineDashDotHeavy
	UnderlineDotDotDash
	UnderlineDashDotDotHeavy
	UnderlineWave
	UnderlineWavyHeavy
	UnderlineWavyDouble
)

var underlineNames = []string{
	"none", "single", "words", "double", "thick", "dotted", "dottedHeavy", "dash",
	"dashedHeavy", "dashLong", "dashLongHeavy", "dotDash", "dashDotHeavy", "dotDotDash",
	"dashDotDotHeavy", "wave", "wavyHeavy", "wavyDouble",
}

func (u Underline) String() string {
	if u < 0 || int(u) >= len(underlineNames) {
		return "none"
	}
	return underlineNames[u]
}

// ParseUnderline 按名称（忽略大小写）解析下划线模式。
func ParseUnderline(v string) (Underline, bool) {
	v = strings.TrimSpace(v)
	for i, name := range underlineNames {
		if strings.EqualFold(name, v) {
			return Underline(i), true
		}
	}
	return UnderlineNone, false
}

// NumberFormat 为编号级别的 14 种格式，外加无法识别时的 NumberFormatUnknown。
type NumberFormat int

const (
	NumberFormatNone NumberFormat = iota
	NumberFormatBullet
	NumberFormatDecimal
	NumberFormatDecimalZero
	NumberFormatDecimalEnclosedParen
	NumberFormatUpperLetter
	NumberFormatLowerLetter
	NumberFormatUpperRoman
	NumberFormatLowerRoman
	NumberFormatOrdinal
	NumberFormatCardinalText
	NumberFormatOrdinalText
	NumberFormatHex
	NumberFormatChicago
	NumberFormatUnknown
)

var numberFormatNames = []string{
	"none", "bullet", "decimal", "decimalZero", "decimalEnclosedParen", "upperLetter",
	"lowerLetter", "upperRoman", "lowerRoman", "ordinal", "cardinalText", "ordinalText",
	"hex", "chicago",
}

func (f NumberFormat) String() string {
	if f < 0 || int(f) >= len(numberFormatNames) {
		return "unknown"
	}
	return numberFormatNames[f]
}

// ParseNumberFormat 解析编号格式；无法识别时返回 NumberFormatUnknown, false。
func ParseNumberFormat(v string) (NumberFormat, bool) {
	v = strings.TrimSpace(v)
	for i, name := range numberFormatNames {
		if strings.EqualFold(name, v) {
			return NumberFormat(i), true
		}
	}
	return NumberFormatUnknown, false
}

// Suffix 为编号文本与正文之间的分隔。
type Suffix int

const (
	SuffixTab Suffix = iota
	SuffixSpace
	SuffixNothing
)

// ParseSuffix 解析 tab/space/nothing。
func ParseSuffix(v string) (Suffix, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "tab":
		return SuffixTab, true
	case "space":
		return SuffixSpace, true
	case "nothing", "none":
		return SuffixNothing, true
	}
	return SuffixTab, false
}

// RowSpan 记录单元格在纵向合并中的位置。
type RowSpan int

const (
	RowSpanOnly RowSpan = iota
	RowSpanFirst
	RowSpanMiddle
	RowSpanLast
)

// Continues 对被合并的后续单元格（Middle/Last）返回 true。
func (r RowSpan) Continues() bool { return r == RowSpanMiddle || r == RowSpanLast }

func (r RowSpan) String() string {
	switch r {
	case RowSpanFirst:
		return "first"
	case RowSpanMiddle:
		return "middle"
	case RowSpanLast:
		return "last"
	default:
		return "only"
	}
}

// TabAlignment 为制表位的对齐方式。
type TabAlignment int

const (
	TabLeft TabAlignment = iota
	TabCenter
	TabRight
	TabDecimal
	TabBar
)

// ParseTabAlignment 解析 left/center/right/decimal/bar。
func ParseTabAlignment(v string) (TabAlignment, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return TabLeft, true
	case "center":
		return TabCenter, true
	case "right", "end":
		return TabRight, true
	case "decimal":
		return TabDecimal, true
	case "bar":
		return TabBar, true
	}
	return TabLeft, false
}

// Justification maps a tab alignment onto the line justification used for the segment after it.
func (a TabAlignment) Justification() Justification {
	switch a {
	case TabCenter:
		return JustifyCenter
	case TabRight, TabDecimal:
		return JustifyRight
	default:
		return JustifyLeft
	}
}

// TabLeader 为制表位的前导符。
type TabLeader int

const (
	LeaderNone TabLeader = iota
	LeaderDot
	LeaderHyphen
	LeaderUnderscore
	LeaderMiddleDot
)

// ParseTabLeader 解析 none/dot/hyphen/underscore/middleDot。
func ParseTabLeader(v string) (TabLeader, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "":
		return LeaderNone, true
	case "dot":
		return LeaderDot, true
	case "hyphen":
		return LeaderHyphen, true
	case "underscore":
		return LeaderUnderscore, true
	case "middledot":
		return LeaderMiddleDot, true
	}
	return LeaderNone, false
}

// TabStop 为一个制表位，Position 相对于文本带左边界（px）。
type TabStop struct {
	Position  float64      `json:"position"`
	Alignment TabAlignment `json:"alignment"`
	Leader    TabLeader    `json:"leader"`
}
