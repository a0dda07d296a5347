package style

import "strings"

// BorderType 为表格边框的 26 种线型。
type BorderType int

const (
	BorderNone BorderType = iota
	BorderSingle
	BorderThick
	BorderDouble
	BorderDotted
	BorderDashed
	BorderDotDash
	BorderDotDotDash
	BorderTriple
	BorderThinThickSmallGap
	BorderThickThinSmallGap
	BorderThinThickThinSmallGap
	BorderThinThickMediumGap
	BorderThickThinMediumGap
	BorderThinThickThinMediumGap
	BorderThinThickLargeGap
	BorderThickThinLargeGap
	BorderThinThickThinLargeGap
	BorderWave
	BorderDoubleWave
	BorderDashSmallGap
	BorderDashDotStroked
	BorderThreeDEmboss
	BorderThreeDEngrave
	BorderOutset
	BorderInset
)

// BorderTypeCount 是线型的总数（含 None）。
const BorderTypeCount = int(BorderInset) + 1

var borderTypeNames = [BorderTypeCount]string{
	"none", "single", "thick", "double", "dotted", "dashed", "dotDash", "dotDotDash",
	"triple", "thinThickSmallGap", "thickThinSmallGap", "thinThickThinSmallGap",
	"thinThickMediumGap", "thickThinMediumGap", "thinThickThinMediumGap",
	"thinThickLargeGap", "thickThinLargeGap", "thinThickThinLargeGap", "wave",
	"doubleWave", "dashSmallGap", "dashDotStroked", "threeDEmboss", "threeDEngrave",
	"outset", "inset",
}

func (b BorderType) String() string {
	if b < 0 || int(b) >= BorderTypeCount {
		return "none"
	}
	return borderTypeNames[b]
}

// ParseBorderType 按名称解析线型，"nil" 视为 none。
func ParseBorderType(v string) (BorderType, bool) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "nil") {
		return BorderNone, true
	}
	for i, name := range borderTypeNames {
		if strings.EqualFold(name, v) {
			return BorderType(i), true
		}
	}
	return BorderNone, false
}

// TableBorder 描述一条边框。Size 与 Spacing 的单位均为 px。
type TableBorder struct {
	Type    BorderType `json:"type"`
	Size    float64    `json:"size"`
	Spacing float64    `json:"spacing"`
	Color   string     `json:"color"`
}

// Visible 对有宽度、非 none 的边框返回 true。
func (b *TableBorder) Visible() bool {
	return b != nil && b.Type != BorderNone && b.Size > 0
}

// Side 标识 BorderSet / MarginSet 中的一侧。
type Side int

const (
	SideStart Side = iota
	SideEnd
	SideTop
	SideBottom
	SideInsideH
	SideInsideV
)

func (s Side) String() string {
	switch s {
	case SideEnd:
		return "end"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideInsideH:
		return "insideH"
	case SideInsideV:
		return "insideV"
	default:
		return "start"
	}
}

// BorderSet 为六个方向的边框，nil 表示未设置。
type BorderSet struct {
	Start   *TableBorder `json:"start,omitempty"`
	End     *TableBorder `json:"end,omitempty"`
	Top     *TableBorder `json:"top,omitempty"`
	Bottom  *TableBorder `json:"bottom,omitempty"`
	InsideH *TableBorder `json:"insideH,omitempty"`
	InsideV *TableBorder `json:"insideV,omitempty"`
}

// Get 返回指定方向的边框。
func (b *BorderSet) Get(side Side) *TableBorder {
	switch side {
	case SideStart:
		return b.Start
	case SideEnd:
		return b.End
	case SideTop:
		return b.Top
	case SideBottom:
		return b.Bottom
	case SideInsideH:
		return b.InsideH
	case SideInsideV:
		return b.InsideV
	}
	return nil
}

// Set 设置指定方向的边框。
func (b *BorderSet) Set(side Side, border *TableBorder) {
	switch side {
	case SideStart:
		b.Start = border
	case SideEnd:
		b.End = border
	case SideTop:
		b.Top = border
	case SideBottom:
		b.Bottom = border
	case SideInsideH:
		b.InsideH = border
	case SideInsideV:
		b.InsideV = border
	}
}

// MarginSet 为单元格四个方向的内边距（px），nil 表示未设置。
type MarginSet struct {
	Start  *float64 `json:"start,omitempty"`
	End    *float64 `json:"end,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
}

// Get 返回指定方向的内边距；inside 方向没有内边距。
func (m *MarginSet) Get(side Side) *float64 {
	switch side {
	case SideStart:
		return m.Start
	case SideEnd:
		return m.End
	case SideTop:
		return m.Top
	case SideBottom:
		return m.Bottom
	}
	return nil
}

// Set 设置指定方向的内边距。
func (m *MarginSet) Set(side Side, v float64) {
	switch side {
	case SideStart:
		m.Start = &v
	case SideEnd:
		m.End = &v
	case SideTop:
		m.Top = &v
	case SideBottom:
		m.Bottom = &v
	}
}
