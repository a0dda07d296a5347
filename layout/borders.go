package layout

import (
	"slices"

	"github.com/ByLCY/folio/style"
)

// SubLine 是复合边框分解出的一条平行线。Offset 为线中心相对边框带起始侧的位置，
// Width 为线宽，Dash 为虚线段长序列；三者都以边框标称宽度为单位。
type SubLine struct {
	Offset float64   `json:"offset"`
	Width  float64   `json:"width"`
	Dash   []float64 `json:"dash,omitempty"`
}

var (
	dashDotted     = []float64{1, 1}
	dashDashed     = []float64{4, 2}
	dashSmallGap   = []float64{4, 1}
	dashDotDash    = []float64{4, 2, 1, 2}
	dashDotDotDash = []float64{4, 2, 1, 2, 1, 2}
	dashDotStroked = []float64{4, 1, 1, 1}

	solid       = []SubLine{{Offset: 0.5, Width: 1}}
	doubleLines = []SubLine{{Offset: 1.0 / 6, Width: 1.0 / 3}, {Offset: 5.0 / 6, Width: 1.0 / 3}}
	tripleLines = []SubLine{{Offset: 0.1, Width: 0.2}, {Offset: 0.5, Width: 0.2}, {Offset: 0.9, Width: 0.2}}
	threeD      = []SubLine{{Offset: 1.0 / 8, Width: 1.0 / 4}, {Offset: 1.0 / 2, Width: 1.0 / 4}, {Offset: 7.0 / 8, Width: 1.0 / 4}}
)

func dashed(dash []float64) []SubLine { return []SubLine{{Offset: 0.5, Width: 1, Dash: dash}} }

// twelfths 以边框宽度的 1/12 为单位描述一条线。
func twelfths(offset, width float64) SubLine { return SubLine{Offset: offset / 12, Width: width / 12} }

// subLines 是线型到平行线的固定映射。
var subLines = [style.BorderTypeCount][]SubLine{
	style.BorderNone:           nil,
	style.BorderSingle:         solid,
	style.BorderThick:          solid,
	style.BorderOutset:         solid,
	style.BorderInset:          solid,
	style.BorderDouble:         doubleLines,
	style.BorderTriple:         tripleLines,
	style.BorderDotted:         dashed(dashDotted),
	style.BorderDashed:         dashed(dashDashed),
	style.BorderDotDash:        dashed(dashDotDash),
	style.BorderDotDotDash:     dashed(dashDotDotDash),
	style.BorderDashSmallGap:   dashed(dashSmallGap),
	style.BorderDashDotStroked: dashed(dashDotStroked),
	style.BorderWave:           {{Offset: 0.5, Width: 1.0 / 3}},
	style.BorderDoubleWave:     doubleLines,
	style.BorderThreeDEmboss:   threeD,
	style.BorderThreeDEngrave:  threeD,

	style.BorderThickThinSmallGap:  {twelfths(2.5, 5), twelfths(6.5, 1)},
	style.BorderThickThinMediumGap: {twelfths(2.5, 5), twelfths(8.5, 1)},
	style.BorderThickThinLargeGap:  {twelfths(2.5, 5), twelfths(10.5, 1)},
	style.BorderThinThickSmallGap:  {twelfths(5.5, 1), twelfths(9.5, 5)},
	style.BorderThinThickMediumGap: {twelfths(3.5, 1), twelfths(9.5, 5)},
	style.BorderThinThickLargeGap:  {twelfths(1.5, 1), twelfths(9.5, 5)},

	style.BorderThinThickThinSmallGap:  {twelfths(0.5, 1), twelfths(4, 4), twelfths(7.5, 1)},
	style.BorderThinThickThinMediumGap: {twelfths(0.5, 1), twelfths(5, 4), twelfths(9.5, 1)},
	style.BorderThinThickThinLargeGap:  {twelfths(0.5, 1), twelfths(6, 4), twelfths(11.5, 1)},
}

// SubLines 返回线型分解出的平行线；None 与未知线型返回空。
func SubLines(t style.BorderType) []SubLine {
	if t < 0 || int(t) >= style.BorderTypeCount {
		return nil
	}
	out := make([]SubLine, len(subLines[t]))
	for i, sl := range subLines[t] {
		sl.Dash = slices.Clone(sl.Dash)
		out[i] = sl
	}
	return out
}

// borderLines 把一条边框分解为线段。边框带以 (x1,y1)-(x2,y2) 为中心线，
// 水平边向下展开，垂直边向右展开。
func borderLines(b *style.TableBorder, x1, y1, x2, y2 float64) []Line {
	if !b.Visible() {
		return nil
	}
	color, _ := ParseColor(b.Color)
	horizontal := y1 == y2
	var out []Line
	for _, sl := range SubLines(b.Type) {
		shift := (sl.Offset - 0.5) * b.Size
		l := Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color, Width: sl.Width * b.Size}
		if horizontal {
			l.Y1 += shift
			l.Y2 += shift
		} else {
			l.X1 += shift
			l.X2 += shift
		}
		for _, d := range sl.Dash {
			l.Dash = append(l.Dash, d*b.Size)
		}
		out = append(out, l)
	}
	return out
}
