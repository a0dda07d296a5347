package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/style"
)

// 该文件定义布局结果中的定位图元，供绘制端与调试 JSON 共用。所有坐标单位为 px。

// Result 保存一次布局的页面几何与全部图元。
type Result struct {
	Page   Page       `json:"page"`
	Texts  []TextLine `json:"texts"`
	Lines  []Line     `json:"lines,omitempty"`
	Rects  []Rect     `json:"rects,omitempty"`
	Images []ImageBox `json:"images,omitempty"`
	// Height 为内容到达的最大纵坐标。
	Height float64 `json:"height"`

	engine  *engine
	pending []*pendingDrawing
	// failed 汇总布局时已经失败的绘图资源，由 Await 一并报告。
	failed error
}

// Page 记录页面尺寸与边距。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// Margin 以 px 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex 返回 RRGGBB 形式。
func (c Color) Hex() string { return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B) }

// ParseColor 解析 RRGGBB（可带 # 前缀）。"auto" 与空串视为黑色。
func ParseColor(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" || strings.EqualFold(s, "auto") {
		return Color{}, true
	}
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, true
}

// Emphasis 为文本强调位掩码。
type Emphasis uint8

const (
	EmphasisBold Emphasis = 1 << iota
	EmphasisItalic
	EmphasisUnderline
	EmphasisStrike
	EmphasisDoubleStrike
	EmphasisSmallCaps
)

// Has 报告是否包含 flag。
func (e Emphasis) Has(flag Emphasis) bool { return e&flag != 0 }

// TextLine 是一行已定位的文本。Y 为基线位置。
// Following 为 true 表示该行紧接在同一视觉行的前一段文本之后。
type TextLine struct {
	Text          string              `json:"text"`
	X             float64             `json:"x"`
	Y             float64             `json:"y"`
	Width         float64             `json:"width"`
	Stretched     bool                `json:"stretched,omitempty"`
	Following     bool                `json:"following,omitempty"`
	Color         Color               `json:"color"`
	Font          string              `json:"font"`
	FontSize      float64             `json:"fontSize"`
	Emphasis      Emphasis            `json:"emphasis,omitempty"`
	Underline     style.Underline     `json:"underline,omitempty"`
	Justification style.Justification `json:"justification"`
	Shading       string              `json:"shading,omitempty"`
}

// Line 表示一条线段，Dash 为空时为实线。
type Line struct {
	X1    float64   `json:"x1"`
	Y1    float64   `json:"y1"`
	X2    float64   `json:"x2"`
	Y2    float64   `json:"y2"`
	Color Color     `json:"color"`
	Width float64   `json:"width"`
	Dash  []float64 `json:"dash,omitempty"`
}

// Rect 表示一个填充矩形（单元格底纹）。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   Color   `json:"fill"`
}

// ImageBox 描述绘图对象的位置与尺寸。MIME 为空表示内容尚未就绪或不是图片。
type ImageBox struct {
	Name   string  `json:"name,omitempty"`
	MIME   string  `json:"mime,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pending 返回仍在等待资源的绘图数量。
func (r *Result) Pending() int { return len(r.pending) }
