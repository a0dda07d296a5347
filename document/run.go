package document

import (
	"github.com/ByLCY/folio/resource"
	"github.com/ByLCY/folio/style"
)

// RunKind 为 run 的标签。
type RunKind int

const (
	RunText RunKind = iota
	RunDrawing
	RunMath
	RunNumbering
)

func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunDrawing:
		return "drawing"
	case RunMath:
		return "math"
	case RunNumbering:
		return "numbering"
	default:
		return "unknown"
	}
}

// Run 是段落内最小的布局单元，具体类型只有 *TextRun、*DrawingRun、*MathRun 与 *NumberingRun。
type Run interface {
	Kind() RunKind
	StyleID() style.ID
	isRun()
}

func (*TextRun) isRun()      {}
func (*DrawingRun) isRun()   {}
func (*MathRun) isRun()      {}
func (*NumberingRun) isRun() {}

// TextRun 的 Fragments 在布局时拼接；"\n" 表示显式换行，"\t" 表示制表符。
type TextRun struct {
	Fragments []string `json:"fragments"`
	Style     style.ID `json:"style"`
}

func (*TextRun) Kind() RunKind       { return RunText }
func (r *TextRun) StyleID() style.ID { return r.Style }

// Reference 指定浮动对象的定位基准。
type Reference int

const (
	RefCharacter Reference = iota
	RefColumn
	RefParagraph
	RefLine
	RefPage
	RefMargin
	RefLeftMargin
	RefRightMargin
	RefTopMargin
	RefBottomMargin
)

var referenceNames = []string{
	"character", "column", "paragraph", "line", "page", "margin",
	"leftMargin", "rightMargin", "topMargin", "bottomMargin",
}

func (r Reference) String() string {
	if r >= 0 && int(r) < len(referenceNames) {
		return referenceNames[r]
	}
	return "unknown"
}

// ParseReference 解析定位基准名称。
func ParseReference(s string) (Reference, bool) {
	for i, n := range referenceNames {
		if n == s {
			return Reference(i), true
		}
	}
	return RefColumn, false
}

// Wrap 为浮动对象的环绕方式。
type Wrap int

const (
	WrapNone Wrap = iota
	WrapSquare
	WrapTopBottom
)

// DrawingRun 是图片、图表等绘图对象。Anchor 为 false 时按行内对象排版。
// Content 为尚未加载的内容句柄；就绪后的数据可以是 []Block（嵌套文档）或图片。
type DrawingRun struct {
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Anchor    bool             `json:"anchor,omitempty"`
	RelativeX Reference        `json:"relativeX,omitempty"`
	RelativeY Reference        `json:"relativeY,omitempty"`
	OffsetX   float64          `json:"offsetX,omitempty"`
	OffsetY   float64          `json:"offsetY,omitempty"`
	Wrap      Wrap             `json:"wrap,omitempty"`
	Content   *resource.Handle `json:"-"`
	Style     style.ID         `json:"style"`
}

func (*DrawingRun) Kind() RunKind       { return RunDrawing }
func (r *DrawingRun) StyleID() style.ID { return r.Style }

// MathRun 是已经线性化的公式文本，作为不可拆分的一行排版。
type MathRun struct {
	Text  string   `json:"text"`
	Style style.ID `json:"style"`
}

func (*MathRun) Kind() RunKind       { return RunMath }
func (r *MathRun) StyleID() style.ID { return r.Style }

// NumberingRun 是编号前缀，由段落布局根据编号级别生成。
type NumberingRun struct {
	NumID string                `json:"numId"`
	Level *style.NumberingLevel `json:"level"`
	Style style.ID              `json:"style"`
}

func (*NumberingRun) Kind() RunKind       { return RunNumbering }
func (r *NumberingRun) StyleID() style.ID { return r.Style }
