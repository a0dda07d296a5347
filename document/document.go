// Package document 定义布局引擎的输入对象图：文档、段落、表格与 run。
// 样式以 style.Sheet 中的句柄引用，对象图本身不持有样式数据。
package document

import (
	"github.com/ByLCY/folio/resource"
	"github.com/ByLCY/folio/style"
)

// Document 是一个节（section）及其顺序排列的块。
type Document struct {
	Section Section `json:"section"`
	Blocks  []Block `json:"blocks"`
}

// Section 描述页面几何，单位为 px。
type Section struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// Margin 为四边页边距（px）。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ContentWidth 返回页边距之间的宽度。
func (s Section) ContentWidth() float64 { return s.Width - s.Margin.Left - s.Margin.Right }

// Block 是 *Paragraph 或 *Table。
type Block interface {
	isBlock()
}

func (*Paragraph) isBlock() {}
func (*Table) isBlock()     {}

// Paragraph 是一组按文档顺序排列的 run。
// NumberingPosition 标记该段落在所属编号项中的位置，用于悬挂缩进的判定。
type Paragraph struct {
	Style             style.ID         `json:"style"`
	Runs              []Run            `json:"runs"`
	NumberingPosition style.InSequence `json:"numberingPosition"`
}

// Table 由列网格与行组成。Grid 为各列宽度（px）。
type Table struct {
	Style style.TableID `json:"style"`
	Grid  []float64     `json:"grid"`
	Rows  []*TableRow   `json:"rows"`
}

// TableRow 为一行单元格。MinHeight 为 0 时行高完全由内容决定。
type TableRow struct {
	Style     style.TableID `json:"style"`
	MinHeight float64       `json:"minHeight,omitempty"`
	Cells     []*TableCell  `json:"cells"`
}

// TableCell 的跨列、跨行状态由其 TableStyle 决定。
type TableCell struct {
	Style  style.TableID `json:"style"`
	Blocks []Block       `json:"blocks"`
}

// NewParagraph 便于构造只有文本 run 的段落。
func NewParagraph(id style.ID, runs ...Run) *Paragraph {
	return &Paragraph{Style: id, Runs: runs}
}

// Text 构造一个文本 run。
func Text(id style.ID, fragments ...string) *TextRun {
	return &TextRun{Style: id, Fragments: fragments}
}

// Walk 以深度优先顺序访问所有块，包括单元格内部的块。fn 返回 false 时停止下探该块。
func Walk(blocks []Block, fn func(Block) bool) {
	for _, b := range blocks {
		if !fn(b) {
			continue
		}
		if t, ok := b.(*Table); ok {
			for _, row := range t.Rows {
				for _, cell := range row.Cells {
					Walk(cell.Blocks, fn)
				}
			}
		}
	}
}

// Handles 收集文档中所有绘图 run 引用的资源句柄。
func (d *Document) Handles() []*resource.Handle {
	var out []*resource.Handle
	Walk(d.Blocks, func(b Block) bool {
		if p, ok := b.(*Paragraph); ok {
			for _, r := range p.Runs {
				if dr, ok := r.(*DrawingRun); ok && dr.Content != nil {
					out = append(out, dr.Content)
				}
			}
		}
		return true
	})
	return out
}
