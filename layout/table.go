package layout

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

// column 为表格网格中的一列，x 为绝对起点。
type column struct {
	x, width float64
}

// cellBox 是一个拥有自身几何的单元格（Only 或纵向合并的 First）。
type cellBox struct {
	view    style.TableView
	row     int
	lastRow int // 纵向合并结束的行
	col     int
	span    int
	seq     style.InSequence
	rowSpan style.RowSpan

	x, y, w, h float64
	content    float64 // 内容高度，含内边距与边框
}

type tableLayout struct {
	e       *engine
	table   *document.Table
	view    style.TableView
	spacing float64

	x, top, width float64
	cols          []column

	boxes []*cellBox
	grid  [][]*cellBox // grid[row][col] 为覆盖该格的单元格
}

// layoutTable 排版表格：列网格、逐行的单元格内容、纵向合并、底纹与边框。
func (e *engine) layoutTable(flow *Flow, t *document.Table) *tableLayout {
	tl := &tableLayout{e: e, table: t, view: e.sheet.TableView(t.Style)}
	tl.spacing = tl.view.CellSpacing()
	if !tl.layoutColumns(flow) {
		e.log.Warn("Table has no columns, skipping", zap.Int("rows", len(t.Rows)))
		return tl
	}
	tl.top = flow.Y()

	s := tl.spacing
	open := map[int]*cellBox{}
	for ri, row := range t.Rows {
		// 本行没有延续的纵向合并在上一行结束
		continued := tl.continuedColumns(row)
		for _, col := range slices.Sorted(maps.Keys(open)) {
			if !continued[col] {
				tl.closeSpan(flow, open[col])
				delete(open, col)
			}
		}
		rowTop := flow.Y()
		tl.grid = append(tl.grid, make([]*cellBox, len(tl.cols)))
		rowHeight := row.MinHeight
		var only, closing []*cellBox

		col := 0
		for ci, cell := range row.Cells {
			if col >= len(tl.cols) {
				e.log.Warn("Row has more cells than the table grid, dropping the rest",
					zap.Int("row", ri), zap.Int("cell", ci), zap.Int("columns", len(tl.cols)))
				break
			}
			view := e.sheet.CellView(cell.Style, row.Style, t.Style)
			span := view.ColumnSpan()
			if col+span > len(tl.cols) {
				e.log.Warn("Column span exceeds the table grid, clamping",
					zap.Int("row", ri), zap.Int("cell", ci), zap.Int("span", span))
				span = len(tl.cols) - col
			}

			rs := view.RowSpan()
			if rs.Continues() {
				if first := open[col]; first != nil {
					for k := col; k < col+span; k++ {
						tl.grid[ri][k] = first
					}
					first.lastRow = ri
					if rs == style.RowSpanLast {
						closing = append(closing, first)
						delete(open, col)
					}
					col += span
					continue
				}
				e.log.Warn("Vertical merge continues without a start, treating cell as unmerged",
					zap.Int("row", ri), zap.Int("column", col))
				rs = style.RowSpanOnly
			}

			x, w := tl.cols[col].x, tl.spanWidth(col, span)
			box := &cellBox{
				view: view, row: ri, lastRow: ri, col: col, span: span,
				seq: style.SequenceOf(ci, len(row.Cells)), rowSpan: rs,
				x: x + s, y: rowTop + s, w: w - 2*s,
			}
			box.content = tl.layoutCell(flow, cell, box)
			for k := col; k < col+span; k++ {
				tl.grid[ri][k] = box
			}
			tl.boxes = append(tl.boxes, box)

			if rs == style.RowSpanFirst {
				open[col] = box
			} else {
				only = append(only, box)
				rowHeight = max(rowHeight, box.content+2*s)
			}
			col += span
		}

		for _, b := range only {
			b.h = rowHeight - 2*s
		}
		flow.Advance(rowHeight)
		for _, b := range closing {
			tl.closeSpan(flow, b)
		}
	}
	for _, col := range slices.Sorted(maps.Keys(open)) {
		tl.closeSpan(flow, open[col])
	}

	tl.shade()
	tl.drawBorders(flow.Y())
	return tl
}

// layoutColumns 由网格计算列的绝对位置；没有网格时按最宽的行均分文本带。
func (tl *tableLayout) layoutColumns(flow *Flow) bool {
	grid := tl.table.Grid
	if len(grid) == 0 {
		n := 0
		for _, row := range tl.table.Rows {
			cols := 0
			for _, cell := range row.Cells {
				cols += tl.e.sheet.CellView(cell.Style, row.Style, tl.table.Style).ColumnSpan()
			}
			n = max(n, cols)
		}
		if n == 0 {
			return false
		}
		grid = make([]float64, n)
		for i := range grid {
			grid[i] = flow.Width() / float64(n)
		}
	}

	for _, w := range grid {
		tl.width += w
	}
	switch tl.view.Justification() {
	case style.JustifyCenter:
		tl.x = flow.XMin() + (flow.Width()-tl.width)/2
	case style.JustifyRight:
		tl.x = flow.XMax() - tl.width
	default:
		tl.x = flow.XMin() + tl.view.Indentation()
	}
	x := tl.x
	for _, w := range grid {
		tl.cols = append(tl.cols, column{x: x, width: w})
		x += w
	}
	return true
}

// continuedColumns 返回本行中以 Middle 或 Last 延续纵向合并的起始列。
func (tl *tableLayout) continuedColumns(row *document.TableRow) map[int]bool {
	out := map[int]bool{}
	col := 0
	for _, cell := range row.Cells {
		if col >= len(tl.cols) {
			break
		}
		view := tl.e.sheet.CellView(cell.Style, row.Style, tl.table.Style)
		if view.RowSpan().Continues() {
			out[col] = true
		}
		col += min(view.ColumnSpan(), len(tl.cols)-col)
	}
	return out
}

func (tl *tableLayout) spanWidth(col, span int) float64 {
	w := 0.0
	for _, c := range tl.cols[col : col+span] {
		w += c.width
	}
	return w
}

// layoutCell 在克隆的游标上排版单元格内容，返回内容占用的高度（含内边距与边框）。
// 编号计数与制表位在结束后合并回父游标。
func (tl *tableLayout) layoutCell(flow *Flow, cell *document.TableCell, box *cellBox) float64 {
	v := box.view
	left := v.Margin(style.SideStart)
	right := v.Margin(style.SideEnd) + borderSize(tl.sideBorder(box, style.SideEnd))
	top := v.Margin(style.SideTop) + borderSize(tl.sideBorder(box, style.SideTop))
	bottom := v.Margin(style.SideBottom) + borderSize(tl.sideBorder(box, style.SideBottom))
	// 共享的起始边框只算在第一个单元格上。
	if box.seq.IsFirst() || tl.spacing > 0 {
		left += borderSize(tl.sideBorder(box, style.SideStart))
	}

	child := flow.Clone()
	child.SetBand(box.x+left, box.x+box.w-right)
	child.SetY(box.y + top)
	tl.e.layoutBlocks(child, cell.Blocks, tl.e.sheet.Resolver().InCell(box.view), true)
	flow.CopyObstaclesFrom(child)
	return child.MaxY() - box.y + bottom
}

// closeSpan 在纵向合并结束时确定 First 单元格的高度；内容更高时推后后续行。
func (tl *tableLayout) closeSpan(flow *Flow, b *cellBox) {
	b.h = max(b.content, flow.Y()-tl.spacing-b.y)
	if bottom := b.y + b.h + tl.spacing; bottom > flow.Y() {
		flow.SetY(bottom)
	}
}

func borderSize(b *style.TableBorder) float64 {
	if !b.Visible() {
		return 0
	}
	return b.Size
}

func (tl *tableLayout) lastRow() int { return len(tl.table.Rows) - 1 }

// outer 报告单元格的某一侧是否位于表格外缘。有单元格间距时每个单元格独立成框，没有外缘。
func (tl *tableLayout) outer(box *cellBox, side style.Side) bool {
	if tl.spacing > 0 {
		return false
	}
	switch side {
	case style.SideStart:
		return box.col == 0
	case style.SideEnd:
		return box.col+box.span >= len(tl.cols)
	case style.SideTop:
		return box.row == 0
	default:
		return box.lastRow >= tl.lastRow()
	}
}

// sideBorder 返回单元格自身（单元格、行层级）的边框，没有时回退到表格的外框或内部边框。
func (tl *tableLayout) sideBorder(box *cellBox, side style.Side) *style.TableBorder {
	if b := box.view.OwnBorder(side); b != nil {
		return b
	}
	if tl.outer(box, side) {
		return tl.view.Border(side)
	}
	if side == style.SideTop || side == style.SideBottom {
		return tl.view.Border(style.SideInsideH)
	}
	return tl.view.Border(style.SideInsideV)
}

// edgeBorder 解析两个单元格之间共享的边。neighbor 为上方或前方的单元格。
func (tl *tableLayout) edgeBorder(box, neighbor *cellBox, side, opposite, inside style.Side) *style.TableBorder {
	if b := box.view.OwnBorder(side); b != nil {
		return b
	}
	if neighbor != nil && neighbor != box {
		if b := neighbor.view.OwnBorder(opposite); b != nil {
			return b
		}
	}
	return tl.view.Border(inside)
}

func (tl *tableLayout) shade() {
	for _, b := range tl.boxes {
		sh := b.view.Shading()
		if sh == "" {
			continue
		}
		fill, ok := ParseColor(sh)
		if !ok {
			tl.e.log.Warn("Unrecognized cell shading", zap.String("shading", sh))
			continue
		}
		tl.e.res.Rects = append(tl.e.res.Rects, Rect{X: b.x, Y: b.y, Width: b.w, Height: b.h, Fill: fill})
	}
}

// drawBorders 输出边框线段。没有单元格间距时按边解析，每条边只画一次：
// 每个单元格负责自己的上边与起始边，外缘的下边与结束边由最后一行、最后一列负责。
func (tl *tableLayout) drawBorders(bottom float64) {
	res := tl.e.res
	add := func(b *style.TableBorder, x1, y1, x2, y2 float64) {
		res.Lines = append(res.Lines, borderLines(b, x1, y1, x2, y2)...)
	}

	if tl.spacing > 0 {
		for _, b := range tl.boxes {
			add(tl.sideBorder(b, style.SideTop), b.x, b.y, b.x+b.w, b.y)
			add(tl.sideBorder(b, style.SideBottom), b.x, b.y+b.h, b.x+b.w, b.y+b.h)
			add(tl.sideBorder(b, style.SideStart), b.x, b.y, b.x, b.y+b.h)
			add(tl.sideBorder(b, style.SideEnd), b.x+b.w, b.y, b.x+b.w, b.y+b.h)
		}
		x2 := tl.x + tl.width
		add(tl.view.Border(style.SideTop), tl.x, tl.top, x2, tl.top)
		add(tl.view.Border(style.SideBottom), tl.x, bottom, x2, bottom)
		add(tl.view.Border(style.SideStart), tl.x, tl.top, tl.x, bottom)
		add(tl.view.Border(style.SideEnd), x2, tl.top, x2, bottom)
		return
	}

	for _, b := range tl.boxes {
		x2, y2 := b.x+b.w, b.y+b.h

		var top *style.TableBorder
		if b.row == 0 {
			top = tl.sideBorder(b, style.SideTop)
		} else {
			top = tl.edgeBorder(b, tl.grid[b.row-1][b.col], style.SideTop, style.SideBottom, style.SideInsideH)
		}
		add(top, b.x, b.y, x2, b.y)

		var start *style.TableBorder
		if b.col == 0 {
			start = tl.sideBorder(b, style.SideStart)
		} else {
			start = tl.edgeBorder(b, tl.grid[b.row][b.col-1], style.SideStart, style.SideEnd, style.SideInsideV)
		}
		add(start, b.x, b.y, b.x, y2)

		if b.lastRow >= tl.lastRow() {
			add(tl.sideBorder(b, style.SideBottom), b.x, y2, x2, y2)
		}
		if b.col+b.span >= len(tl.cols) {
			add(tl.sideBorder(b, style.SideEnd), x2, b.y, x2, y2)
		}
	}
}
