package layout

import (
	"testing"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

func cellOf(id style.TableID, blocks ...document.Block) *document.TableCell {
	return &document.TableCell{Style: id, Blocks: blocks}
}

func textPara(id style.ID, text string) document.Block {
	return document.NewParagraph(id, document.Text(style.NoID, text))
}

// zeroMargins 去掉默认单元格内边距，便于计算几何。
func zeroMargins(sheet *style.Sheet) {
	sheet.Defaults.CellMarginSide = 0
	sheet.Defaults.CellMarginVert = 0
}

// TestOnlyCellsShareRowHeight 验证行内所有 Only 单元格得到相同的最大高度。
func TestOnlyCellsShareRowHeight(t *testing.T) {
	sheet := style.NewSheet()
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	table := &document.Table{
		Grid: []float64{60, 60, 60},
		Rows: []*document.TableRow{{Cells: []*document.TableCell{
			cellOf(style.NoTable, textPara(id, "a")),
			cellOf(style.NoTable, textPara(id, "a much longer cell that wraps over several lines")),
			cellOf(style.NoTable),
		}}},
	}
	flow := NewFlow(0, 180, 0)
	tl := e.layoutTable(flow, table)

	maxContent := 0.0
	for _, b := range tl.boxes {
		maxContent = max(maxContent, b.content)
	}
	for _, b := range tl.boxes {
		if b.h != maxContent {
			t.Fatalf("单元格高度 %g 应等于最大内容高度 %g", b.h, maxContent)
		}
	}
	if !almostEqual(flow.Y(), maxContent) {
		t.Fatalf("游标应恰好前进一个行高: %g != %g", flow.Y(), maxContent)
	}
	if tl.boxes[0].content >= maxContent {
		t.Fatalf("测试数据应让各单元格内容高度不同")
	}
}

// TestRowMinHeight 验证行的最小高度。
func TestRowMinHeight(t *testing.T) {
	sheet := style.NewSheet()
	e := newTestEngine(t, sheet)
	table := &document.Table{Grid: []float64{50}, Rows: []*document.TableRow{{MinHeight: 70, Cells: []*document.TableCell{cellOf(style.NoTable)}}}}
	flow := NewFlow(0, 100, 10)
	tl := e.layoutTable(flow, table)
	if flow.Y() != 80 || tl.boxes[0].h != 70 {
		t.Fatalf("最小行高未生效: y=%g h=%g", flow.Y(), tl.boxes[0].h)
	}
}

// TestColumnSpanAndJustification 验证跨列宽度与表格居中。
func TestColumnSpanAndJustification(t *testing.T) {
	sheet := style.NewSheet()
	tableStyle := sheet.AddTable(style.TableStyle{Kind: style.TableKindTable, Justification: style.Ptr(style.JustifyCenter)})
	span2 := sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, ColumnSpan: style.Ptr(2), Higher: tableStyle})
	e := newTestEngine(t, sheet)
	table := &document.Table{
		Style: tableStyle,
		Grid:  []float64{50, 60, 70},
		Rows:  []*document.TableRow{{Cells: []*document.TableCell{cellOf(span2), cellOf(style.NoTable)}}},
	}
	tl := e.layoutTable(NewFlow(0, 200, 0), table)
	if tl.x != 10 {
		t.Fatalf("居中表格起点期望 10，实际 %g", tl.x)
	}
	if b := tl.boxes[0]; b.x != 10 || b.w != 110 || b.span != 2 {
		t.Fatalf("跨列单元格几何不符: %+v", b)
	}
	if b := tl.boxes[1]; b.x != 120 || b.w != 70 || b.col != 2 {
		t.Fatalf("第二个单元格几何不符: %+v", b)
	}
}

// TestRowSpanHeights 验证纵向合并：First 单元格的高度覆盖到合并结束的行。
func TestRowSpanHeights(t *testing.T) {
	sheet := style.NewSheet()
	zeroMargins(sheet)
	id := sizedStyle(sheet, 10)
	first := sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, RowSpan: style.Ptr(style.RowSpanFirst)})
	last := sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, RowSpan: style.Ptr(style.RowSpanLast)})
	e := newTestEngine(t, sheet)
	table := &document.Table{
		Grid: []float64{50, 50},
		Rows: []*document.TableRow{
			{MinHeight: 30, Cells: []*document.TableCell{cellOf(first, textPara(id, "merged")), cellOf(style.NoTable, textPara(id, "r1"))}},
			{MinHeight: 25, Cells: []*document.TableCell{cellOf(last), cellOf(style.NoTable, textPara(id, "r2"))}},
		},
	}
	flow := NewFlow(0, 100, 0)
	tl := e.layoutTable(flow, table)
	if len(tl.boxes) != 3 {
		t.Fatalf("合并的后续单元格不应拥有自己的框，实际 %d 个", len(tl.boxes))
	}
	merged := tl.boxes[0]
	if merged.h != 55 || merged.lastRow != 1 {
		t.Fatalf("合并单元格应覆盖两行: %+v", merged)
	}
	if tl.grid[1][0] != merged {
		t.Fatalf("第二行第一列应由合并单元格覆盖")
	}
	if flow.Y() != 55 {
		t.Fatalf("表格高度期望 55，实际 %g", flow.Y())
	}
}

// TestRowSpanClosedByNewStart 验证没有 Last 的纵向合并在下一个 First 或 Only 出现时结束。
func TestRowSpanClosedByNewStart(t *testing.T) {
	sheet := style.NewSheet()
	zeroMargins(sheet)
	first := sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, RowSpan: style.Ptr(style.RowSpanFirst)})
	e := newTestEngine(t, sheet)
	row := func(id style.TableID) *document.TableRow {
		return &document.TableRow{MinHeight: 20, Cells: []*document.TableCell{cellOf(id)}}
	}
	table := &document.Table{
		Grid: []float64{50},
		Rows: []*document.TableRow{row(first), row(first), row(style.NoTable), row(style.NoTable)},
	}
	flow := NewFlow(0, 100, 0)
	tl := e.layoutTable(flow, table)
	if len(tl.boxes) != 4 {
		t.Fatalf("每行都应拥有自己的框，实际 %d 个", len(tl.boxes))
	}
	for i, b := range tl.boxes {
		if b.y != float64(i)*20 || b.h != 20 || b.lastRow != i {
			t.Fatalf("第 %d 个框应只占一行: y=%g h=%g lastRow=%d", i, b.y, b.h, b.lastRow)
		}
	}
	if flow.Y() != 80 {
		t.Fatalf("表格高度期望 80，实际 %g", flow.Y())
	}
}

// TestRowStyleWithoutCellChain 验证单元格没有样式时，行的边框与表格的内边距仍然生效。
func TestRowStyleWithoutCellChain(t *testing.T) {
	sheet := style.NewSheet()
	zeroMargins(sheet)
	tableStyle := sheet.AddTable(style.TableStyle{
		Kind:        style.TableKindTable,
		CellSpacing: style.Ptr(0.0),
		Margins:     style.MarginSet{Start: style.Ptr(6.0)},
	})
	rowStyle := sheet.AddTable(style.TableStyle{
		Kind:    style.TableKindRow,
		Borders: style.BorderSet{Top: &style.TableBorder{Type: style.BorderSingle, Size: 2}},
		Higher:  tableStyle,
	})
	id := sizedStyle(sheet, 10)
	e := newTestEngine(t, sheet)
	table := &document.Table{
		Style: tableStyle,
		Grid:  []float64{80},
		Rows:  []*document.TableRow{{Style: rowStyle, Cells: []*document.TableCell{cellOf(style.NoTable, textPara(id, "x"))}}},
	}
	e.layoutTable(NewFlow(0, 100, 0), table)

	tops := 0
	for _, l := range e.res.Lines {
		if l.Y1 == l.Y2 && l.Y1 <= 1 && l.Width == 2 {
			tops++
		}
	}
	if tops != 1 {
		t.Fatalf("行的上边框应绘制一次，实际 %d 条: %+v", tops, e.res.Lines)
	}
	if len(e.res.Texts) != 1 || e.res.Texts[0].X != 6 {
		t.Fatalf("单元格应使用表格的左内边距: %+v", e.res.Texts)
	}
}

// TestRowBorderSuppressesTableBorder: 单元格从行继承的上边框优先，表格外框不再绘制。
func TestRowBorderSuppressesTableBorder(t *testing.T) {
	sheet := style.NewSheet()
	tableStyle := sheet.AddTable(style.TableStyle{
		Kind:        style.TableKindTable,
		CellSpacing: style.Ptr(0.0),
		Borders:     style.BorderSet{Top: &style.TableBorder{Type: style.BorderDouble, Size: 6}},
	})
	rowStyle := sheet.AddTable(style.TableStyle{
		Kind:    style.TableKindRow,
		Borders: style.BorderSet{Top: &style.TableBorder{Type: style.BorderSingle, Size: 2}},
		Higher:  tableStyle,
	})
	cellStyle := sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, Higher: rowStyle})

	if b := sheet.TableView(cellStyle).OwnBorder(style.SideTop); b == nil || b.Type != style.BorderSingle || b.Size != 2 {
		t.Fatalf("单元格应继承行的上边框，实际 %+v", b)
	}

	e := newTestEngine(t, sheet)
	table := &document.Table{
		Style: tableStyle,
		Grid:  []float64{80},
		Rows:  []*document.TableRow{{Style: rowStyle, Cells: []*document.TableCell{cellOf(cellStyle)}}},
	}
	e.layoutTable(NewFlow(0, 100, 0), table)

	tops := 0
	for _, l := range e.res.Lines {
		if l.Y1 == l.Y2 && l.Y1 <= 1 {
			tops++
			if l.Width != 2 {
				t.Fatalf("上边应只绘制行的单线边框: %+v", l)
			}
		}
	}
	if tops != 1 {
		t.Fatalf("上边应恰好绘制一次，实际 %d 条", tops)
	}
}

// TestInteriorEdgesDrawnOnce 验证没有单元格间距时相邻单元格的共享边只画一次。
func TestInteriorEdgesDrawnOnce(t *testing.T) {
	sheet := style.NewSheet()
	single := &style.TableBorder{Type: style.BorderSingle, Size: 1}
	tableStyle := sheet.AddTable(style.TableStyle{Borders: style.BorderSet{
		Start: single, End: single, Top: single, Bottom: single, InsideH: single, InsideV: single,
	}})
	e := newTestEngine(t, sheet)
	row := func() *document.TableRow {
		return &document.TableRow{MinHeight: 10, Cells: []*document.TableCell{cellOf(style.NoTable), cellOf(style.NoTable)}}
	}
	table := &document.Table{Style: tableStyle, Grid: []float64{40, 40}, Rows: []*document.TableRow{row(), row()}}
	e.layoutTable(NewFlow(0, 100, 0), table)
	// 2x2 网格：3 条横线 × 2 段 + 3 条竖线 × 2 段。
	if n := len(e.res.Lines); n != 12 {
		t.Fatalf("期望 12 条线段，实际 %d", n)
	}
}

// TestCellSpacingDrawsTableFrame 验证有单元格间距时单元格独立成框，表格外框单独绘制。
func TestCellSpacingDrawsTableFrame(t *testing.T) {
	sheet := style.NewSheet()
	frame := &style.TableBorder{Type: style.BorderSingle, Size: 1}
	tableStyle := sheet.AddTable(style.TableStyle{
		CellSpacing: style.Ptr(2.0),
		Borders:     style.BorderSet{Start: frame, End: frame, Top: frame, Bottom: frame},
	})
	e := newTestEngine(t, sheet)
	table := &document.Table{Style: tableStyle, Grid: []float64{40, 40}, Rows: []*document.TableRow{{
		MinHeight: 20, Cells: []*document.TableCell{cellOf(style.NoTable), cellOf(style.NoTable)},
	}}}
	tl := e.layoutTable(NewFlow(0, 100, 0), table)
	if n := len(e.res.Lines); n != 4 {
		t.Fatalf("只有表格外框可见，期望 4 条线段，实际 %d", n)
	}
	if b := tl.boxes[1]; b.x != 42 || b.w != 36 || b.y != 2 || b.h != 16 {
		t.Fatalf("单元格应按间距内缩: %+v", b)
	}
}

// TestNumberingInsideCellIsMergedBack 验证单元格内推进的编号对表格之后的段落可见。
func TestNumberingInsideCellIsMergedBack(t *testing.T) {
	sheet, lvl0, _ := numberedSheet(t)
	table := &document.Table{Grid: []float64{150}, Rows: []*document.TableRow{{Cells: []*document.TableCell{
		cellOf(style.NoTable, document.NewParagraph(lvl0, document.Text(style.NoID, "in cell"))),
	}}}}
	res := build(t, sheet, table, document.NewParagraph(lvl0, document.Text(style.NoID, "after")))
	var prefixes []string
	for _, l := range res.Texts {
		if l.Text == "1. " || l.Text == "2. " {
			prefixes = append(prefixes, l.Text)
		}
	}
	if len(prefixes) != 2 || prefixes[1] != "2. " {
		t.Fatalf("表格之后应继续编号，实际 %q", prefixes)
	}
}

// TestCellShading 验证单元格底纹沿 cell→row→table 链继承。
func TestCellShading(t *testing.T) {
	sheet := style.NewSheet()
	tableStyle := sheet.AddTable(style.TableStyle{Shading: style.Ptr("EEEEEE")})
	e := newTestEngine(t, sheet)
	table := &document.Table{Style: tableStyle, Grid: []float64{30}, Rows: []*document.TableRow{{
		MinHeight: 10, Cells: []*document.TableCell{cellOf(sheet.AddTable(style.TableStyle{Kind: style.TableKindCell, Higher: tableStyle}))},
	}}}
	e.layoutTable(NewFlow(0, 100, 0), table)
	if len(e.res.Rects) != 1 || e.res.Rects[0].Fill != (Color{R: 0xEE, G: 0xEE, B: 0xEE}) || e.res.Rects[0].Height != 10 {
		t.Fatalf("底纹矩形不符: %+v", e.res.Rects)
	}
}
