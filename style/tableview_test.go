package style

import "testing"

// TestTableViewChain 验证 cell→row→table 链上的回退与默认值。
func TestTableViewChain(t *testing.T) {
	s := NewSheet()
	table := s.AddTable(TableStyle{
		Kind:        TableKindTable,
		CellSpacing: Ptr(3.0),
		Margins:     MarginSet{Top: Ptr(4.0)},
		Borders:     BorderSet{Top: &TableBorder{Type: BorderDouble, Size: 6}},
	})
	row := s.AddTable(TableStyle{Kind: TableKindRow, Higher: table, Shading: Ptr("CCCCCC")})
	cell := s.AddTable(TableStyle{Kind: TableKindCell, Higher: row, ColumnSpan: Ptr(0)})

	v := s.TableView(cell)
	if v.Kind() != TableKindCell || v.ID() != cell {
		t.Fatalf("视图层级不符")
	}
	if v.CellSpacing() != 3 || v.Margin(SideTop) != 4 || v.Shading() != "CCCCCC" {
		t.Fatalf("应沿链继承间距、内边距与底纹")
	}
	if v.Margin(SideStart) != s.Defaults.CellMarginSide {
		t.Fatalf("左右内边距应回退到默认值")
	}
	if v.ColumnSpan() != 1 || v.RowSpan() != RowSpanOnly {
		t.Fatalf("跨列至少为 1，合并默认为 Only")
	}
	if b := v.Border(SideTop); b == nil || b.Type != BorderDouble {
		t.Fatalf("Border 应回退到表格层级，实际 %+v", b)
	}
	if v.OwnBorder(SideTop) != nil {
		t.Fatalf("OwnBorder 不应看到表格层级的边框")
	}

	rs, _ := s.Table(row)
	rs.Borders.Bottom = &TableBorder{Type: BorderSingle, Size: 1}
	if b := v.OwnBorder(SideBottom); b == nil || b.Type != BorderSingle {
		t.Fatalf("行层级的边框应视为单元格自身的边框")
	}
}

// TestCellViewFallback 验证单元格链没有经过行与表格时，CellView 仍依次回退到它们。
func TestCellViewFallback(t *testing.T) {
	s := NewSheet()
	table := s.AddTable(TableStyle{Kind: TableKindTable, Shading: Ptr("EEEEEE"), Margins: MarginSet{Start: Ptr(7.0)}})
	row := s.AddTable(TableStyle{
		Kind:    TableKindRow,
		Higher:  table,
		Borders: BorderSet{Top: &TableBorder{Type: BorderSingle, Size: 2}},
		Margins: MarginSet{Start: Ptr(3.0)},
	})
	cell := s.AddTable(TableStyle{Kind: TableKindCell, ColumnSpan: Ptr(2)})

	v := s.CellView(NoTable, row, table)
	if b := v.OwnBorder(SideTop); b == nil || b.Type != BorderSingle || b.Size != 2 {
		t.Fatalf("没有单元格样式时应使用行的上边框，实际 %+v", b)
	}
	if v.Margin(SideStart) != 3 || v.Shading() != "EEEEEE" {
		t.Fatalf("应先回退到行再回退到表格: margin=%g shading=%q", v.Margin(SideStart), v.Shading())
	}

	v = s.CellView(cell, row, table)
	if v.ColumnSpan() != 2 || v.OwnBorder(SideTop) == nil {
		t.Fatalf("单元格自身的属性优先，链外的行样式仍被查找")
	}
	if got := v.Chain(); len(got) != 3 || got[0] != cell || got[1] != row || got[2] != table {
		t.Fatalf("查找起点顺序不符: %v", got)
	}

	// 已经链到行的单元格不会重复访问行与表格
	chained := s.AddTable(TableStyle{Kind: TableKindCell, Higher: row})
	if s.CellView(chained, row, table).Margin(SideStart) != 3 {
		t.Fatalf("链上的行样式应生效")
	}
}

func TestTableViewInvalid(t *testing.T) {
	s := NewSheet()
	v := s.TableView(TableID(77))
	if v.Kind() != TableKindTable || v.Justification() != JustifyLeft || v.Border(SideEnd) != nil {
		t.Fatalf("无效句柄应返回默认值")
	}

	a := s.AddTable(TableStyle{Kind: TableKindCell})
	b := s.AddTable(TableStyle{Kind: TableKindRow, Higher: a})
	as, _ := s.Table(a)
	as.Higher = b
	if s.TableView(a).CellWidth() != 0 {
		t.Fatalf("Higher 环应回退到默认值")
	}
}
