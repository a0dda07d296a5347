package style

// TableView 提供表格样式的属性读取，每个 getter 在返回硬编码默认值之前都会沿 Higher 链回退。
type TableView struct {
	sheet *Sheet
	id    TableID
	// fallback 为 id 的链没有覆盖时依次查找的起点（行、表格）。
	fallback []TableID
}

// TableView 返回句柄 id 的视图；无效句柄的视图总是返回默认值。
func (s *Sheet) TableView(id TableID) TableView { return TableView{sheet: s, id: id} }

// CellView 返回单元格的视图：先走单元格自身的 Higher 链，
// 链上没有出现的行样式与表格样式随后依次查找。
func (s *Sheet) CellView(cell, row, table TableID) TableView {
	return TableView{sheet: s, id: cell, fallback: []TableID{row, table}}
}

// ID 返回视图对应的句柄。
func (v TableView) ID() TableID { return v.id }

// Chain 返回查找的全部起点，第一个为视图自身的句柄。
func (v TableView) Chain() []TableID {
	return append([]TableID{v.id}, v.fallback...)
}

// walkTable 沿各起点的 Higher 链查找第一个非 nil 的投影值，已访问的样式不再重复。
// skipTable 为 true 时忽略表格层级的样式。
func walkTable[T any](v TableView, get func(*TableStyle) *T, skipTable bool) (T, bool) {
	var zero T
	seen := map[TableID]bool{}
	for _, start := range v.Chain() {
		for id := start; id != NoTable && !seen[id]; {
			seen[id] = true
			ts, ok := v.sheet.Table(id)
			if !ok {
				break
			}
			if !(skipTable && ts.Kind == TableKindTable) {
				if p := get(ts); p != nil {
					return *p, true
				}
			}
			id = ts.Higher
		}
	}
	return zero, false
}

func tableValue[T any](v TableView, get func(*TableStyle) *T, def T) T {
	if r, ok := walkTable(v, get, false); ok {
		return r
	}
	return def
}

// Kind 返回视图自身的层级；无效句柄视为表格层级。
func (v TableView) Kind() TableKind {
	if ts, ok := v.sheet.Table(v.id); ok {
		return ts.Kind
	}
	return TableKindTable
}

// Justification 返回表格在文本带中的水平对齐。
func (v TableView) Justification() Justification {
	return tableValue(v, func(t *TableStyle) *Justification { return t.Justification }, JustifyLeft)
}

// Indentation 返回表格左缩进（px）。
func (v TableView) Indentation() float64 {
	return tableValue(v, func(t *TableStyle) *float64 { return t.Indentation }, 0)
}

// Border 返回沿整条链解析的边框，全部未设置时为 nil。
func (v TableView) Border(side Side) *TableBorder {
	return tableValue(v, func(t *TableStyle) **TableBorder { return borderRef(t, side) }, (*TableBorder)(nil))
}

// OwnBorder 只在单元格与行层级中查找边框，不回退到表格层级。
func (v TableView) OwnBorder(side Side) *TableBorder {
	b, _ := walkTable(v, func(t *TableStyle) **TableBorder { return borderRef(t, side) }, true)
	return b
}

func borderRef(t *TableStyle, side Side) **TableBorder {
	if t.Borders.Get(side) == nil {
		return nil
	}
	switch side {
	case SideStart:
		return &t.Borders.Start
	case SideEnd:
		return &t.Borders.End
	case SideTop:
		return &t.Borders.Top
	case SideBottom:
		return &t.Borders.Bottom
	case SideInsideH:
		return &t.Borders.InsideH
	default:
		return &t.Borders.InsideV
	}
}

// Margin 返回单元格内边距（px）。
func (v TableView) Margin(side Side) float64 {
	def := 0.0
	if v.sheet != nil {
		def = v.sheet.Defaults.CellMarginVert
		if side == SideStart || side == SideEnd {
			def = v.sheet.Defaults.CellMarginSide
		}
	}
	return tableValue(v, func(t *TableStyle) *float64 { return t.Margins.Get(side) }, def)
}

// CellSpacing 返回单元格间距（px）。
func (v TableView) CellSpacing() float64 {
	return tableValue(v, func(t *TableStyle) *float64 { return t.CellSpacing }, 0)
}

// ColumnSpan 返回横向跨越的列数，至少为 1。
func (v TableView) ColumnSpan() int {
	n := tableValue(v, func(t *TableStyle) *int { return t.ColumnSpan }, 1)
	if n < 1 {
		return 1
	}
	return n
}

// RowSpan 返回纵向合并状态。
func (v TableView) RowSpan() RowSpan {
	return tableValue(v, func(t *TableStyle) *RowSpan { return t.RowSpan }, RowSpanOnly)
}

// Shading 返回底纹颜色，未设置时为空串。
func (v TableView) Shading() string {
	return tableValue(v, func(t *TableStyle) *string { return t.Shading }, "")
}

// CellWidth 返回首选单元格宽度（px），0 表示由网格决定。
func (v TableView) CellWidth() float64 {
	return tableValue(v, func(t *TableStyle) *float64 { return t.CellWidth }, 0)
}
