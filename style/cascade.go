package style

// 级联解析：对单个属性按固定优先级在多个样式来源中查找，遇到第一个已定义的值即停止。
//
//  1. 本地 RunStyle
//  2. RunStyle.BasedOn 链（只看 RunStyle）
//  3. 本地 ParStyle
//  4. ParStyle 绑定的编号级别样式（完整级联）
//  5. ParStyle.BasedOn（完整级联）
//  6. 所属 TableStyle 链（cell→row→table）
//  7. Style.BasedOn（完整级联）
//  8. 内建默认值
//
// 遍历使用显式栈与已访问集合，缺失的句柄直接跳过，因此环与断链都不会导致崩溃。

// Selector 为同一属性在三种样式类型上的投影；投影返回 nil 表示该层未定义。
// Table 为 nil 时，表格层使用 Run/Par 投影作用于表格样式的条件格式。
type Selector[T any] struct {
	Run   func(*RunStyle) *T
	Par   func(*ParStyle) *T
	Table func(*TableStyle) *T
}

// Resolver 在 Sheet 上解析属性，可携带表格上下文。
type Resolver struct {
	sheet    *Sheet
	table    TableID
	fallback []TableID
}

// Resolver 返回不带表格上下文的解析器。
func (s *Sheet) Resolver() Resolver { return Resolver{sheet: s} }

// InTable 返回以 t 作为所属表格样式的解析器（用于单元格内部的段落）。
func (r Resolver) InTable(t TableID) Resolver {
	r.table = t
	r.fallback = nil
	return r
}

// InCell 返回以单元格视图作为表格上下文的解析器：单元格链之后依次查找行与表格样式。
func (r Resolver) InCell(v TableView) Resolver {
	r.table = v.id
	r.fallback = v.fallback
	return r
}

// Sheet 返回解析器所依附的样式仓库。
func (r Resolver) Sheet() *Sheet { return r.sheet }

// TableContext 返回当前的表格上下文。
func (r Resolver) TableContext() TableID { return r.table }

type stepKind int

const (
	stepStyle stepKind = iota
	stepRun
	stepPar
	stepTable
)

type step struct {
	kind  stepKind
	id    ID
	table TableID
	// context 为 true 时 table 来自解析器的表格上下文，需要连同回退起点一起查找。
	context bool
}

// Resolve 返回属性的级联值，全部落空时返回 def。
func Resolve[T any](r Resolver, id ID, sel Selector[T], def T) T {
	if v, ok := Lookup(r, id, sel); ok {
		return v
	}
	return def
}

// Lookup 与 Resolve 相同，但以 ok 报告是否找到了定义。
func Lookup[T any](r Resolver, id ID, sel Selector[T]) (T, bool) {
	var zero T
	if r.sheet == nil {
		return zero, false
	}

	var (
		stack      = []step{{kind: stepStyle, id: id}}
		seenStyle  = map[ID]bool{}
		seenRun    = map[ID]bool{}
		seenTables = map[TableID]bool{}
		root       = true
	)
	push := func(s step) { stack = append(stack, s) }

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur.kind {
		case stepRun:
			if seenRun[cur.id] {
				continue
			}
			seenRun[cur.id] = true
			st, ok := r.sheet.Style(cur.id)
			if !ok {
				continue
			}
			if sel.Run != nil {
				if v := sel.Run(&st.Run); v != nil {
					return *v, true
				}
			}
			if st.Run.BasedOn != NoID {
				push(step{kind: stepRun, id: st.Run.BasedOn})
			}

		case stepPar:
			st, ok := r.sheet.Style(cur.id)
			if !ok || sel.Par == nil {
				continue
			}
			if v := sel.Par(&st.Par); v != nil {
				return *v, true
			}

		case stepTable:
			tables := []TableID{cur.table}
			if cur.context {
				tables = append(tables, r.fallback...)
			}
			for _, t := range tables {
				if v, ok := lookupTable(r.sheet, t, sel, seenTables); ok {
					return v, true
				}
			}

		case stepStyle:
			isRoot := root
			root = false
			if seenStyle[cur.id] {
				continue
			}
			seenStyle[cur.id] = true
			st, ok := r.sheet.Style(cur.id)
			if !ok {
				continue
			}

			// 逆序入栈，出栈顺序即优先级顺序。
			if st.BasedOn != NoID {
				push(step{kind: stepStyle, id: st.BasedOn})
			}
			if st.Table != NoTable {
				push(step{kind: stepTable, table: st.Table})
			} else if isRoot && (r.table != NoTable || len(r.fallback) > 0) {
				push(step{kind: stepTable, table: r.table, context: true})
			}
			if st.Par.BasedOn != NoID {
				push(step{kind: stepStyle, id: st.Par.BasedOn})
			}
			if n := st.Par.Numbering; n != nil && n.Level != nil && n.Level.Style != NoID {
				push(step{kind: stepStyle, id: n.Level.Style})
			}
			push(step{kind: stepPar, id: cur.id})
			push(step{kind: stepRun, id: cur.id})
		}
	}
	return zero, false
}

func lookupTable[T any](sheet *Sheet, id TableID, sel Selector[T], seen map[TableID]bool) (T, bool) {
	var zero T
	for id != NoTable && !seen[id] {
		seen[id] = true
		ts, ok := sheet.Table(id)
		if !ok {
			break
		}
		if sel.Table != nil {
			if v := sel.Table(ts); v != nil {
				return *v, true
			}
		} else {
			if sel.Run != nil {
				if v := sel.Run(&ts.Run); v != nil {
					return *v, true
				}
			}
			if sel.Par != nil {
				if v := sel.Par(&ts.Par); v != nil {
					return *v, true
				}
			}
		}
		id = ts.Higher
	}
	return zero, false
}
