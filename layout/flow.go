package layout

import (
	"math"
	"slices"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

// Flow 是贯穿整个文档遍历的可变排版游标：水平文本带、纵向位置、
// 制表位列表、编号计数器以及上一段落/上一字符的锚点。
//
// Flow 不是并发安全的；同一时刻只有一段布局逻辑持有它。
type Flow struct {
	xMin, xMax float64
	y, maxY    float64

	// 创建时的边界，用于页面/页边距类定位基准。
	marginLeft, marginRight float64
	marginTop, marginBottom float64

	tabs     []style.TabStop
	counters map[numberingKey]int

	lastParagraphY float64
	lastCharX      float64
}

type numberingKey struct {
	numID string
	level int
}

// NewFlow 创建一个文本带为 [xMin, xMax]、起始于 y 的游标。
func NewFlow(xMin, xMax, y float64) *Flow {
	return &Flow{
		xMin: xMin, xMax: xMax,
		y: y, maxY: y,
		marginLeft: xMin, marginRight: xMax,
		marginTop: y, marginBottom: math.Inf(1),
		counters:       map[numberingKey]int{},
		lastParagraphY: y,
		lastCharX:      xMin,
	}
}

// NewPageFlow 以节的页边距创建游标。
func NewPageFlow(sec document.Section) *Flow {
	f := NewFlow(sec.Margin.Left, sec.Width-sec.Margin.Right, sec.Margin.Top)
	if sec.Height > 0 {
		f.marginBottom = sec.Height - sec.Margin.Bottom
	}
	return f
}

// Advance 纵向移动游标。
func (f *Flow) Advance(delta float64) {
	f.y += delta
	if f.y > f.maxY {
		f.maxY = f.y
	}
}

// AdvanceX 收窄文本带：起始边右移 startDelta，结束边左移 endDelta。
func (f *Flow) AdvanceX(startDelta, endDelta float64) {
	f.xMin += startDelta
	f.xMax -= endDelta
	if f.xMax < f.xMin {
		f.xMax = f.xMin
	}
}

// SetBand 直接设置文本带。
func (f *Flow) SetBand(xMin, xMax float64) {
	f.xMin, f.xMax = xMin, math.Max(xMin, xMax)
}

// SetY 将游标移动到 y，MaxY 只增不减。
func (f *Flow) SetY(y float64) {
	f.y = y
	if y > f.maxY {
		f.maxY = y
	}
}

func (f *Flow) XMin() float64  { return f.xMin }
func (f *Flow) XMax() float64  { return f.xMax }
func (f *Flow) Width() float64 { return f.xMax - f.xMin }
func (f *Flow) Y() float64     { return f.y }

// MaxY 返回游标到达过的最大纵向位置。
func (f *Flow) MaxY() float64 { return f.maxY }

// SetLastParagraphY 记录当前段落起始位置。
func (f *Flow) SetLastParagraphY(y float64) { f.lastParagraphY = y }

// SetLastCharX 记录最近一个字符的结束位置。
func (f *Flow) SetLastCharX(x float64) { f.lastCharX = x }

// ReferenceX 返回定位基准的横坐标。
func (f *Flow) ReferenceX(ref document.Reference) float64 {
	switch ref {
	case document.RefCharacter:
		return f.lastCharX
	case document.RefPage:
		return 0
	case document.RefMargin, document.RefLeftMargin, document.RefTopMargin, document.RefBottomMargin:
		return f.marginLeft
	case document.RefRightMargin:
		return f.marginRight
	default:
		return f.xMin
	}
}

// ReferenceY 返回定位基准的纵坐标。
func (f *Flow) ReferenceY(ref document.Reference) float64 {
	switch ref {
	case document.RefParagraph:
		return f.lastParagraphY
	case document.RefPage:
		return 0
	case document.RefMargin, document.RefTopMargin, document.RefColumn:
		return f.marginTop
	case document.RefBottomMargin:
		if math.IsInf(f.marginBottom, 1) {
			return f.maxY
		}
		return f.marginBottom
	default:
		return f.y
	}
}

// Numbering 返回 (numID, level) 下一个要显示的计数；从未推进过时为 1。
func (f *Flow) Numbering(numID string, level int) int {
	if n, ok := f.counters[numberingKey{numID, level}]; ok {
		return n
	}
	return 1
}

// AdvanceNumbering 推进计数，同时让同一编号下更深的级别重新开始。
func (f *Flow) AdvanceNumbering(numID string, level int) {
	key := numberingKey{numID, level}
	f.counters[key] = f.Numbering(numID, level) + 1
	for k := range f.counters {
		if k.numID == numID && k.level > level {
			delete(f.counters, k)
		}
	}
}

// AddTabStop 按位置有序插入制表位。
func (f *Flow) AddTabStop(ts style.TabStop) {
	i, _ := slices.BinarySearchFunc(f.tabs, ts.Position, func(a style.TabStop, pos float64) int {
		switch {
		case a.Position < pos:
			return -1
		case a.Position > pos:
			return 1
		}
		return 0
	})
	f.tabs = slices.Insert(f.tabs, i, ts)
}

// RemoveTabStop 删除第一个与 ts 相同的制表位。
func (f *Flow) RemoveTabStop(ts style.TabStop) bool {
	i := slices.Index(f.tabs, ts)
	if i < 0 {
		return false
	}
	f.tabs = slices.Delete(f.tabs, i, i+1)
	return true
}

// Tab 返回第 i 个制表位。
func (f *Flow) Tab(i int) (style.TabStop, bool) {
	if i < 0 || i >= len(f.tabs) {
		return style.TabStop{}, false
	}
	return f.tabs[i], true
}

// Tabs 返回制表位列表的副本。
func (f *Flow) Tabs() []style.TabStop { return slices.Clone(f.tabs) }

// Clone 创建一个共享当前文本带与位置、此后独立前进的子游标。
// 制表位与计数器被复制，之后需要通过 CopyObstaclesFrom 合并回父游标。
func (f *Flow) Clone() *Flow {
	c := *f
	c.maxY = f.y
	c.tabs = slices.Clone(f.tabs)
	c.counters = make(map[numberingKey]int, len(f.counters))
	for k, v := range f.counters {
		c.counters[k] = v
	}
	return &c
}

// CopyObstaclesFrom 将子游标的制表位与编号计数合并回 f。位置不受影响。
func (f *Flow) CopyObstaclesFrom(child *Flow) {
	if child == nil || child == f {
		return
	}
	f.tabs = slices.Clone(child.tabs)
	f.counters = make(map[numberingKey]int, len(child.counters))
	for k, v := range child.counters {
		f.counters[k] = v
	}
}
