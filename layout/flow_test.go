package layout

import (
	"testing"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/style"
)

// TestNumberingCounters 验证计数器的默认值与推进规则。
func TestNumberingCounters(t *testing.T) {
	f := NewFlow(0, 100, 0)
	f.AdvanceNumbering("1", 0)
	f.AdvanceNumbering("1", 0)
	if got := f.Numbering("1", 0); got != 3 {
		t.Fatalf("推进两次后期望 3，实际 %d", got)
	}
	if got := f.Numbering("2", 0); got != 1 {
		t.Fatalf("从未推进的编号期望 1，实际 %d", got)
	}
}

// TestNumberingRestartsDeeperLevels 验证推进上级时同一编号下的更深级别重新开始。
func TestNumberingRestartsDeeperLevels(t *testing.T) {
	f := NewFlow(0, 100, 0)
	f.AdvanceNumbering("1", 1)
	f.AdvanceNumbering("1", 1)
	f.AdvanceNumbering("7", 1)
	f.AdvanceNumbering("1", 0)
	if got := f.Numbering("1", 1); got != 1 {
		t.Fatalf("上级推进后下级应重新开始，实际 %d", got)
	}
	if got := f.Numbering("7", 1); got != 2 {
		t.Fatalf("其他编号不应受影响，实际 %d", got)
	}
}

// TestCloneIsIndependent 验证克隆的游标独立前进，合并时只带回制表位与计数。
func TestCloneIsIndependent(t *testing.T) {
	parent := NewFlow(10, 110, 50)
	parent.AddTabStop(style.TabStop{Position: 40})
	child := parent.Clone()

	child.Advance(30)
	child.AdvanceNumbering("n", 0)
	child.AddTabStop(style.TabStop{Position: 20})
	if parent.Y() != 50 || parent.MaxY() != 50 {
		t.Fatalf("父游标位置不应变化: y=%g maxY=%g", parent.Y(), parent.MaxY())
	}
	if parent.Numbering("n", 0) != 1 || len(parent.Tabs()) != 1 {
		t.Fatalf("合并前父游标不应看到子游标的计数与制表位")
	}
	if child.MaxY() != 80 {
		t.Fatalf("子游标 MaxY 期望 80，实际 %g", child.MaxY())
	}

	parent.CopyObstaclesFrom(child)
	if parent.Numbering("n", 0) != 2 {
		t.Fatalf("合并后计数应可见")
	}
	tabs := parent.Tabs()
	if len(tabs) != 2 || tabs[0].Position != 20 || tabs[1].Position != 40 {
		t.Fatalf("制表位应按位置排序合并，实际 %+v", tabs)
	}
	if parent.Y() != 50 {
		t.Fatalf("合并不应改变位置")
	}

	child.AdvanceNumbering("n", 0)
	if parent.Numbering("n", 0) != 2 {
		t.Fatalf("合并后的计数不应与子游标共享存储")
	}
}

// TestTabStops 验证制表位的增删与下标访问。
func TestTabStops(t *testing.T) {
	f := NewFlow(0, 100, 0)
	a := style.TabStop{Position: 60, Alignment: style.TabRight}
	b := style.TabStop{Position: 30}
	f.AddTabStop(a)
	f.AddTabStop(b)
	if ts, ok := f.Tab(0); !ok || ts != b {
		t.Fatalf("Tab(0) 应为位置最小的制表位，实际 %+v", ts)
	}
	if _, ok := f.Tab(2); ok {
		t.Fatalf("越界下标应返回 false")
	}
	if !f.RemoveTabStop(b) || f.RemoveTabStop(b) {
		t.Fatalf("制表位只能删除一次")
	}
	if ts, _ := f.Tab(0); ts != a {
		t.Fatalf("删除后 Tab(0) 应为 %+v，实际 %+v", a, ts)
	}
}

// TestReferencePositions 验证各定位基准的取值。
func TestReferencePositions(t *testing.T) {
	f := NewPageFlow(document.Section{Width: 200, Height: 300, Margin: document.Margin{Top: 20, Right: 10, Bottom: 30, Left: 15}})
	f.Advance(40)
	f.SetLastParagraphY(45)
	f.SetLastCharX(70)
	f.AdvanceX(5, 5)

	xs := map[document.Reference]float64{
		document.RefCharacter:   70,
		document.RefColumn:      20,
		document.RefPage:        0,
		document.RefMargin:      15,
		document.RefRightMargin: 190,
	}
	for ref, want := range xs {
		if got := f.ReferenceX(ref); got != want {
			t.Fatalf("ReferenceX(%s) 期望 %g，实际 %g", ref, want, got)
		}
	}
	ys := map[document.Reference]float64{
		document.RefParagraph:    45,
		document.RefLine:         60,
		document.RefPage:         0,
		document.RefTopMargin:    20,
		document.RefBottomMargin: 270,
	}
	for ref, want := range ys {
		if got := f.ReferenceY(ref); got != want {
			t.Fatalf("ReferenceY(%s) 期望 %g，实际 %g", ref, want, got)
		}
	}
}

// TestAdvanceXNeverInverts 验证收窄不会让文本带反转。
func TestAdvanceXNeverInverts(t *testing.T) {
	f := NewFlow(0, 100, 0)
	f.AdvanceX(80, 40)
	if f.Width() != 0 || f.XMin() != 80 {
		t.Fatalf("文本带应收缩为 0 宽: [%g, %g]", f.XMin(), f.XMax())
	}
}
