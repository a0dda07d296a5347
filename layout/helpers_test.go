package layout

import (
	"math"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/folio/style"
)

// stubMetrics 是一个等宽度量：平均字符宽度为字号的一半，基线位于 0.8 倍字号处。
type stubMetrics struct{}

func (stubMetrics) AverageCharWidth(f Font) float64 { return f.Size * 0.5 }
func (stubMetrics) TopToBaseline(f Font) float64    { return f.Size * 0.8 }
func (stubMetrics) BaselineToBottom(f Font) float64 { return f.Size * 0.2 }

func (m stubMetrics) FitCharacters(width float64, f Font) int {
	avg := m.AverageCharWidth(f)
	if avg <= 0 {
		return 0
	}
	return int(math.Floor(width/avg + 1e-9))
}

func (m stubMetrics) TextWidth(text string, f Font) float64 {
	return float64(utf8.RuneCountInString(text)) * m.AverageCharWidth(f)
}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func testOptions(t *testing.T) BuildOptions {
	return BuildOptions{Metrics: stubMetrics{}, Logger: testLogger(t)}
}

// newTestEngine 创建一个直接调用内部排版函数的 engine。
func newTestEngine(t *testing.T, sheet *style.Sheet) *engine {
	t.Helper()
	e := newEngine(sheet, testOptions(t))
	e.res = &Result{engine: e}
	return e
}

// sizedStyle 登记一个字号为 size 的样式。
func sizedStyle(sheet *style.Sheet, size float64, modify ...func(*style.Style)) style.ID {
	st := style.Style{Run: style.RunStyle{FontSize: style.Ptr(size)}}
	for _, m := range modify {
		m(&st)
	}
	return sheet.Add(st)
}

func onlyRun(r style.Resolver, id style.ID) runContext {
	return runContext{resolver: r, id: id, inParagraph: style.Only}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
