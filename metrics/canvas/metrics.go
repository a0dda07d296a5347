package canvasmetrics

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
)

// averageSample 用于估算平均字符宽度。
const averageSample = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "

// Metrics 基于 github.com/tdewolff/canvas 的字体面实现 layout.Metrics。
// canvas 以 pt 接收字号、以 mm 返回度量，这里在边界处与 px 互相换算。
type Metrics struct {
	log *zap.Logger

	mu       sync.Mutex
	families map[fonts.Family]*familyEntry
	averages map[faceKey]float64
}

type familyEntry struct {
	family *canvas.FontFamily
	loaded map[canvas.FontStyle]bool
}

type faceKey struct {
	family fonts.Family
	style  canvas.FontStyle
	size   float64
}

var _ layout.Metrics = (*Metrics)(nil)

// New 创建度量提供者，log 为 nil 时不输出诊断。
func New(log *zap.Logger) *Metrics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Metrics{
		log:      log.Named("metrics"),
		families: map[fonts.Family]*familyEntry{},
		averages: map[faceKey]float64{},
	}
}

func fontStyle(f layout.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if f.Bold {
		style = canvas.FontBold
	}
	if f.Italic {
		style |= canvas.FontItalic
	}
	return style
}

func toPx(mm float64) float64 { return mm * layout.PxPerMm }

// face 返回字体对应的 canvas 字体面，字族与字形在首次使用时加载。调用方需持有 mu。
func (m *Metrics) face(f layout.Font) (*canvas.FontFace, faceKey, error) {
	key := faceKey{family: fonts.FamilyOf(f.Family), style: fontStyle(f), size: f.Size}
	entry, ok := m.families[key.family]
	if !ok {
		entry = &familyEntry{family: canvas.NewFontFamily(key.family.String()), loaded: map[canvas.FontStyle]bool{}}
		m.families[key.family] = entry
	}
	if !entry.loaded[key.style] {
		data := fonts.Load(f.Family, f.Bold, f.Italic)
		if err := entry.family.LoadFont(data, 0, key.style); err != nil {
			return nil, key, fmt.Errorf("加载字体 %s 失败: %w", key.family, err)
		}
		entry.loaded[key.style] = true
		m.log.Debug("Font loaded", zap.Stringer("family", key.family), zap.String("requested", f.Family),
			zap.Bool("bold", f.Bold), zap.Bool("italic", f.Italic))
	}
	sizePt := f.Size / layout.PxPerPt
	return entry.family.Face(sizePt, canvas.Black, key.style, canvas.FontNormal), key, nil
}

// measure 在锁内取得字体面并执行 fn；字体无法加载时记录诊断并返回 fallback。
func (m *Metrics) measure(f layout.Font, fallback float64, fn func(*canvas.FontFace, faceKey) float64) float64 {
	if f.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, key, err := m.face(f)
	if err != nil {
		m.log.Warn("Falling back to estimated metrics", zap.Error(err))
		return fallback
	}
	return fn(face, key)
}

func stretch(f layout.Font) float64 {
	if f.Stretch <= 0 {
		return 1
	}
	return f.Stretch / 100
}

// TextWidth 返回文本宽度（px），字符间距逐字符追加，横向缩放按百分比作用于字形宽度。
func (m *Metrics) TextWidth(text string, f layout.Font) float64 {
	n := float64(utf8.RuneCountInString(text))
	return m.measure(f, n*f.Size*0.5, func(face *canvas.FontFace, _ faceKey) float64 {
		return toPx(face.TextWidth(text))*stretch(f) + n*f.Spacing
	})
}

// AverageCharWidth 返回样本字符串的平均字符宽度（px），按字体面缓存。
func (m *Metrics) AverageCharWidth(f layout.Font) float64 {
	return m.measure(f, f.Size*0.5, func(face *canvas.FontFace, key faceKey) float64 {
		avg, ok := m.averages[key]
		if !ok {
			avg = toPx(face.TextWidth(averageSample)) / float64(utf8.RuneCountInString(averageSample))
			m.averages[key] = avg
		}
		return avg*stretch(f) + f.Spacing
	})
}

// TopToBaseline 返回行顶到基线的距离（px）：上行高度加半个行间距。
func (m *Metrics) TopToBaseline(f layout.Font) float64 {
	return m.measure(f, f.Size*0.8, func(face *canvas.FontFace, _ faceKey) float64 {
		fm := face.Metrics()
		return toPx(fm.Ascent + fm.LineGap/2)
	})
}

// BaselineToBottom 返回基线到行底的距离（px）。
func (m *Metrics) BaselineToBottom(f layout.Font) float64 {
	return m.measure(f, f.Size*0.2, func(face *canvas.FontFace, _ faceKey) float64 {
		fm := face.Metrics()
		return toPx(math.Abs(fm.Descent) + fm.LineGap/2)
	})
}

// FitCharacters 返回宽度 width 内按平均字符宽度估算能容纳的字符数。
func (m *Metrics) FitCharacters(width float64, f layout.Font) int {
	avg := m.AverageCharWidth(f)
	if avg <= 0 || width <= 0 {
		return 0
	}
	return int(math.Floor(width/avg + 1e-9))
}
