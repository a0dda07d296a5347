package layout

import "go.uber.org/zap"

// DefaultGrace 为自由排版允许超出的字符数；表格单元格中的单 run 段落使用严格模式（0）。
const DefaultGrace = 1

// BuildOptions 配置布局阶段所需的依赖。
type BuildOptions struct {
	Metrics Metrics
	// Logger 接收诊断信息（未识别的取值、悬空引用等），nil 时不输出。
	Logger *zap.Logger
	// Grace 覆盖 DefaultGrace，nil 表示使用默认值。
	Grace *int
}

// Font 是测量文本所需的全部字体参数。Size 与 Spacing 单位为 px，Stretch 为百分比。
type Font struct {
	Family  string
	Size    float64
	Bold    bool
	Italic  bool
	Spacing float64
	Stretch float64
}

// Metrics 提供字体度量。所有长度单位为 px。
type Metrics interface {
	AverageCharWidth(f Font) float64
	TopToBaseline(f Font) float64
	BaselineToBottom(f Font) float64
	// FitCharacters 返回宽度 width 内大约能容纳的字符数。
	FitCharacters(width float64, f Font) int
	TextWidth(text string, f Font) float64
}
