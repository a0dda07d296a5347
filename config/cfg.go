package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/style"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	PageConfig struct {
		Width  string `yaml:"width" validate:"required"`
		Height string `yaml:"height" validate:"required"`
		// Margin 为 1、2 或 4 个以空格分隔的长度，顺序同 CSS。
		Margin string `yaml:"margin"`
	}

	LayoutConfig struct {
		Font               string     `yaml:"font" validate:"required"`
		FontSize           string     `yaml:"font_size" validate:"required"`
		Color              string     `yaml:"color" validate:"hexadecimal,len=6"`
		LineSpacing        float64    `yaml:"line_spacing" validate:"gt=0"`
		TabInterval        string     `yaml:"tab_interval" validate:"required"`
		CellMarginSide     string     `yaml:"cell_margin_side"`
		CellMarginVertical string     `yaml:"cell_margin_vertical"`
		Grace              int        `yaml:"grace" validate:"gte=0"`
		Page               PageConfig `yaml:"page"`
	}

	ResourcesConfig struct {
		Root        string `yaml:"root"`
		Concurrency int    `yaml:"concurrency" validate:"gte=0"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Layout    LayoutConfig    `yaml:"layout"`
		Resources ResourcesConfig `yaml:"resources"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// 只接受已定义的字段，因此不能直接使用 yaml.Unmarshal
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if _, err := cfg.Layout.Defaults(); err != nil {
			return nil, err
		}
		if _, err := cfg.Layout.Page.Section(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

func lengthPx(key, raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return l.ToPx(), nil
}

// Defaults 把 layout 节换算为样式仓库的内建默认值。
func (c *LayoutConfig) Defaults() (style.Defaults, error) {
	d := style.Defaults{
		FontFamily:  c.Font,
		Color:       strings.ToUpper(c.Color),
		LineSpacing: c.LineSpacing,
	}
	var err error
	if d.FontSize, err = lengthPx("font_size", c.FontSize); err != nil {
		return d, err
	}
	if d.TabInterval, err = lengthPx("tab_interval", c.TabInterval); err != nil {
		return d, err
	}
	if d.CellMarginSide, err = lengthPx("cell_margin_side", c.CellMarginSide); err != nil {
		return d, err
	}
	if d.CellMarginVert, err = lengthPx("cell_margin_vertical", c.CellMarginVertical); err != nil {
		return d, err
	}
	if d.FontSize <= 0 || d.TabInterval <= 0 {
		return d, fmt.Errorf("font_size and tab_interval must be positive")
	}
	return d, nil
}

// Section 返回默认页面几何（px）。
func (p *PageConfig) Section() (document.Section, error) {
	var (
		sec document.Section
		err error
	)
	if sec.Width, err = lengthPx("page.width", p.Width); err != nil {
		return sec, err
	}
	if sec.Height, err = lengthPx("page.height", p.Height); err != nil {
		return sec, err
	}
	var vals []float64
	for _, f := range strings.Fields(p.Margin) {
		v, err := lengthPx("page.margin", f)
		if err != nil {
			return sec, err
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 0:
	case 1:
		sec.Margin = document.Margin{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
	case 2:
		sec.Margin = document.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 4:
		sec.Margin = document.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	default:
		return sec, fmt.Errorf("page.margin: expected 1, 2 or 4 lengths, got %d", len(vals))
	}
	if sec.ContentWidth() <= 0 || sec.Height <= 0 {
		return sec, fmt.Errorf("page: content area is empty (%gx%g)", sec.ContentWidth(), sec.Height)
	}
	return sec, nil
}
