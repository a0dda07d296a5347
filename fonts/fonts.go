package fonts

import (
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 是内置字体族。文档中的字体名只用于选择等宽或比例字体。
type Family int

const (
	Proportional Family = iota
	Monospace
)

var monospaceHints = []string{"mono", "courier", "consolas", "code", "fixed"}

// FamilyOf 把文档中的字体名映射到内置字体族。
func FamilyOf(name string) Family {
	name = strings.ToLower(name)
	for _, hint := range monospaceHints {
		if strings.Contains(name, hint) {
			return Monospace
		}
	}
	return Proportional
}

func (f Family) String() string {
	if f == Monospace {
		return "Go Mono"
	}
	return "Go"
}

// Load 返回字体名对应的 TTF 数据。未知字体回退到 Go 比例字体，因此总能返回可用的数据。
func Load(name string, bold, italic bool) []byte {
	if FamilyOf(name) == Monospace {
		switch {
		case bold && italic:
			return gomonobolditalic.TTF
		case bold:
			return gomonobold.TTF
		case italic:
			return gomonoitalic.TTF
		}
		return gomono.TTF
	}
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}
