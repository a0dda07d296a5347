package dsl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/layout"
)

// text 把属性值展开为字符串：字符串做数据插值，颜色去掉 '#'，多个词以空格连接，数组以逗号连接。
func (c *compiler) text(v *Value) (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.Array != nil:
		items := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			if s, ok := c.text(item); ok {
				items = append(items, s)
			}
		}
		return strings.Join(items, ", "), true
	case len(v.Words) == 0:
		return "", false
	}
	words := make([]string, 0, len(v.Words))
	for _, w := range v.Words {
		words = append(words, c.word(w))
	}
	return strings.Join(words, " "), true
}

func (c *compiler) word(l *Lexeme) string {
	switch l.Kind {
	case KindString:
		return binding.Interpolate(l.Value, c.data)
	case KindColor:
		return strings.TrimPrefix(l.Value, "#")
	}
	return l.Value
}

// length 解析带单位的长度并换算为 px。
func (c *compiler) length(pos lexer.Position, key, raw string) (float64, bool) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		c.errorf(pos, "%s: %v", key, err)
		return 0, false
	}
	return l.ToPx(), true
}

func (c *compiler) number(pos lexer.Position, key, raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
	if err != nil {
		c.errorf(pos, "%s: 无效的数值 %q", key, raw)
		return 0, false
	}
	return f, true
}

func (c *compiler) integer(pos lexer.Position, key, raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.errorf(pos, "%s: 无效的整数 %q", key, raw)
		return 0, false
	}
	return n, true
}

func (c *compiler) boolean(pos lexer.Position, key, raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	c.errorf(pos, "%s: 无效的布尔值 %q", key, raw)
	return false, false
}

// args 顺序读取命令参数。
type args struct {
	c    *compiler
	cmd  *Command
	list []*Lexeme
}

func newArgs(c *compiler, cmd *Command) *args {
	return &args{c: c, cmd: cmd, list: cmd.Args}
}

func (a *args) empty() bool { return len(a.list) == 0 }

func (a *args) peek() *Lexeme {
	if len(a.list) == 0 {
		return nil
	}
	return a.list[0]
}

func (a *args) next() (*Lexeme, bool) {
	if len(a.list) == 0 {
		return nil, false
	}
	l := a.list[0]
	a.list = a.list[1:]
	return l, true
}

// value 读取关键字 key 之后的参数值。
func (a *args) value(key string) (string, lexer.Position, bool) {
	l, ok := a.next()
	if !ok {
		a.c.errorf(a.cmd.Pos, "%s %s: 缺少参数值", a.cmd.Name, key)
		return "", a.cmd.Pos, false
	}
	return a.c.word(l), l.Pos, true
}

func (a *args) length(key string) (float64, bool) {
	raw, pos, ok := a.value(key)
	if !ok {
		return 0, false
	}
	return a.c.length(pos, key, raw)
}

func (a *args) integer(key string) (int, bool) {
	raw, pos, ok := a.value(key)
	if !ok {
		return 0, false
	}
	return a.c.integer(pos, key, raw)
}

// rest 报告未被识别的参数。
func (a *args) rest() {
	for _, l := range a.list {
		a.c.errorf(l.Pos, "%s: 无法识别的参数 %q", a.cmd.Name, l.Value)
	}
	a.list = nil
}
