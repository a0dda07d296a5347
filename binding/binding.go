// Package binding 把 ${path} 占位符替换为调用方提供的数据。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path|fallback} 在路径不存在时使用 fallback；没有 fallback 时保留原占位符。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		if val, ok := Lookup(data, groups[1]); ok && val != nil {
			return Format(val)
		}
		if strings.Contains(match, "|") {
			return groups[2]
		}
		return match
	})
}

// Placeholders 返回文本中所有占位符的路径，按出现顺序排列。
func Placeholders(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// Format 把取到的值转为文本。JSON 数字按最短十进制形式输出。
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// step 是路径中的一级：字段名或数组下标。
type step struct {
	key   string
	index int
}

// parsePath 把 a.b[0][1].c 拆为逐级的访问步骤。
func parsePath(path string) ([]step, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name == "" && rest == "" {
			return nil, false
		}
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		}
		for rest != "" {
			idx, tail, found := strings.Cut(rest, "]")
			if !found {
				return nil, false
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, false
			}
			steps = append(steps, step{index: n})
			if tail == "" {
				break
			}
			if tail[0] != '[' {
				return nil, false
			}
			rest = tail[1:]
		}
	}
	return steps, len(steps) > 0
}

// Lookup 按 a.b[0].c 形式的路径在 data 中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, s := range steps {
		if s.index < 0 {
			current, ok = field(current, s.key)
		} else {
			current, ok = element(current, s.index)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func field(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	}
	return nil, false
}

func element(v any, idx int) (any, bool) {
	switch s := v.(type) {
	case []any:
		if idx < len(s) {
			return s[idx], true
		}
	case []string:
		if idx < len(s) {
			return s[idx], true
		}
	case []map[string]any:
		if idx < len(s) {
			return s[idx], true
		}
	}
	return nil, false
}
