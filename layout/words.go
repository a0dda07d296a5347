package layout

import "strings"

// Separator 分类单词之后的分隔符。
type Separator int

const (
	SepSpace Separator = iota
	SepDash
	SepTab
	SepLineFeed
)

func (s Separator) glyph() string {
	switch s {
	case SepDash:
		return "-"
	case SepTab:
		return ""
	default:
		return " "
	}
}

// Words 为拆分结果：len(Seps) == len(Words)-1，Seps[i] 描述 Words[i] 之后的分隔符。
type Words struct {
	Words []string
	Seps  []Separator
}

// SplitWords 拼接 run 的文本片段并按空格、连字符、制表符与换行拆分。
// 连续的分隔符会产生空单词；"\r\n" 视为一个换行。
func SplitWords(fragments []string) Words {
	text := strings.Join(fragments, "")
	var (
		out Words
		cur strings.Builder
	)
	flush := func(sep Separator) {
		out.Words = append(out.Words, cur.String())
		out.Seps = append(out.Seps, sep)
		cur.Reset()
	}
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case ' ':
			flush(SepSpace)
		case '-':
			flush(SepDash)
		case '\t':
			flush(SepTab)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flush(SepLineFeed)
		case '\n':
			flush(SepLineFeed)
		default:
			cur.WriteByte(c)
		}
	}
	out.Words = append(out.Words, cur.String())
	return out
}

// Len 返回单词数。
func (w Words) Len() int { return len(w.Words) }

// Combine 以分隔符的字形重新拼接 [start, end] 闭区间内的单词。
func (w Words) Combine(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(w.Words) {
		end = len(w.Words) - 1
	}
	if start > end {
		return ""
	}
	var b strings.Builder
	b.WriteString(w.Words[start])
	for i := start; i < end; i++ {
		b.WriteString(w.Seps[i].glyph())
		b.WriteString(w.Words[i+1])
	}
	return b.String()
}
