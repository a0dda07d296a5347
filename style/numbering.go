package style

import (
	"strconv"
	"strings"
)

// FormatNumber 将计数值 n 按编号格式渲染为文本。无法识别的格式回退为 "-"。
func FormatNumber(f NumberFormat, n int) string {
	switch f {
	case NumberFormatNone:
		return ""
	case NumberFormatBullet:
		return "•"
	case NumberFormatDecimal:
		return strconv.Itoa(n)
	case NumberFormatDecimalZero:
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	case NumberFormatDecimalEnclosedParen:
		return "(" + strconv.Itoa(n) + ")"
	case NumberFormatUpperLetter:
		return letters(n, 'A')
	case NumberFormatLowerLetter:
		return letters(n, 'a')
	case NumberFormatUpperRoman:
		return roman(n)
	case NumberFormatLowerRoman:
		return strings.ToLower(roman(n))
	case NumberFormatOrdinal:
		return strconv.Itoa(n) + ordinalSuffix(n)
	case NumberFormatCardinalText:
		return capitalize(cardinal(n))
	case NumberFormatOrdinalText:
		return capitalize(ordinalWords(n))
	case NumberFormatHex:
		return strings.ToUpper(strconv.FormatInt(int64(n), 16))
	case NumberFormatChicago:
		return chicago(n)
	default:
		return "-"
	}
}

// LevelText 以各级当前值替换级别文本中的 %1..%9 占位符。
// value 以级别下标（0 起）返回该级当前要显示的值与格式。
func LevelText(text string, value func(level int) (int, NumberFormat)) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '%' && i+1 < len(text) && text[i+1] >= '1' && text[i+1] <= '9' {
			n, f := value(int(text[i+1] - '1'))
			b.WriteString(FormatNumber(f, n))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// letters 生成 A..Z, AA..ZZ, AAA.. 形式（Word 的重复字母规则）。
func letters(n int, base byte) string {
	if n <= 0 {
		return ""
	}
	repeat := (n-1)/26 + 1
	ch := base + byte((n-1)%26)
	return strings.Repeat(string(ch), repeat)
}

var romanTable = []struct {
	value int
	sym   string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"}, {100, "C"}, {90, "XC"},
	{50, "L"}, {40, "XL"}, {10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.sym)
			n -= r.value
		}
	}
	return b.String()
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

var (
	smallNumbers = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
		"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen",
		"eighteen", "nineteen",
	}
	tensNumbers = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

func cardinal(n int) string {
	switch {
	case n < 0:
		return "minus " + cardinal(-n)
	case n < 20:
		return smallNumbers[n]
	case n < 100:
		if n%10 == 0 {
			return tensNumbers[n/10]
		}
		return tensNumbers[n/10] + "-" + smallNumbers[n%10]
	case n < 1000:
		if n%100 == 0 {
			return smallNumbers[n/100] + " hundred"
		}
		return smallNumbers[n/100] + " hundred " + cardinal(n%100)
	default:
		if n%1000 == 0 {
			return cardinal(n/1000) + " thousand"
		}
		return cardinal(n/1000) + " thousand " + cardinal(n%1000)
	}
}

var ordinalIrregular = map[string]string{
	"one": "first", "two": "second", "three": "third", "five": "fifth", "eight": "eighth",
	"nine": "ninth", "twelve": "twelfth",
}

func ordinalWords(n int) string {
	words := cardinal(n)
	// 只改写最后一个词：“twenty-one” → “twenty-first”。
	cut := strings.LastIndexAny(words, " -")
	head, last := "", words
	if cut >= 0 {
		head, last = words[:cut+1], words[cut+1:]
	}
	if irr, ok := ordinalIrregular[last]; ok {
		return head + irr
	}
	if strings.HasSuffix(last, "y") {
		return head + strings.TrimSuffix(last, "y") + "ieth"
	}
	return head + last + "th"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var chicagoSymbols = []string{"*", "†", "‡", "§"}

func chicago(n int) string {
	if n <= 0 {
		return ""
	}
	sym := chicagoSymbols[(n-1)%len(chicagoSymbols)]
	return strings.Repeat(sym, (n-1)/len(chicagoSymbols)+1)
}
