package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	folioLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 颜色必须先于 # 注释匹配，8 位写法先于 6 位与 3 位。
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|pt|tw|mm|cm|in|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][,;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenKinds = map[lexer.TokenType]Kind{
		tokenType("Ident"):  KindIdent,
		tokenType("Number"): KindNumber,
		tokenType("String"): KindString,
		tokenType("Color"):  KindColor,
		tokenType("Punct"):  KindPunct,
	}
	newlineToken = tokenType("Newline")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(folioLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

func tokenType(name string) lexer.TokenType {
	tt, ok := folioLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}

// Document is the root AST node of a folio document description.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/styles/page).
type Section struct {
	Meta   *MetaSection   `parser:"  @@"`
	Styles *StylesSection `parser:"| @@"`
	Page   *PageSection   `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Styles != nil:
		return "styles"
	case s.Page != nil:
		return "page"
	}
	return "unknown"
}

type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// StylesSection holds sheet defaults, style, table style and numbering definitions.
type StylesSection struct {
	Block *Block `parser:"'styles' @@"`
}

// PageSection is the page geometry followed by the document body.
type PageSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Spec  PageSpec       `parser:"'page' @@"`
	Block *Block         `parser:"@@"`
}

// PageSpec stores header tokens (paper size or explicit dimensions, orientation, margins).
type PageSpec struct {
	Params []*Lexeme `parser:"@@*"`
}

// Block is a braced list of statements separated by newlines or ';'.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is exactly one of an assignment, a command or a bare string.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment is a `key: value` property.
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a keyword followed by positional arguments and an optional body.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

type TextLiteral struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value unquoted       `parser:"@String"`
}

// unquoted 在捕获时去掉字符串字面量的引号并处理转义。
type unquoted string

func (u *unquoted) Capture(values []string) error {
	s, err := strconv.Unquote(strings.Join(values, ""))
	if err != nil {
		return err
	}
	*u = unquoted(s)
	return nil
}

// Value is either an array or a run of words up to the end of the line.
type Value struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Array *ArrayValue    `parser:"  @@"`
	Words []*Lexeme      `parser:"| @@+"`
}

// Single returns the only word of a one-word value.
func (v *Value) Single() *Lexeme {
	if v == nil || v.Array != nil || len(v.Words) != 1 {
		return nil
	}
	return v.Words[0]
}

func (v *Value) String() string {
	switch {
	case v == nil:
		return ""
	case v.Array != nil:
		items := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			items = append(items, item.String())
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	words := make([]string, 0, len(v.Words))
	for _, w := range v.Words {
		words = append(words, w.Value)
	}
	return strings.Join(words, " ")
}

// ArrayValue captures `[ ... ]` lists separated by ',', ';' or newlines.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Kind classifies a Lexeme.
type Kind int

const (
	KindIdent Kind = iota
	KindNumber
	KindString
	KindColor
	KindPunct
)

func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindColor:
		return "color"
	case KindPunct:
		return "punct"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lexeme is a single argument or value word. String values are unquoted.
type Lexeme struct {
	Kind  Kind           `json:"kind"`
	Value string         `json:"value"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable. A lexeme ends at a line break,
// a brace or any punctuation.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.EOF() || tok.Type == newlineToken {
		return participle.NextMatch
	}
	kind, ok := tokenKinds[tok.Type]
	if !ok || kind == KindPunct {
		return participle.NextMatch
	}
	value := tok.Value
	if kind == KindString {
		var err error
		if value, err = strconv.Unquote(value); err != nil {
			return fmt.Errorf("%s: invalid string %s: %w", tok.Pos, tok.Value, err)
		}
	}
	lex.Next()
	*l = Lexeme{Kind: kind, Value: value, Pos: tok.Pos}
	return nil
}

// Parse parses a document description from r.
func Parse(r io.Reader) (*Document, error) {
	return ParseReader("", r)
}

// ParseReader is Parse with a file name reported in error positions.
func ParseReader(name string, r io.Reader) (*Document, error) {
	return documentParser.Parse(name, r)
}

// ParseString parses a document description held in a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
