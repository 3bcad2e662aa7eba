// Package dsl 解析 storyframe 的故事标记语言。
//
//	story <Name> <Version> {
//	  meta { title: "..." }
//	  resources { font/color/para/char 声明 }
//	  page A4 landscape { frame <name> { x: 20mm ... } }
//	  text { para <Style> { "..." span <Style> { "..." } object 10mm 4mm } }
//	}
//
// meta、resources 与 page 使用通用的 Block/Command/Assignment 结构，
// text 使用 text.go 中的正文节点。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:|]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range dslLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	tokNewline = tokenType("Newline")
	tokLBrace  = tokenType("LBrace")
	tokRBrace  = tokenType("RBrace")
	tokSymbol  = tokenType("Symbol")
	tokString  = tokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

func tokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("dsl: 词法规则 %s 未定义", name))
	}
	return tt
}

// Document 是故事文件的根节点。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'story' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落之一：meta、resources、page 或 text。
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
	Text      *TextSection      `parser:"| @@"`
}

// Kind 返回段落类型名，用于错误信息。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Page != nil:
		return "page"
	case s.Text != nil:
		return "text"
	}
	return "unknown"
}

type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// ResourcesSection 声明字体、颜色、段落样式（para）与字符样式（char）。
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// PageSection 是一页及其上的文本框；文本按页面与文本框的声明顺序流动。
type PageSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Spec  PageSpec       `parser:"'page' @@"`
	Block *Block         `parser:"@@"`
}

// PageSpec 是 page 关键字后的尺寸与方向，例如 `A4 landscape`。
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block 是花括号内以换行或分号分隔的语句。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值（key: value）、命令（name args { ... }）或字符串。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 是带参数和可选块的声明，如 `font Serif { ... }`、`frame main { ... }`。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是属性值：字符串、数值（可带单位）、颜色、数组、内联对象或原样保留的表达式。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *ObjectValue   `parser:"| @@"`
	Expr   *Expression    `parser:"| @@"`
}

// ArrayValue 是 `[ ... ]`，元素以逗号、分号或换行分隔；路径点写作嵌套数组。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// ObjectValue 是 `{ key: value }` 形式的内联映射。
type ObjectValue struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (';' | Newline+) Newline* @@ Newline* )* )? Newline* '}'"`
}

// Expression 收集到行尾（或分隔符）为止的原始词法单元，例如 `Body` 或 `1.2 * x`。
type Expression struct {
	Parts []*Lexeme
}

// Parse implements participle.Parseable.
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var d depth
	for {
		tok := lex.Peek()
		if d.stops(tok) {
			break
		}
		l, err := nextLexeme(lex)
		if err != nil {
			return err
		}
		d.track(l.Raw)
		e.Parts = append(e.Parts, l)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

// depth 记录表达式内未闭合的圆括号与方括号，括号内的分隔符不结束表达式。
type depth struct {
	paren, bracket int
}

func (d *depth) track(raw string) {
	switch raw {
	case "(":
		d.paren++
	case ")":
		d.paren = max(d.paren-1, 0)
	case "[":
		d.bracket++
	case "]":
		d.bracket = max(d.bracket-1, 0)
	}
}

func (d *depth) stops(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	open := d.paren > 0 || d.bracket > 0
	switch tok.Type {
	case tokNewline, tokLBrace, tokRBrace:
		return !open
	case tokSymbol:
		switch tok.Value {
		case ";", ",":
			return !open
		case "]":
			return d.bracket == 0
		}
	}
	return false
}

// Lexeme 是单个词法单元；Value 对字符串已去掉引号，Raw 保留原文。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable：命令参数一直读到换行、花括号或分号。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok == nil || tok.EOF() {
		return participle.NextMatch
	}
	switch {
	case tok.Type == tokNewline, tok.Type == tokLBrace, tok.Type == tokRBrace:
		return participle.NextMatch
	case tok.Type == tokSymbol && tok.Value == ";":
		return participle.NextMatch
	}
	next, err := nextLexeme(lex)
	if err != nil {
		return err
	}
	*l = *next
	return nil
}

func nextLexeme(lex *lexer.PeekingLexer) (*Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	l := &Lexeme{Type: name, Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == tokString {
		v, err := strconv.Unquote(tok.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: 字符串 %s 无效: %w", tok.Pos, tok.Value, err)
		}
		l.Value = v
	}
	return l, nil
}

// StringLiteral 在捕获时按 Go 语法去掉引号。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串捕获缺少取值")
	}
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}

// Parse 解析 r 中的故事文件并做语义检查（见 Check）。
func Parse(r io.Reader) (*Document, error) {
	doc, err := documentParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString 与 Parse 相同，输入为字符串。
func ParseString(input string) (*Document, error) {
	doc, err := documentParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	return doc, nil
}
