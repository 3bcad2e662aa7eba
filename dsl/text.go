package dsl

import "github.com/alecthomas/participle/v2/lexer"

// TextSection 是故事正文。一个文档可以有多个 text 段落，按出现顺序连接。
// 顶层的字符串、span 与 object 归入默认样式的段落。
type TextSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Items []*Inline      `parser:"'text' Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Inline 是正文中的一个元素。
type Inline struct {
	Para   *Para          `parser:"  @@"`
	Span   *Span          `parser:"| @@"`
	Object *Object        `parser:"| @@"`
	Break  bool           `parser:"| @'br'"`
	Text   *StringLiteral `parser:"| @String"`
}

// Para 是一个段落；Style 为空时使用默认段落样式。
type Para struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Style string         `parser:"'para' @Ident?"`
	Items []*Inline      `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Span 以字符样式 Style 包裹一段内容，可以嵌套。
type Span struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Style string         `parser:"'span' @Ident"`
	Items []*Inline      `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Object 是嵌入文本流的对象：`object [name] <width> <height> [line-width]`。
type Object struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"'object' @Ident?"`
	Size []string       `parser:"@Number @Number @Number?"`
}
