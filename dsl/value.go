package dsl

import "strings"

// Text 返回值的文本形式：字符串去掉引号，数值与颜色保留原文，表达式按词法单元拼接。
// 数组与内联对象没有文本形式，返回空串。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		var b strings.Builder
		for _, p := range v.Expr.Parts {
			b.WriteString(p.Value)
		}
		return b.String()
	}
	return ""
}

// Texts 把数组展开为各元素的文本，非数组视为单元素列表；空文本被跳过。
func (v *Value) Texts() []string {
	if v == nil {
		return nil
	}
	items := []*Value{v}
	if v.Array != nil {
		items = v.Array.Values
	}
	var out []string
	for _, it := range items {
		if s := it.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Assignments 返回块内的全部赋值，块为 nil 时返回 nil。
func (b *Block) Assignments() []*Assignment {
	if b == nil {
		return nil
	}
	var out []*Assignment
	for _, s := range b.Statements {
		if s.Assignment != nil {
			out = append(out, s.Assignment)
		}
	}
	return out
}

// Commands 返回块内名为 name 的命令；name 为空时返回全部命令。
func (b *Block) Commands(name string) []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, s := range b.Statements {
		if s.Command != nil && (name == "" || s.Command.Name == name) {
			out = append(out, s.Command)
		}
	}
	return out
}

// Arg 返回第 i 个参数的值，越界时返回空串。
func (c *Command) Arg(i int) string {
	if c == nil || i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i].Value
}
