package dsl

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Error 是带源位置的语义错误。
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg) }

// Check 做语法之外的检查：段落不能嵌套，同类资源与文本框不能重名。
// 所有问题通过 errors.Join 一并返回，每个都是 *Error。
func (d *Document) Check() error {
	var errs []error
	report := func(pos lexer.Position, format string, args ...any) {
		errs = append(errs, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
	}

	resources := map[string]lexer.Position{}
	frames := map[string]lexer.Position{}
	for _, s := range d.Sections {
		switch {
		case s.Resources != nil && s.Resources.Block != nil:
			for _, stmt := range s.Resources.Block.Statements {
				cmd := stmt.Command
				if cmd == nil || len(cmd.Args) == 0 {
					continue
				}
				key := cmd.Name + " " + cmd.Args[0].Value
				if first, ok := resources[key]; ok {
					report(cmd.Pos, "资源 %s 重复定义（首次定义于第 %d 行）", key, first.Line)
					continue
				}
				resources[key] = cmd.Pos
			}
		case s.Page != nil && s.Page.Block != nil:
			for _, stmt := range s.Page.Block.Statements {
				cmd := stmt.Command
				if cmd == nil || cmd.Name != "frame" || len(cmd.Args) == 0 {
					continue
				}
				name := cmd.Args[0].Value
				if first, ok := frames[name]; ok {
					report(cmd.Pos, "文本框 %s 重复定义（首次定义于第 %d 行）", name, first.Line)
					continue
				}
				frames[name] = cmd.Pos
			}
		case s.Text != nil:
			for _, it := range s.Text.Items {
				if it.Para != nil {
					checkNested(it.Para.Items, report)
				} else if it.Span != nil {
					checkNested(it.Span.Items, report)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// checkNested 报告段落内部（包括 span 内）出现的 para。
func checkNested(items []*Inline, report func(lexer.Position, string, ...any)) {
	for _, it := range items {
		switch {
		case it.Para != nil:
			report(it.Para.Pos, "para 只能出现在 text 的顶层")
		case it.Span != nil:
			checkNested(it.Span.Items, report)
		}
	}
}
