// Package binding 把 JSON 数据填入文本中的 ${path} 占位符。
//
// 路径由点号分隔的键与 [n] 下标组成，例如 ${order.items[0].name}；
// ${path|默认值} 在路径不存在时使用默认值。
package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// Template 是解析好的插值模板，可以对不同数据多次求值。
type Template struct {
	parts []part
}

type part struct {
	literal string
	ref     *ref
}

type ref struct {
	raw        string // 原占位符，求值失败时原样输出
	path       string
	steps      []step
	def        string
	hasDefault bool
}

// step 是路径中的一步：按键进入对象，或按下标进入数组。
type step struct {
	key   string
	index int
}

func (s step) isIndex() bool { return s.key == "" }

// Compile 解析 text 中的占位符。未闭合的 "${" 与空路径按普通文本处理。
func Compile(text string) *Template {
	t := &Template{}
	rest := text
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		end += start
		if r := parseRef(rest[start : end+1]); r != nil {
			t.literal(rest[:start])
			t.parts = append(t.parts, part{ref: r})
		} else {
			t.literal(rest[:end+1])
		}
		rest = rest[end+1:]
	}
	t.literal(rest)
	return t
}

func (t *Template) literal(s string) {
	if s == "" {
		return
	}
	if n := len(t.parts); n > 0 && t.parts[n-1].ref == nil {
		t.parts[n-1].literal += s
		return
	}
	t.parts = append(t.parts, part{literal: s})
}

func parseRef(raw string) *ref {
	body := raw[2 : len(raw)-1]
	path, def, hasDefault := strings.Cut(body, "|")
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	steps, err := parsePath(path)
	if err != nil {
		steps = nil // 无法解析的路径在求值时视为不存在
	}
	return &ref{raw: raw, path: path, steps: steps, def: def, hasDefault: hasDefault}
}

// parsePath 把 "a.b[0][1].c" 拆成步骤序列。
func parsePath(path string) ([]step, error) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name := segment
		var idx string
		if i := strings.IndexByte(segment, '['); i >= 0 {
			name, idx = segment[:i], segment[i:]
		}
		if name == "" && idx == "" {
			return nil, fmt.Errorf("路径 %q 含有空段", path)
		}
		if name != "" {
			steps = append(steps, step{key: name})
		}
		for idx != "" {
			end := strings.IndexByte(idx, ']')
			if idx[0] != '[' || end < 0 {
				return nil, fmt.Errorf("路径 %q 的下标不完整", path)
			}
			n, err := strconv.Atoi(strings.TrimSpace(idx[1:end]))
			if err != nil {
				return nil, fmt.Errorf("路径 %q 的下标无效: %w", path, err)
			}
			steps = append(steps, step{index: n})
			idx = idx[end+1:]
		}
	}
	return steps, nil
}

// Execute 对 data 求值，返回结果与未能解析（且没有默认值）的路径。
func (t *Template) Execute(data any) (string, []string) {
	var b strings.Builder
	var missing []string
	for _, p := range t.parts {
		if p.ref == nil {
			b.WriteString(p.literal)
			continue
		}
		if v, ok := lookup(data, p.ref.steps); ok {
			b.WriteString(format(v))
			continue
		}
		if p.ref.hasDefault {
			b.WriteString(p.ref.def)
			continue
		}
		missing = append(missing, p.ref.path)
		b.WriteString(p.ref.raw)
	}
	return b.String(), missing
}

// Paths 列出模板引用的所有路径。
func (t *Template) Paths() []string {
	var out []string
	for _, p := range t.parts {
		if p.ref != nil {
			out = append(out, p.ref.path)
		}
	}
	return out
}

func lookup(data any, steps []step) (any, bool) {
	if data == nil || len(steps) == 0 {
		return nil, false
	}
	cur := data
	for _, s := range steps {
		switch c := cur.(type) {
		case map[string]any:
			if s.isIndex() {
				return nil, false
			}
			v, ok := c[s.key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if !s.isIndex() || s.index < 0 || s.index >= len(c) {
				return nil, false
			}
			cur = c[s.index]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// format 输出标量；JSON 数字按最短形式输出，整数不带小数点。
func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时使用 ${path|默认值} 中的默认值，没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := Compile(text).Execute(data)
	return out
}

// InterpolateReport 与 Interpolate 相同，并返回未能解析（且没有默认值）的路径。
func InterpolateReport(text string, data any) (string, []string) {
	return Compile(text).Execute(data)
}
