package story

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/storyframe/dsl"
	"github.com/ByLCY/storyframe/layout"
)

// resourceCollector 收集 resources 段落中的声明，样式在全部读完后统一展开继承。
type resourceCollector struct {
	set        ResourceSet
	para, char map[string]Style
}

var resourceKinds = map[string]func(*resourceCollector, *dsl.Command) error{
	"font":  (*resourceCollector).addFont,
	"color": (*resourceCollector).addColor,
	"para": func(c *resourceCollector, cmd *dsl.Command) error {
		return addStyle(c.para, cmd)
	},
	"char": func(c *resourceCollector, cmd *dsl.Command) error {
		return addStyle(c.char, cmd)
	},
}

func collectResources(doc *dsl.Document, opts BuildOptions) (ResourceSet, error) {
	c := &resourceCollector{
		set: ResourceSet{
			Fonts:  map[string]FontResource{},
			Colors: map[string]layout.Color{},
		},
		para: map[string]Style{},
		char: map[string]Style{},
	}
	for _, s := range doc.Sections {
		if s.Resources == nil {
			continue
		}
		for _, cmd := range s.Resources.Block.Commands("") {
			add, ok := resourceKinds[cmd.Name]
			if !ok || cmd.Arg(0) == "" {
				continue
			}
			if err := add(c, cmd); err != nil {
				return c.set, err
			}
		}
	}

	if len(c.set.Fonts) == 0 {
		c.set.Fonts[DefaultStyle] = newFontResource(DefaultStyle, opts.DefaultFont)
	}

	var err error
	if c.set.ParaStyles, err = resolveStyles(c.para); err != nil {
		return c.set, fmt.Errorf("段落样式: %w", err)
	}
	if c.set.CharStyles, err = resolveStyles(c.char); err != nil {
		return c.set, fmt.Errorf("字符样式: %w", err)
	}
	return c.set, nil
}

func newFontResource(name, src string) FontResource {
	return FontResource{
		Name:      name,
		Family:    name,
		Src:       src,
		IsBuiltin: strings.HasPrefix(src, "builtin:"),
	}
}

// addFont 读取 `font <name> { src: "..." style: "..." fallback: "..." }`，只接受字符串值。
func (c *resourceCollector) addFont(cmd *dsl.Command) error {
	font := newFontResource(cmd.Arg(0), "")
	for _, a := range cmd.Block.Assignments() {
		if a.Value == nil || a.Value.String == nil {
			continue
		}
		v := a.Value.Text()
		switch a.Key {
		case "src":
			font.Src, font.IsBuiltin = v, strings.HasPrefix(v, "builtin:")
		case "style":
			font.Style = v
		case "fallback":
			font.Fallback = v
		}
	}
	c.set.Fonts[font.Name] = font
	return nil
}

// addColor 读取 `color <name> = #rrggbb`，取最后一个参数为颜色值。
func (c *resourceCollector) addColor(cmd *dsl.Command) error {
	if len(cmd.Args) < 2 {
		return nil
	}
	name := cmd.Arg(0)
	col, err := parseColor(cmd.Arg(len(cmd.Args) - 1))
	if err != nil {
		return fmt.Errorf("颜色 %s: %w", name, err)
	}
	c.set.Colors[name] = col
	return nil
}

// addStyle 读取 `para|char <name> [extends <parent>] { key: value }`。
func addStyle(into map[string]Style, cmd *dsl.Command) error {
	st := Style{Name: cmd.Arg(0), Props: map[string]string{}}
	if strings.EqualFold(cmd.Arg(1), "extends") {
		st.Extends = cmd.Arg(2)
	}
	for _, a := range cmd.Block.Assignments() {
		if v := a.Value.Text(); v != "" {
			st.Props[a.Key] = v
		}
	}
	into[st.Name] = st
	return nil
}

// resolveStyles 沿 extends 链向上找到已展开的祖先或根样式，再自上而下合并属性，
// 子样式覆盖父样式。按名称顺序处理，错误信息稳定。
func resolveStyles(raw map[string]Style) (map[string]Style, error) {
	out := make(map[string]Style, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		var (
			chain []Style
			base  map[string]string
			seen  = map[string]bool{}
		)
		for n := name; n != ""; {
			if done, ok := out[n]; ok {
				base = done.Props
				break
			}
			st, ok := raw[n]
			if !ok {
				return nil, fmt.Errorf("style %s 未定义", n)
			}
			if seen[n] {
				return nil, fmt.Errorf("style 继承存在循环：%s", n)
			}
			seen[n] = true
			chain = append(chain, st)
			n = st.Extends
		}
		for i := len(chain) - 1; i >= 0; i-- {
			props := make(map[string]string, len(base)+len(chain[i].Props))
			maps.Copy(props, base)
			maps.Copy(props, chain[i].Props)
			st := chain[i]
			st.Props = props
			out[st.Name] = st
			base = props
		}
	}
	return out, nil
}

var metaFields = map[string]func(*DocumentMeta, *dsl.Value){
	"title":    func(m *DocumentMeta, v *dsl.Value) { m.Title = v.Text() },
	"author":   func(m *DocumentMeta, v *dsl.Value) { m.Author = v.Text() },
	"subject":  func(m *DocumentMeta, v *dsl.Value) { m.Subject = v.Text() },
	"creator":  func(m *DocumentMeta, v *dsl.Value) { m.Creator = v.Text() },
	"keywords": func(m *DocumentMeta, v *dsl.Value) { m.Keywords = v.Texts() },
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "storyframe"}
	for _, s := range doc.Sections {
		if s.Meta == nil {
			continue
		}
		for _, a := range s.Meta.Block.Assignments() {
			if set, ok := metaFields[strings.ToLower(a.Key)]; ok {
				set(&meta, a.Value)
			}
		}
	}
	return meta
}

// resolveFontResource 按名称查找字体；名称为空时依次取 Body、按名称排序的第一个字体。
func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if name != "" {
		font, ok := res.Fonts[name]
		if !ok {
			return FontResource{}, fmt.Errorf("字体 %s 未定义", name)
		}
		return font, nil
	}
	if font, ok := res.Fonts[DefaultStyle]; ok {
		return font, nil
	}
	names := slices.Sorted(maps.Keys(res.Fonts))
	if len(names) == 0 {
		return FontResource{}, fmt.Errorf("没有可用的默认字体")
	}
	return res.Fonts[names[0]], nil
}

// resolveColor 接受已声明的颜色名或 #hex 字面量，其余情况返回 fallback。
func resolveColor(value string, res ResourceSet, fallback layout.Color) layout.Color {
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if !strings.HasPrefix(value, "#") {
		return fallback
	}
	c, err := parseColor(value)
	if err != nil {
		return fallback
	}
	return c
}

// parseColor 解析 #rgb、#rrggbb 与 #rrggbbaa，透明度被忽略。
func parseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return layout.Color{}, fmt.Errorf("颜色值 %s 长度无效", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return layout.Color{R: int(v>>16&0xff), G: int(v>>8&0xff), B: int(v&0xff)}, nil
}
