package story

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/storyframe/binding"
	"github.com/ByLCY/storyframe/dsl"
	"github.com/ByLCY/storyframe/layout"
)

// DefaultStyle 是未指定样式的段落使用的段落样式名。
const DefaultStyle = "Body"

var defaultColor = layout.Color{R: 30, G: 30, B: 30}

// Build 根据 DSL AST 构建故事、页面与文本框。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Fonts == nil {
		return nil, fmt.Errorf("story: 缺少字体解析器 FontResolver")
	}
	opts = opts.withDefaults()

	res, err := collectResources(doc, opts)
	if err != nil {
		return nil, err
	}
	pages, err := collectPages(doc)
	if err != nil {
		return nil, err
	}

	b := &builder{
		res:        res,
		opts:       opts,
		data:       data,
		fonts:      map[string]layout.Font{},
		unresolved: map[string]bool{},
	}
	body, _, err := b.paraStyle(DefaultStyle)
	if err != nil {
		return nil, err
	}
	b.story = New(body)
	for _, section := range doc.Sections {
		if section.Text == nil {
			continue
		}
		if err := b.processText(section.Text); err != nil {
			return nil, err
		}
	}

	out := &Document{
		Story:     b.story,
		Pages:     pages,
		Resources: res,
		Meta:      collectMeta(doc),
	}
	for path := range b.unresolved {
		out.Unresolved = append(out.Unresolved, path)
	}
	sort.Strings(out.Unresolved)
	return out, nil
}

type builder struct {
	res        ResourceSet
	opts       BuildOptions
	data       any
	story      *Story
	fonts      map[string]layout.Font
	unresolved map[string]bool
}

// processText 依次处理正文元素；para 之外的零散内容归入默认样式的段落。
func (b *builder) processText(text *dsl.TextSection) error {
	var loose []*dsl.Inline
	flush := func() error {
		if len(loose) == 0 {
			return nil
		}
		err := b.paragraph(DefaultStyle, loose)
		loose = nil
		return err
	}
	for _, it := range text.Items {
		if it.Para == nil {
			loose = append(loose, it)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		name := it.Para.Style
		if name == "" {
			name = DefaultStyle
		}
		if err := b.paragraph(name, it.Para.Items); err != nil {
			return fmt.Errorf("第 %d 行的段落: %w", it.Para.Pos.Line, err)
		}
	}
	return flush()
}

func (b *builder) paragraph(name string, items []*dsl.Inline) error {
	ps, props, err := b.paraStyle(name)
	if err != nil {
		return err
	}
	b.story.SetParagraphStyle(ps)
	if err := b.inline(items, name, props); err != nil {
		return err
	}
	b.story.EndParagraph(ps)
	return nil
}

// inline 追加段落内的文本、span 与 object，props 为当前生效的字符属性。
func (b *builder) inline(items []*dsl.Inline, styleName string, props map[string]string) error {
	cs, err := b.charStyle(styleName, props)
	if err != nil {
		return err
	}
	for _, it := range items {
		switch {
		case it.Text != nil:
			text, missing := binding.InterpolateReport(string(*it.Text), b.data)
			for _, m := range missing {
				b.unresolved[m] = true
			}
			b.story.AppendText(text, cs)
		case it.Span != nil:
			style, ok := b.res.CharStyles[it.Span.Style]
			if !ok {
				return fmt.Errorf("字符样式 %s 未定义（第 %d 行）", it.Span.Style, it.Span.Pos.Line)
			}
			if err := b.inline(it.Span.Items, it.Span.Style, mergeProps(props, style.Props)); err != nil {
				return err
			}
		case it.Object != nil:
			obj, err := parseObject(it.Object)
			if err != nil {
				return err
			}
			b.story.AppendObject(obj, cs)
		case it.Break:
			b.story.AppendText(" ", cs)
		case it.Para != nil:
			return fmt.Errorf("para 不能嵌套（第 %d 行）", it.Para.Pos.Line)
		}
	}
	return nil
}

// paraStyle 解析段落样式，返回布局用的 ParagraphStyle 以及段落内字符的基础属性。
func (b *builder) paraStyle(name string) (layout.ParagraphStyle, map[string]string, error) {
	style, ok := b.res.ParaStyles[name]
	if !ok {
		if name != DefaultStyle {
			return layout.ParagraphStyle{}, nil, fmt.Errorf("段落样式 %s 未定义", name)
		}
		style = Style{Name: DefaultStyle, Props: map[string]string{}}
	}
	props := mergeProps(nil, style.Props)
	spacing := b.opts.DefaultLineSpacing
	if v := props["line-spacing"]; v != "" {
		parsed, err := layout.ParseLineSpacing(v)
		if err != nil {
			return layout.ParagraphStyle{}, nil, fmt.Errorf("段落样式 %s: %w", name, err)
		}
		spacing = parsed
	}
	size := b.fontSize(props["size"])
	return layout.ParagraphStyle{Name: name, LineSpacing: spacing.Resolve(size)}, props, nil
}

func (b *builder) charStyle(name string, props map[string]string) (layout.CharStyle, error) {
	font, err := b.font(props["font"])
	if err != nil {
		return layout.CharStyle{}, err
	}
	cs := layout.CharStyle{
		Name:        name,
		Font:        font,
		FontSize:    b.fontSize(props["size"]),
		FillColor:   resolveColor(props["color"], b.res, defaultColor),
		StrokeColor: resolveColor(props["stroke"], b.res, layout.Color{}),
		ScaleH:      parseScale(props["scale-h"]),
		ScaleV:      parseScale(props["scale-v"]),
	}
	if v := props["stroke-width"]; v != "" {
		if l, err := layout.ParseLength(v); err == nil {
			cs.StrokeWidth = l.ToMM()
		}
	}
	return cs, nil
}

func (b *builder) font(name string) (layout.Font, error) {
	res, err := resolveFontResource(name, b.res)
	if err != nil {
		return nil, err
	}
	if f, ok := b.fonts[res.Name]; ok {
		return f, nil
	}
	f, err := b.opts.Fonts.ResolveFont(res)
	if err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", res.Name, err)
	}
	b.fonts[res.Name] = f
	return f, nil
}

func (b *builder) fontSize(value string) float64 {
	if value == "" {
		return b.opts.DefaultFontSize
	}
	l, err := layout.ParseLength(value)
	if err != nil || l.Value <= 0 {
		return b.opts.DefaultFontSize
	}
	return l.ToPT()
}

func mergeProps(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// parseObject 把 `object [name] <width> <height> [line-width]` 转为内嵌对象，尺寸为 mm。
func parseObject(o *dsl.Object) (layout.InlineObject, error) {
	obj := layout.InlineObject{Name: o.Name}
	if obj.Name == "" {
		obj.Name = "object"
	}
	dims := make([]float64, 0, len(o.Size))
	for _, v := range o.Size {
		l, err := layout.ParseLength(v)
		if err != nil {
			return obj, fmt.Errorf("object %s（第 %d 行）: %w", obj.Name, o.Pos.Line, err)
		}
		dims = append(dims, l.ToMM())
	}
	if len(dims) < 2 {
		return obj, fmt.Errorf("object %s 需要宽度与高度（第 %d 行）", obj.Name, o.Pos.Line)
	}
	obj.Width, obj.Height = dims[0], dims[1]
	if len(dims) > 2 {
		obj.LineWidth = dims[2]
	}
	if obj.Width < 0 || obj.Height <= 0 {
		return obj, fmt.Errorf("object %s 尺寸无效 %gx%g", obj.Name, obj.Width, obj.Height)
	}
	return obj, nil
}

// parseScale 解析 "90%" 或 "0.9"，无效值视为 1。
func parseScale(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 1
	}
	div := 1.0
	if strings.HasSuffix(v, "%") {
		v = strings.TrimSuffix(v, "%")
		div = 100
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 1
	}
	return f / div
}
