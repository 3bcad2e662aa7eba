package story

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ByLCY/storyframe/layout"
)

// ObjectReplacement 是内嵌对象在文本中占用的字符。
const ObjectReplacement = '\uFFFC'

type item struct {
	ch     rune
	style  layout.CharStyle
	object *layout.InlineObject
	glyph  layout.GlyphLayout
	// para 只对段落分隔符有意义：它所结束的段落的样式。
	para layout.ParagraphStyle
}

// Change 描述一次编辑：从 Pos 起删除 Removed 个字符并插入 Inserted 个字符。
type Change struct {
	Pos      int
	Removed  int
	Inserted int
}

// Story 是按位置访问的字符序列，实现 layout.Story。
// 段落样式挂在段落分隔符上，最后一个未结束段落使用 trailing 样式。
type Story struct {
	items     []item
	trailing  layout.ParagraphStyle
	observers []func(Change)

	// seps 缓存段落分隔符的位置（升序），任何编辑后失效。
	seps   []int
	sepsOK bool
}

var _ layout.Story = (*Story)(nil)

// New 创建空故事，para 为首个段落的样式。
func New(para layout.ParagraphStyle) *Story {
	return &Story{trailing: para}
}

// OnChange 注册编辑回调，常用于让相关的 TextLayout 失效。
func (s *Story) OnChange(fn func(Change)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *Story) notify(c Change) {
	s.sepsOK = false
	for _, fn := range s.observers {
		fn(c)
	}
}

// SetParagraphStyle 设置当前（尚未结束的）段落的样式。
func (s *Story) SetParagraphStyle(ps layout.ParagraphStyle) { s.trailing = ps }

// AppendText 追加文本；'\n' 结束当前段落，'\r' 被忽略。
func (s *Story) AppendText(text string, cs layout.CharStyle) {
	start := len(s.items)
	s.items = append(s.items, s.makeItems(text, cs)...)
	if n := len(s.items) - start; n > 0 {
		s.notify(Change{Pos: start, Inserted: n})
	}
}

// AppendObject 追加一个内嵌对象。
func (s *Story) AppendObject(obj layout.InlineObject, cs layout.CharStyle) {
	o := obj
	s.items = append(s.items, item{ch: ObjectReplacement, style: cs, object: &o})
	s.notify(Change{Pos: len(s.items) - 1, Inserted: 1})
}

// EndParagraph 以样式 ps 结束当前段落，后续段落沿用 ps 直到再次设置。
func (s *Story) EndParagraph(ps layout.ParagraphStyle) {
	s.trailing = ps
	cs := layout.CharStyle{}
	if n := len(s.items); n > 0 {
		cs = s.items[n-1].style
	}
	s.items = append(s.items, item{ch: layout.ParagraphSeparator, style: cs, para: ps})
	s.notify(Change{Pos: len(s.items) - 1, Inserted: 1})
}

// Insert 在 pos 处插入文本，插入的段落分隔符使用所在段落的样式。
func (s *Story) Insert(pos int, text string, cs layout.CharStyle) {
	if pos < 0 || pos > len(s.items) {
		panic(fmt.Sprintf("story: Insert 位置 %d 超出范围 [0, %d]", pos, len(s.items)))
	}
	added := s.makeItems(text, cs)
	if len(added) == 0 {
		return
	}
	ps := s.ParagraphStyle(pos)
	for i := range added {
		if added[i].ch == layout.ParagraphSeparator {
			added[i].para = ps
		}
	}
	s.items = append(s.items[:pos], append(added, s.items[pos:]...)...)
	s.notify(Change{Pos: pos, Inserted: len(added)})
}

// Remove 删除 [pos, pos+n) 范围内的字符。
func (s *Story) Remove(pos, n int) {
	if pos < 0 || n < 0 || pos+n > len(s.items) {
		panic(fmt.Sprintf("story: Remove 范围 [%d, %d) 超出长度 %d", pos, pos+n, len(s.items)))
	}
	if n == 0 {
		return
	}
	s.items = append(s.items[:pos], s.items[pos+n:]...)
	s.notify(Change{Pos: pos, Removed: n})
}

func (s *Story) makeItems(text string, cs layout.CharStyle) []item {
	out := make([]item, 0, len(text))
	for _, r := range text {
		switch r {
		case '\r':
			continue
		case '\n', layout.ParagraphSeparator:
			out = append(out, item{ch: layout.ParagraphSeparator, style: cs, para: s.trailing})
		default:
			out = append(out, item{ch: r, style: cs})
		}
	}
	return out
}

func (s *Story) Length() int { return len(s.items) }

func (s *Story) Text(pos int) rune { return s.items[pos].ch }

// ParagraphStyle 返回包含 pos 的段落的样式；pos 等于长度时返回末尾段落的样式。
func (s *Story) ParagraphStyle(pos int) layout.ParagraphStyle {
	seps := s.separators()
	if i, _ := slices.BinarySearch(seps, pos); i < len(seps) {
		return s.items[seps[i]].para
	}
	return s.trailing
}

func (s *Story) separators() []int {
	if s.sepsOK {
		return s.seps
	}
	s.seps = s.seps[:0]
	for i := range s.items {
		if s.items[i].ch == layout.ParagraphSeparator {
			s.seps = append(s.seps, i)
		}
	}
	s.sepsOK = true
	return s.seps
}

func (s *Story) CharStyle(pos int) layout.CharStyle { return s.items[pos].style }

func (s *Story) HasObject(pos int) bool { return s.items[pos].object != nil }

// Object 返回 pos 处的内嵌对象，没有对象时返回零值。
func (s *Story) Object(pos int) layout.InlineObject {
	if obj := s.items[pos].object; obj != nil {
		return *obj
	}
	return layout.InlineObject{}
}

func (s *Story) Glyphs(pos int) layout.GlyphLayout { return s.items[pos].glyph }

func (s *Story) SetGlyphs(pos int, g layout.GlyphLayout) { s.items[pos].glyph = g }

// Shape 按字符样式的字体填充每个位置的字形度量。
// 段落分隔符宽度为 0，内嵌对象宽度取对象宽度。
func (s *Story) Shape() error {
	for i := range s.items {
		it := &s.items[i]
		g := layout.GlyphLayout{ScaleH: it.style.ScaleH, ScaleV: it.style.ScaleV}
		switch {
		case it.object != nil:
			g.XAdvance = it.object.Width
			g.ScaleH, g.ScaleV = 1, 1
		case it.ch == layout.ParagraphSeparator:
		case it.style.Font == nil:
			return fmt.Errorf("位置 %d 的字符样式 %q 缺少字体", i, it.style.Name)
		default:
			g.XAdvance = it.style.Font.Advance(it.ch, it.style.FontSize)
		}
		it.glyph = g
	}
	return nil
}

// String 返回纯文本，段落分隔符写作 '\n'。
func (s *Story) String() string {
	var b strings.Builder
	for _, it := range s.items {
		if it.ch == layout.ParagraphSeparator {
			b.WriteByte('\n')
			continue
		}
		b.WriteRune(it.ch)
	}
	return b.String()
}
