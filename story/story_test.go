package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/storyframe/layout"
)

type monoFont struct{ name string }

func (f monoFont) Name() string                       { return f.name }
func (monoFont) Ascent(size float64) float64          { return size * 0.25 }
func (monoFont) Descent(size float64) float64         { return size * 0.1 }
func (monoFont) Advance(r rune, size float64) float64 { return size * 0.5 }

var (
	body  = layout.ParagraphStyle{Name: "Body", LineSpacing: 5}
	quote = layout.ParagraphStyle{Name: "Quote", LineSpacing: 7}
	plain = layout.CharStyle{Name: "Body", Font: monoFont{name: "mono"}, FontSize: 10}
)

func TestAppendAndParagraphs(t *testing.T) {
	s := New(body)
	s.AppendText("ab\ncd\r", plain)
	s.EndParagraph(quote)
	s.AppendText("e", plain)

	require.Equal(t, 7, s.Length())
	assert.Equal(t, layout.ParagraphSeparator, s.Text(2))
	assert.Equal(t, layout.ParagraphSeparator, s.Text(5))
	assert.Equal(t, "ab\ncd\ne", s.String())

	assert.Equal(t, body, s.ParagraphStyle(0))
	assert.Equal(t, body, s.ParagraphStyle(2))
	assert.Equal(t, quote, s.ParagraphStyle(3), "分隔符携带它所结束的段落的样式")
	assert.Equal(t, quote, s.ParagraphStyle(6))
	assert.Equal(t, quote, s.ParagraphStyle(s.Length()), "末尾位置使用最后一个段落的样式")
}

func TestParagraphStyleFollowsEdits(t *testing.T) {
	s := New(body)
	s.AppendText("abcdef", plain)
	s.EndParagraph(quote)
	s.AppendText("gh", plain)
	require.Equal(t, quote, s.ParagraphStyle(1))
	require.Equal(t, quote, s.ParagraphStyle(8))

	s.Remove(6, 1)
	assert.Equal(t, quote, s.ParagraphStyle(1), "删除分隔符后两段合并，沿用末尾段落样式")
	assert.Equal(t, "abcdefgh", s.String())

	s.SetParagraphStyle(body)
	s.Insert(3, "\n", plain)
	assert.Equal(t, layout.ParagraphSeparator, s.Text(3))
	assert.Equal(t, body, s.ParagraphStyle(1), "插入的分隔符使用所在段落的样式")
	assert.Equal(t, body, s.ParagraphStyle(3))
	assert.Equal(t, body, s.ParagraphStyle(4))
	assert.Equal(t, body, s.ParagraphStyle(s.Length()))
}

func TestObjectsAndShape(t *testing.T) {
	s := New(body)
	s.AppendText("a ", layout.CharStyle{Font: monoFont{}, FontSize: 10, ScaleH: 0.5})
	s.AppendObject(layout.InlineObject{Name: "logo", Width: 12, Height: 4}, plain)
	s.EndParagraph(body)

	require.NoError(t, s.Shape())
	assert.Equal(t, ObjectReplacement, s.Text(2))
	assert.True(t, s.HasObject(2))
	assert.False(t, s.HasObject(0))
	assert.Equal(t, "logo", s.Object(2).Name)
	assert.Equal(t, layout.InlineObject{}, s.Object(0))

	assert.Equal(t, 5.0, s.Glyphs(0).XAdvance)
	assert.Equal(t, 2.5, s.Glyphs(0).Wide())
	assert.Equal(t, 12.0, s.Glyphs(2).Wide())
	assert.Zero(t, s.Glyphs(3).XAdvance)

	s.SetGlyphs(1, layout.GlyphLayout{XAdvance: 9})
	assert.Equal(t, 9.0, s.Glyphs(1).XAdvance)
}

func TestShapeRequiresFont(t *testing.T) {
	s := New(body)
	s.AppendText("x", layout.CharStyle{Name: "Broken"})
	assert.Error(t, s.Shape())
}

func TestEditingNotifiesObservers(t *testing.T) {
	s := New(body)
	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	s.AppendText("hello", plain)
	s.Insert(5, " world", plain)
	s.Insert(0, "\n", plain)
	s.Remove(0, 1)
	s.Remove(3, 0)

	assert.Equal(t, "hello world", s.String())
	assert.Equal(t, []Change{
		{Pos: 0, Inserted: 5},
		{Pos: 5, Inserted: 6},
		{Pos: 0, Inserted: 1},
		{Pos: 0, Removed: 1},
	}, changes)

	assert.Panics(t, func() { s.Insert(-1, "x", plain) })
	assert.Panics(t, func() { s.Remove(10, 5) })
}
