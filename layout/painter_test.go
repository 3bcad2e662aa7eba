package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPainterDefaults(t *testing.T) {
	p := NewPainter(nil)
	assert.Equal(t, 1.0, p.ScaleH())
	assert.Equal(t, 1.0, p.ScaleV())
	assert.Zero(t, p.X())
	assert.Zero(t, p.Y())
	assert.Nil(t, p.Font())
	assert.Equal(t, 0, p.Depth())
}

func TestPainterSaveRestore(t *testing.T) {
	p := NewPainter(nil)
	p.SetFont(monoFont{})
	p.SetFontSize(11)
	p.SetFillColor(Color{R: 255})
	p.Translate(3, 4)
	before := p.State()

	p.Save()
	p.SetFontSize(20)
	p.SetFillColor(Color{B: 255})
	p.SetStrokeColor(Color{G: 10})
	p.SetStrokeWidth(0.5)
	p.Translate(10, 10)
	p.Scale(2, 3)
	require.Equal(t, 1, p.Depth())
	assert.Equal(t, 13.0, p.X())
	assert.Equal(t, 14.0, p.Y())
	assert.Equal(t, 2.0, p.ScaleH())

	p.Restore()
	assert.Equal(t, before, p.State())
	assert.Equal(t, 0, p.Depth())
}

func TestPainterNestedSaves(t *testing.T) {
	p := NewPainter(nil)
	for i := 1; i <= 3; i++ {
		p.Save()
		p.SetFontSize(float64(i))
	}
	assert.Equal(t, 3, p.Depth())
	for want := 2.0; want >= 0; want-- {
		p.Restore()
		assert.Equal(t, want, p.FontSize())
	}
}

func TestPainterTranslateAccumulatesScaleReplaces(t *testing.T) {
	p := NewPainter(nil)
	p.Translate(1, 2)
	p.Translate(-4, 0.5)
	assert.InDelta(t, -3.0, p.X(), 1e-12)
	assert.InDelta(t, 2.5, p.Y(), 1e-12)

	p.Scale(2, 2)
	p.Scale(0.5, 1.5)
	assert.Equal(t, 0.5, p.ScaleH())
	assert.Equal(t, 1.5, p.ScaleV())
}

func TestPainterRestoreOnEmptyStackPanics(t *testing.T) {
	p := NewPainter(nil)
	assert.Panics(t, func() { p.Restore() })

	p.Save()
	p.Restore()
	assert.Panics(t, func() { p.Restore() })
}

func TestPainterForwardsToBackend(t *testing.T) {
	b := &recordingBackend{}
	p := NewPainter(b)
	p.Translate(5, 6)
	p.SetFontSize(9)
	p.DrawGlyph('x', GlyphLayout{XAdvance: 3})
	p.DrawObject(InlineObject{Name: "img"})

	require.Len(t, b.calls, 2)
	assert.Equal(t, drawCall{ch: 'x', x: 5, y: 6, fontSize: 9, scaleH: 1}, b.calls[0])
	assert.Equal(t, "img", b.calls[1].object)

	// 没有后端时绘制调用被忽略。
	assert.NotPanics(t, func() { NewPainter(nil).DrawGlyph('y', GlyphLayout{}) })
}
