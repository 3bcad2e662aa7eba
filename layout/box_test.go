package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectValidity(t *testing.T) {
	assert.False(t, Rect{}.IsValid())
	assert.True(t, Rect{W: 0, H: 3}.IsValid())
	assert.False(t, Rect{W: -1, H: 3}.IsValid())
	assert.False(t, Rect{W: 5, H: 0}.IsValid())

	r := Rect{X: 1, Y: 1, W: 2, H: 2}
	assert.Equal(t, r, r.Union(Rect{}))
	assert.Equal(t, r, Rect{}.Union(r))
	assert.Equal(t, Rect{X: 0, Y: 1, W: 3, H: 4}, r.Union(Rect{X: 0, Y: 3, W: 1, H: 2}))
	assert.True(t, r.Contains(Point{X: 1, Y: 1}))
	assert.False(t, r.Contains(Point{X: 3, Y: 1}))
}

func TestNewLineBoxContract(t *testing.T) {
	assert.Panics(t, func() { NewLineBox(5, 4, 0, 0, 0, 0, nil) })
	assert.Panics(t, func() { NewLineBox(0, 2, 0, 0, 0, 0, []float64{1, 2}) })

	adv := []float64{1, 2, 3}
	ls := NewLineBox(4, 6, 2, 10, 8, 2, adv)
	adv[0] = 100
	assert.Equal(t, 1.0, ls.Advance(4), "宽度切片被复制")
	assert.Equal(t, 6.0, ls.Width())
	assert.Equal(t, 10.0, ls.Height())
	assert.Equal(t, Rect{X: 2, Y: 2, W: 6, H: 10}, ls.Bounds())
}

func TestLineBoxCaretAndBoundingBox(t *testing.T) {
	ls := NewLineBox(4, 6, 2, 10, 8, 2, []float64{1, 2, 3})
	assert.Equal(t, 2.0, ls.CaretX(0), "左侧越界夹到行首")
	assert.Equal(t, 3.0, ls.CaretX(5))
	assert.Equal(t, 8.0, ls.CaretX(7))
	assert.Equal(t, 8.0, ls.CaretX(100))

	assert.Equal(t, Rect{X: 3, Y: 2, W: 5, H: 10}, ls.BoundingBox(5, 2))
	assert.Equal(t, Rect{X: 3, Y: 2, W: 0, H: 10}, ls.BoundingBox(5, 0))
	assert.Equal(t, Rect{}, ls.BoundingBox(7, 1))
	assert.Equal(t, Rect{}, ls.BoundingBox(3, 1))
}

func TestGroupBoxEmpty(t *testing.T) {
	g := NewGroupBox()
	assert.Equal(t, 0, g.FirstChar())
	assert.Equal(t, -1, g.LastChar())
	assert.Zero(t, g.Height())
	assert.False(t, g.ContainsPos(0))
	assert.Equal(t, Rect{}, g.BoundingBox(0, 1))
	assert.Equal(t, -1, g.PointToPosition(Point{}))
	assert.Panics(t, func() { g.RemoveBox(0) })
	assert.Panics(t, func() { g.AddBox(nil) })
}

func TestGroupBoxAccumulatesAndRemoves(t *testing.T) {
	g := NewGroupBox()
	a := NewLineBox(0, 3, 0, 8, 8, 2, []float64{10, 10, 10, 10})
	b := NewLineBox(4, 5, 0, 18, 8, 2, []float64{10, 10})
	c := NewLineBox(6, 9, 5, 28, 8, 2, []float64{10, 10, 10, 10})
	g.AddBox(a)
	g.AddBox(b)
	g.AddBox(c)

	require.Equal(t, 3, g.Len())
	assert.Equal(t, 0, g.FirstChar())
	assert.Equal(t, 9, g.LastChar())
	assert.Equal(t, 30.0, g.Height())
	assert.Equal(t, Rect{X: 0, Y: 0, W: 45, H: 30}, g.Bounds())

	g.RemoveBox(1)
	require.Equal(t, 2, g.Len())
	assert.Same(t, c, g.Boxes()[1])
	assert.Equal(t, 20.0, g.Height())
	assert.Equal(t, 9, g.LastChar())

	g.RemoveBox(1)
	assert.Equal(t, 3, g.LastChar())
	assert.Equal(t, 10.0, g.Height())
	assert.Equal(t, Rect{X: 0, Y: 0, W: 40, H: 10}, g.Bounds())

	g.RemoveBox(0)
	assert.Equal(t, -1, g.LastChar())
	assert.Zero(t, g.Height())
}

func TestGroupBoxNestedHitTest(t *testing.T) {
	inner := NewGroupBox()
	inner.AddBox(NewLineBox(0, 1, 0, 8, 8, 2, []float64{10, 10}))
	outer := NewGroupBox()
	outer.AddBox(inner)
	assert.Equal(t, 1, outer.PointToPosition(Point{X: 12, Y: 5}))
	assert.Equal(t, Rect{X: 10, Y: 0, W: 10, H: 10}, outer.BoundingBox(1, 1))
}

func TestLineBoxRenderSkipsSeparators(t *testing.T) {
	st := newStubStory("a b\n")
	ls := uniformLine(0, 3, 0, 8, 2, 10)
	backend := &recordingBackend{}
	p := NewPainter(backend)
	ls.Render(p, st)

	require.Len(t, backend.calls, 2)
	assert.Equal(t, 'a', backend.calls[0].ch)
	assert.Equal(t, 'b', backend.calls[1].ch)
	assert.Equal(t, 20.0, backend.calls[1].x)
	assert.Equal(t, 0, p.Depth())
}
