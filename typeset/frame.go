package typeset

import (
	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/story"
)

// Frame 是页面上承载一段文本流的矩形区域，坐标与尺寸单位为 mm。
// Path 至少有两个点时，文本沿该折线排列（点坐标相对文本框左上角）。
type Frame struct {
	Name   string
	X, Y   float64
	Width  float64
	Height float64
	Border bool
	Path   []layout.Point
}

var _ layout.Frame = (*Frame)(nil)

// FromSpec 由构建结果中的文本框描述创建 Frame。
func FromSpec(spec story.FrameSpec) *Frame {
	return &Frame{
		Name:   spec.Name,
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Border: spec.Border,
		Path:   append([]layout.Point(nil), spec.Path...),
	}
}

// OnPath 报告文本框是否沿路径排字。
func (f *Frame) OnPath() bool { return len(f.Path) >= 2 }

func (f *Frame) PathText() layout.PathText {
	if !f.OnPath() {
		return nil
	}
	return polyline(f.Path)
}

type polyline []layout.Point

func (p polyline) Path() []layout.Point { return p }
