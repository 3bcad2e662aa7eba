package typeset

import (
	"math"

	"github.com/ByLCY/storyframe/layout"
)

// FlowOnPath 从 start 开始沿文本框的折线依次放置字符，经 PointRef 写入每个字符的
// 起点、旋转角与前进宽度，并追加一行供位置查询使用。段落分隔符结束路径上的文本。
// 返回第一个未能放下的位置。
func (e *Engine) FlowOnPath(tl *layout.TextLayout, frame *Frame, start int) int {
	st := tl.Story()
	tl.Clear()
	n := st.Length()
	start = max(start, 0)
	pos := start
	if !frame.OnPath() || pos >= n {
		tl.Validate()
		return pos
	}

	pts := frame.Path
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	total := cum[len(cum)-1]

	var adv []float64
	s := 0.0
	for pos < n {
		a := st.Glyphs(pos).Wide()
		if s+a > total+eps {
			break
		}
		centre, angle := pointAt(pts, cum, s+a/2)
		pd := tl.PointRef(pos)
		*pd = layout.PathData{
			X:        centre.X - math.Cos(angle)*a/2,
			Y:        centre.Y - math.Sin(angle)*a/2,
			Rotation: angle,
			Dx:       a,
		}
		adv = append(adv, a)
		s += a
		pos++
		if st.Text(pos-1) == layout.ParagraphSeparator {
			break
		}
	}

	if len(adv) > 0 {
		ascent, descent := lineMetrics(st, start, pos-1)
		tl.AppendLine(layout.NewLineBox(start, pos-1, 0, ascent, ascent, descent, adv))
	} else {
		e.logger.Debug("路径上放不下任何字符", "frame", frame.Name, "pos", pos)
	}
	tl.Validate()
	return pos
}

// pointAt 返回折线上弧长 s 处的点与该段的方向角（弧度）。
func pointAt(pts []layout.Point, cum []float64, s float64) (layout.Point, float64) {
	i := 1
	for i < len(pts)-1 && cum[i] < s {
		i++
	}
	p0, p1 := pts[i-1], pts[i]
	seg := cum[i] - cum[i-1]
	t := 0.0
	if seg > 0 {
		t = (s - cum[i-1]) / seg
	}
	return layout.Point{
		X: p0.X + (p1.X-p0.X)*t,
		Y: p0.Y + (p1.Y-p0.Y)*t,
	}, math.Atan2(p1.Y-p0.Y, p1.X-p0.X)
}
