package layout

import "math"

// Point 是布局坐标系中的一个点，单位为毫米，y 轴向下。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 以左上角与宽高描述轴对齐矩形（mm）。
// 零值 Rect 表示“没有可用的几何信息”，见 IsValid。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// IsValid 报告矩形是否携带几何信息：高度必须为正，宽度允许为 0（例如段落分隔符）。
func (r Rect) IsValid() bool { return r.W >= 0 && r.H > 0 }

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains 报告点是否落在矩形内（含左上边界，不含右下边界）。
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Union 返回同时覆盖 r 与 o 的最小矩形；无效矩形不参与合并。
func (r Rect) Union(o Rect) Rect {
	if !o.IsValid() {
		return r
	}
	if !r.IsValid() {
		return o
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
