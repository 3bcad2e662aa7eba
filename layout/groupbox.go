package layout

import "fmt"

// GroupBox 是子盒子的有序集合，字符范围为子盒子范围的并集。
// 高度随追加逐行累计，heights[i] 记录前 i+1 个子盒子的累计高度，
// 这样回退（RemoveBox）可以精确还原之前的高度。
type GroupBox struct {
	boxes   []Box
	heights []float64
	first   int
	last    int
	bounds  Rect
}

// NewGroupBox 创建空的 GroupBox：FirstChar 为 0，LastChar 为 -1。
func NewGroupBox() *GroupBox {
	return &GroupBox{last: -1}
}

func (g *GroupBox) sealed() {}

// Boxes 返回子盒子序列，调用方不应修改返回的切片。
func (g *GroupBox) Boxes() []Box { return g.boxes }

// Len 返回子盒子数量。
func (g *GroupBox) Len() int { return len(g.boxes) }

// AddBox 将 b 追加到子序列末尾。
func (g *GroupBox) AddBox(b Box) {
	if b == nil {
		panic("layout: GroupBox.AddBox 参数为 nil")
	}
	if len(g.boxes) == 0 {
		g.first, g.last = b.FirstChar(), b.LastChar()
	} else {
		g.first = min(g.first, b.FirstChar())
		g.last = max(g.last, b.LastChar())
	}
	g.boxes = append(g.boxes, b)
	g.heights = append(g.heights, g.Height()+b.Height())
	g.bounds = g.bounds.Union(b.Bounds())
}

// RemoveBox 删除序号为 i 的子盒子。
func (g *GroupBox) RemoveBox(i int) {
	if i < 0 || i >= len(g.boxes) {
		panic(fmt.Sprintf("layout: GroupBox.RemoveBox 下标越界 %d（共 %d 个）", i, len(g.boxes)))
	}
	if i == len(g.boxes)-1 {
		g.boxes[i] = nil
		g.boxes = g.boxes[:i]
		g.heights = g.heights[:i]
		g.recomputeExtent()
		return
	}
	rest := append([]Box(nil), g.boxes[i+1:]...)
	g.boxes = g.boxes[:i]
	g.heights = g.heights[:i]
	for _, b := range rest {
		g.boxes = append(g.boxes, b)
		g.heights = append(g.heights, g.Height()+b.Height())
	}
	g.recomputeExtent()
}

func (g *GroupBox) recomputeExtent() {
	g.first, g.last = 0, -1
	g.bounds = Rect{}
	for i, b := range g.boxes {
		if i == 0 {
			g.first, g.last = b.FirstChar(), b.LastChar()
		} else {
			g.first = min(g.first, b.FirstChar())
			g.last = max(g.last, b.LastChar())
		}
		g.bounds = g.bounds.Union(b.Bounds())
	}
}

func (g *GroupBox) FirstChar() int { return g.first }
func (g *GroupBox) LastChar() int  { return g.last }
func (g *GroupBox) X() float64     { return g.bounds.X }
func (g *GroupBox) Y() float64     { return g.bounds.Y }
func (g *GroupBox) Width() float64 { return g.bounds.W }

// Height 返回已追加子盒子的累计高度。
func (g *GroupBox) Height() float64 {
	if len(g.heights) == 0 {
		return 0
	}
	return g.heights[len(g.heights)-1]
}

func (g *GroupBox) Ascent() float64  { return 0 }
func (g *GroupBox) Descent() float64 { return g.Height() }

func (g *GroupBox) Bounds() Rect {
	r := g.bounds
	r.H = g.Height()
	return r
}

func (g *GroupBox) ContainsPos(pos int) bool {
	return len(g.boxes) > 0 && g.first <= pos && pos <= g.last
}

// BoundingBox 委托给包含 pos 的子盒子，没有则返回零值 Rect。
func (g *GroupBox) BoundingBox(pos, length int) Rect {
	for _, b := range g.boxes {
		if b.ContainsPos(pos) {
			return b.BoundingBox(pos, length)
		}
	}
	return Rect{}
}

// PointToPosition 选择垂直方向上包含 pt 的行（超出首末行时夹到首末行），再做行内命中测试。
func (g *GroupBox) PointToPosition(pt Point) int {
	n := len(g.boxes)
	if n == 0 {
		return -1
	}
	target := n - 1
	for i, b := range g.boxes {
		if pt.Y < b.Bounds().Bottom() {
			target = i
			break
		}
	}
	switch b := g.boxes[target].(type) {
	case *LineBox:
		return b.pointToPosition(pt, target == n-1)
	case *GroupBox:
		return b.PointToPosition(pt)
	default:
		return -1
	}
}

// Render 依次渲染子盒子。
func (g *GroupBox) Render(p *Painter, s Story) {
	for _, b := range g.boxes {
		b.Render(p, s)
	}
}
