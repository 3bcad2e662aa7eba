package layout

// PainterState 是绘制时的当前上下文。
type PainterState struct {
	Font        Font
	FontSize    float64
	StrokeColor Color
	FillColor   Color
	StrokeWidth float64
	X           float64
	Y           float64
	ScaleH      float64
	ScaleV      float64
}

// Backend 把 Painter 的绘制调用转换为像素或 PDF 指令。
// 实现在绘制时通过 p 的访问器读取字体、颜色、平移与缩放。
type Backend interface {
	DrawGlyph(p *Painter, ch rune, g GlyphLayout)
	DrawObject(p *Painter, obj InlineObject)
}

// Painter 维护带保存/恢复栈的绘制状态，实际绘制委托给 Backend。
// Save 与 Restore 必须成对出现。
type Painter struct {
	state   PainterState
	stack   []PainterState
	backend Backend
}

// NewPainter 创建一个缩放为 1 的 Painter；backend 为 nil 时只维护状态。
func NewPainter(backend Backend) *Painter {
	return &Painter{
		state:   PainterState{ScaleH: 1, ScaleV: 1},
		backend: backend,
	}
}

func (p *Painter) SetFont(f Font)        { p.state.Font = f }
func (p *Painter) Font() Font            { return p.state.Font }
func (p *Painter) SetFontSize(s float64) { p.state.FontSize = s }
func (p *Painter) FontSize() float64     { return p.state.FontSize }

func (p *Painter) SetStrokeColor(c Color) { p.state.StrokeColor = c }
func (p *Painter) StrokeColor() Color     { return p.state.StrokeColor }
func (p *Painter) SetFillColor(c Color)   { p.state.FillColor = c }
func (p *Painter) FillColor() Color       { return p.state.FillColor }

func (p *Painter) SetStrokeWidth(w float64) { p.state.StrokeWidth = w }
func (p *Painter) StrokeWidth() float64     { return p.state.StrokeWidth }

// Translate 在当前偏移上累加 (dx, dy)。
func (p *Painter) Translate(dx, dy float64) {
	p.state.X += dx
	p.state.Y += dy
}

func (p *Painter) X() float64 { return p.state.X }
func (p *Painter) Y() float64 { return p.state.Y }

// Scale 替换当前的水平/垂直缩放系数（不做累乘）。
func (p *Painter) Scale(h, v float64) {
	p.state.ScaleH = h
	p.state.ScaleV = v
}

func (p *Painter) ScaleH() float64 { return p.state.ScaleH }
func (p *Painter) ScaleV() float64 { return p.state.ScaleV }

// State 返回当前状态的副本。
func (p *Painter) State() PainterState { return p.state }

// Depth 返回已保存状态的数量。
func (p *Painter) Depth() int { return len(p.stack) }

// Save 压入当前状态的副本。
func (p *Painter) Save() {
	p.stack = append(p.stack, p.state)
}

// Restore 弹出最近一次 Save 的状态并设为当前状态。
// 栈为空时调用属于调用方的编程错误，会直接 panic。
func (p *Painter) Restore() {
	n := len(p.stack)
	if n == 0 {
		panic("layout: Painter.Restore 调用时状态栈为空（Save/Restore 不配对）")
	}
	p.state = p.stack[n-1]
	p.stack = p.stack[:n-1]
}

// DrawGlyph 以当前状态绘制一个字形。
func (p *Painter) DrawGlyph(ch rune, g GlyphLayout) {
	if p.backend != nil {
		p.backend.DrawGlyph(p, ch, g)
	}
}

// DrawObject 以当前状态绘制一个内嵌对象。
func (p *Painter) DrawObject(obj InlineObject) {
	if p.backend != nil {
		p.backend.DrawObject(p, obj)
	}
}
