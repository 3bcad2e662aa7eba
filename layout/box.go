package layout

import (
	"fmt"
	"unicode"
)

// Box 是已排版的可渲染元素。变体集合是封闭的：*LineBox 与 *GroupBox。
type Box interface {
	FirstChar() int
	LastChar() int
	X() float64
	// Y 对 LineBox 是基线位置，对 GroupBox 是顶部位置。
	Y() float64
	Width() float64
	Height() float64
	Ascent() float64
	Descent() float64
	// Bounds 返回整个盒子的外接矩形。
	Bounds() Rect
	ContainsPos(pos int) bool
	// BoundingBox 返回从 pos 开始 length 个字符的矩形；不包含 pos 时返回零值 Rect。
	BoundingBox(pos, length int) Rect
	// PointToPosition 返回离 pt 最近的字符位置；无法回答时返回 -1。
	PointToPosition(pt Point) int
	Render(p *Painter, s Story)

	sealed()
}

var (
	_ Box = (*LineBox)(nil)
	_ Box = (*GroupBox)(nil)
)

// LineBox 表示一行已排好的文本。
// 字符范围 [first, last] 连续，advances 为范围内每个字符的前进宽度。
type LineBox struct {
	first, last int
	x, y        float64 // y 为基线
	ascent      float64
	descent     float64
	width       float64
	advances    []float64
}

// NewLineBox 创建一行。advances 的长度必须等于 last-first+1。
func NewLineBox(first, last int, x, y, ascent, descent float64, advances []float64) *LineBox {
	if last < first {
		panic(fmt.Sprintf("layout: NewLineBox 字符范围无效 [%d, %d]", first, last))
	}
	if len(advances) != last-first+1 {
		panic(fmt.Sprintf("layout: NewLineBox 需要 %d 个字符宽度，实际 %d", last-first+1, len(advances)))
	}
	ls := &LineBox{
		first:    first,
		last:     last,
		x:        x,
		y:        y,
		ascent:   ascent,
		descent:  descent,
		advances: append([]float64(nil), advances...),
	}
	for _, a := range ls.advances {
		ls.width += a
	}
	return ls
}

func (ls *LineBox) sealed() {}

func (ls *LineBox) FirstChar() int      { return ls.first }
func (ls *LineBox) LastChar() int       { return ls.last }
func (ls *LineBox) X() float64          { return ls.x }
func (ls *LineBox) Y() float64          { return ls.y }
func (ls *LineBox) Width() float64      { return ls.width }
func (ls *LineBox) Ascent() float64     { return ls.ascent }
func (ls *LineBox) Descent() float64    { return ls.descent }
func (ls *LineBox) Height() float64     { return ls.ascent + ls.descent }
func (ls *LineBox) SetAscent(a float64) { ls.ascent = a }

// Advance 返回 pos 处字符的前进宽度；pos 必须在本行内。
func (ls *LineBox) Advance(pos int) float64 { return ls.advances[pos-ls.first] }

func (ls *LineBox) Bounds() Rect {
	return Rect{X: ls.x, Y: ls.y - ls.ascent, W: ls.width, H: ls.Height()}
}

func (ls *LineBox) ContainsPos(pos int) bool {
	return ls.first <= pos && pos <= ls.last
}

// CaretX 返回插入点位于 pos 之前时的水平坐标，pos 被夹到 [first, last+1]。
func (ls *LineBox) CaretX(pos int) float64 {
	n := min(max(pos-ls.first, 0), len(ls.advances))
	x := ls.x
	for _, a := range ls.advances[:n] {
		x += a
	}
	return x
}

func (ls *LineBox) BoundingBox(pos, length int) Rect {
	if !ls.ContainsPos(pos) {
		return Rect{}
	}
	end := min(pos+max(length, 0), ls.last+1)
	w := 0.0
	for _, a := range ls.advances[pos-ls.first : end-ls.first] {
		w += a
	}
	return Rect{X: ls.CaretX(pos), Y: ls.y - ls.ascent, W: w, H: ls.Height()}
}

func (ls *LineBox) PointToPosition(pt Point) int {
	return ls.pointToPosition(pt, false)
}

// pointToPosition 在行内做水平命中测试：字符左半部分返回该字符，右半部分返回下一个位置。
// final 表示本行是最后一行，此时越过行尾可以落在 last+1。
func (ls *LineBox) pointToPosition(pt Point, final bool) int {
	if pt.X < ls.x {
		return ls.first
	}
	x := ls.x
	for i, a := range ls.advances {
		if pt.X < x+a/2 {
			return ls.first + i
		}
		x += a
	}
	if final {
		return ls.last + 1
	}
	return ls.last
}

// firstAtOrRight 返回本行第一个左边缘不小于 col 的字符。
func (ls *LineBox) firstAtOrRight(col float64) (int, bool) {
	const eps = 1e-9
	x := ls.x
	for i, a := range ls.advances {
		if x >= col-eps {
			return ls.first + i, true
		}
		x += a
	}
	return 0, false
}

// Render 逐字符绘制本行：每个字符使用故事中该位置的字符样式与字形。
func (ls *LineBox) Render(p *Painter, s Story) {
	p.Save()
	defer p.Restore()
	p.Translate(ls.x, ls.y)
	for i, adv := range ls.advances {
		pos := ls.first + i
		ch := s.Text(pos)
		object := s.HasObject(pos)
		if !object && (ch == ParagraphSeparator || unicode.IsSpace(ch) || unicode.IsControl(ch)) {
			p.Translate(adv, 0)
			continue
		}
		cs := s.CharStyle(pos)
		g := s.Glyphs(pos)
		p.SetFont(cs.Font)
		p.SetFontSize(cs.FontSize)
		p.SetFillColor(cs.FillColor)
		p.SetStrokeColor(cs.StrokeColor)
		p.SetStrokeWidth(cs.StrokeWidth)

		p.Save()
		p.Translate(g.XOffset, g.YOffset)
		p.Scale(scaleOrOne(g.ScaleH), scaleOrOne(g.ScaleV))
		if object {
			p.DrawObject(s.Object(pos))
		} else {
			p.DrawGlyph(ch, g)
		}
		p.Restore()
		p.Translate(adv, 0)
	}
}
