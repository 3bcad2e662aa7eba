package layout

import "fmt"

// PathData 是沿路径排字时单个字符的放置信息。
type PathData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // 弧度
	Dx       float64 `json:"dx"`
}

// TextLayout 维护一个文本框内文本的几何模型：行盒子树、沿路径排字表以及光标记忆。
//
// 外部断行器通过 Clear、AppendLine 与 RemoveLastLine 构建布局，
// 编辑器与渲染器随后对其做位置/几何查询。TextLayout 不是并发安全的，
// 调用方需要串行化访问。
type TextLayout struct {
	story Story
	frame Frame
	box   *GroupBox
	path  []PathData
	valid bool

	// 上下移动光标时记住的目标列（magic X）。
	magicX       float64
	lastMagicPos int
}

// New 创建绑定到 story 与 frame 的 TextLayout。
func New(story Story, frame Frame) *TextLayout {
	if story == nil {
		panic("layout: New 需要非 nil 的 Story")
	}
	return &TextLayout{
		story:        story,
		frame:        frame,
		box:          NewGroupBox(),
		lastMagicPos: -1,
	}
}

func (tl *TextLayout) Story() Story { return tl.story }
func (tl *TextLayout) Frame() Frame { return tl.frame }

// IsValid 报告布局是否与当前内容一致。
func (tl *TextLayout) IsValid() bool { return tl.valid }

// Validate 由断行器在一次完整排版后调用。
func (tl *TextLayout) Validate() { tl.valid = true }

// Invalidate 在内容或样式变化后调用。
func (tl *TextLayout) Invalidate() { tl.valid = false }

// Lines 返回行数。
func (tl *TextLayout) Lines() int { return tl.box.Len() }

// Line 返回第 i 行（从 0 开始）。
func (tl *TextLayout) Line(i int) *LineBox {
	if i < 0 || i >= tl.box.Len() {
		panic(fmt.Sprintf("layout: TextLayout.Line 下标越界 %d（共 %d 行）", i, tl.box.Len()))
	}
	ls, ok := tl.box.Boxes()[i].(*LineBox)
	if !ok {
		panic(fmt.Sprintf("layout: TextLayout.Line 第 %d 个盒子不是 LineBox", i))
	}
	return ls
}

// Box 返回根盒子。
func (tl *TextLayout) Box() *GroupBox { return tl.box }

// Point 返回 pos 处的路径放置信息，调用方需保证表已覆盖 pos。
func (tl *TextLayout) Point(pos int) PathData {
	if pos < 0 || pos >= len(tl.path) {
		panic(fmt.Sprintf("layout: TextLayout.Point 位置 %d 超出路径表（长度 %d）", pos, len(tl.path)))
	}
	return tl.path[pos]
}

// PointRef 返回 pos 处路径放置信息的指针，供路径排字算法就地更新。
// 表不足时按需扩展到 story 长度，pos 必须位于 [0, story.Length()) 内。
func (tl *TextLayout) PointRef(pos int) *PathData {
	n := tl.story.Length()
	if pos < 0 || pos >= n {
		panic(fmt.Sprintf("layout: TextLayout.PointRef 位置 %d 超出故事范围 [0, %d)", pos, n))
	}
	if pos >= len(tl.path) {
		grown := make([]PathData, n)
		copy(grown, tl.path)
		tl.path = grown
	}
	return &tl.path[pos]
}

// AppendLine 追加一行。行的字符范围必须落在故事内。
// 断行器给出的 ascent 不可靠，这里按 y 与已累计高度重新计算。
func (tl *TextLayout) AppendLine(ls *LineBox) {
	n := tl.story.Length()
	if ls == nil {
		panic("layout: TextLayout.AppendLine 参数为 nil")
	}
	if ls.FirstChar() < 0 || ls.FirstChar() >= n || ls.LastChar() >= n {
		panic(fmt.Sprintf("layout: TextLayout.AppendLine 行范围 [%d, %d] 超出故事长度 %d", ls.FirstChar(), ls.LastChar(), n))
	}
	ls.SetAscent(ls.Y() - tl.box.Height())
	tl.box.AddBox(ls)
}

// RemoveLastLine 删除最后一行，用于排版回退。
func (tl *TextLayout) RemoveLastLine() {
	if tl.box.Len() == 0 {
		panic("layout: TextLayout.RemoveLastLine 没有可删除的行")
	}
	tl.box.RemoveBox(tl.box.Len() - 1)
}

// Render 在一对 Save/Restore 中渲染整棵盒子树。
func (tl *TextLayout) Render(p *Painter, s Story) {
	p.Save()
	defer p.Restore()
	tl.box.Render(p, s)
}

// Clear 丢弃当前盒子树与路径表，并重置光标记忆。
// 沿路径排字的文本框会立即把路径表扩展到故事长度。
func (tl *TextLayout) Clear() {
	tl.box = NewGroupBox()
	tl.path = nil
	if tl.frame != nil && tl.frame.PathText() != nil {
		tl.path = make([]PathData, tl.story.Length())
	}
	tl.magicX = 0
	tl.lastMagicPos = -1
}

// SetStory 替换故事并清空布局。
func (tl *TextLayout) SetStory(s Story) {
	if s == nil {
		panic("layout: TextLayout.SetStory 需要非 nil 的 Story")
	}
	tl.story = s
	tl.Clear()
}

// StartOfLine 返回包含 pos 的行的第一个字符，找不到时返回 0。
func (tl *TextLayout) StartOfLine(pos int) int {
	for i := 0; i < tl.Lines(); i++ {
		ls := tl.Line(i)
		if ls.FirstChar() <= pos && pos <= ls.LastChar() {
			return ls.FirstChar()
		}
	}
	return 0
}

// EndOfLine 返回包含 pos 的行的行尾位置：行末字符是段落分隔符或空格时返回该字符，
// 否则返回其后一个位置。找不到时返回故事长度。
func (tl *TextLayout) EndOfLine(pos int) int {
	for i := 0; i < tl.Lines(); i++ {
		ls := tl.Line(i)
		if !ls.ContainsPos(pos) {
			continue
		}
		switch tl.story.Text(ls.LastChar()) {
		case ParagraphSeparator, ' ':
			return ls.LastChar()
		default:
			return ls.LastChar() + 1
		}
	}
	return tl.story.Length()
}

// navLine 返回光标导航时 pos 所在的行。
// 最后一行之后紧邻的位置（文本框末尾的插入点）归属最后一行。
func (tl *TextLayout) navLine(pos int) (int, bool) {
	n := tl.Lines()
	for i := 0; i < n; i++ {
		if tl.Line(i).ContainsPos(pos) {
			return i, true
		}
	}
	if n > 0 && pos == tl.Line(n-1).LastChar()+1 {
		return n - 1, true
	}
	return 0, false
}

// rememberColumn 更新 magic X：换了位置或当前列更靠右时采用新的列。
func (tl *TextLayout) rememberColumn(ls *LineBox, pos int) {
	xpos := ls.CaretX(pos)
	if pos != tl.lastMagicPos || xpos > tl.magicX {
		tl.magicX = xpos
	}
}

// PrevLine 返回上一行中第一个左边缘不小于记忆列（含相等）的位置。
// 已在第一行时返回行首；位置不在本框内时停在本框的第一个字符。
func (tl *TextLayout) PrevLine(pos int) int {
	i, ok := tl.navLine(pos)
	if !ok {
		return tl.box.FirstChar()
	}
	if i == 0 {
		if !tl.Line(0).ContainsPos(pos) {
			return tl.StartOfFrame()
		}
		return tl.StartOfLine(pos)
	}
	tl.rememberColumn(tl.Line(i), pos)
	target := tl.Line(i - 1)
	if j, ok := target.firstAtOrRight(tl.magicX); ok {
		tl.lastMagicPos = j
		return j
	}
	tl.lastMagicPos = target.LastChar()
	return target.LastChar()
}

// NextLine 返回下一行中第一个左边缘不小于记忆列（含相等）的位置。
// 已在最后一行时返回行尾；文本框末尾的插入点保持在本框末尾。
func (tl *TextLayout) NextLine(pos int) int {
	i, ok := tl.navLine(pos)
	if !ok {
		if tl.box.Len() == 0 {
			return tl.StartOfFrame()
		}
		return tl.box.LastChar()
	}
	if i+1 == tl.Lines() {
		if last := tl.Line(i); !last.ContainsPos(pos) {
			return last.LastChar() + 1
		}
		return tl.EndOfLine(pos)
	}
	tl.rememberColumn(tl.Line(i), pos)
	target := tl.Line(i + 1)
	if j, ok := target.firstAtOrRight(tl.magicX); ok {
		tl.lastMagicPos = j
		return j
	}
	tl.lastMagicPos = target.LastChar() + 1
	return target.LastChar() + 1
}

// StartOfFrame 返回文本框的第一个字符。
func (tl *TextLayout) StartOfFrame() int { return tl.box.FirstChar() }

// EndOfFrame 返回文本框最后一个字符之后的位置。
func (tl *TextLayout) EndOfFrame() int { return tl.box.LastChar() + 1 }

// ScreenToPosition 把文本框坐标转换为最近的字符位置。
func (tl *TextLayout) ScreenToPosition(pt Point) int {
	if pos := tl.box.PointToPosition(pt); pos >= 0 {
		return pos
	}
	return tl.StartOfFrame()
}

// BoundingBox 返回 pos 起 length 个字符的矩形。盒子树无法回答时合成一个插入点矩形：
// 有行时放在最后一行之下，没有行时放在 (1,1)，高度取段落行距。
func (tl *TextLayout) BoundingBox(pos, length int) Rect {
	if tl.box.ContainsPos(pos) {
		if r := tl.box.BoundingBox(pos, length); r.IsValid() {
			return r
		}
	}
	pstyle := tl.story.ParagraphStyle(max(min(pos, tl.story.Length()), 0))
	if n := tl.Lines(); n > 0 {
		ls := tl.Line(n - 1)
		return Rect{X: ls.X(), Y: ls.Y() + pstyle.LineSpacing - ls.Ascent(), W: 1, H: ls.Height()}
	}
	return Rect{X: 1, Y: 1, W: 1, H: pstyle.LineSpacing}
}
