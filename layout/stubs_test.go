package layout

// 测试用的最小协作者实现：等宽字体、内存故事与记录型绘制后端。

type monoFont struct{}

func (monoFont) Name() string                         { return "mono" }
func (monoFont) Ascent(size float64) float64          { return size * 0.8 }
func (monoFont) Descent(size float64) float64         { return size * 0.2 }
func (monoFont) Advance(r rune, size float64) float64 { return size }

type stubStory struct {
	text    []rune
	para    ParagraphStyle
	objects map[int]InlineObject
	pitch   float64
}

// newStubStory 把 '\n' 转为段落分隔符，每个字符宽 10。
func newStubStory(s string) *stubStory {
	st := &stubStory{
		para:    ParagraphStyle{Name: "Body", LineSpacing: 12},
		objects: map[int]InlineObject{},
		pitch:   10,
	}
	for _, r := range s {
		if r == '\n' {
			r = ParagraphSeparator
		}
		st.text = append(st.text, r)
	}
	return st
}

func (s *stubStory) Length() int                           { return len(s.text) }
func (s *stubStory) Text(pos int) rune                     { return s.text[pos] }
func (s *stubStory) ParagraphStyle(pos int) ParagraphStyle { return s.para }
func (s *stubStory) HasObject(pos int) bool {
	_, ok := s.objects[pos]
	return ok
}
func (s *stubStory) Object(pos int) InlineObject { return s.objects[pos] }
func (s *stubStory) Glyphs(pos int) GlyphLayout {
	return GlyphLayout{XAdvance: s.pitch, ScaleH: 1, ScaleV: 1}
}
func (s *stubStory) CharStyle(pos int) CharStyle {
	return CharStyle{Font: monoFont{}, FontSize: 10, FillColor: Color{R: 30, G: 30, B: 30}}
}

type stubPath []Point

func (p stubPath) Path() []Point { return p }

type stubFrame struct {
	path PathText
}

func (f stubFrame) PathText() PathText { return f.path }

// uniformLine 创建字符宽度均为 pitch 的一行，ascent 留给 AppendLine 重算。
func uniformLine(first, last int, x, y, descent, pitch float64) *LineBox {
	adv := make([]float64, last-first+1)
	for i := range adv {
		adv[i] = pitch
	}
	return NewLineBox(first, last, x, y, 0, descent, adv)
}

type drawCall struct {
	ch       rune
	object   string
	x, y     float64
	fontSize float64
	scaleH   float64
	depth    int
}

type recordingBackend struct {
	calls []drawCall
}

func (b *recordingBackend) DrawGlyph(p *Painter, ch rune, g GlyphLayout) {
	b.calls = append(b.calls, drawCall{ch: ch, x: p.X(), y: p.Y(), fontSize: p.FontSize(), scaleH: p.ScaleH(), depth: p.Depth()})
}

func (b *recordingBackend) DrawObject(p *Painter, obj InlineObject) {
	b.calls = append(b.calls, drawCall{object: obj.Name, x: p.X(), y: p.Y(), fontSize: p.FontSize(), scaleH: p.ScaleH(), depth: p.Depth()})
}
