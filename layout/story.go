package layout

// 该文件定义 TextLayout 依赖的外部协作者：Story、Frame 与字体/样式。
// 它们由文档模型实现，布局核心只通过这些窄接口读取信息。

// ParagraphSeparator 是故事文本中的段落分隔符。
const ParagraphSeparator = '\u2029'

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Font 提供按字号（pt）查询的字体度量，返回值单位为 mm。
type Font interface {
	Name() string
	Ascent(size float64) float64
	Descent(size float64) float64
	Advance(r rune, size float64) float64
}

// ParagraphStyle 是布局核心需要的段落样式子集。
type ParagraphStyle struct {
	Name        string  `json:"name"`
	LineSpacing float64 `json:"lineSpacing"` // mm，基线到基线的距离
}

// CharStyle 是绘制单个字符时使用的字符样式。
type CharStyle struct {
	Name        string  `json:"name"`
	Font        Font    `json:"-"`
	FontSize    float64 `json:"fontSize"` // pt
	FillColor   Color   `json:"fillColor"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	ScaleH      float64 `json:"scaleH"` // 1 表示 100%，0 视为 1
	ScaleV      float64 `json:"scaleV"`
}

// InlineObject 描述嵌入在文本流中的对象（图片框等），尺寸单位为 mm。
type InlineObject struct {
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	LineWidth float64 `json:"lineWidth"`
}

// GlyphLayout 记录整形后单个位置的字形度量。
type GlyphLayout struct {
	XAdvance float64 `json:"xAdvance"`
	XOffset  float64 `json:"xOffset"`
	YOffset  float64 `json:"yOffset"`
	ScaleH   float64 `json:"scaleH"`
	ScaleV   float64 `json:"scaleV"`
}

// Wide 返回考虑水平缩放后的前进宽度。
func (g GlyphLayout) Wide() float64 { return g.XAdvance * scaleOrOne(g.ScaleH) }

func scaleOrOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Story 是按位置访问的逻辑字符序列及其样式。
type Story interface {
	Length() int
	// Text 返回 pos 处的字符；段落结尾为 ParagraphSeparator。
	Text(pos int) rune
	ParagraphStyle(pos int) ParagraphStyle
	CharStyle(pos int) CharStyle
	HasObject(pos int) bool
	Object(pos int) InlineObject
	Glyphs(pos int) GlyphLayout
}

// PathText 由沿路径排字的文本框提供。
type PathText interface {
	Path() []Point
}

// Frame 是承载 TextLayout 的页面元素。
// 只有沿路径排字时 PathText 才返回非 nil。
type Frame interface {
	PathText() PathText
}
