package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/renderer"
	"github.com/ByLCY/storyframe/story"
)

const borderWidth = 0.2

var borderColor = layout.Color{R: 160, G: 160, B: 160}

// Renderer draws laid-out text frames via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	logger  *slog.Logger

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu       sync.Mutex
	fonts        map[string]*Font
	fallbackFont *Font
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ story.FontResolver = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Logger  *slog.Logger
	Fonts   map[string]Resource // fonts accessible via builtin:<name>, shadowing the Latin Modern set
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:   opts.BaseDir,
		logger:    opts.Logger,
		fontBlobs: map[string][]byte{},
		fonts:     map[string]*Font{},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用该字体时报错
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders every page into a PDF byte slice.
func (r *Renderer) Render(doc *renderer.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染文档为空")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	if doc.Story == nil {
		return nil, fmt.Errorf("渲染文档缺少故事")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.Pages[0].Width, doc.Pages[0].Height, nil)
	applyMeta(writer, doc.Meta)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		// 布局坐标以左上角为原点、y 向下；这里保持 canvas 默认坐标系，由 backend 翻转 y。
		ctx.SetCoordSystem(canvas.CartesianI)

		if err := r.drawPage(ctx, page, doc.Story); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta story.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page renderer.Page, st layout.Story) error {
	b := &backend{r: r, ctx: ctx, height: page.Height}
	for _, f := range page.Frames {
		if f.Frame == nil || f.Layout == nil {
			continue
		}
		if f.Frame.Border {
			b.drawBorder(f.Frame.X, f.Frame.Y, f.Frame.Width, f.Frame.Height)
		}
		if !f.Layout.IsValid() {
			r.logger.Debug("跳过失效的布局", "frame", f.Frame.Name)
			continue
		}
		p := layout.NewPainter(b)
		p.Translate(f.Frame.X, f.Frame.Y)
		if f.Frame.OnPath() {
			b.drawPathText(p, f.Layout, st)
		} else {
			f.Layout.Render(p, st)
		}
		if p.Depth() != 0 {
			return fmt.Errorf("文本框 %s 的绘制状态未恢复（深度 %d）", f.Frame.Name, p.Depth())
		}
	}
	return b.err
}

// backend 把 layout.Painter 的绘制调用转换为 canvas 指令。
// Painter 给出的坐标是页面坐标（mm，左上角原点，y 为基线）。
type backend struct {
	r      *Renderer
	ctx    *canvas.Context
	height float64

	rotation float64 // 沿路径排字时当前字符的旋转角（弧度，y 向下为正）
	err      error
}

var _ layout.Backend = (*backend)(nil)

// at 把页面坐标 (x, y) 处设为原点，叠加旋转与 painter 的缩放。调用方负责 Pop。
func (b *backend) at(p *layout.Painter, x, y float64) {
	b.ctx.Push()
	m := canvas.Identity.Translate(x, b.height-y)
	if b.rotation != 0 {
		m = m.Rotate(-b.rotation * 180 / math.Pi)
	}
	b.ctx.ComposeView(m.Scale(nonZero(p.ScaleH()), nonZero(p.ScaleV())))
}

func (b *backend) DrawGlyph(p *layout.Painter, ch rune, g layout.GlyphLayout) {
	f, ok := p.Font().(*Font)
	if !ok || f == nil {
		fb, err := b.fallbackFont()
		if err != nil {
			b.fail(err)
			return
		}
		f = fb
	}
	size := p.FontSize()
	if size <= 0 {
		return
	}
	face := f.Face(size, p.FillColor())
	b.at(p, p.X(), p.Y())
	b.ctx.DrawText(0, 0, canvas.NewTextLine(face, string(ch), canvas.Left))
	b.ctx.Pop()
}

// DrawObject 以基线为底边绘制内嵌对象的占位矩形。
func (b *backend) DrawObject(p *layout.Painter, obj layout.InlineObject) {
	b.at(p, p.X(), p.Y())
	b.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	b.ctx.SetStrokeColor(colorFromLayout(p.StrokeColor()))
	w := obj.LineWidth
	if w <= 0 {
		w = borderWidth
	}
	b.ctx.SetStrokeWidth(w)
	b.ctx.DrawPath(0, 0, canvas.Rectangle(obj.Width, obj.Height))
	b.ctx.Pop()
}

func (b *backend) drawBorder(x, y, w, h float64) {
	b.ctx.Push()
	b.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	b.ctx.SetStrokeColor(colorFromLayout(borderColor))
	b.ctx.SetStrokeWidth(borderWidth)
	b.ctx.DrawPath(x, b.height-y-h, canvas.Rectangle(w, h))
	b.ctx.Pop()
}

// drawPathText 按路径表逐字符绘制，painter 已平移到文本框原点。
func (b *backend) drawPathText(p *layout.Painter, tl *layout.TextLayout, st layout.Story) {
	for i := 0; i < tl.Lines(); i++ {
		ls := tl.Line(i)
		for pos := ls.FirstChar(); pos <= ls.LastChar(); pos++ {
			ch := st.Text(pos)
			object := st.HasObject(pos)
			if !object && (ch == layout.ParagraphSeparator || unicode.IsSpace(ch) || unicode.IsControl(ch)) {
				continue
			}
			pd := tl.Point(pos)
			cs := st.CharStyle(pos)
			g := st.Glyphs(pos)

			p.Save()
			p.SetFont(cs.Font)
			p.SetFontSize(cs.FontSize)
			p.SetFillColor(cs.FillColor)
			p.SetStrokeColor(cs.StrokeColor)
			p.SetStrokeWidth(cs.StrokeWidth)
			p.Translate(pd.X, pd.Y)
			p.Scale(nonZero(g.ScaleH), nonZero(g.ScaleV))
			b.rotation = pd.Rotation
			if object {
				p.DrawObject(st.Object(pos))
			} else {
				p.DrawGlyph(ch, g)
			}
			b.rotation = 0
			p.Restore()
		}
	}
}

func (b *backend) fallbackFont() (*Font, error) {
	b.r.fontMu.Lock()
	defer b.r.fontMu.Unlock()
	return b.r.fallback(story.FontResource{})
}

// fail 记录第一个绘制错误；Backend 接口本身不返回错误。
func (b *backend) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
