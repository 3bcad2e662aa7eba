package canvasrenderer

import (
	"cmp"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/storyframe/fonts"
	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/story"
)

// Font 把 canvas 字体族包装成 layout.Font；度量以 mm 返回，字号为 pt。
type Font struct {
	name   string
	family *canvas.FontFamily
	style  canvas.FontStyle

	mu    sync.Mutex
	faces map[faceKey]*canvas.FontFace
}

var _ layout.Font = (*Font)(nil)

type faceKey struct {
	size float64
	col  layout.Color
}

func newFont(name string, family *canvas.FontFamily, style canvas.FontStyle) *Font {
	return &Font{name: name, family: family, style: style, faces: map[faceKey]*canvas.FontFace{}}
}

func (f *Font) Name() string { return f.name }

// Face 返回指定字号（pt）与颜色的字体面，结果会被缓存。
func (f *Font) Face(size float64, col layout.Color) *canvas.FontFace {
	key := faceKey{size: size, col: col}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := f.family.Face(size, colorFromLayout(col), f.style, canvas.FontNormal)
	f.faces[key] = face
	return face
}

func (f *Font) Ascent(size float64) float64  { return f.Face(size, layout.Color{}).Metrics().Ascent }
func (f *Font) Descent(size float64) float64 { return f.Face(size, layout.Color{}).Metrics().Descent }

func (f *Font) Advance(r rune, size float64) float64 {
	return f.Face(size, layout.Color{}).TextWidth(string(r))
}

// ResolveFont 实现 story.FontResolver：src 支持 builtin:/built-in:、embed: 与文件路径。
// 加载失败时退回 Latin Modern Roman。
func (r *Renderer) ResolveFont(res story.FontResource) (layout.Font, error) {
	key := fontCacheKey(res)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if f, ok := r.fonts[key]; ok {
		return f, nil
	}

	style := parseFontStyle(res.Style)
	family := canvas.NewFontFamily(cmp.Or(res.Family, res.Name, story.DefaultStyle))
	if err := r.loadFontIntoFamily(family, res, style); err != nil {
		fb, fbErr := r.fallback(res)
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", res.Name, err)
		}
		r.logger.Warn("字体加载失败，使用后备字体", "font", res.Name, "src", res.Src, "err", err)
		r.fonts[key] = fb
		return fb, nil
	}

	f := newFont(res.Name, family, style)
	r.fonts[key] = f
	return f, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, res story.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(res.Src, res.Name)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(src, name string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", name)
	}
	for _, prefix := range []string{"builtin:", "built-in:"} {
		if n, ok := strings.CutPrefix(src, prefix); ok {
			if blob, ok := r.fontBlobs[n]; ok {
				return blob, nil
			}
			return fonts.Load(n)
		}
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	switch {
	case filepath.IsAbs(src):
		return os.ReadFile(src)
	case r.baseDir != "":
		return os.ReadFile(filepath.Join(r.baseDir, src))
	}
	return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin: 或 embed:）", src)
}

// fallback 优先使用资源声明的 fallback，其次是内置的 Latin Modern Roman。
// 调用方持有 fontMu。
func (r *Renderer) fallback(res story.FontResource) (*Font, error) {
	if res.Fallback != "" {
		family := canvas.NewFontFamily(res.Name + "-fallback")
		if data, err := r.loadFontBytes(res.Fallback, res.Name); err == nil {
			if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
				return newFont(res.Name, family, canvas.FontRegular), nil
			}
		}
	}
	if r.fallbackFont != nil {
		return r.fallbackFont, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("storyframe-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFont = newFont(fonts.Default, family, canvas.FontRegular)
	return r.fallbackFont, nil
}

// fontWeights 按匹配优先级排列：semibold 必须先于 bold 检查。
var fontWeights = []struct {
	words  []string
	weight canvas.FontStyle
}{
	{[]string{"black", "heavy"}, canvas.FontBlack},
	{[]string{"extrabold", "ultrabold"}, canvas.FontExtraBold},
	{[]string{"semibold", "demibold"}, canvas.FontSemiBold},
	{[]string{"bold"}, canvas.FontBold},
	{[]string{"medium"}, canvas.FontMedium},
	{[]string{"light"}, canvas.FontLight},
}

// parseFontStyle 把 "Bold Italic"、"semibold" 之类的描述转换为 canvas 字重与斜体标记。
func parseFontStyle(desc string) canvas.FontStyle {
	s := strings.ToLower(desc)
	style := canvas.FontRegular
	for _, w := range fontWeights {
		if slices.ContainsFunc(w.words, func(word string) bool { return strings.Contains(s, word) }) {
			style = w.weight
			break
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}

func fontCacheKey(res story.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", res.Name, res.Src, res.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
