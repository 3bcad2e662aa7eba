package renderer

import (
	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/story"
	"github.com/ByLCY/storyframe/typeset"
)

// Renderer 将排好版的文档输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}

// Document 是渲染器的输入：按页组织的文本框及其布局。
type Document struct {
	Meta  story.DocumentMeta
	Story layout.Story
	Pages []Page
}

// Page 的尺寸单位为 mm。
type Page struct {
	Width  float64
	Height float64
	Frames []Frame
}

// Frame 把文本框几何与其上已排好的 TextLayout 配对。
type Frame struct {
	Frame  *typeset.Frame
	Layout *layout.TextLayout
}

// Assemble 按页面描述把 layouts（与 doc.Frames() 顺序一致）分配到各页。
func Assemble(doc *story.Document, frames []*typeset.Frame, layouts []*layout.TextLayout) *Document {
	out := &Document{Meta: doc.Meta, Story: doc.Story}
	i := 0
	for _, spec := range doc.Pages {
		page := Page{Width: spec.Width, Height: spec.Height}
		for range spec.Frames {
			if i >= len(frames) || i >= len(layouts) {
				break
			}
			page.Frames = append(page.Frames, Frame{Frame: frames[i], Layout: layouts[i]})
			i++
		}
		out.Pages = append(out.Pages, page)
	}
	return out
}
