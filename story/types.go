package story

import "github.com/ByLCY/storyframe/layout"

// 该文件定义从 DSL 构建出的资源与页面描述，供排版、渲染与调试共用。

// Document 是 Build 的结果：故事正文、页面与文本框、资源与元信息。
type Document struct {
	Story      *Story       `json:"-"`
	Pages      []PageSpec   `json:"pages"`
	Resources  ResourceSet  `json:"resources"`
	Meta       DocumentMeta `json:"meta"`
	Unresolved []string     `json:"unresolved,omitempty"` // 未能解析的 ${path} 绑定
}

// Frames 按声明顺序返回所有页面上的文本框，即文本流经的链。
func (d *Document) Frames() []FrameSpec {
	var out []FrameSpec
	for _, p := range d.Pages {
		out = append(out, p.Frames...)
	}
	return out
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts      map[string]FontResource `json:"fonts"`
	Colors     map[string]layout.Color `json:"colors"`
	ParaStyles map[string]Style        `json:"paraStyles"`
	CharStyles map[string]Style        `json:"charStyles"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 builtin:<name> 形式。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style"`
	Family    string `json:"family"`    // 渲染器使用的 Family 名称
	IsBuiltin bool   `json:"isBuiltin"` // 是否为内建字体
	Fallback  string `json:"fallback"`
}

// Style 用于描述可继承的段落或字符样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// PageSpec 记录页面尺寸（mm）与其上的文本框。
type PageSpec struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Frames []FrameSpec `json:"frames"`
}

// FrameSpec 是页面上的一个文本框，坐标为页面坐标（mm）。
// Path 非空时文本沿折线排列，点坐标相对文本框左上角。
type FrameSpec struct {
	Name   string         `json:"name"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Border bool           `json:"border,omitempty"`
	Path   []layout.Point `json:"path,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
