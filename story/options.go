package story

import "github.com/ByLCY/storyframe/layout"

// BuildOptions 配置构建阶段所需的依赖与默认值。
type BuildOptions struct {
	Fonts FontResolver

	DefaultFont        string                 // 未声明字体时使用的 src
	DefaultFontSize    float64                // pt
	DefaultLineSpacing layout.LineSpacingSpec // 段落未指定 line-spacing 时使用
}

// FontResolver 负责把字体资源加载为可查询度量的 layout.Font。
type FontResolver interface {
	ResolveFont(res FontResource) (layout.Font, error)
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.DefaultFont == "" {
		o.DefaultFont = "builtin:lmroman10regular"
	}
	if o.DefaultFontSize <= 0 {
		o.DefaultFontSize = 11
	}
	return o
}
