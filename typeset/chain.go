package typeset

import (
	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/story"
)

// FlowChain 让故事依次流过链接的文本框，每个文本框得到一个 TextLayout。
func (e *Engine) FlowChain(st layout.Story, frames []*Frame) []*layout.TextLayout {
	layouts := make([]*layout.TextLayout, 0, len(frames))
	pos := 0
	for _, f := range frames {
		tl := layout.New(st, f)
		if f.OnPath() {
			pos = e.FlowOnPath(tl, f, pos)
		} else {
			pos = e.Flow(tl, f, pos)
		}
		layouts = append(layouts, tl)
	}
	if rest := st.Length() - pos; rest > 0 {
		e.logger.Warn("文本框链容纳不下全部文本", "frames", len(frames), "overflow", rest)
	}
	return layouts
}

// InvalidateOnChange 在故事被编辑时使这些布局失效。
func InvalidateOnChange(st *story.Story, layouts []*layout.TextLayout) {
	st.OnChange(func(story.Change) {
		for _, tl := range layouts {
			tl.Invalidate()
		}
	})
}
