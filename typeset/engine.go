package typeset

import (
	"log/slog"

	"github.com/ByLCY/storyframe/layout"
)

const eps = 1e-9

// Engine 是 TextLayout 的外部断行器：贪心地在空格处断行，逐行调用 AppendLine。
type Engine struct {
	logger        *slog.Logger
	orphanControl bool
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 指定日志输出，默认使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOrphanControl 开关孤行控制：段落首行不会单独留在文本框底部。
func WithOrphanControl(on bool) Option {
	return func(e *Engine) { e.orphanControl = on }
}

// NewEngine 创建 Engine，默认开启孤行控制。
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default(), orphanControl: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow 从 start 开始把故事排进矩形文本框，返回第一个未能放下的位置。
// 完成后布局被标记为有效。
func (e *Engine) Flow(tl *layout.TextLayout, frame *Frame, start int) int {
	st := tl.Story()
	tl.Clear()
	n := st.Length()
	pos := max(start, 0)
	baseline, prevDescent := 0.0, 0.0

	for pos < n {
		end := breakLine(st, pos, frame.Width)
		ascent, descent := lineMetrics(st, pos, end)
		if tl.Lines() == 0 {
			baseline = ascent
		} else {
			spacing := st.ParagraphStyle(pos).LineSpacing
			if spacing <= 0 {
				spacing = prevDescent + ascent
			}
			baseline += spacing
		}
		if baseline+descent > frame.Height+eps {
			e.logger.Debug("文本框已满", "frame", frame.Name, "pos", pos, "lines", tl.Lines())
			break
		}
		adv := make([]float64, end-pos+1)
		for i := range adv {
			adv[i] = st.Glyphs(pos + i).Wide()
		}
		tl.AppendLine(layout.NewLineBox(pos, end, 0, baseline, ascent, descent, adv))
		prevDescent = descent
		pos = end + 1
	}

	if pos < n && e.orphanControl && tl.Lines() > 1 {
		last := tl.Line(tl.Lines() - 1)
		if startsParagraph(st, last.FirstChar()) && st.Text(last.LastChar()) != layout.ParagraphSeparator {
			tl.RemoveLastLine()
			pos = last.FirstChar()
			e.logger.Debug("孤行回退", "frame", frame.Name, "pos", pos)
		}
	}
	tl.Validate()
	return pos
}

// breakLine 返回从 pos 开始的一行的最后一个字符。
// 段落分隔符结束当前行；行尾空格可以超出宽度并留在本行；
// 没有空格可断时在溢出字符之前断开，每行至少一个字符。
func breakLine(st layout.Story, pos int, width float64) int {
	n := st.Length()
	w := 0.0
	lastSpace := -1
	for i := pos; i < n; i++ {
		ch := st.Text(i)
		if ch == layout.ParagraphSeparator {
			return i
		}
		adv := st.Glyphs(i).Wide()
		if ch == ' ' {
			lastSpace = i
			w += adv
			continue
		}
		if i > pos && w+adv > width+eps {
			if lastSpace >= pos {
				return lastSpace
			}
			return i - 1
		}
		w += adv
	}
	return n - 1
}

// lineMetrics 取行内字符的最大上升与下降；内嵌对象立在基线上。
func lineMetrics(st layout.Story, first, last int) (ascent, descent float64) {
	for i := first; i <= last; i++ {
		if st.HasObject(i) {
			ascent = max(ascent, st.Object(i).Height)
			continue
		}
		cs := st.CharStyle(i)
		if cs.Font == nil {
			continue
		}
		ascent = max(ascent, cs.Font.Ascent(cs.FontSize))
		descent = max(descent, cs.Font.Descent(cs.FontSize))
	}
	if ascent == 0 && descent == 0 {
		ls := st.ParagraphStyle(first).LineSpacing
		ascent, descent = ls*0.8, ls*0.2
	}
	return ascent, descent
}

func startsParagraph(st layout.Story, pos int) bool {
	return pos == 0 || st.Text(pos-1) == layout.ParagraphSeparator
}
