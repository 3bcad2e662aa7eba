package typeset

import "github.com/ByLCY/storyframe/layout"

// ProbeReport 汇总某个位置在其文本框中的导航与几何查询结果。
type ProbeReport struct {
	Frame       string      `json:"frame"`
	Pos         int         `json:"pos"`
	StartOfLine int         `json:"startOfLine"`
	EndOfLine   int         `json:"endOfLine"`
	PrevLine    int         `json:"prevLine"`
	NextLine    int         `json:"nextLine"`
	BoundingBox layout.Rect `json:"boundingBox"`
}

// Probe 找到包含 pos 的布局（文本框末尾的插入点也算在内）并执行查询。
func Probe(layouts []*layout.TextLayout, pos int) (ProbeReport, bool) {
	for _, tl := range layouts {
		if tl.Lines() == 0 {
			continue
		}
		if !tl.Box().ContainsPos(pos) && pos != tl.EndOfFrame() {
			continue
		}
		r := ProbeReport{
			Pos:         pos,
			StartOfLine: tl.StartOfLine(pos),
			EndOfLine:   tl.EndOfLine(pos),
			PrevLine:    tl.PrevLine(pos),
			NextLine:    tl.NextLine(pos),
			BoundingBox: tl.BoundingBox(pos, 1),
		}
		if f, ok := tl.Frame().(*Frame); ok {
			r.Frame = f.Name
		}
		return r, true
	}
	return ProbeReport{}, false
}
