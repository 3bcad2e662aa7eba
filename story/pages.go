package story

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/storyframe/dsl"
	"github.com/ByLCY/storyframe/layout"
)

// paperSizes 是纵向纸张尺寸（mm），键为大写名称。
var paperSizes = map[string]struct{ w, h float64 }{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"A6":     {105, 148},
	"B5":     {176, 250},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// pageSize 返回纸张宽高；参数中最后出现的 landscape 或 portrait 决定方向。
func pageSize(spec dsl.PageSpec) (w, h float64, err error) {
	size, ok := paperSizes[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	w, h = size.w, size.h
	for _, p := range spec.Params {
		switch strings.ToLower(p.Value) {
		case "landscape":
			w, h = size.h, size.w
		case "portrait":
			w, h = size.w, size.h
		}
	}
	return w, h, nil
}

func collectPages(doc *dsl.Document) ([]PageSpec, error) {
	var pages []PageSpec
	for _, s := range doc.Sections {
		if s.Page == nil {
			continue
		}
		w, h, err := pageSize(s.Page.Spec)
		if err != nil {
			return nil, err
		}
		page := PageSpec{Width: w, Height: h}
		for _, cmd := range s.Page.Block.Commands("frame") {
			f, err := parseFrame(cmd)
			if err != nil {
				return nil, err
			}
			page.Frames = append(page.Frames, f)
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return nil, errors.New("文档中缺少 page 段落")
	}
	return pages, nil
}

// dimension 返回长度属性对应的字段。
func (f *FrameSpec) dimension(key string) *float64 {
	switch key {
	case "x":
		return &f.X
	case "y":
		return &f.Y
	case "width":
		return &f.Width
	case "height":
		return &f.Height
	}
	return nil
}

// parseFrame 解析 `frame <name> { x: y: width: height: border: path: [[x, y], ...] }`。
func parseFrame(cmd *dsl.Command) (FrameSpec, error) {
	f := FrameSpec{Name: cmd.Arg(0)}
	for _, a := range cmd.Block.Assignments() {
		if dst := f.dimension(a.Key); dst != nil {
			mm, err := lengthMM(a.Value)
			if err != nil {
				return f, fmt.Errorf("文本框 %s 的 %s: %w", f.Name, a.Key, err)
			}
			*dst = mm
			continue
		}
		switch a.Key {
		case "border":
			f.Border = strings.EqualFold(a.Value.Text(), "true")
		case "path":
			pts, err := parsePoints(a.Value)
			if err != nil {
				return f, fmt.Errorf("文本框 %s 的路径: %w", f.Name, err)
			}
			f.Path = pts
		}
	}
	if f.Width <= 0 || f.Height <= 0 {
		return f, fmt.Errorf("文本框 %s 缺少宽度或高度", f.Name)
	}
	return f, nil
}

func lengthMM(v *dsl.Value) (float64, error) {
	l, err := layout.ParseLength(v.Text())
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

// parsePoints 读取 [[x, y], ...] 形式的折线，至少两个点。
func parsePoints(v *dsl.Value) ([]layout.Point, error) {
	if v == nil || v.Array == nil {
		return nil, errors.New("路径必须是点的数组")
	}
	if len(v.Array.Values) < 2 {
		return nil, errors.New("路径至少需要两个点")
	}
	pts := make([]layout.Point, len(v.Array.Values))
	for i, item := range v.Array.Values {
		if item.Array == nil || len(item.Array.Values) != 2 {
			return nil, fmt.Errorf("第 %d 个点需要 [x, y] 两个坐标", i)
		}
		x, err := lengthMM(item.Array.Values[0])
		if err != nil {
			return nil, err
		}
		y, err := lengthMM(item.Array.Values[1])
		if err != nil {
			return nil, err
		}
		pts[i] = layout.Point{X: x, Y: y}
	}
	return pts, nil
}
