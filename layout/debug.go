package layout

import (
	"encoding/json"
	"os"
)

// LineSnapshot 是单行几何信息的 JSON 视图。
type LineSnapshot struct {
	FirstChar int     `json:"firstChar"`
	LastChar  int     `json:"lastChar"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Ascent    float64 `json:"ascent"`
	Descent   float64 `json:"descent"`
}

// Snapshot 是一个 TextLayout 的 JSON 视图，便于调试或可视化。
type Snapshot struct {
	Name         string         `json:"name"`
	Valid        bool           `json:"valid"`
	StartOfFrame int            `json:"startOfFrame"`
	EndOfFrame   int            `json:"endOfFrame"`
	Height       float64        `json:"height"`
	Lines        []LineSnapshot `json:"lines"`
	Path         []PathData     `json:"path,omitempty"`
}

// Snapshot 生成当前布局的快照。
func (tl *TextLayout) Snapshot(name string) Snapshot {
	snap := Snapshot{
		Name:         name,
		Valid:        tl.valid,
		StartOfFrame: tl.StartOfFrame(),
		EndOfFrame:   tl.EndOfFrame(),
		Height:       tl.box.Height(),
		Lines:        make([]LineSnapshot, 0, tl.Lines()),
		Path:         append([]PathData(nil), tl.path...),
	}
	for i := 0; i < tl.Lines(); i++ {
		ls := tl.Line(i)
		snap.Lines = append(snap.Lines, LineSnapshot{
			FirstChar: ls.FirstChar(),
			LastChar:  ls.LastChar(),
			X:         ls.X(),
			Y:         ls.Y(),
			Width:     ls.Width(),
			Ascent:    ls.Ascent(),
			Descent:   ls.Descent(),
		})
	}
	return snap
}

// WriteDebugJSON 将布局快照输出为 JSON。
func WriteDebugJSON(snaps []Snapshot, path string) error {
	if len(snaps) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
