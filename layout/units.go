package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 布局内部统一使用毫米；字号沿用排版习惯使用 pt。

// Unit 表示长度的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数值（倍数等）
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算系数。
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length 保留数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM 转换为毫米；无单位数值按毫米处理。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT 转换为 pt；无单位数值按 pt 处理（用于字号）。
func (l Length) ToPT() float64 {
	if l.Unit == UnitNone || l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength 解析 "12pt"、"18mm"、"2.5cm"、"1in" 或无单位数值。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			v = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineSpacingKind 区分倍数行距与绝对行距。
type LineSpacingKind int

const (
	LineSpacingAuto LineSpacingKind = iota
	LineSpacingFactor
	LineSpacingAbsolute
)

// LineSpacingSpec 保留作者的原始意图：倍数（1.2x）或绝对长度（14pt）。
type LineSpacingSpec struct {
	Kind   LineSpacingKind `json:"kind"`
	Factor float64         `json:"factor,omitempty"`
	Len    Length          `json:"len,omitempty"`
}

// ParseLineSpacing 解析 "1.2x"、"14pt" 或 "auto"。
func ParseLineSpacing(value string) (LineSpacingSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "" || v == "auto" || v == "normal":
		return LineSpacingSpec{Kind: LineSpacingAuto}, nil
	case strings.HasSuffix(v, "x"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineSpacingSpec{}, fmt.Errorf("无法解析行距倍数 %q", value)
		}
		return LineSpacingSpec{Kind: LineSpacingFactor, Factor: f}, nil
	default:
		l, err := ParseLength(v)
		if err != nil {
			return LineSpacingSpec{}, err
		}
		if l.Unit == UnitNone {
			l.Unit = UnitPT
		}
		return LineSpacingSpec{Kind: LineSpacingAbsolute, Len: l}, nil
	}
}

// Resolve 以字号（pt）计算行距（mm）；自动行距为字号的 1.2 倍。
func (s LineSpacingSpec) Resolve(fontSizePt float64) float64 {
	switch s.Kind {
	case LineSpacingFactor:
		return fontSizePt * PtToMm * s.Factor
	case LineSpacingAbsolute:
		return s.Len.ToMM()
	default:
		return fontSizePt * PtToMm * 1.2
	}
}
