package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度。
func TestPtMmRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000} {
		assert.InDelta(t, v, v*PtToMm*MmToPt, 1e-9)
		assert.InDelta(t, v, v*MmToPt*PtToMm, 1e-9)
	}
}

func TestLengthConversions(t *testing.T) {
	assert.InDelta(t, 25.4, Length{Value: 1, Unit: UnitIN}.ToMM(), 1e-9)
	assert.InDelta(t, 25.4, Length{Value: 2.54, Unit: UnitCM}.ToMM(), 1e-9)
	assert.InDelta(t, 12*PtToMm, Length{Value: 12, Unit: UnitPT}.ToMM(), 1e-9)
	assert.InDelta(t, 10*MmToPt, Length{Value: 10, Unit: UnitMM}.ToPT(), 1e-9)
	assert.Equal(t, 7.0, Length{Value: 7}.ToMM(), "无单位按毫米")
	assert.Equal(t, 7.0, Length{Value: 7}.ToPT(), "无单位字号按 pt")
	assert.Equal(t, "2.5cm", Length{Value: 2.5, Unit: UnitCM}.String())
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"12pt":   {Value: 12, Unit: UnitPT},
		" 18mm ": {Value: 18, Unit: UnitMM},
		"2.5CM":  {Value: 2.5, Unit: UnitCM},
		"1in":    {Value: 1, Unit: UnitIN},
		"3":      {Value: 3},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "pt", "abc", "12px"} {
		_, err := ParseLength(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLineSpacing(t *testing.T) {
	auto, err := ParseLineSpacing("auto")
	require.NoError(t, err)
	assert.InDelta(t, 12*PtToMm*1.2, auto.Resolve(12), 1e-9)

	factor, err := ParseLineSpacing("1.5x")
	require.NoError(t, err)
	assert.Equal(t, LineSpacingFactor, factor.Kind)
	assert.InDelta(t, 10*PtToMm*1.5, factor.Resolve(10), 1e-9)

	abs, err := ParseLineSpacing("14")
	require.NoError(t, err)
	assert.Equal(t, Length{Value: 14, Unit: UnitPT}, abs.Len, "无单位的绝对行距按 pt")
	assert.InDelta(t, 14*PtToMm, abs.Resolve(99), 1e-9)

	mm, err := ParseLineSpacing("6mm")
	require.NoError(t, err)
	assert.Equal(t, 6.0, mm.Resolve(10))

	_, err = ParseLineSpacing("-1x")
	assert.Error(t, err)
	_, err = ParseLineSpacing("wide")
	assert.Error(t, err)
}
