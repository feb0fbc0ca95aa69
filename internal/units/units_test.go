package units

import (
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		input string
		want  Parsed
		ok    bool
	}{
		{"10px", Parsed{10, "px"}, true},
		{"-1.5em", Parsed{-1.5, "em"}, true},
		{"+.5rem", Parsed{0.5, "rem"}, true},
		{"50%", Parsed{50, "%"}, true},
		{"100vmax", Parsed{100, "vmax"}, true},
		{"10", Parsed{}, false},    // no unit
		{"px", Parsed{}, false},    // no magnitude
		{"1.px", Parsed{}, false},  // dangling decimal point
		{" 10px", Parsed{}, false}, // leading space is not trimmed
		{"10 px", Parsed{}, false}, // unit must be adjacent
		{"auto", Parsed{}, false},  // sentinel, not a length
		{"garbage", Parsed{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLength(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestConvertToPixels_Absolute(t *testing.T) {
	tests := []struct {
		input    Length
		expected float64
	}{
		{Px(42), 42},
		{Px(-3.5), -3.5},
		{Str("100px"), 100},
		{Str("1in"), 96},
		{Str("2cm"), 75.6},
		{Str("10mm"), 37.8},
		{Str("12pt"), 15.96},
		{Str("2pc"), 32},
		{Str("10PX"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			actual, ok := ConvertToPixels(tt.input, nil)
			require.True(t, ok)
			assert.InDelta(t, tt.expected, actual, 0.001)
		})
	}
}

func TestConvertToPixels_Relative(t *testing.T) {
	ctx := &ConversionContext{
		ParentSize:     200,
		ViewportWidth:  1000,
		ViewportHeight: 800,
		RootFontSize:   16,
		ParentFontSize: 20,
	}

	tests := []struct {
		input    string
		expected float64
	}{
		{"1.5em", 30},   // 1.5 * 20
		{"2rem", 32},    // 2 * 16
		{"50%", 100},    // 0.5 * 200
		{"100%", 200},   // full parent
		{"10vw", 100},   // 0.1 * 1000
		{"5vh", 40},     // 0.05 * 800
		{"5vmin", 40},   // min(1000, 800) * 0.05
		{"10vmax", 100}, // max(1000, 800) * 0.1
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual, ok := ConvertToPixels(Str(tt.input), ctx)
			require.True(t, ok)
			assert.InDelta(t, tt.expected, actual, 0.001)
		})
	}
}

func TestConvertToPixels_DefaultsAndMerge(t *testing.T) {
	t.Run("nil context uses defaults", func(t *testing.T) {
		v, ok := ConvertToPixels(Str("1rem"), nil)
		require.True(t, ok)
		assert.Equal(t, 16.0, v)

		v, ok = ConvertToPixels(Str("50%"), nil)
		require.True(t, ok)
		assert.Equal(t, 0.0, v, "default parent size is zero")

		v, ok = ConvertToPixels(Str("10vw"), nil)
		require.True(t, ok)
		assert.InDelta(t, DefaultViewportWidth/10, v, 0.001)
	})

	t.Run("explicit fields override defaults field by field", func(t *testing.T) {
		ctx := &ConversionContext{ParentFontSize: 10}

		v, ok := ConvertToPixels(Str("2em"), ctx)
		require.True(t, ok)
		assert.Equal(t, 20.0, v)

		v, ok = ConvertToPixels(Str("2rem"), ctx)
		require.True(t, ok)
		assert.Equal(t, 32.0, v, "root font size still comes from defaults")
	})
}

func TestConvertToPixels_Failures(t *testing.T) {
	for _, in := range []Length{{}, Str(Auto), Str("garbage"), Str("10"), Str("3ch"), Str("2ex"), Str("")} {
		t.Run(in.String(), func(t *testing.T) {
			_, ok := ConvertToPixels(in, nil)
			assert.False(t, ok)
		})
	}
}

func TestLength_JSON(t *testing.T) {
	var got struct {
		A Length `json:"a"`
		B Length `json:"b"`
		C Length `json:"c"`
		D Length `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "2rem", "c": null, "d": true}`), &got))

	n, ok := got.A.Number()
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)
	assert.Equal(t, "2rem", got.B.Raw())
	assert.False(t, got.C.IsSet())
	assert.False(t, got.D.IsSet())

	out, err := json.Marshal([]Length{Px(4), Str("auto"), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[4, "auto", null]`, string(out))
}

func TestFromArg(t *testing.T) {
	assert.True(t, FromArg("12").IsNumber())
	assert.True(t, FromArg(" 1.5 ").IsNumber())
	assert.Equal(t, "12px", FromArg("12px").Raw())
	assert.True(t, FromArg("auto").IsAuto())
}

func TestIsSupportedUnit(t *testing.T) {
	for _, u := range []string{"px", "in", "cm", "mm", "pt", "pc", "em", "rem", "vh", "vw", "vmin", "vmax", "%", "REM"} {
		assert.True(t, IsSupportedUnit(u), u)
	}
	for _, u := range []string{"ch", "ex", "cqw", "fr", ""} {
		assert.False(t, IsSupportedUnit(u), u)
	}
}

// FuzzConvertToPixels checks that conversion never panics and that any string
// it accepts also parses.
func FuzzConvertToPixels(f *testing.F) {
	for _, seed := range []string{"10px", "1in", "-2.5rem", "auto", "50%", "", "1e3px"} {
		f.Add([]byte(seed))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		raw, err := consumer.GetString()
		if err != nil {
			return
		}
		var ctx ConversionContext
		_ = consumer.GenerateStruct(&ctx)

		if _, ok := ConvertToPixels(Str(raw), &ctx); ok {
			_, parsed := ParseLength(raw)
			assert.True(t, parsed, "accepted %q without a parse", raw)
		}
	})
}
