// File: cmd/commands_test.go
package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gridline/internal/grid"
	"github.com/xkilldash9x/gridline/internal/primitives"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/theme"
	"github.com/xkilldash9x/gridline/internal/virtual"
)

func TestConvertCmd(t *testing.T) {
	out, err := executeCommand(t, "", "convert", "100px", "2cm", "auto", "garbage", "50vw", "--viewport-width", "800")
	require.NoError(t, err)

	got := decodeOutput[[]conversion](t, out)
	require.Len(t, got, 5)
	require.NotNil(t, got[0].Pixels)
	assert.Equal(t, 100.0, *got[0].Pixels)
	require.NotNil(t, got[1].Pixels)
	assert.InDelta(t, 75.6, *got[1].Pixels, 1e-9)
	assert.Nil(t, got[2].Pixels, "auto does not convert")
	assert.Nil(t, got[3].Pixels)
	require.NotNil(t, got[4].Pixels)
	assert.Equal(t, 400.0, *got[4].Pixels)
}

func TestNormalizeCmd(t *testing.T) {
	out, err := executeCommand(t, "", "normalize", "13", "16", "auto", "--base", "4")
	require.NoError(t, err)
	assert.Equal(t, []normalized{
		{Input: "13", Value: 12, OnGrid: false},
		{Input: "16", Value: 16, OnGrid: true},
		{Input: "auto", Value: 4, OnGrid: true},
	}, decodeOutput[[]normalized](t, out))
}

func TestNormalizeCmd_ClampAndRounding(t *testing.T) {
	out, err := executeCommand(t, "", "normalize", "100", "--clamp", "--clamp-max", "64")
	require.NoError(t, err)
	assert.Equal(t, 64.0, decodeOutput[[]normalized](t, out)[0].Value)

	out, err = executeCommand(t, "", "normalize", "13", "--round=false")
	require.NoError(t, err)
	assert.Equal(t, 13.0, decodeOutput[[]normalized](t, out)[0].Value)
}

func TestPaddingCmd(t *testing.T) {
	out, err := executeCommand(t, "", "padding", `{"block":[12,24],"inline":8}`)
	require.NoError(t, err)
	assert.Equal(t, spacing.Edges{Top: 12, Right: 8, Bottom: 24, Left: 8}, decodeOutput[spacing.Edges](t, out))

	_, err = executeCommand(t, "", "padding", `{"padding":`)
	assert.Error(t, err)
}

func TestSnapCmd(t *testing.T) {
	out, err := executeCommand(t, "", "snap", "--height", "46", "--edges", `{"bottom":10}`, "--snapping", "height")
	require.NoError(t, err)
	got := decodeOutput[snapped](t, out)
	assert.Equal(t, 12.0, got.Padding.Bottom)
	assert.False(t, got.Aligned)

	out, err = executeCommand(t, "", "snap", "--height", "45", "--edges", `{"top":10,"bottom":6}`, "--snapping", "clamp")
	require.NoError(t, err)
	assert.Equal(t, spacing.Edges{Top: 2, Bottom: 1}, decodeOutput[snapped](t, out).Padding)

	_, err = executeCommand(t, "", "snap")
	assert.Error(t, err, "height is required")
}

func TestBoxCmd(t *testing.T) {
	out, err := executeCommand(t, "", "box", `{"padding":{"top":10,"bottom":10}}`, "--height", "100", "--snapping", "height")
	require.NoError(t, err)
	got := decodeOutput[primitives.Box](t, out)
	assert.Equal(t, 10.0, got.Padding.Top)
	assert.Equal(t, 12.0, got.Padding.Bottom)
	assert.False(t, got.IsAligned)
}

func TestSpacerAndStackCmd(t *testing.T) {
	out, err := executeCommand(t, "", "spacer", "--width", "21")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"width": 24, "height": 8}, decodeOutput[map[string]float64](t, out))

	out, err = executeCommand(t, "", "stack", "--gap", "1.5rem")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"gap": 24}, decodeOutput[map[string]float64](t, out))
}

func TestGridCmd(t *testing.T) {
	out, err := executeCommand(t, "", "grid", "--width", "100")
	require.NoError(t, err)
	assert.Equal(t, grid.Result{Template: "repeat(12, 1px)", ColumnsCount: 12, CalculatedGap: 7, IsValid: true},
		decodeOutput[grid.Result](t, out))

	out, err = executeCommand(t, "", "grid", "--width", "960", "--variant", "fixed", "--columns", "4", "--gap", "24")
	require.NoError(t, err)
	assert.Equal(t, "repeat(4, 1fr)", decodeOutput[grid.Result](t, out).Template)

	out, err = executeCommand(t, "", "grid", "--width", "960", "--variant", "pattern", "--pattern", "1fr,240px")
	require.NoError(t, err)
	assert.Equal(t, "1fr 240px", decodeOutput[grid.Result](t, out).Template)

	out, err = executeCommand(t, "", "grid", "--width", "960", "--layout", `{"variant":"pattern","columns":["10px","0px"]}`)
	require.NoError(t, err)
	assert.Equal(t, grid.Result{Template: grid.None}, decodeOutput[grid.Result](t, out))
}

func TestRangeCmd(t *testing.T) {
	out, err := executeCommand(t, "", "range", "--lines", "100", "--scroll-y", "180", "--container-top", "100", "--viewport-height", "80")
	require.NoError(t, err)
	assert.Equal(t, virtual.Range{Start: 10, End: 20}, decodeOutput[virtual.Range](t, out))

	out, err = executeCommand(t, "", "range", "--lines", "40", "--scroll-y", "9999", "--fully-shown")
	require.NoError(t, err)
	assert.Equal(t, virtual.Range{Start: 0, End: 40}, decodeOutput[virtual.Range](t, out))

	out, err = executeCommand(t, "", "range", "--lines", "100", "--scroll-y", "160", "--viewport-height", "80", "--buffer", "16px")
	require.NoError(t, err)
	assert.Equal(t, virtual.Range{Start: 18, End: 32}, decodeOutput[virtual.Range](t, out))
}

func TestThemeCmd(t *testing.T) {
	out, err := executeCommand(t, "", "theme", `{"base":4}`, `{"visibility":"hidden"}`)
	require.NoError(t, err)
	got := decodeOutput[theme.Theme](t, out)
	assert.Equal(t, 4.0, got.Base)
	assert.Equal(t, theme.Hidden, got.Visibility)
	assert.Equal(t, theme.Default().Colors, got.Colors)

	_, err = executeCommand(t, "", "theme", `{"visibility":"faded"}`)
	assert.Error(t, err)
}

func TestWatchCmd(t *testing.T) {
	input := strings.Join([]string{
		`{"resize":{"width":100,"height":40}}`,
		`not json`,
		`{"scroll":{"viewportHeight":40,"visible":true}}`,
		`{}`,
		`{"resize":{"width":100,"height":100}}`,
	}, "\n")

	out, err := executeCommand(t, input, "watch",
		"--props", `{"padding":{"top":10,"bottom":10}}`,
		"--snapping", "height",
		"--frame-interval", "1ms",
		"--debounce", "0s")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	last := decodeOutput[watchOutput](t, lines[len(lines)-1])
	assert.Equal(t, "frame", last.Event)
	assert.Equal(t, 100.0, last.Snapshot.Measurement.Height)
	assert.Equal(t, spacing.Edges{Top: 10, Bottom: 12}, last.Snapshot.Padding)
	assert.Equal(t, virtual.Range{Start: 0, End: 5}, last.Snapshot.Range)
	assert.Equal(t, 12, last.Snapshot.Grid.ColumnsCount)
	for _, l := range lines {
		assert.NotContains(t, l, `"settled"`)
	}
}
