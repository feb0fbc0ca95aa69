// internal/grid/grid.go
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/units"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// None is the template emitted for layouts that could not be computed.
const None = "none"

const defaultBase = 8.0

// Result is the computed column guide layout.
type Result struct {
	Template      string  `json:"template"`
	ColumnsCount  int     `json:"columnsCount"`
	CalculatedGap float64 `json:"calculatedGap"`
	IsValid       bool    `json:"isValid"`
}

func invalid() Result {
	return Result{Template: None}
}

// Calculator computes grid templates for one consumer. It owns the
// once-per-calculator diagnostic for unknown variants, so each call site
// should keep its own instance.
type Calculator struct {
	logger      *zap.Logger
	ctx         *units.ConversionContext
	unknownOnce rate.Sometimes
}

// NewCalculator creates a calculator. ctx resolves relative column widths and may be nil.
func NewCalculator(logger *zap.Logger, ctx *units.ConversionContext) *Calculator {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &Calculator{
		logger:      logger.Named("grid"),
		ctx:         ctx,
		unknownOnce: rate.Sometimes{First: 1},
	}
}

// ComputeLayout is a convenience wrapper using a throwaway calculator.
func ComputeLayout(containerWidth float64, cfg Config) Result {
	return NewCalculator(nil, nil).Compute(containerWidth, cfg)
}

// Compute lays out the columns for a container of the given width. It never
// panics: any failure inside a variant becomes an invalid result.
func (c *Calculator) Compute(containerWidth float64, cfg Config) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Grid layout failed", zap.Any("panic", r))
			res = invalid()
		}
	}()

	if !(containerWidth > 0) || math.IsInf(containerWidth, 1) {
		return invalid()
	}

	switch v := cfg.(type) {
	case Line:
		return lineLayout(containerWidth, v.Gap)
	case Pattern:
		return patternLayout(v)
	case Fixed:
		return fixedLayout(v)
	case Auto:
		return c.autoLayout(containerWidth, v)
	default:
		var common Common
		name := "<nil>"
		if cfg != nil {
			common = cfg.Spacing()
			name = string(cfg.Variant())
		}
		c.unknownOnce.Do(func() {
			c.logger.Warn("Unknown grid variant, falling back to line guides", zap.String("variant", name))
		})
		gap := common.Gap
		if gap <= 0 {
			gap = common.Base
		}
		if gap <= 0 {
			gap = defaultBase
		}
		return lineLayout(containerWidth, gap)
	}
}

// lineLayout places 1px tracks. The reported gap is one pixel narrower than
// the requested one because the line itself occupies that pixel.
func lineLayout(width, gap float64) Result {
	if gap <= 0 {
		columns, ok := columnCount(math.Floor(width) + 1)
		if !ok {
			return invalid()
		}
		return Result{Template: repeat(columns, "1px"), ColumnsCount: columns, IsValid: true}
	}
	adjustedGap := math.Max(0, gap-1)
	// Stride is the requested gap plus the line: 100px at gap 8 gives 12, 10px at gap 1 gives 6.
	columns, ok := columnCount(math.Floor(width/(gap+1)) + 1)
	if !ok {
		return invalid()
	}
	return Result{
		Template:      repeat(columns, "1px"),
		ColumnsCount:  columns,
		CalculatedGap: adjustedGap,
		IsValid:       true,
	}
}

func patternLayout(p Pattern) Result {
	if len(p.Columns) == 0 {
		return invalid()
	}
	tracks := make([]string, 0, len(p.Columns))
	for _, col := range p.Columns {
		track, err := trackSize(col)
		if err != nil {
			return invalid()
		}
		if track == "0" || track == "0px" {
			return invalid()
		}
		tracks = append(tracks, track)
	}
	return Result{
		Template:      strings.Join(tracks, " "),
		ColumnsCount:  len(tracks),
		CalculatedGap: p.Gap,
		IsValid:       true,
	}
}

func fixedLayout(f Fixed) Result {
	if f.Columns < 1 {
		return invalid()
	}
	width := "1fr"
	if f.ColumnWidth.IsSet() {
		track, err := trackSize(f.ColumnWidth)
		if err != nil {
			return invalid()
		}
		width = track
	}
	return Result{
		Template:      repeat(f.Columns, width),
		ColumnsCount:  f.Columns,
		CalculatedGap: f.Gap,
		IsValid:       true,
	}
}

func (c *Calculator) autoLayout(width float64, a Auto) Result {
	if !a.ColumnWidth.IsSet() || a.ColumnWidth.IsAuto() {
		return Result{
			Template:      "repeat(auto-fit, minmax(0,1fr))",
			ColumnsCount:  1,
			CalculatedGap: a.Gap,
			IsValid:       true,
		}
	}

	track, err := trackSize(a.ColumnWidth)
	if err != nil {
		// Unresolvable widths still render, as a single column.
		track = strings.TrimSpace(a.ColumnWidth.Raw())
		if track == "" {
			return invalid()
		}
	}

	columns := 1
	if px, ok := units.ConvertToPixels(a.ColumnWidth, c.ctx); ok && px > 0 {
		n, ok := columnCount(math.Floor((width + a.Gap) / (px + a.Gap)))
		if !ok {
			return invalid()
		}
		columns = max(1, n)
	}
	return Result{
		Template:      fmt.Sprintf("repeat(auto-fit, minmax(%s, 1fr))", track),
		ColumnsCount:  columns,
		CalculatedGap: a.Gap,
		IsValid:       true,
	}
}

// trackSize validates a column entry and renders it as a CSS track size.
// Numbers (and numeric strings) become px; strings must be "auto" or a
// number followed by a CSS length unit, fr, or %.
func trackSize(l units.Length) (string, error) {
	if n, ok := l.Number(); ok {
		return pxTrack(n)
	}
	raw := strings.TrimSpace(l.Raw())
	if raw == "" {
		return "", fmt.Errorf("empty column size")
	}
	if raw == units.Auto {
		return raw, nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return pxTrack(n)
	}
	p, ok := units.ParseLength(raw)
	if !ok {
		return "", fmt.Errorf("invalid column size %q", raw)
	}
	if p.Value < 0 {
		return "", fmt.Errorf("negative column size %q", raw)
	}
	if !units.IsSupportedUnit(p.Unit) && !strings.EqualFold(p.Unit, "fr") {
		return "", fmt.Errorf("unsupported unit in column size %q", raw)
	}
	return raw, nil
}

func pxTrack(n float64) (string, error) {
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return "", fmt.Errorf("invalid column size %v", n)
	}
	if n == 0 {
		return "0px", nil
	}
	return strconv.FormatFloat(n, 'f', -1, 64) + "px", nil
}

// maxColumns bounds column counts so the int conversion cannot overflow.
const maxColumns = math.MaxInt32

func columnCount(f float64) (int, bool) {
	if math.IsNaN(f) || f >= maxColumns {
		return 0, false
	}
	return max(1, int(f)), true
}

func repeat(n int, track string) string {
	return fmt.Sprintf("repeat(%d, %s)", n, track)
}
