// File: cmd/engine.go
package cmd

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gridline/internal/config"
	"github.com/xkilldash9x/gridline/internal/grid"
	"github.com/xkilldash9x/gridline/internal/snap"
	"github.com/xkilldash9x/gridline/internal/units"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeJSONLine prints v as a single compact line, for streaming output.
func writeJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// decodeArg parses a JSON command line argument into v.
func decodeArg(name, raw string, v interface{}) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid %s JSON: %w", name, err)
	}
	return nil
}

// optionalLength treats an empty flag as an unset length.
func optionalLength(s string) units.Length {
	if s == "" {
		return units.Length{}
	}
	return units.FromArg(s)
}

func conversionContext(cfg *config.Config) *units.ConversionContext {
	ctx := units.ConversionContext{
		ParentSize:     cfg.Viewport.ParentSize,
		ViewportWidth:  cfg.Viewport.Width,
		ViewportHeight: cfg.Viewport.Height,
		RootFontSize:   cfg.Viewport.RootFontSize,
		ParentFontSize: cfg.Viewport.ParentFontSize,
	}.Merge(units.DefaultContext())
	return &ctx
}

// normalizeOptions translates the engine section into normalization options.
func normalizeOptions(cfg *config.Config, logger *zap.Logger) []snap.Option {
	opts := []snap.Option{
		snap.WithBase(cfg.Engine.Base),
		snap.WithRounding(cfg.Engine.Round),
		snap.SuppressWarnings(cfg.Engine.SuppressWarnings),
		snap.WithContext(conversionContext(cfg)),
		snap.WithLogger(logger),
	}
	if cfg.Engine.ClampEnabled {
		opts = append(opts, snap.WithClamp(cfg.Engine.ClampMin, cfg.Engine.ClampMax))
	}
	return opts
}

func snapMode(cfg *config.Config) (snap.Mode, error) {
	return snap.ParseMode(cfg.Engine.Snapping)
}

// gridConfigFrom builds the column layout described by the grid section.
func gridConfigFrom(gc config.GridConfig, base float64) grid.Config {
	common := grid.Common{Gap: gc.Gap, Base: base}
	switch grid.Variant(gc.Variant) {
	case grid.VariantLine:
		return grid.Line{Common: common}
	case grid.VariantPattern:
		cols := make([]units.Length, 0, len(gc.Pattern))
		for _, c := range gc.Pattern {
			cols = append(cols, units.FromArg(c))
		}
		return grid.Pattern{Common: common, Columns: cols}
	case grid.VariantFixed:
		return grid.Fixed{Common: common, Columns: gc.Columns, ColumnWidth: optionalLength(gc.ColumnWidth)}
	case grid.VariantAuto:
		return grid.Auto{Common: common, ColumnWidth: optionalLength(gc.ColumnWidth)}
	default:
		return grid.Unknown{Common: common, Name: gc.Variant}
	}
}
