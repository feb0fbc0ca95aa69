// internal/grid/config.go
package grid

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/gridline/internal/units"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Variant discriminates the Config union.
type Variant string

const (
	VariantLine    Variant = "line"
	VariantPattern Variant = "pattern"
	VariantFixed   Variant = "fixed"
	VariantAuto    Variant = "auto"
)

// Config is one of Line, Pattern, Fixed, Auto or Unknown. The interface is
// sealed; switch on the concrete type.
type Config interface {
	Variant() Variant
	Spacing() Common
	isConfig()
}

// Common holds the fields shared by every variant.
type Common struct {
	Gap  float64 `json:"gap"`
	Base float64 `json:"base"`
}

// Spacing returns the shared gap and base.
func (c Common) Spacing() Common { return c }

// Line draws 1px column guides separated by Gap pixels.
type Line struct{ Common }

// Pattern cycles an explicit list of column widths.
type Pattern struct {
	Common
	Columns []units.Length
}

// Fixed repeats Columns tracks of ColumnWidth (1fr when unset).
type Fixed struct {
	Common
	Columns     int
	ColumnWidth units.Length
}

// Auto fits as many ColumnWidth tracks as the container allows.
type Auto struct {
	Common
	ColumnWidth units.Length
}

// Unknown carries a variant name the calculator does not recognise. It is
// laid out with the line algorithm.
type Unknown struct {
	Common
	Name string
}

func (Line) Variant() Variant      { return VariantLine }
func (Pattern) Variant() Variant   { return VariantPattern }
func (Fixed) Variant() Variant     { return VariantFixed }
func (Auto) Variant() Variant      { return VariantAuto }
func (u Unknown) Variant() Variant { return Variant(u.Name) }

func (Line) isConfig()    {}
func (Pattern) isConfig() {}
func (Fixed) isConfig()   {}
func (Auto) isConfig()    {}
func (Unknown) isConfig() {}

// wireConfig is the JSON shape. Columns is a list for pattern and a count for fixed.
type wireConfig struct {
	Variant     string              `json:"variant"`
	Gap         float64             `json:"gap"`
	Base        float64             `json:"base"`
	Columns     jsoniter.RawMessage `json:"columns"`
	ColumnWidth units.Length        `json:"columnWidth"`
}

// DecodeConfig parses a JSON grid config such as
// {"variant":"pattern","columns":["1fr","20px"],"gap":8}.
func DecodeConfig(data []byte) (Config, error) {
	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding grid config: %w", err)
	}
	common := Common{Gap: w.Gap, Base: w.Base}

	switch Variant(w.Variant) {
	case VariantLine:
		return Line{Common: common}, nil
	case VariantPattern:
		var cols []units.Length
		if len(w.Columns) > 0 {
			if err := json.Unmarshal(w.Columns, &cols); err != nil {
				return nil, fmt.Errorf("pattern columns must be a list: %w", err)
			}
		}
		return Pattern{Common: common, Columns: cols}, nil
	case VariantFixed:
		var n int
		if len(w.Columns) > 0 {
			if err := json.Unmarshal(w.Columns, &n); err != nil {
				return nil, fmt.Errorf("fixed columns must be an integer: %w", err)
			}
		}
		return Fixed{Common: common, Columns: n, ColumnWidth: w.ColumnWidth}, nil
	case VariantAuto:
		return Auto{Common: common, ColumnWidth: w.ColumnWidth}, nil
	default:
		return Unknown{Common: common, Name: w.Variant}, nil
	}
}
