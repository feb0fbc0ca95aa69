// internal/theme/theme.go
package theme

import (
	"fmt"

	"github.com/xkilldash9x/gridline/internal/config"
	"github.com/xkilldash9x/gridline/internal/snap"
)

// Visibility controls whether the grid overlay is drawn.
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
	// None removes the overlay from layout entirely.
	None Visibility = "none"
)

// Colors are the overlay paint values, passed through as CSS color strings.
type Colors struct {
	Line string `json:"line,omitempty"`
	Flat string `json:"flat,omitempty"`
	Text string `json:"text,omitempty"`
}

// Theme is the grid context shared by a subtree of components.
type Theme struct {
	Base       float64    `json:"base,omitempty"`
	Snapping   snap.Mode  `json:"snapping,omitempty"`
	Colors     Colors     `json:"colors"`
	Visibility Visibility `json:"visibility,omitempty"`
}

// Default returns the root theme.
func Default() Theme {
	return Theme{
		Base:     snap.DefaultBase,
		Snapping: snap.ModeNone,
		Colors: Colors{
			Line: "rgba(255,0,0,0.3)",
			Flat: "rgba(255,0,0,0.1)",
			Text: "#e00",
		},
		Visibility: Visible,
	}
}

// FromConfig builds the root theme from loaded configuration, falling back to
// Default for anything left empty.
func FromConfig(engine config.EngineConfig, tc config.ThemeConfig) (Theme, error) {
	mode, err := snap.ParseMode(engine.Snapping)
	if err != nil {
		return Theme{}, err
	}
	t := Cascade(Default(), Theme{
		Base:     engine.Base,
		Snapping: mode,
		Colors: Colors{
			Line: tc.LineColor,
			Flat: tc.FlatColor,
			Text: tc.TextColor,
		},
		Visibility: Visibility(tc.Visibility),
	})
	return t, t.Validate()
}

// Cascade layers child over parent. Every zero-valued child field inherits
// from the parent, colors included one by one.
func Cascade(parent, child Theme) Theme {
	out := parent
	if child.Base != 0 {
		out.Base = child.Base
	}
	if child.Snapping != "" {
		out.Snapping = child.Snapping
	}
	if child.Colors.Line != "" {
		out.Colors.Line = child.Colors.Line
	}
	if child.Colors.Flat != "" {
		out.Colors.Flat = child.Colors.Flat
	}
	if child.Colors.Text != "" {
		out.Colors.Text = child.Colors.Text
	}
	if child.Visibility != "" {
		out.Visibility = child.Visibility
	}
	return out
}

// Validate rejects themes the engine cannot render with.
func (t Theme) Validate() error {
	if err := snap.ValidateBase(t.Base); err != nil {
		return err
	}
	if _, err := snap.ParseMode(string(t.Snapping)); err != nil {
		return err
	}
	switch t.Visibility {
	case "", Visible, Hidden, None:
	default:
		return fmt.Errorf("unknown visibility %q", t.Visibility)
	}
	return nil
}

// Shown reports whether the overlay should be painted.
func (t Theme) Shown() bool {
	return t.Visibility == "" || t.Visibility == Visible
}
