// internal/snap/snap.go
package snap

import (
	"errors"
	"fmt"
	"math"

	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/units"
	"go.uber.org/zap"
)

// DefaultBase is the grid unit used when none is configured.
const DefaultBase = 8.0

// ErrInvalidBase is returned (and panicked with) when a base unit below 1 is supplied.
var ErrInvalidBase = errors.New("base unit must be >= 1")

// ValidateBase rejects base units below 1.
func ValidateBase(base float64) error {
	if math.IsNaN(base) || base < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidBase, base)
	}
	return nil
}

// mustBase panics on an invalid base. A bad base is a programming error at the
// call site, not something to recover from while rendering.
func mustBase(base float64) {
	if err := ValidateBase(base); err != nil {
		panic(err)
	}
}

// -- Snapping modes --

// Mode selects how CalculateSnappedSpacing adjusts padding.
type Mode string

const (
	// ModeNone passes edges through untouched.
	ModeNone Mode = "none"
	// ModeHeight grows the bottom edge until the height lands on the grid.
	ModeHeight Mode = "height"
	// ModeClamp reduces top modulo base, aligns the height through bottom, then reduces bottom modulo base.
	ModeClamp Mode = "clamp"
)

// ParseMode converts a config or flag value into a Mode. The empty string is ModeNone.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeHeight, ModeClamp:
		return Mode(s), nil
	}
	return ModeNone, fmt.Errorf("unknown snapping mode %q", s)
}

// -- Normalization options --

type options struct {
	base     float64
	round    bool
	min, max float64
	suppress bool
	ctx      *units.ConversionContext
	logger   *zap.Logger
}

// Option configures NormalizeValue.
type Option func(*options)

// WithBase sets the grid unit. Values below 1 panic when the option is applied.
func WithBase(base float64) Option {
	return func(o *options) { o.base = base }
}

// WithRounding toggles rounding to the nearest multiple of base (default on).
func WithRounding(round bool) Option {
	return func(o *options) { o.round = round }
}

// WithClamp limits the result to [min, max].
func WithClamp(min, max float64) Option {
	return func(o *options) { o.min, o.max = min, max }
}

// SuppressWarnings silences the normalization diagnostics.
func SuppressWarnings(suppress bool) Option {
	return func(o *options) { o.suppress = suppress }
}

// WithContext sets the metrics used to resolve relative units.
func WithContext(ctx *units.ConversionContext) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger overrides the global logger for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func resolve(opts []Option) options {
	o := options{
		base:  DefaultBase,
		round: true,
		min:   math.Inf(-1),
		max:   math.Inf(1),
	}
	for _, opt := range opts {
		opt(&o)
	}
	mustBase(o.base)
	if o.logger == nil {
		o.logger = observability.GetLogger()
	}
	return o
}

// -- Normalization --

// NormalizeValue converts a length to pixels and rounds it to the nearest
// multiple of the base unit. "auto" maps to base, and so does anything that
// fails to convert (with a warning unless suppressed). The fallback is still
// clamped.
func NormalizeValue(v units.Length, opts ...Option) float64 {
	o := resolve(opts)
	return normalize(v, o)
}

func normalize(v units.Length, o options) float64 {
	px := o.base
	if !v.IsAuto() {
		converted, ok := units.ConvertToPixels(v, o.ctx)
		if ok {
			px = converted
		} else if !o.suppress {
			o.logger.Warn("Unparseable length, falling back to base",
				zap.String("value", v.String()), zap.Float64("base", o.base))
		}
	}

	result := px
	if o.round {
		result = roundToBase(px, o.base)
	}
	result = math.Max(o.min, math.Min(o.max, result))

	if result != px && !o.suppress {
		o.logger.Warn("Value normalized to grid",
			zap.Float64("input", px), zap.Float64("normalized", result), zap.Float64("base", o.base))
	}
	return result
}

// roundToBase rounds half up like Math.round so that -12 with base 8 snaps to -8.
func roundToBase(px, base float64) float64 {
	return math.Floor(px/base+0.5) * base
}

// NormalizeValuePair normalizes two lengths independently. Unset slots take
// the matching default verbatim without going through conversion.
func NormalizeValuePair(values [2]units.Length, defaults [2]float64, opts ...Option) [2]float64 {
	o := resolve(opts)
	var out [2]float64
	for i, v := range values {
		if !v.IsSet() {
			out[i] = defaults[i]
			continue
		}
		out[i] = normalize(v, o)
	}
	return out
}

// IsNormalized reports whether v already sits on the grid. "auto" always does;
// lengths that fail to convert never do.
func IsNormalized(v units.Length, base float64) bool {
	if v.IsAuto() {
		return true
	}
	mustBase(base)
	px, ok := units.ConvertToPixels(v, nil)
	if !ok {
		return false
	}
	return roundToBase(px, base) == px
}

// -- Snapping --

// IsAligned reports whether height is an exact multiple of base.
func IsAligned(height, base float64) bool {
	mustBase(base)
	return math.Mod(height, base) == 0
}

// CalculateSnappedSpacing adjusts edges so that a box of the given measured
// height lines up with the baseline grid. It is a pure function of its inputs:
// callers recompute it on every measurement.
func CalculateSnappedSpacing(height, base float64, initial spacing.Edges, mode Mode) spacing.Edges {
	mustBase(base)
	out := initial

	switch mode {
	case ModeHeight:
		out.Bottom += heightCorrection(height, base)
	case ModeClamp:
		out.Top = math.Mod(out.Top, base)
		out.Bottom += heightCorrection(height, base)
		out.Bottom = math.Mod(out.Bottom, base)
	}
	return out
}

// heightCorrection is the extra space needed to reach the next multiple of base.
func heightCorrection(height, base float64) float64 {
	rem := math.Mod(height, base)
	if rem == 0 || math.IsNaN(rem) {
		return 0
	}
	if rem < 0 {
		rem += base
	}
	return base - rem
}
