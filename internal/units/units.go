// internal/units/units.go
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// -- Constants and Configuration --

const (
	BaseFontSize          = 16.0 // Default root and parent font size.
	DefaultViewportWidth  = 1024.0
	DefaultViewportHeight = 768.0
)

// Auto is the "auto" sentinel. It never converts to pixels.
const Auto = "auto"

// absoluteFactors maps absolute units to CSS pixels.
var absoluteFactors = map[string]float64{
	"px": 1,
	"in": 96,
	"cm": 37.8,
	"mm": 3.78,
	"pt": 1.33,
	"pc": 16,
}

// lengthPattern matches an optionally signed decimal followed by a unit token.
var lengthPattern = regexp.MustCompile(`^([+-]?[0-9]*\.?[0-9]+)([a-zA-Z%]+)$`)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// -- Length --

type lengthKind uint8

const (
	kindUnset lengthKind = iota
	kindNumber
	kindString
)

// Length is a CSS length as handed over by a consumer: either a bare number
// (pixels) or a string such as "1.5rem", "50%" or "auto". The zero value is an
// unset length, which never converts.
type Length struct {
	kind lengthKind
	num  float64
	raw  string
}

// Px returns a numeric length in pixels.
func Px(v float64) Length { return Length{kind: kindNumber, num: v} }

// Str returns a string length. The string is kept verbatim.
func Str(s string) Length { return Length{kind: kindString, raw: s} }

// FromArg builds a Length from a command line or config value: anything that
// parses as a float is a number, everything else is a string.
func FromArg(s string) Length {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Px(f)
	}
	return Str(s)
}

// IsSet reports whether the length holds a number or a string.
func (l Length) IsSet() bool { return l.kind != kindUnset }

// IsNumber reports whether the length is a bare number.
func (l Length) IsNumber() bool { return l.kind == kindNumber }

// IsAuto reports whether the length is the "auto" sentinel.
func (l Length) IsAuto() bool { return l.kind == kindString && l.raw == Auto }

// Number returns the numeric value and whether the length is numeric.
func (l Length) Number() (float64, bool) { return l.num, l.kind == kindNumber }

// Raw returns the string form for string lengths and "" otherwise.
func (l Length) Raw() string { return l.raw }

// String renders the length the way CSS would: numbers get a px suffix.
func (l Length) String() string {
	switch l.kind {
	case kindNumber:
		return strconv.FormatFloat(l.num, 'f', -1, 64) + "px"
	case kindString:
		return l.raw
	default:
		return ""
	}
}

// MarshalJSON emits numbers as JSON numbers and strings as JSON strings.
func (l Length) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case kindNumber:
		return json.Marshal(l.num)
	case kindString:
		return json.Marshal(l.raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (l *Length) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*l = Px(t)
	case string:
		*l = Str(t)
	default:
		// Booleans, objects and null are not lengths; they stay unset and fail conversion.
		*l = Length{}
	}
	return nil
}

// -- Parsing --

// Parsed is the numeric magnitude and unit token of a length string.
type Parsed struct {
	Value float64
	Unit  string
}

// ParseLength splits a length string into its value and unit. It returns false
// when the string does not look like <number><unit>.
func ParseLength(raw string) (Parsed, bool) {
	m := lengthPattern.FindStringSubmatch(raw)
	if m == nil {
		return Parsed{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Parsed{}, false
	}
	return Parsed{Value: v, Unit: m[2]}, true
}

// -- Conversion --

// ConversionContext supplies the reference sizes for relative units. Zero
// fields are filled from DefaultContext when merged.
type ConversionContext struct {
	ParentSize     float64 `json:"parentSize"`
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
	RootFontSize   float64 `json:"rootFontSize"`
	ParentFontSize float64 `json:"parentFontSize"`
}

// DefaultContext returns the metrics used when a caller supplies none.
func DefaultContext() ConversionContext {
	return ConversionContext{
		ParentSize:     0,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		RootFontSize:   BaseFontSize,
		ParentFontSize: BaseFontSize,
	}
}

// Merge overlays the non-zero fields of c onto base.
func (c ConversionContext) Merge(base ConversionContext) ConversionContext {
	out := base
	if c.ParentSize != 0 {
		out.ParentSize = c.ParentSize
	}
	if c.ViewportWidth != 0 {
		out.ViewportWidth = c.ViewportWidth
	}
	if c.ViewportHeight != 0 {
		out.ViewportHeight = c.ViewportHeight
	}
	if c.RootFontSize != 0 {
		out.RootFontSize = c.RootFontSize
	}
	if c.ParentFontSize != 0 {
		out.ParentFontSize = c.ParentFontSize
	}
	return out
}

// ConvertToPixels resolves a length to CSS pixels. ctx may be nil, in which
// case DefaultContext is used. It returns false for unset lengths, "auto",
// unparseable strings and unsupported units; picking a fallback is left to the caller.
func ConvertToPixels(v Length, ctx *ConversionContext) (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, true
	case kindString:
	default:
		return 0, false
	}

	if v.raw == Auto {
		return 0, false
	}
	p, ok := ParseLength(v.raw)
	if !ok {
		return 0, false
	}
	unit := strings.ToLower(p.Unit)
	if factor, ok := absoluteFactors[unit]; ok {
		return p.Value * factor, true
	}

	c := DefaultContext()
	if ctx != nil {
		c = ctx.Merge(c)
	}

	switch unit {
	case "em":
		return p.Value * c.ParentFontSize, true
	case "rem":
		return p.Value * c.RootFontSize, true
	case "vh":
		return p.Value * c.ViewportHeight / 100, true
	case "vw":
		return p.Value * c.ViewportWidth / 100, true
	case "vmin":
		return p.Value * math.Min(c.ViewportWidth, c.ViewportHeight) / 100, true
	case "vmax":
		return p.Value * math.Max(c.ViewportWidth, c.ViewportHeight) / 100, true
	case "%":
		return p.Value * c.ParentSize / 100, true
	}
	return 0, false
}

// relativeUnits are resolved against a ConversionContext.
var relativeUnits = map[string]struct{}{
	"em": {}, "rem": {}, "vh": {}, "vw": {}, "vmin": {}, "vmax": {}, "%": {},
}

// IsSupportedUnit reports whether ConvertToPixels understands the unit token.
func IsSupportedUnit(unit string) bool {
	unit = strings.ToLower(unit)
	if _, ok := absoluteFactors[unit]; ok {
		return true
	}
	_, ok := relativeUnits[unit]
	return ok
}
