// internal/spacing/spacing.go
package spacing

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Edges is the resolved padding or margin of a box, in pixels.
type Edges struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform returns edges with the same value on all four sides.
func Uniform(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// Vertical is the sum of top and bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// Horizontal is the sum of left and right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// -- Shorthand inputs --

type paddingShape uint8

const (
	shapeNumber paddingShape = iota
	shapeList
	shapeSides
)

// Padding is the `padding` shorthand: a single number, a list
// ([block, inline] or [top, right, bottom, left]) or explicit sides.
type Padding struct {
	shape paddingShape
	all   float64
	list  []float64
	sides Edges
}

// PaddingAll applies v to every edge.
func PaddingAll(v float64) *Padding { return &Padding{shape: shapeNumber, all: v} }

// PaddingList is the sequence form. Two values mean [block, inline]; any other
// length maps positionally onto top, right, bottom, left.
func PaddingList(values ...float64) *Padding {
	return &Padding{shape: shapeList, list: append([]float64(nil), values...)}
}

// PaddingSides is the object form; omitted sides are zero.
func PaddingSides(e Edges) *Padding { return &Padding{shape: shapeSides, sides: e} }

// UnmarshalJSON accepts a number, an array of numbers or an object with
// optional top/right/bottom/left keys.
func (p *Padding) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var list []float64
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("padding list: %w", err)
		}
		*p = *PaddingList(list...)
	case '{':
		var e Edges
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("padding sides: %w", err)
		}
		*p = *PaddingSides(e)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("padding: %w", err)
		}
		*p = *PaddingAll(v)
	}
	return nil
}

// Axis is a block or inline pair. The number, [start, end] and {start, end}
// input forms all collapse into it.
type Axis struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Both returns an axis with the same value at start and end.
func Both(v float64) *Axis { return &Axis{Start: v, End: v} }

// Pair returns an axis with distinct start and end values.
func Pair(start, end float64) *Axis { return &Axis{Start: start, End: end} }

// UnmarshalJSON accepts a number, a [start, end] tuple or a {start, end} object.
func (a *Axis) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var list []float64
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("axis tuple: %w", err)
		}
		*a = Axis{Start: at(list, 0), End: at(list, 1)}
	case '{':
		type plain Axis
		var v plain
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("axis object: %w", err)
		}
		*a = Axis(v)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("axis: %w", err)
		}
		*a = *Both(v)
	}
	return nil
}

// Props are the spacing inputs of a component. Padding, when present, wins
// over Block and Inline entirely.
type Props struct {
	Padding *Padding `json:"padding,omitempty"`
	Block   *Axis    `json:"block,omitempty"`
	Inline  *Axis    `json:"inline,omitempty"`
}

// ParsePadding resolves spacing props into four edges.
func ParsePadding(p Props) Edges {
	if p.Padding != nil {
		return p.Padding.edges()
	}

	var e Edges
	if p.Block != nil {
		e.Top, e.Bottom = p.Block.Start, p.Block.End
	}
	if p.Inline != nil {
		e.Left, e.Right = p.Inline.Start, p.Inline.End
	}
	return e
}

func (p *Padding) edges() Edges {
	switch p.shape {
	case shapeNumber:
		return Uniform(p.all)
	case shapeList:
		if len(p.list) == 2 {
			block, inline := p.list[0], p.list[1]
			return Edges{Top: block, Right: inline, Bottom: block, Left: inline}
		}
		return Edges{Top: at(p.list, 0), Right: at(p.list, 1), Bottom: at(p.list, 2), Left: at(p.list, 3)}
	default:
		return p.sides
	}
}

func at(list []float64, i int) float64 {
	if i < len(list) {
		return list[i]
	}
	return 0
}

func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
