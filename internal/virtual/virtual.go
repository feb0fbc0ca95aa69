// Package virtual decides which overlay lines of a tall container need to be
// materialized for the current scroll position.
package virtual

import (
	"math"
	"strings"
)

// Range is the half-open interval [Start, End) of line indices to render.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the number of lines in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether line i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Geometry is the container's position relative to the viewport.
type Geometry struct {
	// ContainerTop is the container's document offset.
	ContainerTop float64 `json:"containerTop"`
	// ScrollY is the window scroll offset.
	ScrollY float64 `json:"scrollY"`
	// ViewportHeight is the visible window height.
	ViewportHeight float64 `json:"viewportHeight"`
	// FullyShown marks containers nested in a non-virtualized ancestor; all
	// their lines are always rendered.
	FullyShown bool `json:"fullyShown"`
}

// ComputeVisibleRange returns the lines intersecting the viewport, widened by
// buffer pixels on both sides. The result always satisfies
// 0 <= Start <= End <= totalLines.
func ComputeVisibleRange(totalLines int, lineHeight float64, g Geometry, buffer float64) Range {
	if totalLines <= 0 {
		return Range{}
	}
	if g.FullyShown {
		return Range{Start: 0, End: totalLines}
	}
	if !(lineHeight > 0) || anyNaN(g.ContainerTop, g.ScrollY, g.ViewportHeight, buffer) {
		return Range{}
	}

	viewportTop := math.Max(0, g.ScrollY-g.ContainerTop-buffer)
	viewportBottom := viewportTop + g.ViewportHeight + 2*buffer

	start := clampIndex(math.Floor(viewportTop/lineHeight), totalLines)
	end := clampIndex(math.Ceil(viewportBottom/lineHeight), totalLines)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

func clampIndex(v float64, total int) int {
	if v <= 0 {
		return 0
	}
	if v >= float64(total) {
		return total
	}
	return int(v)
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// ParseBuffer reads a buffer given as a string the way parseInt does: leading
// whitespace, an optional sign, then digits. Anything unparseable is 0.
func ParseBuffer(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0.0
	digits := 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		n = n*10 + float64(s[digits]-'0')
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
