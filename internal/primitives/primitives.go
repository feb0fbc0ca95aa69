// Package primitives resolves the props of the layout building blocks (Box,
// Spacer, Stack) into grid-aligned pixel values.
package primitives

import (
	"github.com/xkilldash9x/gridline/internal/snap"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/units"
)

// Box is a padded container after snapping.
type Box struct {
	Padding   spacing.Edges `json:"padding"`
	Height    float64       `json:"height"`
	IsAligned bool          `json:"isAligned"`
}

// ResolveBox parses the box padding props and snaps them against the measured
// content height.
func ResolveBox(props spacing.Props, measuredHeight, base float64, mode snap.Mode) Box {
	return SnapBox(spacing.ParsePadding(props), measuredHeight, base, mode)
}

// SnapBox snaps already-resolved padding. The height that has to land on the
// grid includes the top padding, so the bottom edge absorbs the remainder of
// both. IsAligned reports on the measured height alone.
func SnapBox(padding spacing.Edges, measuredHeight, base float64, mode snap.Mode) Box {
	return Box{
		Padding:   snap.CalculateSnappedSpacing(measuredHeight+padding.Top, base, padding, mode),
		Height:    measuredHeight,
		IsAligned: snap.IsAligned(measuredHeight, base),
	}
}

// ResolveSpacer normalizes a spacer's [width, height]. An unset width is 0 and
// an unset height is one base unit.
func ResolveSpacer(width, height units.Length, base float64, opts ...snap.Option) [2]float64 {
	return snap.NormalizeValuePair(
		[2]units.Length{width, height},
		[2]float64{0, base},
		withBase(base, opts)...,
	)
}

// ResolveStack normalizes the gap between stacked children. An unset gap is one base unit.
func ResolveStack(gap units.Length, base float64, opts ...snap.Option) float64 {
	if !gap.IsSet() {
		if err := snap.ValidateBase(base); err != nil {
			panic(err)
		}
		return base
	}
	return snap.NormalizeValue(gap, withBase(base, opts)...)
}

func withBase(base float64, opts []snap.Option) []snap.Option {
	return append([]snap.Option{snap.WithBase(base)}, opts...)
}
