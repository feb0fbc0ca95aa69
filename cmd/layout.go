// File: cmd/layout.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/gridline/internal/grid"
	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/primitives"
	"github.com/xkilldash9x/gridline/internal/snap"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/virtual"
)

func newPaddingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "padding <props-json>",
		Short: "Resolve padding shorthand props into edges",
		Example: `  gridline padding '{"padding":[10,20]}'
  gridline padding '{"block":[12,24],"inline":8}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var props spacing.Props
			if err := decodeArg("props", args[0], &props); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), spacing.ParsePadding(props))
		},
	}
}

type snapped struct {
	Padding spacing.Edges `json:"padding"`
	Aligned bool          `json:"aligned"`
}

func newSnapCmd() *cobra.Command {
	var height float64
	var edges string

	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Adjust edges so a box of the given height lands on the grid",
		Example: `  gridline snap --height 46 --edges '{"bottom":10}' --snapping height
  gridline snap --height 45 --edges '{"top":10,"bottom":6}' --snapping clamp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			mode, err := snapMode(cfg)
			if err != nil {
				return err
			}
			var initial spacing.Edges
			if err := decodeArg("edges", edges, &initial); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snapped{
				Padding: snap.CalculateSnappedSpacing(height, cfg.Engine.Base, initial, mode),
				Aligned: snap.IsAligned(height, cfg.Engine.Base),
			})
		},
	}
	cmd.Flags().Float64Var(&height, "height", 0, "measured height in pixels")
	cmd.Flags().StringVar(&edges, "edges", "", "initial edges as JSON, e.g. {\"top\":8,\"bottom\":8}")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newBoxCmd() *cobra.Command {
	var height float64

	cmd := &cobra.Command{
		Use:     "box [props-json]",
		Short:   "Resolve and snap the padding of a Box",
		Example: `  gridline box '{"padding":{"top":10,"bottom":10}}' --height 100 --snapping height`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			mode, err := snapMode(cfg)
			if err != nil {
				return err
			}
			var props spacing.Props
			if len(args) == 1 {
				if err := decodeArg("props", args[0], &props); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), primitives.ResolveBox(props, height, cfg.Engine.Base, mode))
		},
	}
	cmd.Flags().Float64Var(&height, "height", 0, "measured content height in pixels")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newSpacerCmd() *cobra.Command {
	var width, height string

	cmd := &cobra.Command{
		Use:   "spacer",
		Short: "Resolve the size of a Spacer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			size := primitives.ResolveSpacer(optionalLength(width), optionalLength(height),
				cfg.Engine.Base, normalizeOptions(cfg, observability.GetLogger())...)
			return writeJSON(cmd.OutOrStdout(), map[string]float64{"width": size[0], "height": size[1]})
		},
	}
	cmd.Flags().StringVar(&width, "width", "", "spacer width (default 0)")
	cmd.Flags().StringVar(&height, "height", "", "spacer height (default one base unit)")
	return cmd
}

func newStackCmd() *cobra.Command {
	var gap string

	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Resolve the gap between the children of a Stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			g := primitives.ResolveStack(optionalLength(gap), cfg.Engine.Base,
				normalizeOptions(cfg, observability.GetLogger())...)
			return writeJSON(cmd.OutOrStdout(), map[string]float64{"gap": g})
		},
	}
	cmd.Flags().StringVar(&gap, "gap", "", "gap between children (default one base unit)")
	return cmd
}

func newGridCmd(v *viper.Viper) *cobra.Command {
	var width float64
	var layout string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Compute the column guide template for a container width",
		Example: `  gridline grid --width 100 --variant line --gap 8
  gridline grid --width 960 --layout '{"variant":"pattern","columns":["1fr","240px"],"gap":16}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			var gc grid.Config
			if layout != "" {
				if gc, err = grid.DecodeConfig([]byte(layout)); err != nil {
					return err
				}
			} else {
				gc = gridConfigFrom(cfg.Grid, cfg.Engine.Base)
			}

			calc := grid.NewCalculator(observability.GetLogger(), conversionContext(cfg))
			return writeJSON(cmd.OutOrStdout(), calc.Compute(width, gc))
		},
	}

	f := cmd.Flags()
	f.Float64Var(&width, "width", 0, "container width in pixels")
	f.StringVar(&layout, "layout", "", "grid config as JSON; overrides the variant flags")
	f.String("variant", "line", "grid variant: line, pattern, fixed or auto")
	f.Float64("gap", 8, "gap between columns in pixels")
	f.Int("columns", 12, "column count for the fixed variant")
	f.StringSlice("pattern", nil, "column sizes for the pattern variant")
	f.String("column-width", "", "column width for the fixed and auto variants")
	_ = cmd.MarkFlagRequired("width")
	bindFlags(v, f.Lookup, map[string]string{
		"grid.variant":      "variant",
		"grid.gap":          "gap",
		"grid.columns":      "columns",
		"grid.pattern":      "pattern",
		"grid.column_width": "column-width",
	})
	return cmd
}

func newRangeCmd(v *viper.Viper) *cobra.Command {
	var (
		lines int
		geo   virtual.Geometry
	)

	cmd := &cobra.Command{
		Use:     "range",
		Short:   "Compute the overlay lines visible at a scroll position",
		Example: `  gridline range --lines 100 --scroll-y 180 --container-top 100 --viewport-height 80`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if lines < 0 {
				return fmt.Errorf("--lines must not be negative")
			}
			geo.ViewportHeight = cfg.Viewport.Height
			buffer := virtual.ParseBuffer(cfg.Virtual.Buffer)
			return writeJSON(cmd.OutOrStdout(), virtual.ComputeVisibleRange(lines, cfg.Virtual.LineHeight, geo, buffer))
		},
	}

	f := cmd.Flags()
	f.IntVar(&lines, "lines", 0, "total number of overlay lines")
	f.Float64Var(&geo.ScrollY, "scroll-y", 0, "window scroll offset")
	f.Float64Var(&geo.ContainerTop, "container-top", 0, "container document offset")
	f.BoolVar(&geo.FullyShown, "fully-shown", false, "render every line regardless of scroll")
	f.Float64("line-height", 8, "height of one overlay line")
	f.String("buffer", "0", "extra pixels rendered above and below the viewport")
	_ = cmd.MarkFlagRequired("lines")
	bindFlags(v, f.Lookup, map[string]string{
		"virtual.line_height": "line-height",
		"virtual.buffer":      "buffer",
	})
	return cmd
}
