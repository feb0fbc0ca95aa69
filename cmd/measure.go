// File: cmd/measure.go
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/snap"
	"github.com/xkilldash9x/gridline/internal/units"
)

// conversion is one line of `convert` output. Pixels is null when the input does not convert.
type conversion struct {
	Input  string   `json:"input"`
	Pixels *float64 `json:"pixels"`
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <length>...",
		Short: "Convert CSS lengths to pixels",
		Example: `  gridline convert 2cm 1.5rem 50vw
  gridline convert 25% --parent-size 640`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			ctx := conversionContext(cfg)

			out := make([]conversion, 0, len(args))
			for _, arg := range args {
				c := conversion{Input: arg}
				if px, ok := units.ConvertToPixels(units.FromArg(arg), ctx); ok {
					c.Pixels = &px
				}
				out = append(out, c)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

type normalized struct {
	Input string  `json:"input"`
	Value float64 `json:"value"`
	// OnGrid reports whether the input already sat on the grid.
	OnGrid bool `json:"onGrid"`
}

func newNormalizeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <length>...",
		Short: "Round lengths to the nearest multiple of the base unit",
		Example: `  gridline normalize 13 1.1rem auto --base 4
  gridline normalize 100 --clamp --clamp-max 64`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			opts := normalizeOptions(cfg, observability.GetLogger())

			out := make([]normalized, 0, len(args))
			for _, arg := range args {
				l := units.FromArg(arg)
				out = append(out, normalized{
					Input:  arg,
					Value:  snap.NormalizeValue(l, opts...),
					OnGrid: snap.IsNormalized(l, cfg.Engine.Base),
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.Bool("round", true, "round to the nearest multiple of base")
	f.Bool("clamp", false, "clamp results to [clamp-min, clamp-max]")
	f.Float64("clamp-min", 0, "lower clamp bound")
	f.Float64("clamp-max", 0, "upper clamp bound")
	bindFlags(v, f.Lookup, map[string]string{
		"engine.round":         "round",
		"engine.clamp_enabled": "clamp",
		"engine.clamp_min":     "clamp-min",
		"engine.clamp_max":     "clamp-max",
	})
	return cmd
}
