// File: cmd/theme.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/gridline/internal/theme"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [child-json]...",
		Short: "Print the configured theme, cascading any nested overrides",
		Example: `  gridline theme
  gridline theme '{"base":4}' '{"visibility":"hidden"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			t, err := theme.FromConfig(cfg.Engine, cfg.Theme)
			if err != nil {
				return err
			}
			for _, arg := range args {
				var child theme.Theme
				if err := decodeArg("theme", arg, &child); err != nil {
					return err
				}
				t = theme.Cascade(t, child)
			}
			if err := t.Validate(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}
}
