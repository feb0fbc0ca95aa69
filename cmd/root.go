// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gridline/internal/config"
	"github.com/xkilldash9x/gridline/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// configName is the file looked up in the working directory, then in $HOME as a dotfile.
const configName = "gridline"

// NewRootCommand builds a fresh command tree. Each call owns its own viper
// instance so flags and config never leak between executions.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "gridline",
		Short:         "gridline measures and snaps layout values to a baseline grid.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetDefaults(v)

			if err := initializeConfig(v, cfgFile); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: configName})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: configName})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Configuration loaded",
				zap.String("version", Version),
				zap.String("config_file", v.ConfigFileUsed()),
				zap.Float64("base", cfg.Engine.Base))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./gridline.yaml, then ~/.gridline.yaml)")
	pf.Float64("base", 8, "baseline grid unit in pixels")
	pf.String("snapping", "none", "snapping mode: none, height or clamp")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("quiet", false, "suppress normalization diagnostics")
	pf.Float64("viewport-width", 1024, "viewport width used for vw/vmin/vmax")
	pf.Float64("viewport-height", 768, "viewport height used for vh/vmin/vmax")
	pf.Float64("root-font-size", 16, "root font size used for rem")
	pf.Float64("parent-font-size", 16, "parent font size used for em")
	pf.Float64("parent-size", 0, "parent size used for %")

	bindFlags(v, pf.Lookup, map[string]string{
		"engine.base":               "base",
		"engine.snapping":           "snapping",
		"engine.suppress_warnings":  "quiet",
		"logger.level":              "log-level",
		"viewport.width":            "viewport-width",
		"viewport.height":           "viewport-height",
		"viewport.root_font_size":   "root-font-size",
		"viewport.parent_font_size": "parent-font-size",
		"viewport.parent_size":      "parent-size",
	})

	rootCmd.AddCommand(
		newConvertCmd(),
		newNormalizeCmd(v),
		newPaddingCmd(),
		newSnapCmd(),
		newGridCmd(v),
		newRangeCmd(v),
		newBoxCmd(),
		newSpacerCmd(),
		newStackCmd(),
		newThemeCmd(),
		newWatchCmd(v),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree with the given context and logs a failure.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// initializeConfig reads the config file and GRIDLINE_* environment variables.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("expanding config path %q: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GRIDLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return readHomeConfig(v)
}

// readHomeConfig falls back to ~/.gridline.yaml. A missing file is not an error.
func readHomeConfig(v *viper.Viper) error {
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, "."+configName+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// bindFlags binds viper keys to flags. Binding only fails for a nil flag,
// which is a wiring bug.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q to %q: %v", name, key, err))
		}
	}
}

// getConfigFromContext retrieves the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	return cfg, nil
}
