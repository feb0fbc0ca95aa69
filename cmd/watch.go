// File: cmd/watch.go
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gridline/internal/config"
	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/observe"
	"github.com/xkilldash9x/gridline/internal/schedule"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/virtual"
)

// watchEvent is one input line. Exactly one field is expected to be set.
type watchEvent struct {
	Resize *observe.Measurement `json:"resize,omitempty"`
	Scroll *observe.Scroll      `json:"scroll,omitempty"`
}

type watchOutput struct {
	Event    string           `json:"event"`
	Snapshot observe.Snapshot `json:"snapshot"`
}

func newWatchCmd(v *viper.Viper) *cobra.Command {
	var (
		props      string
		fullyShown bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream resize and scroll events from stdin and print snapshots per frame",
		Long: `watch reads JSON lines such as {"resize":{"width":320,"height":100}} or
{"scroll":{"scrollY":40,"viewportHeight":600,"visible":true}} and prints one
frame snapshot per coalesced frame. The last event is always reported when
input ends. When schedule.debounce_delay is positive a "settled" snapshot
follows whenever input goes quiet while stdin stays open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			var p spacing.Props
			if err := decodeArg("props", props, &p); err != nil {
				return err
			}
			settings, err := watchSettings(cfg, spacing.ParsePadding(p), fullyShown)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg, settings, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&props, "props", "", "box spacing props as JSON")
	f.BoolVar(&fullyShown, "fully-shown", false, "render every line regardless of scroll")
	f.Duration("frame-interval", 0, "frame length used to coalesce events (default from config)")
	f.Duration("debounce", 0, "quiet period before a settled snapshot (default from config)")
	bindFlags(v, f.Lookup, map[string]string{
		"schedule.frame_interval": "frame-interval",
		"schedule.debounce_delay": "debounce",
	})
	return cmd
}

func watchSettings(cfg *config.Config, padding spacing.Edges, fullyShown bool) (observe.Settings, error) {
	mode, err := snapMode(cfg)
	if err != nil {
		return observe.Settings{}, err
	}
	return observe.Settings{
		Base:             cfg.Engine.Base,
		Mode:             mode,
		Padding:          padding,
		Grid:             gridConfigFrom(cfg.Grid, cfg.Engine.Base),
		Context:          conversionContext(cfg),
		LineHeight:       cfg.Virtual.LineHeight,
		Buffer:           virtual.ParseBuffer(cfg.Virtual.Buffer),
		FullyShown:       fullyShown,
		SettleDelay:      cfg.Schedule.DebounceDelay,
		SuppressWarnings: cfg.Engine.SuppressWarnings,
	}, nil
}

// runWatch wires stdin to an observer. It returns when input ends and the
// final frame has been printed, or when ctx is cancelled.
func runWatch(ctx context.Context, cfg *config.Config, settings observe.Settings, in io.Reader, out io.Writer) error {
	logger := observability.GetLogger().Named("watch")

	// Handlers never run concurrently, so the first write error is safe to keep here.
	var writeErr error
	emit := func(event string) func(observe.Snapshot) {
		return func(s observe.Snapshot) {
			if writeErr != nil {
				return
			}
			writeErr = writeJSONLine(out, watchOutput{Event: event, Snapshot: s})
		}
	}
	handlers := observe.Handlers{Frame: emit("frame")}
	if settings.SettleDelay > 0 {
		handlers.Settled = emit("settled")
	}

	sched := schedule.TimerScheduler{Interval: cfg.Schedule.FrameInterval}
	o, err := observe.New(logger, sched, settings, handlers)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sizes := make(chan observe.Measurement)
	scrolls := make(chan observe.Scroll)
	readErr := make(chan error, 1)
	go func() {
		defer close(sizes)
		defer close(scrolls)
		readErr <- readEvents(ctx, in, sizes, scrolls, logger)
	}()

	logger.Debug("Watching for events", zap.String("observer_id", o.ID()))
	if err := o.Run(ctx, sizes, scrolls); err != nil {
		return err
	}
	if ctx.Err() == nil {
		if err := <-readErr; err != nil {
			return err
		}
	}
	return writeErr
}

func readEvents(ctx context.Context, in io.Reader, sizes chan<- observe.Measurement, scrolls chan<- observe.Scroll, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ev watchEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.Warn("Skipping malformed event", zap.Int("line", line), zap.Error(err))
			continue
		}

		switch {
		case ev.Resize != nil:
			select {
			case sizes <- *ev.Resize:
			case <-ctx.Done():
				return nil
			}
		case ev.Scroll != nil:
			select {
			case scrolls <- *ev.Scroll:
			case <-ctx.Done():
				return nil
			}
		default:
			logger.Warn("Skipping event with neither resize nor scroll", zap.Int("line", line))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	return nil
}
