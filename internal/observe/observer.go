// internal/observe/observer.go
package observe

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/gridline/internal/grid"
	"github.com/xkilldash9x/gridline/internal/observability"
	"github.com/xkilldash9x/gridline/internal/primitives"
	"github.com/xkilldash9x/gridline/internal/schedule"
	"github.com/xkilldash9x/gridline/internal/snap"
	"github.com/xkilldash9x/gridline/internal/spacing"
	"github.com/xkilldash9x/gridline/internal/units"
	"github.com/xkilldash9x/gridline/internal/virtual"
)

// Measurement is a resize notification for the observed container.
type Measurement struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scroll is a scroll, window resize or intersection notification.
type Scroll struct {
	ScrollY        float64 `json:"scrollY"`
	ContainerTop   float64 `json:"containerTop"`
	ViewportHeight float64 `json:"viewportHeight"`
	Visible        bool    `json:"visible"`
}

// Settings fixes what the observer computes for every frame.
type Settings struct {
	Base       float64
	Mode       snap.Mode
	Padding    spacing.Edges
	Grid       grid.Config // nil draws line guides one base unit apart
	Context    *units.ConversionContext
	LineHeight float64 // defaults to Base
	Buffer     float64
	FullyShown bool
	// SettleDelay is how long notifications must stop before Handlers.Settled runs.
	SettleDelay      time.Duration
	SuppressWarnings bool
}

// Snapshot is everything the overlay needs to render one frame.
type Snapshot struct {
	ObserverID  string        `json:"observerId"`
	Seq         uint64        `json:"seq"`
	Measurement Measurement   `json:"measurement"`
	Grid        grid.Result   `json:"grid"`
	Range       virtual.Range `json:"range"`
	Padding     spacing.Edges `json:"padding"`
	Aligned     bool          `json:"aligned"`
}

// Handlers receive snapshots. They are never called concurrently and must not
// call back into the Observer.
type Handlers struct {
	// Frame runs once per coalesced frame.
	Frame func(Snapshot)
	// Settled, if set, runs with the latest snapshot once notifications have
	// been quiet for Settings.SettleDelay.
	Settled func(Snapshot)
}

// Observer turns a stream of measurements into frame-coalesced snapshots.
type Observer struct {
	id       string
	logger   *zap.Logger
	settings Settings
	handlers Handlers
	calc     *grid.Calculator

	resize *schedule.FrameThrottle[Measurement]
	scroll *schedule.FrameThrottle[Scroll]

	settle       func(Snapshot)
	cancelSettle func()

	misaligned rate.Sometimes

	mu       sync.Mutex
	size     Measurement
	haveSize bool
	pos      Scroll
	seq      uint64
	stopped  bool
}

// New creates an observer. A nil scheduler uses timer-driven frames.
func New(logger *zap.Logger, sched schedule.FrameScheduler, settings Settings, handlers Handlers) (*Observer, error) {
	if err := snap.ValidateBase(settings.Base); err != nil {
		return nil, fmt.Errorf("observer settings: %w", err)
	}
	if _, err := snap.ParseMode(string(settings.Mode)); err != nil {
		return nil, fmt.Errorf("observer settings: %w", err)
	}
	if handlers.Frame == nil {
		return nil, fmt.Errorf("observer requires a frame handler")
	}
	if logger == nil {
		logger = observability.GetLogger()
	}
	if settings.Grid == nil {
		settings.Grid = grid.Line{Common: grid.Common{Gap: settings.Base, Base: settings.Base}}
	}
	if !(settings.LineHeight > 0) {
		settings.LineHeight = settings.Base
	}

	id := uuid.New().String()
	o := &Observer{
		id:         id,
		logger:     logger.Named("observer").With(zap.String("observer_id", id)),
		settings:   settings,
		handlers:   handlers,
		misaligned: rate.Sometimes{Interval: time.Second},
	}
	o.calc = grid.NewCalculator(o.logger, settings.Context)
	o.resize = schedule.NewFrameThrottle(sched, o.applyResize)
	o.scroll = schedule.NewFrameThrottle(sched, o.applyScroll)
	if handlers.Settled != nil {
		o.settle, o.cancelSettle = schedule.Debounce(o.deliverSettled, settings.SettleDelay)
	}
	return o, nil
}

// ID identifies the observer in logs and snapshots.
func (o *Observer) ID() string { return o.id }

// Resize queues a size notification for the next frame.
func (o *Observer) Resize(m Measurement) { o.resize.Call(m) }

// Scroll queues a position notification for the next frame.
func (o *Observer) Scroll(s Scroll) { o.scroll.Call(s) }

// Close cancels pending frames and settle timers. No handler runs after Close returns.
func (o *Observer) Close() {
	o.resize.Cancel()
	o.scroll.Cancel()
	if o.cancelSettle != nil {
		o.cancelSettle()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.stopped {
		o.stopped = true
		o.logger.Debug("Observer closed", zap.Uint64("frames", o.seq))
	}
}

// Run pumps both sources until ctx ends or both channels are closed, then
// closes the observer. A nil channel counts as an absent source. Context
// cancellation is a normal shutdown and returns nil.
func (o *Observer) Run(ctx context.Context, sizes <-chan Measurement, scrolls <-chan Scroll) error {
	defer o.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pump(gctx, sizes, o.resize) })
	g.Go(func() error { return pump(gctx, scrolls, o.scroll) })

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// pump feeds a channel into a throttle. When the channel closes, the last
// notification is delivered without waiting for its frame.
func pump[T any](ctx context.Context, ch <-chan T, th *schedule.FrameThrottle[T]) error {
	if ch == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-ch:
			if !ok {
				th.Flush()
				return nil
			}
			th.Call(v)
		}
	}
}

func (o *Observer) applyResize(m Measurement) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.size = m
	o.haveSize = true
	o.emitLocked()
}

func (o *Observer) applyScroll(s Scroll) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pos = s
	o.emitLocked()
}

// emitLocked recomputes the snapshot from the latest inputs. Nothing is
// carried over from earlier frames.
func (o *Observer) emitLocked() {
	if o.stopped || !o.haveSize {
		return
	}
	o.seq++
	s := o.snapshot()

	if !s.Aligned && !o.settings.SuppressWarnings {
		o.misaligned.Do(func() {
			o.logger.Warn("Measured height is not a multiple of the base unit",
				zap.Float64("height", s.Measurement.Height),
				zap.Float64("base", o.settings.Base),
				zap.Float64("remainder", math.Mod(s.Measurement.Height, o.settings.Base)))
		})
	}

	o.handlers.Frame(s)
	if o.settle != nil {
		o.settle(s)
	}
}

func (o *Observer) snapshot() Snapshot {
	st := o.settings
	box := primitives.SnapBox(st.Padding, o.size.Height, st.Base, st.Mode)

	var rng virtual.Range
	if st.FullyShown || o.pos.Visible {
		total := int(math.Floor(o.size.Height / st.LineHeight))
		rng = virtual.ComputeVisibleRange(total, st.LineHeight, virtual.Geometry{
			ContainerTop:   o.pos.ContainerTop,
			ScrollY:        o.pos.ScrollY,
			ViewportHeight: o.pos.ViewportHeight,
			FullyShown:     st.FullyShown,
		}, st.Buffer)
	}

	return Snapshot{
		ObserverID:  o.id,
		Seq:         o.seq,
		Measurement: o.size,
		Grid:        o.calc.Compute(o.size.Width, st.Grid),
		Range:       rng,
		Padding:     box.Padding,
		Aligned:     box.IsAligned,
	}
}

func (o *Observer) deliverSettled(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	o.handlers.Settled(s)
}
