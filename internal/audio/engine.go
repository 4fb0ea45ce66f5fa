package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// Timer is a cancellable scheduled task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d, on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Engine plays one ambient preset at a time. It owns a lazily opened
// Context and the live graph; Start and Stop may be called from any
// goroutine and in any order.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	open  DeviceOpener
	sched Scheduler
	rng   *rand.Rand
	log   *slog.Logger

	ac      *Context
	live    *graph
	pending Timer
	// gen invalidates cleanups whose timer fired but could not be stopped
	// before a newer Start or Stop took over.
	gen    uint64
	closed bool
}

type Option func(*Engine)

// WithDeviceOpener replaces the platform output. A nil opener runs the
// context without a device; frames are only produced when pulled.
func WithDeviceOpener(open DeviceOpener) Option {
	return func(e *Engine) { e.open = open }
}

func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:   cfg.withDefaults(),
		open:  DefaultDeviceOpener,
		sched: wallClock{},
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Start replaces whatever is playing with preset p, fading it in. Silence
// behaves like Stop(false). The previous graph is torn down before Start
// returns, so two presets never sound together.
//
// Opening the output device is the only step that may block; it is bounded
// by ctx. Device failures are reported as ErrAudioUnavailable.
func (e *Engine) Start(ctx context.Context, p Preset) error {
	if p == Silence {
		e.Stop(false)
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.cancelPending()

	ac, err := e.context(ctx)
	if err != nil {
		return err
	}
	if ac.State() == StateSuspended {
		if err := ac.Resume(); err != nil {
			return fmt.Errorf("%w: resume: %w", ErrAudioUnavailable, err)
		}
	}

	e.stopLocked(true)

	now := ac.CurrentTime()
	g := buildGraph(ac, e.cfg, e.rng, p, now)
	g.start(now)
	e.live = g
	e.log.Debug("ambient start", "preset", p, "graph", g.id, "nodes", len(g.nodes))
	return nil
}

// Stop fades the live graph out and tears it down once the fade is done.
// With immediate set the fade is near-instant and teardown happens before
// Stop returns. Stop on a silent engine does nothing.
func (e *Engine) Stop(immediate bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked(immediate)
}

func (e *Engine) stopLocked(immediate bool) {
	e.cancelPending()
	if e.ac == nil || e.live == nil {
		return
	}
	g := e.live
	fade := e.cfg.FadeOut
	if immediate {
		fade = e.cfg.CutoverFade
	}
	g.fadeOut(e.ac.CurrentTime(), fade.Seconds())

	if immediate {
		e.release(g)
		e.log.Debug("ambient cut", "preset", g.preset, "graph", g.id)
		return
	}
	gen := e.gen
	e.pending = e.sched.AfterFunc(fade+e.cfg.CleanupSlack, func() {
		e.cleanup(gen, g)
	})
	e.log.Debug("ambient fade out", "preset", g.preset, "graph", g.id, "fade", fade)
}

func (e *Engine) cleanup(gen uint64, g *graph) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.pending = nil
	e.release(g)
	e.log.Debug("ambient cleanup", "preset", g.preset, "graph", g.id)
}

func (e *Engine) release(g *graph) {
	g.teardown()
	if e.live == g {
		e.live = nil
	}
}

// cancelPending stops the outstanding cleanup timer, if any, and bumps the
// generation so a callback already in flight becomes a no-op.
func (e *Engine) cancelPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.gen++
}

func (e *Engine) context(ctx context.Context) (*Context, error) {
	if e.ac != nil {
		return e.ac, nil
	}
	ac := NewContext(e.cfg.SampleRate, nil)
	if e.open != nil {
		dev, err := e.open(ctx, e.cfg.SampleRate, ac)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAudioUnavailable, err)
		}
		ac.attach(dev)
	}
	e.ac = ac
	e.log.Debug("audio context created", "sample_rate", e.cfg.SampleRate)
	return ac, nil
}

// Playing returns the preset of the live graph, or Silence. A graph that is
// fading out still counts as playing until its cleanup runs.
func (e *Engine) Playing() Preset {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live == nil {
		return Silence
	}
	return e.live.preset
}

// Snapshot describes the live graph. The zero value means silent.
func (e *Engine) Snapshot() GraphSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live == nil {
		return GraphSnapshot{}
	}
	return e.live.snapshot()
}

// FadeOutDuration is how long a graceful Stop takes to release the graph.
func (e *Engine) FadeOutDuration() time.Duration {
	return e.cfg.FadeOut + e.cfg.CleanupSlack
}

// Close tears down the live graph at once and releases the output device.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.cancelPending()
	if e.live != nil {
		e.release(e.live)
	}
	if e.ac != nil {
		return e.ac.Close()
	}
	return nil
}
