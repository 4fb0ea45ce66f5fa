package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

const testSampleRate = 8000

type fakeDevice struct {
	resumes, suspends, closes int
	resumeErr                 error
}

func (d *fakeDevice) Resume() error {
	d.resumes++
	return d.resumeErr
}

func (d *fakeDevice) Suspend() error {
	d.suspends++
	return nil
}

func (d *fakeDevice) Close() error {
	d.closes++
	return nil
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualScheduler records timers and only runs them when the test says so.
type manualScheduler struct {
	timers []*fakeTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) active() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (s *manualScheduler) fire() {
	for _, t := range s.active() {
		t.fired = true
		t.f()
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleRate = testSampleRate
	return cfg
}

func newTestEngine(t *testing.T) (*Engine, *manualScheduler, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	sched := &manualScheduler{}
	open := func(context.Context, int, io.Reader) (Device, error) { return dev, nil }
	e := NewEngine(testConfig(),
		WithDeviceOpener(open),
		WithScheduler(sched),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	return e, sched, dev
}

func liveNodes(e *Engine) []liveNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live == nil {
		return nil
	}
	return append([]liveNode(nil), e.live.nodes...)
}

func assertTornDown(t *testing.T, nodes []liveNode) {
	t.Helper()
	for i, n := range nodes {
		if n.node.base().Connected() {
			t.Fatalf("node %d (%s) still connected", i, n.kind)
		}
		switch s := n.node.(type) {
		case *BufferSource:
			if !s.Stopped() {
				t.Fatalf("node %d source not stopped", i)
			}
		case *Oscillator:
			if !s.Stopped() {
				t.Fatalf("node %d oscillator not stopped", i)
			}
		}
	}
}

func TestStartBuildsOneGraphPerPreset(t *testing.T) {
	tests := []struct {
		preset Preset
		kinds  []NodeKind
	}{
		{WhiteNoise, []NodeKind{KindGain, KindSource}},
		{BrownNoise, []NodeKind{KindGain, KindSource}},
		{Ocean, []NodeKind{KindGain, KindSource, KindFilter, KindGain, KindOscillator, KindGain}},
		{Forest, []NodeKind{KindGain, KindSource, KindFilter, KindFilter, KindGain, KindOscillator, KindGain}},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			e, _, dev := newTestEngine(t)
			if err := e.Start(context.Background(), tt.preset); err != nil {
				t.Fatalf("Start: %v", err)
			}
			snap := e.Snapshot()
			if snap.Preset != tt.preset || snap.ID == "" {
				t.Fatalf("snapshot = %+v", snap)
			}
			if len(snap.Nodes) != len(tt.kinds) {
				t.Fatalf("nodes = %v, want %v", snap.Nodes, tt.kinds)
			}
			for i := range tt.kinds {
				if snap.Nodes[i] != tt.kinds[i] {
					t.Fatalf("nodes = %v, want %v", snap.Nodes, tt.kinds)
				}
			}
			if dev.resumes != 1 {
				t.Fatalf("device resumed %d times, want 1", dev.resumes)
			}

			dest := e.ac.Destination()
			if len(dest.inputs) != 1 || dest.inputs[0] != e.live.master.base() {
				t.Fatalf("destination inputs = %d, want only the master gain", len(dest.inputs))
			}
			g := e.live.master.Gain
			for _, c := range []struct{ at, want float64 }{
				{0, 0}, {1, 0.075}, {2, 0.15}, {10, 0.15},
			} {
				if got := g.ValueAt(c.at); math.Abs(got-c.want) > 1e-9 {
					t.Fatalf("master gain at %vs = %v, want %v", c.at, got, c.want)
				}
			}
		})
	}
}

func TestStartSwitchCutsOverPreviousGraph(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	ctx := context.Background()
	if err := e.Start(ctx, Ocean); err != nil {
		t.Fatal(err)
	}
	first := liveNodes(e)
	if err := e.Start(ctx, Forest); err != nil {
		t.Fatal(err)
	}
	assertTornDown(t, first)
	if got := e.Playing(); got != Forest {
		t.Fatalf("Playing = %v, want forest", got)
	}
	if n := len(e.ac.Destination().inputs); n != 1 {
		t.Fatalf("destination has %d inputs, want 1", n)
	}
	if n := len(sched.active()); n != 0 {
		t.Fatalf("%d cleanups pending after cutover, want 0", n)
	}
}

func TestRapidStartsKeepOneGraph(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	var earlier [][]liveNode
	for _, p := range []Preset{WhiteNoise, Ocean, BrownNoise, Forest, Ocean} {
		if err := e.Start(ctx, p); err != nil {
			t.Fatal(err)
		}
		earlier = append(earlier, liveNodes(e))
		e.ac.RenderFrames(16)
	}
	for _, nodes := range earlier[:len(earlier)-1] {
		assertTornDown(t, nodes)
	}
	if n := len(e.ac.Destination().inputs); n != 1 {
		t.Fatalf("destination has %d inputs, want 1", n)
	}
}

func TestStopOnSilentEngineIsNoop(t *testing.T) {
	e, sched, dev := newTestEngine(t)
	e.Stop(false)
	e.Stop(true)
	if e.ac != nil {
		t.Fatal("Stop opened an audio context")
	}
	if len(sched.timers) != 0 || dev.resumes != 0 {
		t.Fatalf("timers=%d resumes=%d, want none", len(sched.timers), dev.resumes)
	}
	if e.Playing() != Silence {
		t.Fatal("silent engine reports a preset")
	}
}

func TestStopFadesThenCleansUp(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	if err := e.Start(context.Background(), Forest); err != nil {
		t.Fatal(err)
	}
	nodes := liveNodes(e)
	e.ac.RenderFrames(testSampleRate) // one second in

	e.Stop(false)
	pending := sched.active()
	if len(pending) != 1 {
		t.Fatalf("%d cleanups pending, want 1", len(pending))
	}
	if want := 1500*time.Millisecond + 100*time.Millisecond; pending[0].d != want {
		t.Fatalf("cleanup delay = %v, want %v", pending[0].d, want)
	}
	// Still fading: the graph stays live and the master ramps from where it
	// was to zero.
	if e.Playing() != Forest {
		t.Fatal("graph released before the fade finished")
	}
	master := e.live.master.Gain
	if got := master.ValueAt(1); math.Abs(got-0.075) > 1e-3 {
		t.Fatalf("pinned master gain = %v, want ~0.075", got)
	}
	if got := master.ValueAt(2.5); got != 0 {
		t.Fatalf("master gain after fade = %v, want 0", got)
	}

	sched.fire()
	assertTornDown(t, nodes)
	if snap := e.Snapshot(); snap.ID != "" || len(snap.Nodes) != 0 {
		t.Fatalf("live graph not cleared: %+v", snap)
	}
}

func TestStopTwiceSchedulesOneCleanup(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	if err := e.Start(context.Background(), WhiteNoise); err != nil {
		t.Fatal(err)
	}
	nodes := liveNodes(e)
	e.Stop(false)
	e.Stop(false)
	if len(sched.timers) != 2 {
		t.Fatalf("scheduled %d timers, want 2", len(sched.timers))
	}
	if !sched.timers[0].stopped {
		t.Fatal("first cleanup not cancelled")
	}
	if n := len(sched.active()); n != 1 {
		t.Fatalf("%d cleanups pending, want 1", n)
	}
	sched.fire()
	assertTornDown(t, nodes)

	// A cancelled callback that runs anyway (timer already fired) is a no-op.
	sched.timers[0].f()
	assertTornDown(t, nodes)
}

func TestStaleCleanupDoesNotTouchNewGraph(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	ctx := context.Background()
	if err := e.Start(ctx, WhiteNoise); err != nil {
		t.Fatal(err)
	}
	e.Stop(false)
	stale := sched.timers[0]
	if err := e.Start(ctx, BrownNoise); err != nil {
		t.Fatal(err)
	}
	if !stale.stopped {
		t.Fatal("Start did not cancel the pending cleanup")
	}
	stale.f()
	if e.Playing() != BrownNoise {
		t.Fatalf("Playing = %v after stale cleanup, want brown", e.Playing())
	}
	for _, n := range liveNodes(e) {
		if !n.node.base().Connected() {
			t.Fatalf("%s node of the new graph was disconnected", n.kind)
		}
	}
}

func TestImmediateStopTearsDownSynchronously(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	if err := e.Start(context.Background(), Ocean); err != nil {
		t.Fatal(err)
	}
	nodes := liveNodes(e)
	e.Stop(true)
	assertTornDown(t, nodes)
	if len(sched.timers) != 0 {
		t.Fatalf("immediate stop scheduled %d timers", len(sched.timers))
	}
	e.Stop(true)
	e.Stop(false)
}

func TestStartSilenceBehavesAsStop(t *testing.T) {
	e, sched, _ := newTestEngine(t)
	ctx := context.Background()

	if err := e.Start(ctx, Silence); err != nil {
		t.Fatal(err)
	}
	if e.ac != nil || len(sched.timers) != 0 {
		t.Fatal("Silence on an idle engine built something")
	}

	if err := e.Start(ctx, Ocean); err != nil {
		t.Fatal(err)
	}
	nodes := liveNodes(e)
	if err := e.Start(ctx, Silence); err != nil {
		t.Fatal(err)
	}
	if n := len(sched.active()); n != 1 {
		t.Fatalf("%d cleanups pending, want 1", n)
	}
	sched.fire()
	assertTornDown(t, nodes)
	if e.Playing() != Silence {
		t.Fatal("graph still live after Silence")
	}
}

func TestStartReportsAudioUnavailable(t *testing.T) {
	openErr := errors.New("no device")
	e := NewEngine(testConfig(), WithDeviceOpener(func(context.Context, int, io.Reader) (Device, error) {
		return nil, openErr
	}))
	err := e.Start(context.Background(), BrownNoise)
	if !errors.Is(err, ErrAudioUnavailable) || !errors.Is(err, openErr) {
		t.Fatalf("err = %v, want ErrAudioUnavailable wrapping the open error", err)
	}
	if e.Playing() != Silence {
		t.Fatal("graph installed without a device")
	}
	e.Stop(false)
}

func TestStartReportsResumeFailure(t *testing.T) {
	e, _, dev := newTestEngine(t)
	dev.resumeErr = errors.New("autoplay blocked")
	err := e.Start(context.Background(), Ocean)
	if !errors.Is(err, ErrAudioUnavailable) {
		t.Fatalf("err = %v, want ErrAudioUnavailable", err)
	}
	if e.Playing() != Silence {
		t.Fatal("graph installed on a suspended context")
	}

	dev.resumeErr = nil
	if err := e.Start(context.Background(), Ocean); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	e, sched, dev := newTestEngine(t)
	ctx := context.Background()
	if err := e.Start(ctx, Forest); err != nil {
		t.Fatal(err)
	}
	nodes := liveNodes(e)
	e.Stop(false)
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	assertTornDown(t, nodes)
	if len(sched.active()) != 0 {
		t.Fatal("cleanup still pending after Close")
	}
	if dev.closes != 1 {
		t.Fatalf("device closed %d times, want 1", dev.closes)
	}
	if err := e.Start(ctx, Ocean); !errors.Is(err, ErrClosed) {
		t.Fatalf("Start after Close = %v, want ErrClosed", err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFadeInIsAudibleAfterRamp(t *testing.T) {
	e := NewEngine(testConfig(), WithDeviceOpener(nil), WithRand(rand.New(rand.NewPCG(3, 4))))
	if err := e.Start(context.Background(), WhiteNoise); err != nil {
		t.Fatal(err)
	}
	frames := e.ac.RenderFrames(3 * testSampleRate)

	peak := func(s []float64) float64 {
		m := 0.0
		for _, v := range s {
			m = math.Max(m, math.Abs(v))
		}
		return m
	}
	head := peak(frames[:testSampleRate/100])
	tail := peak(frames[2*testSampleRate:])
	if head > 0.002 {
		t.Fatalf("first 10ms peak = %v, want near silence", head)
	}
	if tail < 0.1 || tail > 0.15+1e-9 {
		t.Fatalf("steady-state peak = %v, want within (0.1, 0.15]", tail)
	}
}
