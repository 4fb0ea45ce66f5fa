package audio

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// liveNode is one entry of a graph's node set. The kind decides the
// teardown: every node is disconnected, time-driven ones are also stopped.
type liveNode struct {
	kind  NodeKind
	node  Node
	sched Scheduled // set for KindSource and KindOscillator
	gain  *Param    // set for KindGain
}

// graph is the set of nodes built for one playback session.
type graph struct {
	id     string
	preset Preset
	master *Gain
	nodes  []liveNode
}

// GraphSnapshot describes the live graph for diagnostics.
type GraphSnapshot struct {
	ID     string
	Preset Preset
	Nodes  []NodeKind
}

func newGraph(p Preset) *graph {
	return &graph{id: uuid.NewString(), preset: p}
}

func (g *graph) addSource(s *BufferSource) {
	g.nodes = append(g.nodes, liveNode{kind: KindSource, node: s, sched: s})
}

func (g *graph) addOscillator(o *Oscillator) {
	g.nodes = append(g.nodes, liveNode{kind: KindOscillator, node: o, sched: o})
}

func (g *graph) addFilter(f *BiquadFilter) {
	g.nodes = append(g.nodes, liveNode{kind: KindFilter, node: f})
}

func (g *graph) addGain(n *Gain) {
	g.nodes = append(g.nodes, liveNode{kind: KindGain, node: n, gain: n.Gain})
}

func (g *graph) start(when float64) {
	for _, n := range g.nodes {
		if n.sched != nil {
			n.sched.Start(when)
		}
	}
}

// fadeOut pins every gain at its current value and ramps it to zero over
// fade seconds.
func (g *graph) fadeOut(now, fade float64) {
	for _, n := range g.nodes {
		if n.gain == nil {
			continue
		}
		v := n.gain.ValueAt(now)
		n.gain.CancelScheduledValues(now)
		n.gain.SetValueAtTime(v, now)
		n.gain.LinearRampToValueAtTime(0, now+fade)
	}
}

// teardown disconnects every node and stops the time-driven ones. Node
// teardown is idempotent, so a graph already torn down by a superseding
// call is safe to tear down again.
func (g *graph) teardown() {
	for _, n := range g.nodes {
		n.node.Disconnect()
		if n.sched != nil {
			n.sched.Stop()
		}
	}
	g.nodes = nil
}

func (g *graph) snapshot() GraphSnapshot {
	s := GraphSnapshot{ID: g.id, Preset: g.preset}
	for _, n := range g.nodes {
		s.Nodes = append(s.Nodes, n.kind)
	}
	return s
}

// ---- Preset builders ----------------------------------------------------

// buildGraph creates the master gain (fading from 0 to the steady gain
// starting at now) and the preset's signal chain feeding it. Nothing is
// started. Silence has no graph.
func buildGraph(ac *Context, cfg Config, rng *rand.Rand, p Preset, now float64) *graph {
	if p == Silence {
		return nil
	}
	g := newGraph(p)
	master := ac.NewGain(0)
	master.Gain.SetValueAtTime(0, now)
	master.Gain.LinearRampToValueAtTime(cfg.SteadyGain, now+cfg.FadeIn.Seconds())
	master.Connect(ac.Destination())
	g.master = master
	g.addGain(master)

	n := BufferLength(ac.SampleRate(), cfg.BufferSeconds)
	switch p {
	case WhiteNoise:
		src := ac.NewBufferSource(whiteNoiseBuffer(rng, n), true)
		src.Connect(master)
		g.addSource(src)
	case BrownNoise:
		src := ac.NewBufferSource(brownNoiseBuffer(rng, n), true)
		src.Connect(master)
		g.addSource(src)
	case Ocean:
		buildOcean(ac, g, cfg.Ocean, brownNoiseBuffer(rng, n))
	case Forest:
		buildForest(ac, g, cfg.Forest, pinkNoiseBuffer(rng, n))
	}
	return g
}

// buildOcean: brown noise -> lowpass -> wave gain -> master, with a slow
// sine swelling the wave gain.
func buildOcean(ac *Context, g *graph, cfg OceanConfig, buf []float64) {
	src := ac.NewBufferSource(buf, true)
	lp := ac.NewBiquadFilter(Lowpass, cfg.LowpassHz)
	wave := ac.NewGain(cfg.BaseGain)
	lfo, depth := modulator(ac, cfg.LFOHz, cfg.Depth, wave.Gain)

	src.Connect(lp)
	lp.Connect(wave)
	wave.Connect(g.master)

	g.addSource(src)
	g.addFilter(lp)
	g.addGain(wave)
	g.addOscillator(lfo)
	g.addGain(depth)
}

// buildForest: pink noise -> highpass -> lowpass -> breeze gain -> master.
func buildForest(ac *Context, g *graph, cfg ForestConfig, buf []float64) {
	src := ac.NewBufferSource(buf, true)
	hp := ac.NewBiquadFilter(Highpass, cfg.HighpassHz)
	lp := ac.NewBiquadFilter(Lowpass, cfg.LowpassHz)
	breeze := ac.NewGain(cfg.BaseGain)
	lfo, depth := modulator(ac, cfg.LFOHz, cfg.Depth, breeze.Gain)

	src.Connect(hp)
	hp.Connect(lp)
	lp.Connect(breeze)
	breeze.Connect(g.master)

	g.addSource(src)
	g.addFilter(hp)
	g.addFilter(lp)
	g.addGain(breeze)
	g.addOscillator(lfo)
	g.addGain(depth)
}

// modulator drives target with a sine of the given rate and depth.
func modulator(ac *Context, hz, depth float64, target *Param) (*Oscillator, *Gain) {
	lfo := ac.NewOscillator(Sine, hz)
	amt := ac.NewGain(depth)
	lfo.Connect(amt)
	amt.ConnectParam(target)
	return lfo, amt
}
