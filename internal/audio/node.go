package audio

import "math"

// NodeKind tags a graph node with the teardown it needs: time-driven kinds
// (Source, Oscillator) are stopped as well as disconnected.
type NodeKind int

const (
	KindSource NodeKind = iota
	KindOscillator
	KindFilter
	KindGain
	KindDestination
)

func (k NodeKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindOscillator:
		return "oscillator"
	case KindFilter:
		return "filter"
	case KindGain:
		return "gain"
	case KindDestination:
		return "destination"
	}
	return "unknown"
}

// Node is a processing stage in a Context's graph.
type Node interface {
	Kind() NodeKind
	// Connect routes this node's output into dst.
	Connect(dst Node)
	// ConnectParam routes this node's output onto a parameter.
	ConnectParam(p *Param)
	// Disconnect detaches every outgoing connection. Calling it again is a
	// no-op.
	Disconnect()
	base() *nodeBase
}

// Scheduled is implemented by time-driven nodes.
type Scheduled interface {
	Start(when float64)
	// Stop silences the node for good. Stopping a stopped (or never
	// started) node is a no-op.
	Stop()
}

type nodeBase struct {
	ctx     *Context
	kind    NodeKind
	process func(in float64, frame int64, t float64) float64
	inputs  []*nodeBase
	outputs []*nodeBase
	params  []*Param
	stamp   int64
	cached  float64
}

func newBase(ctx *Context, kind NodeKind) nodeBase {
	return nodeBase{ctx: ctx, kind: kind, stamp: -1}
}

func (n *nodeBase) Kind() NodeKind    { return n.kind }
func (n *nodeBase) base() *nodeBase   { return n }
func (n *nodeBase) Context() *Context { return n.ctx }

func (n *nodeBase) Connect(dst Node) {
	d := dst.base()
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	d.inputs = append(d.inputs, n)
	n.outputs = append(n.outputs, d)
}

func (n *nodeBase) ConnectParam(p *Param) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	p.inputs = append(p.inputs, n)
	n.params = append(n.params, p)
}

func (n *nodeBase) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	for _, out := range n.outputs {
		out.inputs = removeNode(out.inputs, n)
	}
	for _, p := range n.params {
		p.removeInput(n)
	}
	n.outputs = nil
	n.params = nil
}

// Connected reports whether the node still feeds anything.
func (n *nodeBase) Connected() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return len(n.outputs) > 0 || len(n.params) > 0
}

// pull renders the node for frame once and caches the result, so a node
// with several outputs is not advanced twice.
func (n *nodeBase) pull(frame int64, t float64) float64 {
	if n.stamp == frame {
		return n.cached
	}
	in := 0.0
	for _, src := range n.inputs {
		in += src.pull(frame, t)
	}
	out := in
	if n.process != nil {
		out = n.process(in, frame, t)
	}
	n.stamp = frame
	n.cached = out
	return out
}

func removeNode(list []*nodeBase, n *nodeBase) []*nodeBase {
	for i, v := range list {
		if v == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// ---- Gain ---------------------------------------------------------------

// Gain multiplies its summed input by the Gain parameter.
type Gain struct {
	nodeBase
	Gain *Param
}

func (g *Gain) run(in float64, frame int64, t float64) float64 {
	return in * g.Gain.render(frame, t)
}

// ---- Destination --------------------------------------------------------

// Destination is the context's output. Its input is the final mix.
type Destination struct {
	nodeBase
}

// ---- Buffer source ------------------------------------------------------

// BufferSource plays a mono sample buffer, optionally looping.
type BufferSource struct {
	nodeBase
	buffer  []float64
	Loop    bool
	pos     int
	startAt float64
	started bool
	stopped bool
}

// Buffer returns the sample buffer the source plays.
func (s *BufferSource) Buffer() []float64 { return s.buffer }

// Start schedules playback at when (context seconds). Starting twice is
// ignored.
func (s *BufferSource) Start(when float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.startAt = when
}

func (s *BufferSource) Stop() {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.stopped = true
}

// Stopped reports whether Stop was called or a non-looping buffer ran out.
func (s *BufferSource) Stopped() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.stopped
}

func (s *BufferSource) run(_ float64, _ int64, t float64) float64 {
	if !s.started || s.stopped || t < s.startAt || len(s.buffer) == 0 {
		return 0
	}
	if s.pos >= len(s.buffer) {
		if !s.Loop {
			s.stopped = true
			return 0
		}
		s.pos = 0
	}
	v := s.buffer[s.pos]
	s.pos++
	return v
}

// ---- Oscillator ---------------------------------------------------------

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
	Sawtooth
)

// Oscillator is a periodic source whose Frequency may itself be modulated.
type Oscillator struct {
	nodeBase
	Type      Waveform
	Frequency *Param
	phase     float64
	startAt   float64
	started   bool
	stopped   bool
}

func (o *Oscillator) Start(when float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if o.started || o.stopped {
		return
	}
	o.started = true
	o.startAt = when
}

func (o *Oscillator) Stop() {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.stopped = true
}

func (o *Oscillator) Stopped() bool {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	return o.stopped
}

func (o *Oscillator) run(_ float64, frame int64, t float64) float64 {
	if !o.started || o.stopped || t < o.startAt {
		return 0
	}
	v := waveAt(o.Type, o.phase)
	o.phase += o.Frequency.render(frame, t) / float64(o.ctx.sampleRate)
	o.phase -= math.Floor(o.phase)
	return v
}

// waveAt evaluates one cycle of w at phase in [0,1).
func waveAt(w Waveform, phase float64) float64 {
	switch w {
	case Triangle:
		switch {
		case phase < 0.25:
			return phase * 4
		case phase < 0.75:
			return 2 - phase*4
		default:
			return phase*4 - 4
		}
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		if phase < 0.5 {
			return phase * 2
		}
		return phase*2 - 2
	}
	return math.Sin(2 * math.Pi * phase)
}
