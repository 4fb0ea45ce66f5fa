package audio

import (
	"math"
	"sync"
)

const (
	DefaultSampleRate = 44100
	ChannelCount      = 2
	bytesPerFrame     = ChannelCount * 4 // float32 LE per channel
)

type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Context hosts a node graph and its sample clock. The clock only advances
// while the context is running and something pulls frames, either the
// output device through Read or an offline caller through RenderFrames.
//
// One mutex guards the whole graph: control calls (connect, schedule, stop)
// and the render path never interleave inside a frame.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	frame      int64
	state      State
	dest       *Destination
	dev        Device
}

// NewContext returns a suspended context. dev may be nil, in which case the
// context only renders when driven through Read or RenderFrames.
func NewContext(sampleRate int, dev Device) *Context {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	c := &Context{sampleRate: sampleRate, dev: dev}
	c.dest = &Destination{nodeBase: newBase(c, KindDestination)}
	return c
}

// NewOfflineContext returns a running context with no device, for
// rendering to a file or inspecting a graph in tests.
func NewOfflineContext(sampleRate int) *Context {
	c := NewContext(sampleRate, nil)
	c.state = StateRunning
	return c
}

func (c *Context) SampleRate() int { return c.sampleRate }

func (c *Context) Destination() *Destination { return c.dest }

// CurrentTime is the context clock in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.sampleRate)
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// attach wires the device after construction; the device needs the
// context as its reader, so the two cannot be built in one step.
func (c *Context) attach(dev Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dev = dev
}

// Resume starts the clock, resuming the output device first.
func (c *Context) Resume() error {
	c.mu.Lock()
	state, dev := c.state, c.dev
	c.mu.Unlock()
	switch state {
	case StateRunning:
		return nil
	case StateClosed:
		return ErrClosed
	}
	if dev != nil {
		if err := dev.Resume(); err != nil {
			return err
		}
	}
	c.mu.Lock()
	if c.state == StateSuspended {
		c.state = StateRunning
	}
	c.mu.Unlock()
	return nil
}

// Suspend freezes the clock and pauses the output device.
func (c *Context) Suspend() error {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return nil
	}
	c.state = StateSuspended
	dev := c.dev
	c.mu.Unlock()
	if dev != nil {
		return dev.Suspend()
	}
	return nil
}

// Close releases the output device. The context renders silence afterwards.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	dev := c.dev
	c.dev = nil
	c.mu.Unlock()
	if dev != nil {
		return dev.Close()
	}
	return nil
}

// ---- Node constructors --------------------------------------------------

func (c *Context) NewGain(v float64) *Gain {
	g := &Gain{nodeBase: newBase(c, KindGain)}
	g.Gain = newParam(c, v)
	g.process = g.run
	return g
}

func (c *Context) NewBufferSource(buf []float64, loop bool) *BufferSource {
	s := &BufferSource{nodeBase: newBase(c, KindSource), buffer: buf, Loop: loop}
	s.process = s.run
	return s
}

func (c *Context) NewOscillator(w Waveform, freq float64) *Oscillator {
	o := &Oscillator{nodeBase: newBase(c, KindOscillator), Type: w}
	o.Frequency = newParam(c, freq)
	o.process = o.run
	return o
}

func (c *Context) NewBiquadFilter(t FilterType, freq float64) *BiquadFilter {
	f := &BiquadFilter{
		nodeBase: newBase(c, KindFilter),
		Type:     t,
		lastFreq: math.NaN(),
		lastQ:    math.NaN(),
	}
	f.Frequency = newParam(c, freq)
	f.Q = newParam(c, butterworthQ)
	f.process = f.run
	return f
}

// ---- Rendering ----------------------------------------------------------

// Read implements io.Reader for the output device: interleaved stereo
// float32 little-endian frames. While the context is not running it fills
// p with silence and the clock stands still.
func (c *Context) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		clear(p[:frames*bytesPerFrame])
		return frames * bytesPerFrame, nil
	}
	for i := range frames {
		putStereoF32(p, i, c.step())
	}
	return frames * bytesPerFrame, nil
}

// RenderFrames pulls n mono frames from the destination. A context that is
// not running yields silence.
func (c *Context) RenderFrames(n int) []float64 {
	out := make([]float64, n)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return out
	}
	for i := range out {
		out[i] = c.step()
	}
	return out
}

func (c *Context) step() float64 {
	v := c.dest.pull(c.frame, c.now())
	c.frame++
	return clampF(v, -1, 1)
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
