package audio

import (
	"math"
	"testing"
)

func rms(s []float64) float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

func TestBufferSourceLoops(t *testing.T) {
	ac := NewOfflineContext(testSampleRate)
	s := ac.NewBufferSource([]float64{0.1, 0.2, 0.3}, true)
	s.Connect(ac.Destination())
	s.Start(0)
	want := []float64{0.1, 0.2, 0.3, 0.1, 0.2, 0.3, 0.1}
	got := ac.RenderFrames(len(want))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBufferSourceOneShotStops(t *testing.T) {
	ac := NewOfflineContext(testSampleRate)
	s := ac.NewBufferSource([]float64{0.5, 0.5}, false)
	s.Connect(ac.Destination())
	s.Start(0)
	got := ac.RenderFrames(4)
	if got[1] != 0.5 || got[2] != 0 || got[3] != 0 {
		t.Fatalf("frames = %v", got)
	}
	if !s.Stopped() {
		t.Fatal("one-shot source did not report stopped")
	}
}

func TestSourceWaitsForStartTime(t *testing.T) {
	ac := NewOfflineContext(4)
	s := ac.NewBufferSource([]float64{0.5}, true)
	s.Connect(ac.Destination())
	s.Start(0.5)
	got := ac.RenderFrames(4)
	if got[0] != 0 || got[1] != 0 || got[2] != 0.5 {
		t.Fatalf("frames = %v, want silence until 0.5s", got)
	}
}

func TestNodeTeardownIsIdempotent(t *testing.T) {
	ac := NewOfflineContext(testSampleRate)
	osc := ac.NewOscillator(Sine, 440)
	g := ac.NewGain(1)
	osc.Connect(g)
	g.Connect(ac.Destination())
	osc.Start(0)

	for range 2 {
		osc.Disconnect()
		osc.Stop()
		g.Disconnect()
	}
	if osc.Connected() || g.Connected() {
		t.Fatal("nodes still connected")
	}
	if !osc.Stopped() {
		t.Fatal("oscillator not stopped")
	}
	osc.Start(0)
	if !osc.Stopped() {
		t.Fatal("Start revived a stopped oscillator")
	}

	// Stopping a source that never started is fine too.
	s := ac.NewBufferSource([]float64{1}, true)
	s.Stop()
	s.Stop()
	s.Disconnect()
}

func TestOscillatorWaveforms(t *testing.T) {
	tests := []struct {
		w     Waveform
		phase float64
		want  float64
	}{
		{Sine, 0.25, 1},
		{Sine, 0.75, -1},
		{Triangle, 0.25, 1},
		{Triangle, 0.5, 0},
		{Triangle, 0.75, -1},
		{Square, 0.1, 1},
		{Square, 0.6, -1},
		{Sawtooth, 0.25, 0.5},
		{Sawtooth, 0.75, -0.5},
	}
	for _, tt := range tests {
		if got := waveAt(tt.w, tt.phase); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("waveAt(%d, %v) = %v, want %v", tt.w, tt.phase, got, tt.want)
		}
	}
}

func TestBiquadResponse(t *testing.T) {
	tests := []struct {
		name   string
		typ    FilterType
		cutoff float64
		tone   float64
		pass   bool
	}{
		{"lowpass passes lows", Lowpass, 600, 100, true},
		{"lowpass cuts highs", Lowpass, 600, 3000, false},
		{"highpass cuts lows", Highpass, 600, 100, false},
		{"highpass passes highs", Highpass, 600, 3000, true},
		{"bandpass passes centre", Bandpass, 1000, 1000, true},
		{"bandpass cuts far lows", Bandpass, 1000, 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac := NewOfflineContext(testSampleRate)
			osc := ac.NewOscillator(Sine, tt.tone)
			f := ac.NewBiquadFilter(tt.typ, tt.cutoff)
			osc.Connect(f)
			f.Connect(ac.Destination())
			osc.Start(0)

			out := ac.RenderFrames(testSampleRate)
			level := rms(out[testSampleRate/2:]) * math.Sqrt2
			if tt.pass && level < 0.85 {
				t.Fatalf("relative level %v, want pass", level)
			}
			if !tt.pass && level > 0.1 {
				t.Fatalf("relative level %v, want cut", level)
			}
		})
	}
}

func TestBiquadFollowsFrequencyParam(t *testing.T) {
	ac := NewOfflineContext(testSampleRate)
	osc := ac.NewOscillator(Sine, 3000)
	f := ac.NewBiquadFilter(Lowpass, 600)
	osc.Connect(f)
	f.Connect(ac.Destination())
	osc.Start(0)

	before := rms(ac.RenderFrames(testSampleRate)[testSampleRate/2:])
	f.Frequency.SetValue(3900)
	after := rms(ac.RenderFrames(testSampleRate)[testSampleRate/2:])
	if after <= before*4 {
		t.Fatalf("opening the filter did not raise the level: %v -> %v", before, after)
	}
}
