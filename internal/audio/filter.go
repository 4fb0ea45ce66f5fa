package audio

import "math"

type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

func (f FilterType) String() string {
	switch f {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	}
	return "unknown"
}

// butterworthQ gives a maximally flat passband.
const butterworthQ = 0.7071067811865476

// BiquadFilter is a second-order RBJ cookbook filter. Coefficients are
// recomputed whenever the frequency or Q parameter moves.
type BiquadFilter struct {
	nodeBase
	Type      FilterType
	Frequency *Param
	Q         *Param

	lastFreq, lastQ    float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func (f *BiquadFilter) coefficients(freq, q float64) {
	sr := float64(f.ctx.sampleRate)
	freq = math.Max(1, math.Min(freq, sr*0.49))
	if q <= 0 {
		q = butterworthQ
	}
	omega := 2 * math.Pi * freq / sr
	sinW, cosW := math.Sin(omega), math.Cos(omega)
	alpha := sinW / (2 * q)

	var b0, b1, b2 float64
	switch f.Type {
	case Highpass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
	}
	a0 := 1 + alpha
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = -2*cosW/a0, (1-alpha)/a0
}

func (f *BiquadFilter) run(in float64, frame int64, t float64) float64 {
	freq := f.Frequency.render(frame, t)
	q := f.Q.render(frame, t)
	if freq != f.lastFreq || q != f.lastQ {
		f.lastFreq, f.lastQ = freq, q
		f.coefficients(freq, q)
	}
	y := f.b0*in + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, in
	f.y2, f.y1 = f.y1, y
	return y
}
