package audio

import "math/rand/v2"

// Noise buffers are generated fresh for every graph.

// BufferLength returns the number of frames a noise buffer of the given
// duration holds at sampleRate.
func BufferLength(sampleRate int, seconds float64) int {
	n := int(float64(sampleRate) * seconds)
	if n < 1 {
		n = 1
	}
	return n
}

func white(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// whiteNoiseBuffer fills n samples with uniform noise in [-1, 1).
func whiteNoiseBuffer(rng *rand.Rand, n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = white(rng)
	}
	return buf
}

// brownNoiseBuffer integrates white noise through a leaky accumulator and boosts
// the result by 3.5 so it lands roughly in [-1, 1].
func brownNoiseBuffer(rng *rand.Rand, n int) []float64 {
	buf := make([]float64, n)
	last := 0.0
	for i := range buf {
		last = (last + 0.02*white(rng)) / 1.02
		buf[i] = last * 3.5
	}
	return buf
}

// pinkNoiseBuffer uses Paul Kellett's refined 7-pole approximation of a -3dB/oct
// slope, scaled by 0.11.
func pinkNoiseBuffer(rng *rand.Rand, n int) []float64 {
	buf := make([]float64, n)
	var b0, b1, b2, b3, b4, b5, b6 float64
	for i := range buf {
		w := white(rng)
		b0 = 0.99886*b0 + w*0.0555179
		b1 = 0.99332*b1 + w*0.0750759
		b2 = 0.96900*b2 + w*0.1538520
		b3 = 0.86650*b3 + w*0.3104856
		b4 = 0.55000*b4 + w*0.5329522
		b5 = -0.7616*b5 - w*0.0168980
		buf[i] = (b0 + b1 + b2 + b3 + b4 + b5 + b6 + w*0.5362) * 0.11
		b6 = w * 0.115926
	}
	return buf
}
