package audio

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestNoiseBufferLength(t *testing.T) {
	if n := BufferLength(44100, 2); n != 88200 {
		t.Fatalf("BufferLength = %d, want 88200", n)
	}
	if n := BufferLength(8000, 0); n != 1 {
		t.Fatalf("BufferLength of zero seconds = %d, want 1", n)
	}
}

func TestWhiteNoiseRange(t *testing.T) {
	buf := whiteNoiseBuffer(rand.New(rand.NewPCG(1, 1)), 88200)
	sum := 0.0
	for i, v := range buf {
		if v < -1 || v >= 1 {
			t.Fatalf("sample %d = %v out of [-1,1)", i, v)
		}
		sum += v
	}
	if mean := sum / float64(len(buf)); math.Abs(mean) > 0.02 {
		t.Fatalf("mean = %v, want ~0", mean)
	}
}

func TestBrownNoiseStaysBounded(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		buf := brownNoiseBuffer(rand.New(rand.NewPCG(seed, seed*31)), 88200)
		outside := 0
		for i, v := range buf {
			// The leaky integrator cannot exceed 1 before the 3.5 boost.
			if math.Abs(v) > 3.5 {
				t.Fatalf("seed %d sample %d = %v beyond hard bound", seed, i, v)
			}
			if math.Abs(v) > 1 {
				outside++
			}
		}
		if frac := float64(outside) / float64(len(buf)); frac > 0.01 {
			t.Fatalf("seed %d: %.2f%% of samples outside [-1,1]", seed, frac*100)
		}
	}
}

func TestBrownNoiseIsLowFrequency(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	diff := func(buf []float64) float64 {
		d := make([]float64, len(buf)-1)
		for i := range d {
			d[i] = buf[i+1] - buf[i]
		}
		return rms(d) / rms(buf)
	}
	brown := diff(brownNoiseBuffer(rng, 44100))
	white := diff(whiteNoiseBuffer(rng, 44100))
	if brown >= white/4 {
		t.Fatalf("brown noise sample-to-sample change %v not well below white %v", brown, white)
	}
}

func TestPinkNoiseLevel(t *testing.T) {
	buf := pinkNoiseBuffer(rand.New(rand.NewPCG(2, 3)), 88200)
	for i, v := range buf {
		if math.Abs(v) > 1.5 {
			t.Fatalf("sample %d = %v, want roughly within [-1,1]", i, v)
		}
	}
	if r := rms(buf); r < 0.03 || r > 0.5 {
		t.Fatalf("rms = %v, want a usable level", r)
	}
}
