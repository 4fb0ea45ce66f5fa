package audio

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
	renderChunk  = 4096
)

// RenderWAV renders d of preset p to w as 16-bit mono PCM. The same graph
// the engine plays is used: it fades in from the start and fades out over
// cfg.FadeOut at the end. A nil rng seeds a fresh generator.
func RenderWAV(w io.WriteSeeker, p Preset, d time.Duration, cfg Config, rng *rand.Rand) error {
	cfg = cfg.withDefaults()
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ac := NewOfflineContext(cfg.SampleRate)
	total := int(d.Seconds() * float64(cfg.SampleRate))
	if total < 0 {
		total = 0
	}

	if g := buildGraph(ac, cfg, rng, p, 0); g != nil {
		g.start(0)
		end := d.Seconds()
		fade := math.Min(cfg.FadeOut.Seconds(), end)
		g.fadeOut(end-fade, fade)
		defer g.teardown()
	}

	enc := wav.NewEncoder(w, cfg.SampleRate, wavBitDepth, 1, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: cfg.SampleRate},
		SourceBitDepth: wavBitDepth,
	}
	const scale = math.MaxInt16
	for done := 0; done < total; {
		n := min(renderChunk, total-done)
		frames := ac.RenderFrames(n)
		if cap(buf.Data) < n {
			buf.Data = make([]int, n)
		}
		buf.Data = buf.Data[:n]
		for i, v := range frames {
			buf.Data[i] = int(math.Round(v * scale))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		done += n
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
