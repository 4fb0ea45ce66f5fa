//go:build !headless

package audio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"
)

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

type otoDevice struct {
	ctx    *oto.Context
	player oto.Player
}

// OpenOtoDevice opens the platform audio output through oto.
func OpenOtoDevice(ctx context.Context, sampleRate int, src io.Reader) (Device, error) {
	var ready chan struct{}
	otoOnce.Do(func() {
		otoCtx, ready, otoErr = oto.NewContext(sampleRate, ChannelCount, oto.FormatFloat32LE)
	})
	if otoErr != nil {
		return nil, fmt.Errorf("oto context: %w", otoErr)
	}
	if ready != nil {
		select {
		case <-ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	player := otoCtx.NewPlayer(src)
	player.Play()
	return &otoDevice{ctx: otoCtx, player: player}, nil
}

// DefaultDeviceOpener is the opener engines use unless told otherwise.
var DefaultDeviceOpener DeviceOpener = OpenOtoDevice

func (d *otoDevice) Resume() error {
	if err := d.ctx.Resume(); err != nil {
		return err
	}
	if !d.player.IsPlaying() {
		d.player.Play()
	}
	return nil
}

func (d *otoDevice) Suspend() error {
	return d.ctx.Suspend()
}

func (d *otoDevice) Close() error {
	return d.player.Close()
}
