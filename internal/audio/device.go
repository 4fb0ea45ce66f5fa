package audio

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrAudioUnavailable reports that no output device could be opened or
	// resumed. Callers should carry on without sound.
	ErrAudioUnavailable = errors.New("audio unavailable")
	ErrClosed           = errors.New("audio engine closed")
)

// Device is an output sink that pulls rendered frames from a Context.
type Device interface {
	Resume() error
	Suspend() error
	Close() error
}

// DeviceOpener opens an output device that reads interleaved stereo
// float32 frames from src. It may block until the device is ready, bounded
// by ctx.
type DeviceOpener func(ctx context.Context, sampleRate int, src io.Reader) (Device, error)
