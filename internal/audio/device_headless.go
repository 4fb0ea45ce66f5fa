//go:build headless

package audio

import (
	"context"
	"io"
	"sync"
	"time"
)

// headlessDevice drains the context at roughly real time so fades and
// cleanup timers line up with the clock, without touching any hardware.
type headlessDevice struct {
	src        io.Reader
	sampleRate int
	mu         sync.Mutex
	running    bool
	done       chan struct{}
	exited     chan struct{}
	closeOnce  sync.Once
}

const headlessTick = 20 * time.Millisecond

func OpenHeadlessDevice(_ context.Context, sampleRate int, src io.Reader) (Device, error) {
	d := &headlessDevice{src: src, sampleRate: sampleRate, running: true, done: make(chan struct{}), exited: make(chan struct{})}
	go d.pump()
	return d, nil
}

var DefaultDeviceOpener DeviceOpener = OpenHeadlessDevice

func (d *headlessDevice) pump() {
	defer close(d.exited)
	frames := int(float64(d.sampleRate) * headlessTick.Seconds())
	buf := make([]byte, frames*bytesPerFrame)
	ticker := time.NewTicker(headlessTick)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			// Holding mu across Read means Suspend returns only after an
			// in-flight read has finished.
			d.mu.Lock()
			if d.running {
				_, _ = d.src.Read(buf)
			}
			d.mu.Unlock()
		}
	}
}

func (d *headlessDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = true
	return nil
}

func (d *headlessDevice) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	return nil
}

// Close stops the pump and returns once it will no longer read.
func (d *headlessDevice) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	<-d.exited
	return nil
}
