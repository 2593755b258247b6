package sampler

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Device wraps the process-wide audio output context with an explicit
// lifecycle. The backend is created lazily on first use; some platforms
// refuse to emit sound until Resume is called from a user gesture.
type Device struct {
	sampleRate int

	mu  sync.Mutex
	ctx *oto.Context
}

// NewDevice prepares a device handle without opening the audio backend.
func NewDevice(sampleRate int) *Device {
	return &Device{sampleRate: sampleRate}
}

// SampleRate returns the output rate the device was configured with.
func (d *Device) SampleRate() int {
	return d.sampleRate
}

// Resume opens the backend if needed and unpauses output.
func (d *Device) Resume() error {
	ctx, err := d.context()
	if err != nil {
		return err
	}
	return ctx.Resume()
}

// Suspend pauses output. A device that was never opened is left alone.
func (d *Device) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Suspend()
}

func (d *Device) context() (*oto.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		return d.ctx, nil
	}
	op := &oto.NewContextOptions{
		SampleRate:   d.sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	d.ctx = ctx
	return ctx, nil
}
