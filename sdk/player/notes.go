package player

import (
	"sync"

	"go.uber.org/multierr"

	"github.com/msveshnikov/midi-player/sdk/contracts"
)

type noteKey struct {
	channel uint8
	pitch   uint8
}

// noteRegistry tracks in-flight notes so they can be silenced. The
// invariant is at most one handle per (channel, pitch): a retrigger stops
// the previous handle before storing the new one, which keeps retriggered
// notes from leaking voices.
type noteRegistry struct {
	engine contracts.SampleEngine
	logger contracts.Logger

	mu     sync.Mutex
	active map[noteKey]contracts.PlaybackHandle
}

func newNoteRegistry(engine contracts.SampleEngine, log contracts.Logger) *noteRegistry {
	return &noteRegistry{
		engine: engine,
		logger: log,
		active: make(map[noteKey]contracts.PlaybackHandle),
	}
}

func (r *noteRegistry) noteOn(channel, pitch uint8, handle contracts.PlaybackHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := noteKey{channel: channel, pitch: pitch}
	if prev, ok := r.active[key]; ok {
		if err := r.engine.Stop(prev); err != nil {
			r.logger.Warn("failed to stop retriggered note",
				r.logger.Field().Uint8("channel", channel),
				r.logger.Field().Uint8("pitch", pitch),
				r.logger.Field().Error("error", err))
		}
	}
	r.active[key] = handle
}

// noteOff stops and removes the matching note. A note off with no
// registered note is a no-op.
func (r *noteRegistry) noteOff(channel, pitch uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := noteKey{channel: channel, pitch: pitch}
	handle, ok := r.active[key]
	if !ok {
		return
	}
	delete(r.active, key)
	if err := r.engine.Stop(handle); err != nil {
		r.logger.Warn("failed to stop note",
			r.logger.Field().Uint8("channel", channel),
			r.logger.Field().Uint8("pitch", pitch),
			r.logger.Field().Error("error", err))
	}
}

// stopAll stops and clears every entry, aggregating stop failures.
func (r *noteRegistry) stopAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs error
	for key, handle := range r.active {
		if err := r.engine.Stop(handle); err != nil {
			errs = multierr.Append(errs, err)
		}
		delete(r.active, key)
	}
	return errs
}

func (r *noteRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
