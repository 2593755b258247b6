package player

import (
	"context"
	"time"

	"github.com/msveshnikov/midi-player/internal/bank"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// Router dispatches a parsed stream of timed MIDI events to the sample
// engine. It is purely reactive: every Handle call performs exactly one
// action from the event dispatch table and reports state transitions
// through the notification channel rather than holding any UI reference.
//
// One Router is scoped to one loaded file; the instrument cache behind it
// is shared across files.
type Router struct {
	bank     *bank.Cache
	engine   contracts.SampleEngine
	channels *channelTable
	notes    *noteRegistry
	logger   contracts.Logger
	notify   chan<- contracts.Notification
}

// NewRouter creates a router over a shared instrument cache with fresh
// per-file channel and note state.
func NewRouter(cache *bank.Cache, opts *contracts.PlayerOptions) *Router {
	return &Router{
		bank:     cache,
		engine:   opts.Engine,
		channels: newChannelTable(opts.PercussionMode, opts.PercussionKit),
		notes:    newNoteRegistry(opts.Engine, opts.Logger),
		logger:   opts.Logger,
		notify:   opts.Notifications,
	}
}

// Handle consumes one timed MIDI event, synchronously with respect to
// event order. Instrument loads may block inside, but no later event's
// state mutation is applied before this one's reads. Recoverable failures
// degrade gracefully; only a critical bank failure is returned.
func (r *Router) Handle(ctx context.Context, ev contracts.Event) error {
	switch ev.Kind {
	case contracts.EventNoteOn:
		if ev.Velocity == 0 {
			// MIDI convention: note on with velocity zero is a note off.
			r.notes.noteOff(ev.Channel, ev.Pitch)
			return nil
		}
		return r.noteOn(ctx, ev)
	case contracts.EventNoteOff:
		r.notes.noteOff(ev.Channel, ev.Pitch)
		return nil
	case contracts.EventProgramChange:
		if identity, ok := r.channels.programChange(ev.Channel, ev.Program); ok {
			// Warm the cache without blocking the stream.
			r.bank.Preload(identity)
		}
		return nil
	case contracts.EventEndOfStream:
		// End of stream does not silence notes; the session decides
		// whether to call StopAll.
		r.send(contracts.Notification{Kind: contracts.NotificationEnded})
		return nil
	default:
		// Pitch bend, controller changes and unknown kinds have no
		// observable effect.
		return nil
	}
}

func (r *Router) noteOn(ctx context.Context, ev contracts.Event) error {
	if int(ev.Channel) >= channelCount || ev.Pitch > 127 {
		return nil
	}
	// Read the assignment before the load can suspend, so a later program
	// change never retroactively re-voices this note.
	identity := r.channels.instrumentFor(ev.Channel)

	inst, err := r.bank.Acquire(ctx, identity)
	if err != nil {
		r.logger.Error("instrument unavailable",
			r.logger.Field().String("identity", identity),
			r.logger.Field().Error("error", err))
		r.send(contracts.Notification{
			Kind:     contracts.NotificationLoadFailed,
			Identity: identity,
			Err:      err,
		})
		return err
	}
	if ctx.Err() != nil {
		// The session was torn down while the load completed. The result
		// stays cached for reuse, but this note must not sound.
		return nil
	}

	gain := float64(ev.Velocity) / 127
	handle, err := r.engine.Trigger(ctx, inst, ev.Pitch, gain, time.Now())
	if err != nil {
		r.logger.Error("playback trigger rejected",
			r.logger.Field().String("identity", identity),
			r.logger.Field().Uint8("pitch", ev.Pitch),
			r.logger.Field().Error("error", err))
		r.send(contracts.Notification{
			Kind:     contracts.NotificationTriggerFailed,
			Identity: identity,
			Err:      err,
		})
		return nil
	}
	r.notes.noteOn(ev.Channel, ev.Pitch, handle)
	return nil
}

// StopAll silences every in-flight note. It is invoked on pause, stop and
// session teardown so no note survives past the transport's not-playing
// state.
func (r *Router) StopAll() error {
	return r.notes.stopAll()
}

// ActiveNotes reports how many notes are currently sounding.
func (r *Router) ActiveNotes() int {
	return r.notes.size()
}

// send delivers a notification without ever blocking event dispatch. A
// full subscriber channel drops the notification.
func (r *Router) send(n contracts.Notification) {
	if r.notify == nil {
		return
	}
	select {
	case r.notify <- n:
	default:
	}
}
