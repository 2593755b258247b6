package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/msveshnikov/midi-player/internal/bank"
	"github.com/msveshnikov/midi-player/internal/smffeed"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// State is the transport state of a playback session.
type State uint8

const (
	// StateIdle means no file is loaded.
	StateIdle State = iota
	// StateLoading means a file is being parsed.
	StateLoading
	// StatePlaying means the event driver is running.
	StatePlaying
	// StatePaused means playback is suspended and can resume in place.
	StatePaused
	// StateStopped means a file is loaded and positioned at the start.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// ErrNoFileLoaded is returned by transport commands that need a loaded file.
var ErrNoFileLoaded = errors.New("no MIDI file loaded")

// deviceController is implemented by engines that own an audio device the
// session should drive through transport transitions.
type deviceController interface {
	Close() error
}

// deviceResumer is implemented by engines whose audio backend must be
// unpaused before notes can sound. Some platforms keep the device silent
// until it is resumed from a user action such as pressing play.
type deviceResumer interface {
	Resume() error
}

// Session owns the transport state machine and the audio device
// lifecycle. The instrument cache is shared across every file loaded into
// the session; channel state and active notes are recreated per file.
type Session struct {
	opts   contracts.PlayerOptions
	logger contracts.Logger
	bank   *bank.Cache

	mu     sync.Mutex
	state  State
	stream *smffeed.Stream
	router *Router
	pos    int // index of the next undelivered event
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(opts *contracts.PlayerOptions) *Session {
	return &Session{
		opts:   *opts,
		logger: opts.Logger,
		bank:   bank.New(opts.Loader, opts.Logger),
		state:  StateIdle,
	}
}

// State returns the current transport state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load parses the MIDI file at path and prepares it for playback. A file
// already playing is stopped and replaced; its notes are silenced.
func (s *Session) Load(path string) error {
	s.haltDriver()

	s.mu.Lock()
	if s.router != nil {
		if err := s.router.StopAll(); err != nil {
			s.logger.Warn("stopping notes before load", s.logger.Field().Error("error", err))
		}
	}
	s.state = StateLoading
	s.stream = nil
	s.router = nil
	s.pos = 0
	s.mu.Unlock()

	stream, err := smffeed.FromFile(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("loading %s: %w", path, err)
	}
	s.stream = stream
	s.router = NewRouter(s.bank, &s.opts)
	s.state = StateStopped
	s.logger.Info("file loaded",
		s.logger.Field().String("path", path),
		s.logger.Field().Int("events", len(stream.Events)),
		s.logger.Field().Duration("length", stream.Duration()))
	return nil
}

// Play starts or resumes the event driver.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StateLoading:
		return ErrNoFileLoaded
	case StatePlaying:
		return nil
	}

	if dr, ok := s.opts.Engine.(deviceResumer); ok {
		if err := dr.Resume(); err != nil {
			return fmt.Errorf("resuming audio device: %w", err)
		}
	}

	var startAt time.Duration
	if s.state == StatePaused && s.pos < len(s.stream.Offsets) {
		startAt = s.stream.Offsets[s.pos]
	} else {
		s.pos = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = StatePlaying
	go s.run(ctx, s.done, s.router, s.stream, s.pos, startAt)
	return nil
}

// Pause suspends the driver, keeping the playback position. All sounding
// notes are silenced; resuming does not revive them.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return fmt.Errorf("cannot pause from state %s", s.state)
	}
	s.mu.Unlock()

	s.haltDriver()

	s.mu.Lock()
	router := s.router
	if s.state == StatePlaying {
		s.state = StatePaused
	}
	s.mu.Unlock()
	return router.StopAll()
}

// Stop halts playback and rewinds to the beginning of the file.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StatePlaying && s.state != StatePaused {
		s.mu.Unlock()
		return fmt.Errorf("cannot stop from state %s", s.state)
	}
	s.mu.Unlock()

	s.haltDriver()

	s.mu.Lock()
	router := s.router
	s.pos = 0
	s.state = StateStopped
	s.mu.Unlock()
	return router.StopAll()
}

// Close tears the session down: the driver is halted, all notes are
// silenced and the audio device is released. The session returns to idle
// and can load another file.
func (s *Session) Close() error {
	s.haltDriver()

	s.mu.Lock()
	router := s.router
	engine := s.opts.Engine
	s.stream = nil
	s.router = nil
	s.pos = 0
	s.state = StateIdle
	s.mu.Unlock()

	var errs error
	if router != nil {
		errs = multierr.Append(errs, router.StopAll())
	}
	if dc, ok := engine.(deviceController); ok {
		errs = multierr.Append(errs, dc.Close())
	}
	return errs
}

// haltDriver cancels a running event driver and waits for it to exit. It
// must be called without the session lock held.
func (s *Session) haltDriver() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// run is the event driver: a single ordered producer feeding the router
// one event at a time at its scheduled wall-clock offset.
func (s *Session) run(ctx context.Context, done chan struct{}, router *Router, stream *smffeed.Stream, start int, startAt time.Duration) {
	defer close(done)

	origin := time.Now().Add(-startAt)
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for i := start; i < len(stream.Events); i++ {
		if wait := stream.Offsets[i] - time.Since(origin); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		if err := router.Handle(ctx, stream.Events[i]); err != nil {
			// Critical: the bank cannot produce sound anymore. Notes
			// triggered before the failure must not outlive the transport.
			s.logger.Error("playback aborted", s.logger.Field().Error("error", err))
			s.mu.Lock()
			s.pos = 0
			s.state = StateStopped
			s.mu.Unlock()
			if serr := router.StopAll(); serr != nil {
				s.logger.Warn("stopping notes after abort", s.logger.Field().Error("error", serr))
			}
			return
		}

		s.mu.Lock()
		s.pos = i + 1
		s.mu.Unlock()
	}

	// Natural completion. The end-of-stream marker already raised the
	// ended notification inside Handle.
	s.mu.Lock()
	if s.state == StatePlaying {
		s.pos = 0
		s.state = StateStopped
	}
	s.mu.Unlock()
	if err := router.StopAll(); err != nil {
		s.logger.Warn("stopping notes at end of stream", s.logger.Field().Error("error", err))
	}
}
