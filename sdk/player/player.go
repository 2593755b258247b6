// Package player is the public facade of the MIDI player: it wires the
// instrument cache, the sample engine and the event router into a
// playback session with a transport state machine.
package player

import (
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// New creates a new playback session with the specified options.
// It applies default options and initializes the session.
//
// opts ...contracts.Option: A variadic list of option functions to customize the session configuration.
//
// Returns:
//   - *Session: The playback session, in the idle state.
//   - error: An error, if any occurred during the creation of the session.
func New(opts ...contracts.Option) (*Session, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newSession(&options), nil
}
