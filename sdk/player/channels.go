package player

import (
	"github.com/msveshnikov/midi-player/internal/gm"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// channelCount is fixed by the MIDI wire format.
const channelCount = 16

// percussionChannel is the zero-indexed GM percussion channel.
const percussionChannel = 9

// channelTable holds each channel's assigned instrument identity for one
// loaded file. It is only touched from the event-driver goroutine, so it
// carries no lock.
type channelTable struct {
	assigned [channelCount]string
	mode     contracts.PercussionMode
	kit      string
}

func newChannelTable(mode contracts.PercussionMode, kit string) *channelTable {
	t := &channelTable{mode: mode, kit: kit}
	for i := range t.assigned {
		t.assigned[i] = gm.DefaultIdentity
	}
	if mode == contracts.PercussionFixedKit && kit != "" {
		t.assigned[percussionChannel] = kit
	}
	return t
}

// programChange resolves the program to an identity and stores it as the
// channel's assignment. It reports the resolved identity so the caller
// can kick a cache preload, and false when the event had no effect.
func (t *channelTable) programChange(channel, program uint8) (string, bool) {
	if int(channel) >= channelCount {
		return "", false
	}
	if t.mode == contracts.PercussionFixedKit && channel == percussionChannel {
		return "", false
	}
	identity := gm.IdentityFor(int(program))
	t.assigned[channel] = identity
	return identity, true
}

// instrumentFor returns the channel's current assignment, defaulting to
// the default identity for channels never explicitly set.
func (t *channelTable) instrumentFor(channel uint8) string {
	if int(channel) >= channelCount {
		return gm.DefaultIdentity
	}
	return t.assigned[channel]
}
