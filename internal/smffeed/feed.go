// Package smffeed turns a Standard MIDI File into the flat, time-ordered
// event stream the router consumes. Tracks are merged by absolute tick;
// tempo changes are folded into per-event wall-clock offsets.
package smffeed

import (
	"fmt"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// Stream is a fully scheduled event list for one MIDI file. Events[i]
// becomes due Offsets[i] after playback starts; the last event is always
// an end-of-stream marker.
type Stream struct {
	Events  []contracts.Event
	Offsets []time.Duration
}

// Duration returns the wall-clock length of the stream.
func (s *Stream) Duration() time.Duration {
	if len(s.Offsets) == 0 {
		return 0
	}
	return s.Offsets[len(s.Offsets)-1]
}

// FromFile parses the MIDI file at path into a scheduled stream.
func FromFile(path string) (*Stream, error) {
	song, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return FromSMF(song)
}

// merged is one track event placed on the global tick axis. Tempo changes
// ride along so they apply at the right position during scheduling.
type merged struct {
	tick  uint64
	tempo float64
	meta  bool
	ev    contracts.Event
}

// FromSMF merges and schedules an already-parsed file.
func FromSMF(song *smf.SMF) (*Stream, error) {
	ticks, ok := song.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported SMF time format %v", song.TimeFormat)
	}

	var all []merged
	for _, track := range song.Tracks {
		var abs uint64
		for _, te := range track {
			abs += uint64(te.Delta)
			m, ok := translate(te.Message)
			if !ok {
				continue
			}
			m.tick = abs
			all = append(all, m)
		}
	}
	// Stable by tick: events at the same tick keep track-major order, so
	// a program change written before a note on the same tick wins.
	sort.SliceStable(all, func(i, j int) bool { return all[i].tick < all[j].tick })

	stream := &Stream{}
	bpm := 120.0
	var last uint64
	var elapsed time.Duration
	for _, m := range all {
		elapsed += ticks.Duration(bpm, uint32(m.tick-last))
		last = m.tick
		if m.meta {
			bpm = m.tempo
			continue
		}
		ev := m.ev
		ev.Tick = uint32(m.tick)
		stream.Events = append(stream.Events, ev)
		stream.Offsets = append(stream.Offsets, elapsed)
	}

	stream.Events = append(stream.Events, contracts.Event{
		Kind: contracts.EventEndOfStream,
		Tick: uint32(last),
	})
	stream.Offsets = append(stream.Offsets, elapsed)
	return stream, nil
}

// translate maps one SMF message to a router event. Unknown messages are
// dropped here rather than carried as EventUnknown: the router would
// ignore them anyway and the stream stays small.
func translate(msg smf.Message) (merged, bool) {
	var (
		ch, pitch, vel uint8
		prog, cc, val  uint8
		rel            int16
		abs            uint16
		bpm            float64
	)
	switch {
	case msg.GetNoteOn(&ch, &pitch, &vel):
		return merged{ev: contracts.Event{Kind: contracts.EventNoteOn, Channel: ch, Pitch: pitch, Velocity: vel}}, true
	case msg.GetNoteOff(&ch, &pitch, &vel):
		return merged{ev: contracts.Event{Kind: contracts.EventNoteOff, Channel: ch, Pitch: pitch}}, true
	case msg.GetProgramChange(&ch, &prog):
		return merged{ev: contracts.Event{Kind: contracts.EventProgramChange, Channel: ch, Program: prog}}, true
	case msg.GetControlChange(&ch, &cc, &val):
		return merged{ev: contracts.Event{Kind: contracts.EventControlChange, Channel: ch, Controller: cc, Value: val}}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return merged{ev: contracts.Event{Kind: contracts.EventPitchBend, Channel: ch, Bend: rel}}, true
	case msg.GetMetaTempo(&bpm):
		return merged{meta: true, tempo: bpm}, true
	}
	return merged{}, false
}
