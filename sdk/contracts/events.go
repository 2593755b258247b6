package contracts

// EventKind identifies the type of a timed MIDI event.
type EventKind uint8

const (
	// EventUnknown marks an event kind the router has no behavior for.
	EventUnknown EventKind = iota
	// EventNoteOn requests a pitch to start sounding. A velocity of zero is
	// treated as a note off, per MIDI convention.
	EventNoteOn
	// EventNoteOff requests a pitch to stop sounding.
	EventNoteOff
	// EventProgramChange reassigns a channel's instrument by GM program number.
	EventProgramChange
	// EventControlChange is a reserved extension point with no default behavior.
	EventControlChange
	// EventPitchBend is a reserved extension point with no default behavior.
	EventPitchBend
	// EventEndOfStream marks the end of the parsed event stream.
	EventEndOfStream
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note_on"
	case EventNoteOff:
		return "note_off"
	case EventProgramChange:
		return "program_change"
	case EventControlChange:
		return "control_change"
	case EventPitchBend:
		return "pitch_bend"
	case EventEndOfStream:
		return "end_of_stream"
	}
	return "unknown"
}

// Event is one timed event from the parsed MIDI stream. Which fields are
// meaningful depends on Kind: NoteOn and NoteOff carry Pitch and Velocity,
// ProgramChange carries Program, ControlChange carries Controller and
// Value, PitchBend carries Bend.
type Event struct {
	Kind       EventKind
	Tick       uint32 // Absolute position in MIDI ticks.
	Channel    uint8  // MIDI channel, 0-15.
	Pitch      uint8  // MIDI note number, 0-127.
	Velocity   uint8  // Note-on strength, 0-127.
	Program    uint8  // GM program number, 0-127.
	Controller uint8
	Value      uint8
	Bend       int16
}
