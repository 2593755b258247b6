package smffeed

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// buildSong assembles a two-track file: a tempo track and one melody
// track with a program change and a note.
func buildSong(t *testing.T, bpm float64) *smf.SMF {
	t.Helper()
	song := smf.New()
	song.TimeFormat = smf.MetricTicks(960)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)
	require.NoError(t, song.Add(tempo))

	var melody smf.Track
	melody.Add(0, midi.ProgramChange(0, 40))
	melody.Add(0, midi.NoteOn(0, 60, 100))
	melody.Add(960, midi.NoteOff(0, 60))
	melody.Close(0)
	require.NoError(t, song.Add(melody))
	return song
}

func kinds(events []contracts.Event) []contracts.EventKind {
	out := make([]contracts.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestFromSMFMergesAndTerminates(t *testing.T) {
	stream, err := FromSMF(buildSong(t, 120))
	require.NoError(t, err)

	assert.Equal(t, []contracts.EventKind{
		contracts.EventProgramChange,
		contracts.EventNoteOn,
		contracts.EventNoteOff,
		contracts.EventEndOfStream,
	}, kinds(stream.Events))

	pc := stream.Events[0]
	assert.Equal(t, uint8(0), pc.Channel)
	assert.Equal(t, uint8(40), pc.Program)
	on := stream.Events[1]
	assert.Equal(t, uint8(60), on.Pitch)
	assert.Equal(t, uint8(100), on.Velocity)
}

func TestFromSMFOffsetsFollowTempo(t *testing.T) {
	// At 120 BPM one beat of 960 ticks lasts half a second.
	stream, err := FromSMF(buildSong(t, 120))
	require.NoError(t, err)

	require.Len(t, stream.Offsets, 4)
	assert.Equal(t, time.Duration(0), stream.Offsets[0])
	assert.Equal(t, time.Duration(0), stream.Offsets[1])
	assert.InDelta(t, float64(500*time.Millisecond), float64(stream.Offsets[2]), float64(time.Millisecond))
	assert.Equal(t, stream.Offsets[2], stream.Duration())

	// Double tempo halves the note length.
	fast, err := FromSMF(buildSong(t, 240))
	require.NoError(t, err)
	assert.InDelta(t, float64(250*time.Millisecond), float64(fast.Offsets[2]), float64(time.Millisecond))
}

func TestFromSMFOrderingIsNondecreasing(t *testing.T) {
	song := smf.New()
	song.TimeFormat = smf.MetricTicks(480)
	for track := 0; track < 3; track++ {
		var tr smf.Track
		tr.Add(uint32(track*100), midi.NoteOn(uint8(track), 60, 64))
		tr.Add(480, midi.NoteOff(uint8(track), 60))
		tr.Close(0)
		require.NoError(t, song.Add(tr))
	}

	stream, err := FromSMF(song)
	require.NoError(t, err)
	for i := 1; i < len(stream.Events); i++ {
		assert.GreaterOrEqual(t, stream.Events[i].Tick, stream.Events[i-1].Tick, "event %d", i)
		assert.GreaterOrEqual(t, stream.Offsets[i], stream.Offsets[i-1], "offset %d", i)
	}
}

func TestFromSMFKeepsZeroVelocityNoteOns(t *testing.T) {
	song := smf.New()
	song.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, midi.NoteOn(2, 64, 90))
	// Running-status style release: note on with velocity zero.
	tr.Add(240, midi.NoteOn(2, 64, 0))
	tr.Close(0)
	require.NoError(t, song.Add(tr))

	stream, err := FromSMF(song)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(stream.Events), 3)

	release := stream.Events[1]
	if release.Kind == contracts.EventNoteOn {
		assert.Equal(t, uint8(0), release.Velocity)
	} else {
		// gomidi may canonicalize the release to a note off; either way
		// the router silences the note.
		assert.Equal(t, contracts.EventNoteOff, release.Kind)
	}
	assert.Equal(t, uint8(64), release.Pitch)
}

func TestFromFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, buildSong(t, 120).WriteFile(path))

	stream, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, contracts.EventEndOfStream, stream.Events[len(stream.Events)-1].Kind)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestEmptySongStillTerminates(t *testing.T) {
	song := smf.New()
	song.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Close(0)
	require.NoError(t, song.Add(tr))

	stream, err := FromSMF(song)
	require.NoError(t, err)
	require.Len(t, stream.Events, 1)
	assert.Equal(t, contracts.EventEndOfStream, stream.Events[0].Kind)
	assert.Equal(t, time.Duration(0), stream.Duration())
}
