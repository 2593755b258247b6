package sampler

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msveshnikov/midi-player/internal/logger"
)

// writeWAV drops a minimal mono 16-bit PCM file at path.
func writeWAV(t *testing.T, path string, sampleRate int, samples []int16) {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func flatSamples(n int, v int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestLoadReadsPitchNamedSamples(t *testing.T) {
	dir := t.TempDir()
	violin := filepath.Join(dir, "violin")
	require.NoError(t, os.Mkdir(violin, 0o755))
	writeWAV(t, filepath.Join(violin, "60.wav"), 44100, flatSamples(64, 1000))
	writeWAV(t, filepath.Join(violin, "72.wav"), 44100, flatSamples(64, 2000))
	// Junk that must be ignored.
	require.NoError(t, os.WriteFile(filepath.Join(violin, "README.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(violin, "license.wav"), []byte("x"), 0o644))

	engine := New(dir, 44100, logger.NewNopLogger())
	inst, err := engine.Load(context.Background(), "violin")
	require.NoError(t, err)

	set := inst.(*sampleSet)
	assert.Equal(t, "violin", set.Identity())
	assert.Len(t, set.notes, 2)
	assert.Equal(t, []uint8{60, 72}, set.pitches)
	assert.Equal(t, 44100, set.rate)
}

func TestLoadSpacedIdentityUsesUnderscoreFolder(t *testing.T) {
	dir := t.TempDir()
	piano := filepath.Join(dir, "acoustic_grand_piano")
	require.NoError(t, os.Mkdir(piano, 0o755))
	writeWAV(t, filepath.Join(piano, "60.wav"), 44100, flatSamples(16, 500))

	engine := New(dir, 44100, logger.NewNopLogger())
	inst, err := engine.Load(context.Background(), "acoustic grand piano")
	require.NoError(t, err)
	assert.Equal(t, "acoustic grand piano", inst.Identity())
}

func TestLoadMissingFolderFails(t *testing.T) {
	engine := New(t.TempDir(), 44100, logger.NewNopLogger())
	_, err := engine.Load(context.Background(), "shamisen")
	assert.Error(t, err)
}

func TestLoadEmptyFolderFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "koto"), 0o755))
	engine := New(dir, 44100, logger.NewNopLogger())
	_, err := engine.Load(context.Background(), "koto")
	assert.Error(t, err)
}

func TestRenderSamePitchKeepsLength(t *testing.T) {
	set := &sampleSet{
		identity: "violin",
		rate:     44100,
		notes:    map[uint8][]float32{60: make([]float32, 1000)},
		pitches:  []uint8{60},
	}
	pcm := set.render(60, 44100)
	// Two bytes per sample; the last frame is dropped by interpolation.
	assert.InDelta(t, 2000, len(pcm), 4)
}

func TestRenderOctaveUpHalvesLength(t *testing.T) {
	set := &sampleSet{
		identity: "violin",
		rate:     44100,
		notes:    map[uint8][]float32{60: make([]float32, 1000)},
		pitches:  []uint8{60},
	}
	pcm := set.render(72, 44100)
	assert.InDelta(t, 1000, len(pcm), 4)
}

func TestRenderRateMismatchRescales(t *testing.T) {
	set := &sampleSet{
		identity: "violin",
		rate:     22050,
		notes:    map[uint8][]float32{60: make([]float32, 1000)},
		pitches:  []uint8{60},
	}
	pcm := set.render(60, 44100)
	// Half-rate source stretched to double the frames.
	assert.InDelta(t, 4000, len(pcm), 8)
}

func TestNearestPicksClosestRecordedPitch(t *testing.T) {
	set := &sampleSet{
		pitches: []uint8{48, 60, 72},
	}
	tests := []struct {
		pitch uint8
		want  uint8
	}{
		{40, 48},
		{48, 48},
		{53, 48},
		{55, 60},
		{67, 72},
		{100, 72},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, set.nearest(tt.pitch), "pitch %d", tt.pitch)
	}
}

func TestPCM16Clamps(t *testing.T) {
	high := pcm16(2.0)
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(high)))
	low := pcm16(-2.0)
	assert.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(low)))
	zero := pcm16(0)
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(zero)))
}

func TestRenderStepNeverInfinite(t *testing.T) {
	set := &sampleSet{
		rate:    44100,
		notes:   map[uint8][]float32{0: make([]float32, 10)},
		pitches: []uint8{0},
	}
	pcm := set.render(127, 44100)
	ratio := math.Pow(2, 127.0/12)
	assert.LessOrEqual(t, len(pcm), int(10/ratio)*2+2)
}
