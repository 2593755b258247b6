// Package sampler renders individual pitched notes from directories of
// per-pitch WAV samples. It implements both the sample engine and the
// bank loader contracts: one sample folder per GM identity, one WAV file
// per recorded pitch, nearest-pitch resampling in between.
package sampler

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/msveshnikov/midi-player/internal/wav"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// DefaultSampleRate is the output rate used when the caller does not
// configure one.
const DefaultSampleRate = 44100

// Engine loads sample-sets from disk and plays them through the audio
// device.
type Engine struct {
	dir    string
	device *Device
	logger contracts.Logger
}

// New creates an engine rooted at dir. The audio backend stays closed
// until the first note is triggered.
func New(dir string, sampleRate int, log contracts.Logger) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Engine{
		dir:    dir,
		device: NewDevice(sampleRate),
		logger: log,
	}
}

// Resume unpauses the audio device, opening it if it was never used. The
// playback session calls this when playback starts so platforms that gate
// audio behind a user action begin emitting sound.
func (e *Engine) Resume() error {
	return e.device.Resume()
}

// sampleSet is the loaded form of one instrument: normalized mono samples
// keyed by the MIDI pitch they were recorded at.
type sampleSet struct {
	identity string
	rate     int
	notes    map[uint8][]float32
	pitches  []uint8 // sorted keys of notes
}

func (s *sampleSet) Identity() string { return s.identity }

// Load reads every per-pitch WAV file under the identity's sample folder.
// File names are the MIDI pitch number, e.g. 60.wav for middle C.
func (e *Engine) Load(ctx context.Context, identity string) (contracts.Instrument, error) {
	dir := filepath.Join(e.dir, identityDir(identity))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sample folder for %q: %w", identity, err)
	}

	set := &sampleSet{
		identity: identity,
		notes:    make(map[uint8][]float32),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wav") {
			continue
		}
		pitch, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".wav"))
		if err != nil || pitch < 0 || pitch > 127 {
			e.logger.Debug("skipping sample with non-pitch name",
				e.logger.Field().String("file", entry.Name()))
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("opening sample %s: %w", entry.Name(), err)
		}
		sound, err := wav.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding sample %s for %q: %w", entry.Name(), identity, err)
		}
		if set.rate == 0 {
			set.rate = sound.SampleRate
		} else if set.rate != sound.SampleRate {
			e.logger.Warn("skipping sample with mismatched rate",
				e.logger.Field().String("identity", identity),
				e.logger.Field().String("file", entry.Name()),
				e.logger.Field().Int("rate", sound.SampleRate))
			continue
		}
		set.notes[uint8(pitch)] = sound.Samples
	}
	if len(set.notes) == 0 {
		return nil, fmt.Errorf("no usable samples for %q in %s", identity, dir)
	}
	for pitch := range set.notes {
		set.pitches = append(set.pitches, pitch)
	}
	sort.Slice(set.pitches, func(i, j int) bool { return set.pitches[i] < set.pitches[j] })

	e.logger.Info("instrument loaded",
		e.logger.Field().String("identity", identity),
		e.logger.Field().Int("samples", len(set.notes)))
	return set, nil
}

// note is the playback handle for one sounding note.
type note struct {
	player *oto.Player
}

// Trigger renders pitch from the instrument's sample-set and starts it on
// the device no earlier than startAt.
func (e *Engine) Trigger(ctx context.Context, inst contracts.Instrument, pitch uint8, gain float64, startAt time.Time) (contracts.PlaybackHandle, error) {
	set, ok := inst.(*sampleSet)
	if !ok {
		return nil, fmt.Errorf("foreign instrument handle %T", inst)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if gain <= 0 || gain > 1 {
		return nil, fmt.Errorf("gain %v outside (0,1]", gain)
	}

	otoCtx, err := e.device.context()
	if err != nil {
		return nil, err
	}
	pcm := set.render(pitch, e.device.SampleRate())
	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.SetVolume(gain)
	if delay := time.Until(startAt); delay > 0 {
		time.AfterFunc(delay, player.Play)
	} else {
		player.Play()
	}
	return &note{player: player}, nil
}

// Stop silences the note referred to by the handle.
func (e *Engine) Stop(handle contracts.PlaybackHandle) error {
	n, ok := handle.(*note)
	if !ok {
		return fmt.Errorf("foreign playback handle %T", handle)
	}
	return n.player.Close()
}

// Close suspends the audio device. Sample data stays loaded; the device
// reopens on the next trigger or Resume.
func (e *Engine) Close() error {
	return e.device.Suspend()
}

// render produces little-endian int16 mono PCM for pitch at the output
// rate, resampling from the nearest recorded pitch.
func (s *sampleSet) render(pitch uint8, outRate int) []byte {
	base := s.nearest(pitch)
	src := s.notes[base]

	// Shift by equal-temperament ratio, corrected for the rate difference
	// between the recording and the output device.
	step := math.Pow(2, float64(int(pitch)-int(base))/12) * float64(s.rate) / float64(outRate)
	if step <= 0 {
		step = 1
	}
	n := int(float64(len(src)) / step)
	out := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 >= len(src)-1 {
			break
		}
		frac := float32(pos - float64(i0))
		v := src[i0]*(1-frac) + src[i0+1]*frac
		out = append(out, pcm16(v)...)
	}
	return out
}

// nearest returns the recorded pitch closest to the requested one.
func (s *sampleSet) nearest(pitch uint8) uint8 {
	i := sort.Search(len(s.pitches), func(i int) bool { return s.pitches[i] >= pitch })
	if i == 0 {
		return s.pitches[0]
	}
	if i == len(s.pitches) {
		return s.pitches[len(s.pitches)-1]
	}
	lo, hi := s.pitches[i-1], s.pitches[i]
	if int(pitch)-int(lo) <= int(hi)-int(pitch) {
		return lo
	}
	return hi
}

func pcm16(v float32) []byte {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	n := int16(v * 32767)
	return []byte{byte(n), byte(uint16(n) >> 8)}
}

// identityDir converts a canonical identity to its folder name, e.g.
// "acoustic grand piano" becomes acoustic_grand_piano.
func identityDir(identity string) string {
	return strings.ReplaceAll(identity, " ", "_")
}
