package contracts

import (
	"context"
	"time"
)

// Instrument is an opaque handle to a usable sample-set for one GM
// instrument identity. It is owned by the instrument cache once loaded and
// lives until the audio session is torn down.
type Instrument interface {
	// Identity returns the canonical GM name the sample-set was loaded for.
	Identity() string
}

// BankLoader fetches and decodes the sample-set for one GM identity. Load
// may block while sample data is read; it must be safe for concurrent use.
type BankLoader interface {
	Load(ctx context.Context, identity string) (Instrument, error)
}

// PlaybackHandle refers to one sounding note issued by a SampleEngine. It
// is opaque to everything but the engine that created it.
type PlaybackHandle interface{}

// SampleEngine renders individual pitched notes from a loaded sample-set.
// The router never renders audio itself; it only issues these calls.
type SampleEngine interface {
	// Trigger starts playback of pitch from the instrument's sample-set at
	// the given gain in (0,1], no earlier than startAt.
	Trigger(ctx context.Context, inst Instrument, pitch uint8, gain float64, startAt time.Time) (PlaybackHandle, error)
	// Stop silences the note referred to by the handle. Stopping an
	// already-finished note is not an error.
	Stop(handle PlaybackHandle) error
}
