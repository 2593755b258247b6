package contracts

// PercussionMode selects how Program Change events are applied to the
// percussion channel (MIDI channel 9).
type PercussionMode uint8

const (
	// PercussionUniform applies Program Change events to channel 9 exactly
	// like any other channel, following the GM table.
	PercussionUniform PercussionMode = iota
	// PercussionFixedKit pins channel 9 to a fixed kit sample-set and
	// ignores Program Change events on it.
	PercussionFixedKit
)

// PlayerOptions defines the configuration options for a playback session.
type PlayerOptions struct {
	Logger         Logger              // Logger for playback events and errors.
	LogLevel       LogLevel            // Level of logging to use.
	Engine         SampleEngine        // Renders individual notes; defaults to the built-in sampler.
	Loader         BankLoader          // Fetches instrument sample-sets; defaults to the built-in sampler.
	SampleDir      string              // Root directory of per-instrument sample folders.
	SampleRate     int                 // Output sample rate of the default engine.
	Notifications  chan<- Notification // Optional channel for router state transitions.
	PercussionMode PercussionMode      // Channel 9 policy.
	PercussionKit  string              // Kit identity used when PercussionFixedKit is set.
}

// Option is a function that modifies PlayerOptions.
type Option func(*PlayerOptions)

// WithLogger sets the logger for the playback session.
func WithLogger(l Logger) Option {
	return func(opts *PlayerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the playback session.
func WithLogLevel(level LogLevel) Option {
	return func(opts *PlayerOptions) {
		opts.LogLevel = level
	}
}

// WithSampleEngine replaces the built-in sampler as the note renderer.
func WithSampleEngine(e SampleEngine) Option {
	return func(opts *PlayerOptions) {
		opts.Engine = e
	}
}

// WithBankLoader replaces the built-in sampler as the sample-set loader.
func WithBankLoader(l BankLoader) Option {
	return func(opts *PlayerOptions) {
		opts.Loader = l
	}
}

// WithSampleDir sets the root directory the built-in sampler loads
// instrument sample folders from.
func WithSampleDir(dir string) Option {
	return func(opts *PlayerOptions) {
		opts.SampleDir = dir
	}
}

// WithSampleRate sets the output sample rate of the built-in sampler.
func WithSampleRate(rate int) Option {
	return func(opts *PlayerOptions) {
		opts.SampleRate = rate
	}
}

// WithNotifications sets the channel router state transitions are
// reported on. Sends never block: if the channel is full, the
// notification is dropped.
func WithNotifications(ch chan<- Notification) Option {
	return func(opts *PlayerOptions) {
		opts.Notifications = ch
	}
}

// WithPercussionKit pins the percussion channel to the given kit identity
// instead of following the GM table.
func WithPercussionKit(identity string) Option {
	return func(opts *PlayerOptions) {
		opts.PercussionMode = PercussionFixedKit
		opts.PercussionKit = identity
	}
}
