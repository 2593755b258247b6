package player

import (
	"errors"

	"github.com/msveshnikov/midi-player/internal/logger"
	"github.com/msveshnikov/midi-player/internal/sampler"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// defaultSampleDir is where the built-in sampler looks for instrument
// sample folders when the caller does not configure a directory.
const defaultSampleDir = "sounds"

// applyDefaultOptions sets default values for PlayerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify PlayerOptions.
//
// Returns:
//   - contracts.PlayerOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if the combination of options is invalid.
func applyDefaultOptions(opts ...contracts.Option) (contracts.PlayerOptions, error) {
	options := &contracts.PlayerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	options.Logger.SetLevel(options.LogLevel)

	if options.SampleDir == "" {
		options.SampleDir = defaultSampleDir
	}
	if options.SampleRate <= 0 {
		options.SampleRate = sampler.DefaultSampleRate
	}

	// The built-in sampler serves as both engine and loader unless the
	// caller replaces one side.
	if options.Engine == nil || options.Loader == nil {
		def := sampler.New(options.SampleDir, options.SampleRate, options.Logger)
		if options.Engine == nil {
			options.Engine = def
		}
		if options.Loader == nil {
			options.Loader = def
		}
	}

	if options.PercussionMode == contracts.PercussionFixedKit && options.PercussionKit == "" {
		return contracts.PlayerOptions{}, errors.New("fixed percussion mode requires a kit identity")
	}

	return *options, nil
}
