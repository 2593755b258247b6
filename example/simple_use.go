package main

import (
	"fmt"
	"os"

	"github.com/msveshnikov/midi-player/internal/logger"
	"github.com/msveshnikov/midi-player/sdk/contracts"
	"github.com/msveshnikov/midi-player/sdk/player"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: simple_use <file.mid>")
		os.Exit(2)
	}

	log := logger.NewZapLogger()

	notifications := make(chan contracts.Notification, 16)
	session, err := player.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithSampleDir("sounds"),
		contracts.WithNotifications(notifications),
	)
	if err != nil {
		log.Error("Failed to initialize the player", log.Field().Error("error", err))
		return
	}
	defer session.Close()

	if err = session.Load(os.Args[1]); err != nil {
		log.Error("Failed to load MIDI file", log.Field().Error("error", err))
		return
	}

	if err = session.Play(); err != nil {
		log.Error("Failed to start playback", log.Field().Error("error", err))
		return
	}
	fmt.Println("Playing... Ctrl+C to exit.")

	for n := range notifications {
		switch n.Kind {
		case contracts.NotificationEnded:
			fmt.Println("Playback finished.")
			return
		case contracts.NotificationLoadFailed:
			log.Warn("Instrument unavailable",
				log.Field().String("identity", n.Identity),
				log.Field().Error("error", n.Err))
		case contracts.NotificationTriggerFailed:
			log.Warn("Note dropped",
				log.Field().String("identity", n.Identity),
				log.Field().Error("error", n.Err))
		}
	}
}
