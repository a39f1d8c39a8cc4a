package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/traderkit/schwabauth/cmd"
)

// main is the entry point of the application.
// It sets up logging based on the DEBUG_SCHWABAUTH environment variable,
// starts a goroutine to listen for interrupt signals, and executes the main command.
func main() {
	configureLogLevelFromEnv()

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, func(msg string) { log.Fatal().Msg(msg) }, os.Exit)

	// Program entry point
	cmd.Execute()
}

// configureLogLevelFromEnv enables debug logging when DEBUG_SCHWABAUTH is set
// to anything but "false" or "0", and disables logging otherwise.
func configureLogLevelFromEnv() {
	switch os.Getenv("DEBUG_SCHWABAUTH") {
	case "", "false", "0":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// setupInterruptListener registers a channel for interrupt signals.
func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt blocks until a signal arrives, then logs and exits.
// The log and exit functions are parameters so tests can intercept them.
func handleInterrupt(stopChan chan os.Signal, fatalLog func(string), exit func(int)) {
	<-stopChan
	fatalLog("Interrupt signal received. Exiting...")
	exit(1)
}
