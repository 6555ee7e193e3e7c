package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"war-room/internal"
	"war-room/moderation"
	"war-room/repositories"
	"war-room/runtime"
	"war-room/runtime/workers"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run())
}

// run initializes all components, manages the engine lifecycle, and
// centralizes error reporting so every defer executes before exiting.
func run() int {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return exitConfig
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Error("database opening failed", "error", err)
		return exitRuntime
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation (optional)
	var moderator *moderation.Moderator
	if words := config.CensoredList(); len(words) > 0 {
		char, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			log.Error("invalid moderation config", "error", err)
			return exitConfig
		}
		if moderator, err = moderation.NewModerator(words, char, log); err != nil {
			log.Error("moderation setup failed", "error", err)
			return exitConfig
		}
	}

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	roomRepository := repositories.NewRoomRepository(db, log)

	service := runtime.NewService(log, registry, roomRepository, sup, moderator, runtime.ServiceConfig{
		JoinTimeout:       config.JoinTimeout,
		BufferSize:        config.BufferSize,
		RoomsPerPage:      config.RoomsPerPage,
		ProbeInterval:     config.ProbeInterval,
		IdleMax:           config.IdleMax,
		TelemetryInterval: config.TelemetryInterval,
	})

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Start the Engine
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("Starting room engine")
		service.Start(ctx)
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	service.Stop()
	<-done
	log.Info("Program stopped cleanly")

	return exitOK
}
