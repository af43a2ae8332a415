package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devpureza/liga-expo/internal/config"
	"github.com/devpureza/liga-expo/internal/credential"
	"github.com/devpureza/liga-expo/internal/gateway"
	"github.com/devpureza/liga-expo/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	slots, closeSlots, err := openSlots(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize credential store", "error", err, "driver", cfg.Store.Driver)
	}

	creds := credential.NewStore(slots, logger)
	api := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, cfg.API.Debug, creds, logger)
	a := newApp(api, creds, logger, os.Stdout)

	code := 0
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		code = 1
	}

	if err := closeSlots(); err != nil {
		logger.Warn("failed to close credential store", "error", err)
	}
	stop()
	os.Exit(code)
}
