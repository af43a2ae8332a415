package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devpureza/liga-expo/internal/api/rest/router"
	"github.com/devpureza/liga-expo/internal/config"
	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/sandbox"
	"github.com/devpureza/liga-expo/internal/server"
	"github.com/devpureza/liga-expo/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	backend, err := sandbox.New(bcrypt.DefaultCost, logger)
	if err != nil {
		logger.Fatal("failed to seed sandbox backend", "error", err)
	}
	tokenManager := token.NewJWT(cfg.Sandbox.JWTSecret, cfg.Sandbox.TokenTTL)

	r := router.New(backend, tokenManager, router.Options{
		CORSOrigins: cfg.Sandbox.CORSOrigins,
		LoginRPM:    cfg.Sandbox.LoginRPM,
	}, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.Sandbox.Port))

	var sl model.SecurityLayer

	if cfg.Sandbox.EnableHTTPS {
		sl = server.NewTLSListener(cfg.Sandbox.CertFileName, cfg.Sandbox.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting sandbox server", "address", s.Address(), "https", cfg.Sandbox.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
