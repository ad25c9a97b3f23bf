package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/bot"
	"github.com/sdnsembar01/aska/internal/config"
	"github.com/sdnsembar01/aska/internal/db"
)

// connectFromConfig loads the config file and opens the Postgres pool.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()
	return ctx, cancel
}

// newAIService builds the chat service, or returns nil when no API key
// is configured. Every caller treats a nil service as "canned replies
// only".
func newAIService(cfg *config.Config) (*ai.Service, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, nil
	}
	return ai.NewService(ai.Opts{
		APIKey:    cfg.OpenAI.APIKey,
		ChatModel: cfg.OpenAI.ChatModel,
	})
}

// newSessionStore builds the in-memory session store from the config's
// second-denominated knobs.
func newSessionStore(cfg *config.Config) (*bot.SessionStore, error) {
	return bot.NewSessionStore(bot.SessionStoreOpts{
		DedupeWindow: time.Duration(cfg.Session.DedupeWindowSec) * time.Second,
		PruneAfter:   time.Duration(cfg.Session.PruneAfterSec) * time.Second,
		FlowTimeout:  time.Duration(cfg.Session.FlowTimeoutSec) * time.Second,
	})
}
