package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/bot"
	"github.com/sdnsembar01/aska/internal/rag"
	"github.com/sdnsembar01/aska/internal/store"
	"github.com/sdnsembar01/aska/internal/telegram"
	"github.com/sdnsembar01/aska/internal/textnorm"
)

func newBotCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long:  "Connects to Telegram via long polling and routes every incoming message through the conversation flows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "aska.yaml", "path to ASKA config file")
	return cmd
}

func runBot(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is not configured (telegram.token or TELEGRAM_BOT_TOKEN)")
	}

	st, err := store.New(gormDB)
	if err != nil {
		return err
	}
	sessions, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	aiSvc, err := newAIService(cfg)
	if err != nil {
		return err
	}
	if aiSvc == nil {
		fmt.Fprintln(out, "No OpenAI API key configured; running with canned replies only")
	}

	var transcriber telegram.Transcriber
	if cfg.STT.APIKey != "" {
		t, err := ai.NewTranscriber(ai.TranscriberOpts{
			APIKey:  cfg.STT.APIKey,
			APIBase: cfg.STT.APIBase,
			Model:   cfg.STT.Model,
		})
		if err != nil {
			return err
		}
		transcriber = t
	} else {
		fmt.Fprintln(out, "No STT backend configured; voice notes will get the unavailable notice")
	}

	adapter, err := telegram.New(telegram.Opts{
		Token:       cfg.Telegram.Token,
		Transcriber: transcriber,
	})
	if err != nil {
		return err
	}
	defer adapter.Close()

	opts := bot.RouterOpts{
		Store:         st,
		Sessions:      sessions,
		Adapter:       adapter,
		Norm:          textnorm.NewNormalizer(cfg.BotHandle),
		PublicBaseURL: cfg.PublicBaseURL,
		Out:           out,
	}
	if aiSvc != nil {
		opts.QA, err = rag.NewRetriever(rag.Opts{DB: gormDB, AI: aiSvc})
		if err != nil {
			return err
		}
		opts.AckAI = aiSvc
		opts.PsychAI = aiSvc
		opts.TeacherAI = aiSvc
	}

	router, err := bot.NewRouter(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	fmt.Fprintf(out, "Starting %s bot...\n", cfg.BotName)
	if err := router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
