package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdnsembar01/aska/internal/bot"
	"github.com/sdnsembar01/aska/internal/dashboard"
	"github.com/sdnsembar01/aska/internal/rag"
	"github.com/sdnsembar01/aska/internal/store"
	"github.com/sdnsembar01/aska/internal/textnorm"
	"github.com/sdnsembar01/aska/internal/web"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web chat API and the admin API",
		Long:  "Serves the student web chat (login, chat, history, feedback) and the admin report API on their configured addresses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "aska.yaml", "path to ASKA config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
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

	opts := bot.RouterOpts{
		Store:         st,
		Sessions:      sessions,
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
	engine, err := bot.NewEngine(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	// Two servers; the first to fail takes the other down with it.
	errCh := make(chan error, 2)
	go func() {
		errCh <- web.Start(ctx, web.StartOpts{
			Store:  st,
			Engine: engine,
			Addr:   cfg.Web.Addr,
			Out:    out,
		})
	}()
	go func() {
		errCh <- dashboard.Start(ctx, dashboard.StartOpts{
			DB:        gormDB,
			Addr:      cfg.Dashboard.Addr,
			TesterIDs: cfg.Dashboard.TesterIDs,
			Out:       out,
		})
	}()

	err = <-errCh
	cancel()
	if second := <-errCh; err == nil {
		err = second
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
