package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/handler"
	"github.com/zhouzirui/people-person/internal/handler/game"
	"github.com/zhouzirui/people-person/internal/model/score"
	"github.com/zhouzirui/people-person/internal/service/session"
	"github.com/zhouzirui/people-person/internal/tui"
)

func executeCLI() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return buildRootCommand().ExecuteContext(ctx)
}

func buildRootCommand() *cobra.Command {
	var name string

	root := &cobra.Command{
		Use:   "hotline",
		Short: "The People Person: talk callers through a crisis and keep score",
		Long: strings.TrimSpace(`hotline is a crisis-hotline counselor game.

Each caller is generated by a language model. Keep them talking until
their mental health recovers, and watch your session score climb.
Without a subcommand the game opens in the terminal.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), name)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&name, "name", "n", "", "Player name (defaults to PLAYER_NAME)")

	root.AddCommand(newPlayCommand(&name))
	root.AddCommand(newServeCommand(&name))
	root.AddCommand(newLeaderboardCommand())
	return root
}

func newPlayCommand(name *string) *cobra.Command {
	return &cobra.Command{
		Use:     "play",
		Short:   "Play in the terminal",
		Example: "  hotline play --name Alice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *name)
		},
	}
}

func newServeCommand(name *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Play one session over HTTP, SSE and WebSocket",
		Long: strings.TrimSpace(`serve runs a single session for one player and exposes it under /api.

POST /api/quit twice, or interrupt the process, to end the session.`),
		Example: "  PORT=8080 hotline serve --name Alice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *name)
		},
	}
}

func newLeaderboardCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the saved leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			entries := score.NewFileStore(cfg.Game.ScoresFile, logger.Named("scores")).Leaderboard(limit)
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No scores yet.")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(out, "%s: %d\n", entry.Name, entry.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", session.LeaderboardSize, "Number of entries to show, 0 for all")
	return cmd
}

func runPlay(ctx context.Context, name string) error {
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if name == "" {
		name = a.cfg.Game.PlayerName
	}

	var engine *session.Engine
	factory := func(player string) tui.Engine {
		engine = a.newEngine(player)
		return engine
	}

	runErr := tui.Run(ctx, factory, tui.Options{
		Player:    name,
		FrameRate: a.cfg.Game.FrameRate,
		Logger:    a.logger.Named("tui"),
	})
	if engine != nil {
		if err := engine.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func runServe(ctx context.Context, name string) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if name == "" {
		name = a.cfg.Game.PlayerName
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("serve needs a player name: pass --name or set PLAYER_NAME")
	}

	engine := a.newEngine(name)
	defer func() {
		if err := engine.Close(); err != nil {
			a.logger.Error("failed to close session", zap.Error(err))
		}
	}()

	gameHandler := game.New(engine, a.scores, a.cfg.Game.FrameRate, a.logger.Named("game"))
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler.NewRouter(gameHandler, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnerErr := make(chan error, 1)
	go func() {
		defer cancel()
		runnerErr <- session.NewRunner(engine, a.cfg.Game.FrameRate, a.logger.Named("runner")).Run(runCtx)
	}()

	a.logger.Info("hotline listening", zap.String("addr", srv.Addr), zap.String("player", name))
	serveErr := runServer(runCtx, srv)
	cancel()
	if err := <-runnerErr; err != nil {
		return err
	}
	return serveErr
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
