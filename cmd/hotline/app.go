package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/config"
	"github.com/zhouzirui/people-person/internal/logging"
	"github.com/zhouzirui/people-person/internal/model/score"
	"github.com/zhouzirui/people-person/internal/service/oracle"
	"github.com/zhouzirui/people-person/internal/service/session"
)

// app holds everything a command needs after start-up.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	scores *score.FileStore
	oracle *oracle.Client
}

// defaultLogFile is used by the terminal front end, which cannot share
// stderr with the renderer.
const defaultLogFile = "hotline.log"

func loadConfig(terminal bool) (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if terminal && (cfg.Log.File == "" || cfg.Log.File == "-") {
		cfg.Log.File = defaultLogFile
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}
	return cfg, logger, nil
}

func newApp(ctx context.Context, terminal bool) (*app, error) {
	cfg, logger, err := loadConfig(terminal)
	if err != nil {
		return nil, err
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}

	client, err := oracle.NewClient(ctx, chatModel, logger.Named("oracle"))
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize oracle: %w", err)
	}

	scores := score.NewFileStore(cfg.Game.ScoresFile, logger.Named("scores"))
	logger.Info("score store loaded", zap.String("path", scores.Path()), zap.Int("players", len(scores.Scores())))

	return &app{cfg: cfg, logger: logger, scores: scores, oracle: client}, nil
}

func (a *app) newEngine(player string) *session.Engine {
	return session.NewEngine(a.oracle, a.scores, session.Options{
		Player: player,
		Logger: a.logger.Named("engine"),
	})
}

func (a *app) close() {
	_ = a.logger.Sync()
}
