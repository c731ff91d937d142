package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/michaldrozd/spellcross-sub000/internal/engine"
	"github.com/michaldrozd/spellcross-sub000/internal/infrastructure/storage"
	"github.com/michaldrozd/spellcross-sub000/internal/server"
	"github.com/michaldrozd/spellcross-sub000/internal/version"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		configPath   string
		seed         int64
		replayPath   string
		scenarioName string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config")
	// 0 - взять сид из конфига (или случайный)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps config/random)")
	flag.StringVar(&replayPath, "replay", "", "Path to replay file to play back and verify")
	flag.StringVar(&scenarioName, "scenario", "", "Default scenario for new battles")
	flag.Parse()

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if seed != 0 {
		cfg.Seed = seed
	}
	if scenarioName != "" {
		cfg.DefaultScenario = scenarioName
	}

	logger.Log.Info("Starting tactics server...")
	logger.Log.Info(version.String())

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		if err := runPlayback(cfg, replayPath); err != nil {
			logger.Log.WithError(err).Fatal("Playback failed")
		}
		return
	}

	logger.Log.WithField("seed", cfg.Seed).Info("Master seed")

	// 2. Сервис боёв и HTTP
	battles := engine.NewBattleService(cfg)
	srv := server.New(battles, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Log.Info("Shutting down...")
		saveAll(battles)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("Server error")
	}
	logger.Log.Info("Done.")
}

// saveAll сохраняет записи всех боёв перед выходом
func saveAll(battles *engine.BattleService) {
	for _, id := range battles.Sessions() {
		saved, err := battles.SaveReplay(id)
		if err != nil {
			logger.Log.WithError(err).WithField("battle_id", id).Error("Failed to save replay")
			continue
		}
		logger.Log.WithFields(logrus.Fields{
			"battle_id": id,
			"path":      saved.Path,
		}).Debug("Replay saved on shutdown")
	}
}

func runPlayback(cfg engine.Config, path string) error {
	logger.Log.Info("Mode: replay playback")

	replay, err := storage.NewReplayService(cfg.ReplayDir).Load(path)
	if err != nil {
		return err
	}
	sc, err := scenario.Named(cfg.ScenarioDir, replay.Scenario, replay.Seed)
	if err != nil {
		return err
	}

	session, err := engine.Playback(replay, sc)
	if err != nil {
		return err
	}

	summary := session.Summary()
	logger.Log.WithFields(logrus.Fields{
		"battle_id": summary.ID,
		"scenario":  summary.Scenario,
		"round":     summary.Round,
		"winner":    summary.Winner,
		"events":    len(session.Processor.State.Timeline),
	}).Info("Replay verified.")
	return nil
}
