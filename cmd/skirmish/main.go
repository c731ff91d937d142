package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/michaldrozd/spellcross-sub000/internal/agent"
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine"
	"github.com/michaldrozd/spellcross-sub000/internal/infrastructure/storage"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
	"github.com/michaldrozd/spellcross-sub000/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// Безголовый бой ИИ против ИИ: прогон баланса и генерация реплеев.
func init() {
	logger.Init()
}

func main() {
	var (
		configPath string
		name       string
		seed       int64
		maxRounds  int
		saveDir    string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config")
	flag.StringVar(&name, "scenario", "", "Scenario name (empty = generated skirmish)")
	flag.Int64Var(&seed, "seed", 0, "Battle seed (0 keeps config/random)")
	flag.IntVar(&maxRounds, "rounds", 30, "Stop after this many rounds")
	flag.StringVar(&saveDir, "save", "", "Directory to save the replay into")
	flag.Parse()

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if seed != 0 {
		cfg.Seed = seed
	}
	if name == "" {
		name = scenario.GeneratedName(engine.DefaultSkirmishWidth, engine.DefaultSkirmishHeight, cfg.Weather)
	}

	sc, err := scenario.Named(cfg.ScenarioDir, name, cfg.Seed)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load scenario")
	}

	// Обе стороны играют ботами через AI_TURN, авто-ИИ сессии не нужен
	session := engine.NewSession(utils.NewBattleID(), sc, engine.SessionOptions{
		Seed:            cfg.Seed,
		AIMaxIterations: cfg.AIMaxIterations,
		AIJitter:        cfg.AIJitter,
	})

	// Сначала подписываем всех, потом запускаем: иначе первый ход уйдёт в пустоту
	bots := make([]*agent.Bot, 0, 2)
	for _, f := range domain.Factions() {
		bots = append(bots, agent.NewBot(session, f, maxRounds))
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, bot := range bots {
		bot := bot
		g.Go(func() error { return bot.Run(ctx) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, agent.ErrRoundLimit) {
		logger.Log.WithError(err).Fatal("Skirmish failed")
	}

	summary := session.Summary()
	winner := summary.Winner
	if winner == "" {
		winner = "none (round limit)"
	}
	fmt.Printf("scenario: %s\nseed:     %d\nrounds:   %d\nwinner:   %s\n", summary.Scenario, cfg.Seed, summary.Round, winner)

	if saveDir != "" {
		replay := session.ReplayCopy()
		path, err := storage.NewReplayService(saveDir).Save(&replay)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to save replay")
			os.Exit(1)
		}
		fmt.Printf("replay:   %s (%d actions)\n", path, len(replay.Actions))
	}
}
