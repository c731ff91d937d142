package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно боя. Бой с тем же сценарием и сидом воспроизводим.
	Seed    int64          `yaml:"seed"`
	Weather domain.Weather `yaml:"weather"`

	AIMaxIterations int     `yaml:"ai_max_iterations"`
	AIJitter        float64 `yaml:"ai_jitter"`
	// AIFactions - стороны, за которые сервер ходит сам
	AIFactions []domain.Faction `yaml:"ai_factions"`

	ReplayDir   string `yaml:"replay_dir"`
	ScenarioDir string `yaml:"scenario_dir"`
	Port        string `yaml:"port"`
	// DefaultScenario - сценарий для боёв, созданных без имени. Пусто - случайная стычка.
	DefaultScenario string `yaml:"default_scenario"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:            time.Now().UnixNano(),
		Weather:         domain.WeatherClear,
		AIMaxIterations: DefaultAIMaxIterations,
		AIFactions:      []domain.Faction{domain.FactionEnemy},
		ReplayDir:       "replays",
		Port:            "8080",
	}
}

// LoadConfig накладывает на значения по умолчанию YAML-файл (если path не пуст),
// затем переменные окружения TACTICS_PORT и TACTICS_SEED.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if port, ok := os.LookupEnv("TACTICS_PORT"); ok && port != "" {
		cfg.Port = port
	}
	if raw, ok := os.LookupEnv("TACTICS_SEED"); ok && raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid TACTICS_SEED %q: %w", raw, err)
		}
		cfg.Seed = seed
	}

	if cfg.AIMaxIterations <= 0 {
		cfg.AIMaxIterations = DefaultAIMaxIterations
	}
	return cfg, nil
}

// IsAI - управляет ли сервер стороной f.
func (c Config) IsAI(f domain.Faction) bool {
	for _, ai := range c.AIFactions {
		if ai == f {
			return true
		}
	}
	return false
}
