package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска движка.
// Порядок: defaults() -> TOML-файл -> переменные окружения CE_*.
type Config struct {
	// Seed - мастер-зерно. 0 = взять от времени при старте.
	Seed int64 `toml:"seed" env:"SEED"`

	Combat  CombatConfig  `toml:"combat" envPrefix:"COMBAT_"`
	Data    DataConfig    `toml:"data" envPrefix:"DATA_"`
	Logging LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

type CombatConfig struct {
	// TieBreak - roster | defense | name
	TieBreak          string `toml:"tie_break" env:"TIE_BREAK"`
	MeleeRange        int    `toml:"melee_range" env:"MELEE_RANGE"`
	DestructibleTraps bool   `toml:"destructible_traps" env:"DESTRUCTIBLE_TRAPS"`
	// TrapResetRounds - перезарядка для ловушек без собственной (0 = одноразовые)
	TrapResetRounds int `toml:"trap_reset_rounds" env:"TRAP_RESET_ROUNDS"`
	// MaxRounds - после этого раунда бой заканчивается ничьей (0 = без лимита)
	MaxRounds int `toml:"max_rounds" env:"MAX_ROUNDS"`
	// ResourceRegen - сколько ресурса возвращается в начале каждого раунда
	ResourceRegen int `toml:"resource_regen" env:"RESOURCE_REGEN"`
}

type DataConfig struct {
	Dir          string `toml:"dir" env:"DIR"`
	ReplayDir    string `toml:"replay_dir" env:"REPLAY_DIR"`
	DatabasePath string `toml:"database_path" env:"DATABASE_PATH"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// Load читает TOML и накладывает окружение. Пустой path - только defaults + env.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "CE_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Combat: CombatConfig{
			TieBreak:          string(TieBreakRoster),
			MeleeRange:        1,
			DestructibleTraps: true,
			MaxRounds:         100,
		},
		Data: DataConfig{
			Dir:          "data",
			ReplayDir:    "replays",
			DatabasePath: "encounters.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	cfg := defaults()
	cfg.Seed = time.Now().UnixNano()
	return *cfg
}

func (c *Config) Validate() error {
	if _, err := ParseTieBreak(c.Combat.TieBreak); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Combat.MeleeRange < 1 {
		return fmt.Errorf("config: melee_range must be >= 1, got %d", c.Combat.MeleeRange)
	}
	if c.Combat.TrapResetRounds < 0 {
		return fmt.Errorf("config: trap_reset_rounds must be >= 0, got %d", c.Combat.TrapResetRounds)
	}
	if c.Combat.MaxRounds < 0 {
		return fmt.Errorf("config: max_rounds must be >= 0, got %d", c.Combat.MaxRounds)
	}
	if c.Combat.ResourceRegen < 0 {
		return fmt.Errorf("config: resource_regen must be >= 0, got %d", c.Combat.ResourceRegen)
	}
	return nil
}

// EffectiveSeed - Seed или время, если зерно не задано
func (c *Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
