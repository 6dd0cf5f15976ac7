package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type GameConfig struct {
	MinPlayers              int           `mapstructure:"min_players"`
	MaxPlayers              int           `mapstructure:"max_players"`
	DayTimerSeconds         int           `mapstructure:"day_timer_seconds"`
	NightTimerSeconds       int           `mapstructure:"night_timer_seconds"`
	RevealRoleOnElimination bool          `mapstructure:"reveal_role_on_elimination"`
	EnforceMinPlayers       bool          `mapstructure:"enforce_min_players"`
	SweepInterval           time.Duration `mapstructure:"sweep_interval"`
}

type DatabaseConfig struct {
	// DSN of the postgres room store. Empty means in-memory.
	DSN string `mapstructure:"dsn"`
}

// Load reads config.yaml from the given path if present, with environment
// variables (MAFIA_SERVER_PORT etc.) overriding file values and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("game.min_players", 6)
	v.SetDefault("game.max_players", 15)
	v.SetDefault("game.day_timer_seconds", 60)
	v.SetDefault("game.night_timer_seconds", 30)
	v.SetDefault("game.reveal_role_on_elimination", true)
	v.SetDefault("game.enforce_min_players", false)
	v.SetDefault("game.sweep_interval", time.Second)
	v.SetDefault("database.dsn", "")

	v.SetEnvPrefix("mafia")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
