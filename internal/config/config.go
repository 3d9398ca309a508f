package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries the tunables the Nakama runtime environment exposes to the
// match handler: bot pacing, lobby phase timeouts and game defaults. Ticks
// run at one per second, so second-valued settings double as tick deadlines.
type Config struct {
	BotsEnabled    bool `env:"FISH_BOTS_ENABLED" envDefault:"true"`
	BotMinDelaySec int  `env:"FISH_BOT_MIN_DELAY_SEC" envDefault:"1"`
	BotMaxDelaySec int  `env:"FISH_BOT_MAX_DELAY_SEC" envDefault:"3"`

	JoinTimeoutSec  int `env:"FISH_JOIN_TIMEOUT_SEC" envDefault:"30"`
	TeamTimeoutSec  int `env:"FISH_TEAM_TIMEOUT_SEC" envDefault:"20"`
	StartTimeoutSec int `env:"FISH_START_TIMEOUT_SEC" envDefault:"20"`
	TurnTimeoutSec  int `env:"FISH_TURN_TIMEOUT_SEC" envDefault:"45"`

	DefaultPlayerCount int    `env:"FISH_DEFAULT_PLAYER_COUNT" envDefault:"4"`
	DefaultTeamCount   int    `env:"FISH_DEFAULT_TEAM_COUNT" envDefault:"2"`
	DefaultBookType    string `env:"FISH_DEFAULT_BOOK_TYPE" envDefault:"rank"`

	PointsPerBook int64 `env:"FISH_POINTS_PER_BOOK" envDefault:"10"`
}

// FromRuntimeEnv parses the Nakama runtime env map into a Config.
func FromRuntimeEnv(runtimeEnv map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: runtimeEnv}); err != nil {
		return Config{}, fmt.Errorf("parse runtime env: %w", err)
	}
	if cfg.BotMaxDelaySec < cfg.BotMinDelaySec {
		cfg.BotMaxDelaySec = cfg.BotMinDelaySec
	}
	return cfg, nil
}
