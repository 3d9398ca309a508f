package config

import "testing"

func TestFromRuntimeEnvDefaults(t *testing.T) {
	cfg, err := FromRuntimeEnv(map[string]string{})
	if err != nil {
		t.Fatalf("FromRuntimeEnv: %v", err)
	}
	if !cfg.BotsEnabled {
		t.Errorf("bots should be enabled by default")
	}
	if cfg.JoinTimeoutSec != 30 || cfg.TeamTimeoutSec != 20 || cfg.StartTimeoutSec != 20 {
		t.Errorf("unexpected timeout defaults: %+v", cfg)
	}
	if cfg.DefaultPlayerCount != 4 || cfg.DefaultTeamCount != 2 {
		t.Errorf("unexpected game defaults: %+v", cfg)
	}
}

func TestFromRuntimeEnvOverrides(t *testing.T) {
	cfg, err := FromRuntimeEnv(map[string]string{
		"FISH_BOTS_ENABLED":      "false",
		"FISH_JOIN_TIMEOUT_SEC":  "5",
		"FISH_BOT_MIN_DELAY_SEC": "4",
		"FISH_BOT_MAX_DELAY_SEC": "2",
		"FISH_POINTS_PER_BOOK":   "25",
	})
	if err != nil {
		t.Fatalf("FromRuntimeEnv: %v", err)
	}
	if cfg.BotsEnabled {
		t.Errorf("bots should be disabled")
	}
	if cfg.JoinTimeoutSec != 5 {
		t.Errorf("JoinTimeoutSec = %d, want 5", cfg.JoinTimeoutSec)
	}
	if cfg.BotMaxDelaySec != 4 {
		t.Errorf("max delay should be clamped up to min delay, got %d", cfg.BotMaxDelaySec)
	}
	if cfg.PointsPerBook != 25 {
		t.Errorf("PointsPerBook = %d, want 25", cfg.PointsPerBook)
	}
}

func TestFromRuntimeEnvBadValue(t *testing.T) {
	if _, err := FromRuntimeEnv(map[string]string{"FISH_JOIN_TIMEOUT_SEC": "soon"}); err == nil {
		t.Fatalf("expected parse error for non-numeric timeout")
	}
}
