package config

import "testing"

func TestDefaultTick(t *testing.T) {
	if got := DefaultTick().TicksPerSecond; got != 30 {
		t.Fatalf("TicksPerSecond = %d, want 30", got)
	}
}

func TestTickFromEnvOverride(t *testing.T) {
	t.Setenv("TICK_RATE", "60")
	if got := TickFromEnv().TicksPerSecond; got != 60 {
		t.Fatalf("TicksPerSecond = %d, want 60", got)
	}
}

func TestTickFromEnvIgnoresZero(t *testing.T) {
	t.Setenv("TICK_RATE", "0")
	if got := TickFromEnv().TicksPerSecond; got != 30 {
		t.Fatalf("TicksPerSecond = %d, want default 30", got)
	}
}

func TestWorldFromEnvOverridesFortress(t *testing.T) {
	t.Setenv("FORTRESS_TEMPLATE", "keep")
	cfg := WorldFromEnv()
	if cfg.FortressTemplate != "keep" {
		t.Fatalf("FortressTemplate = %q, want %q", cfg.FortressTemplate, "keep")
	}
	if len(cfg.StartingResources) == 0 {
		t.Fatal("expected default starting resources to survive an env override")
	}
}

func TestRateLimitFromEnvOverride(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "25")
	t.Setenv("RATE_LIMIT_BURST", "40")
	cfg := RateLimitFromEnv()
	if cfg.RequestsPerSecond != 25 {
		t.Fatalf("RequestsPerSecond = %v, want 25", cfg.RequestsPerSecond)
	}
	if cfg.Burst != 40 {
		t.Fatalf("Burst = %d, want 40", cfg.Burst)
	}
	if cfg.MaxWSPerIP != DefaultRateLimit().MaxWSPerIP {
		t.Fatalf("MaxWSPerIP changed despite no override: %d", cfg.MaxWSPerIP)
	}
}

func TestLoadAssemblesAllSections(t *testing.T) {
	cfg := Load()
	if cfg.Tick.TicksPerSecond == 0 {
		t.Fatal("Load() left TicksPerSecond unset")
	}
	if cfg.Server.Port == 0 {
		t.Fatal("Load() left Port unset")
	}
}
