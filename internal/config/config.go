// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all tick, world, and
// transport settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"

	"hexarena/internal/entity"
)

// =============================================================================
// TICK CONFIGURATION
// =============================================================================

// TickConfig controls the scheduler's global tick rate.
type TickConfig struct {
	TicksPerSecond int
}

// DefaultTick returns the default tick configuration.
func DefaultTick() TickConfig {
	return TickConfig{TicksPerSecond: 30}
}

// TickFromEnv returns tick configuration with environment variable overrides.
func TickFromEnv() TickConfig {
	cfg := DefaultTick()

	if r := getEnvInt("TICK_RATE", 0); r > 0 {
		cfg.TicksPerSecond = r
	}

	return cfg
}

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig seeds every new game's fortress template and starting
// resource pools.
type WorldConfig struct {
	FortressTemplate  string
	StartingResources map[entity.ResourceType]float64
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		FortressTemplate: "fortress",
		StartingResources: map[entity.ResourceType]float64{
			entity.Food:  100,
			entity.Stone: 50,
			entity.Wood:  50,
			entity.Gold:  20,
		},
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if v := os.Getenv("FORTRESS_TEMPLATE"); v != "" {
		cfg.FortressTemplate = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 8080,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// =============================================================================
// RATE LIMIT CONFIGURATION
// =============================================================================

// RateLimitConfig bounds per-IP request and WebSocket connection rates.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	MaxWSPerIP        int
}

// DefaultRateLimit returns the default rate limit configuration.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		MaxWSPerIP:        4,
	}
}

// RateLimitFromEnv returns rate limit configuration with environment variable overrides.
func RateLimitFromEnv() RateLimitConfig {
	cfg := DefaultRateLimit()

	if v := getEnvFloat("RATE_LIMIT_RPS", 0); v > 0 {
		cfg.RequestsPerSecond = v
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Tick      TickConfig
	World     WorldConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// Load returns the complete configuration with environment overrides.
// Callers typically run godotenv.Load beforehand so a local .env file
// populates the process environment before this reads it.
func Load() AppConfig {
	return AppConfig{
		Tick:      TickFromEnv(),
		World:     WorldFromEnv(),
		Server:    ServerFromEnv(),
		RateLimit: RateLimitFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
