package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        // listen address
	GameDuration    time.Duration // timed-mode length
	PowerUpInterval time.Duration // spawner tick
	MaxPowerUps     int           // world keeps at most this many
	FieldWidth      float64       // spawn bounds for power-ups
	FieldHeight     float64
}

// Load reads configuration from the environment, with a .env file as an
// optional overlay. Every value has a workable default; a missing .env is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            ":" + envString("PORT", "3000"),
		GameDuration:    envDuration("GAME_DURATION_MS", 3*time.Minute),
		PowerUpInterval: envDuration("POWERUP_INTERVAL_MS", 10*time.Second),
		MaxPowerUps:     envInt("MAX_POWERUPS", 5),
		FieldWidth:      envFloat("FIELD_WIDTH", 800),
		FieldHeight:     envFloat("FIELD_HEIGHT", 600),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		// Zero or negative would make ticker-driven callers panic;
		// treat them like any other unusable value.
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
