package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings. Defaults come from DefaultConfig, then the
// environment (optionally a .env file), then command line flags.
type Config struct {
	Addr        string
	DBPath      string
	PublicURL   string // base of controller links encoded in QR codes
	JWTSecret   string // empty: generated and stored in the database
	BcryptCost  int
	CORSOrigins []string

	MaxSessions     int
	IdleTimeout     time.Duration // sessions without any client are reaped after this
	ViewWidth       float64       // world units
	ViewHeight      float64
	AsteroidDensity float64
	EnemyTarget     int
	CollisionStride uint64

	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns settings suitable for local play
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		DBPath:            "asteroids.db",
		PublicURL:         "http://localhost:8080",
		BcryptCost:        12,
		CORSOrigins:       []string{"http://localhost:*", "http://127.0.0.1:*"},
		MaxSessions:       100,
		IdleTimeout:       2 * time.Minute,
		ViewWidth:         16,
		ViewHeight:        9,
		AsteroidDensity:   20,
		EnemyTarget:       3,
		CollisionStride:   2,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// LoadConfig reads .env (if present) and applies environment overrides
func LoadConfig(envFile string) Config {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("no %s file, using environment only", envFile)
	}
	c := DefaultConfig()
	c.Addr = envOr("ASTEROIDS_ADDR", c.Addr)
	c.DBPath = envOr("ASTEROIDS_DB", c.DBPath)
	c.PublicURL = envOr("ASTEROIDS_PUBLIC_URL", c.PublicURL)
	c.JWTSecret = envOr("ASTEROIDS_JWT_SECRET", c.JWTSecret)
	c.BcryptCost = envInt("ASTEROIDS_BCRYPT_COST", c.BcryptCost)
	if v := os.Getenv("ASTEROIDS_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = strings.Split(v, ",")
	}
	c.MaxSessions = envInt("ASTEROIDS_MAX_SESSIONS", c.MaxSessions)
	c.IdleTimeout = envDuration("ASTEROIDS_IDLE_TIMEOUT", c.IdleTimeout)
	c.ViewWidth = envFloat("ASTEROIDS_VIEW_WIDTH", c.ViewWidth)
	c.ViewHeight = envFloat("ASTEROIDS_VIEW_HEIGHT", c.ViewHeight)
	c.AsteroidDensity = envFloat("ASTEROIDS_DENSITY", c.AsteroidDensity)
	c.EnemyTarget = envInt("ASTEROIDS_ENEMIES", c.EnemyTarget)
	c.CollisionStride = uint64(envInt("ASTEROIDS_COLLISION_STRIDE", int(c.CollisionStride)))
	c.RequestsPerSecond = envFloat("ASTEROIDS_RPS", c.RequestsPerSecond)
	c.Burst = envInt("ASTEROIDS_BURST", c.Burst)
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return def
	}
	return d
}
