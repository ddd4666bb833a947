package game

import (
	"io"
	"log"
	"math/rand"
	"time"
)

const (
	DefaultAsteroidDensity = 20
	DefaultEnemyTarget     = 3
	DefaultCollisionStride = 2
)

type config struct {
	density     float64
	enemyTarget int
	stride      uint64
	rng         *rand.Rand
	clock       Clock
	logger      *log.Logger
}

func defaultConfig() config {
	return config{
		density:     DefaultAsteroidDensity,
		enemyTarget: DefaultEnemyTarget,
		stride:      DefaultCollisionStride,
		clock:       WallClock,
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if c.stride == 0 {
		c.stride = 1
	}
	return c
}

// Option configures a Manager or Engine
type Option func(*config)

// WithAsteroidDensity sets asteroids per unit of visible radius
func WithAsteroidDensity(d float64) Option {
	return func(c *config) { c.density = d }
}

// WithEnemyTarget sets the number of enemies kept alive
func WithEnemyTarget(n int) Option {
	return func(c *config) { c.enemyTarget = n }
}

// WithCollisionStride runs bullet collision checks every n frames
func WithCollisionStride(n uint64) Option {
	return func(c *config) { c.stride = n }
}

// WithRand sets the random source used for every stochastic choice
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithSeed is WithRand with a fresh source seeded by seed
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock sets the clock driving invincibility timers
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithLogger sets the logger for lifecycle lines; the default discards
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}
