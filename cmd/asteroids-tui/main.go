// Command asteroids-tui flies the asteroid field in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"asteroid-field/game"
	"asteroid-field/render"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	density := flag.Float64("density", 1, "asteroid density, as a multiple of the default")
	enemies := flag.Int("enemies", 3, "enemies kept alive")
	hold := flag.Duration("hold", 150*time.Millisecond, "how long a key press counts as held")
	sound := flag.Bool("sound", false, "play sound cues")
	logPath := flag.String("log", "", "write engine logs to this file")
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "[asteroids] ", log.LstdFlags)
	}

	started := time.Now()
	st, err := run(*seed, *density, *enemies, *hold, *sound, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asteroids: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary(st, time.Since(started)))
}

// fieldDensity turns the -density multiplier into asteroids per unit of
// visible radius
func fieldDensity(multiplier float64) float64 {
	if multiplier < 0 {
		multiplier = 0
	}
	return multiplier * game.DefaultAsteroidDensity
}

// summary is the line printed after the screen is restored
func summary(st game.Stats, flown time.Duration) string {
	return fmt.Sprintf("flew %s over %s frames: %s rocks, %s enemies, %s hits taken, %s shots",
		flown.Round(time.Second), humanize.Comma(int64(st.Frames)),
		humanize.Comma(int64(st.AsteroidsDestroyed)), humanize.Comma(int64(st.EnemiesDestroyed)),
		humanize.Comma(int64(st.ShipHits)), humanize.Comma(int64(st.Shots)))
}

func run(seed int64, density float64, enemies int, hold time.Duration, withSound bool, logger *log.Logger) (st game.Stats, err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return st, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return st, fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	var sfx *sounds
	if withSound {
		if sfx, err = newSounds(); err != nil {
			logger.Printf("audio disabled: %v", err)
		}
		defer sfx.close()
	}

	scene := render.NewScene(viewportFor(screen.Size()))
	keys := newLatch(hold)
	engine := game.NewEngine(scene, game.KeySourceFunc(keys.Keys),
		game.WithSeed(seed),
		game.WithAsteroidDensity(fieldDensity(density)),
		game.WithEnemyTarget(enemies),
		game.WithLogger(logger),
	)
	if err := engine.Start(); err != nil {
		return st, err
	}
	defer engine.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / game.FramesPerSecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				i, ok, quit := intentOf(ev)
				if quit {
					return engine.Stats(), nil
				}
				if ok {
					keys.press(i)
				}
			case *tcell.EventResize:
				scene.Resize(viewportFor(screen.Size()))
				screen.Sync()
			}
		case <-ticker.C:
			scene.Tick()
			if err := engine.Err(); err != nil {
				return engine.Stats(), err
			}
			st = engine.Stats()
			sfx.update(st)
			draw(screen, scene.Snapshot(), st)
		}
	}
}
