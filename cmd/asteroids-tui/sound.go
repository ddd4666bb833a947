package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"asteroid-field/game"
)

const sampleRate = beep.SampleRate(44100)

// sounds plays short cues for what happened between two stats samples.
// A nil *sounds is silent.
type sounds struct {
	last game.Stats
}

func newSounds() (*sounds, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &sounds{}, nil
}

// cue is one sound worth playing for a stats change
type cue int

const (
	cueShot cue = iota
	cueExplosion
	cueHit
)

// cuesBetween lists the cues for the change from prev to cur
func cuesBetween(prev, cur game.Stats) []cue {
	var out []cue
	if cur.Shots > prev.Shots {
		out = append(out, cueShot)
	}
	if cur.AsteroidsDestroyed > prev.AsteroidsDestroyed || cur.EnemiesDestroyed > prev.EnemiesDestroyed {
		out = append(out, cueExplosion)
	}
	if cur.ShipHits > prev.ShipHits {
		out = append(out, cueHit)
	}
	return out
}

func (s *sounds) update(st game.Stats) {
	if s == nil {
		return
	}
	for _, c := range cuesBetween(s.last, st) {
		if streamer := streamerFor(c); streamer != nil {
			speaker.Play(streamer)
		}
	}
	s.last = st
}

func (s *sounds) close() {
	if s != nil {
		speaker.Close()
	}
}

func streamerFor(c cue) beep.Streamer {
	switch c {
	case cueShot:
		return tone(880, 50*time.Millisecond, 0.25)
	case cueHit:
		return tone(110, 250*time.Millisecond, 0.5)
	case cueExplosion:
		return volume(beep.Take(sampleRate.N(180*time.Millisecond), noise()), 0.3)
	}
	return nil
}

func tone(freq float64, d time.Duration, vol float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return volume(beep.Take(sampleRate.N(d), sine), vol)
}

func noise() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rand.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	})
}

func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
