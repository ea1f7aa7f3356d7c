package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/billiards/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// clicker plays short sine clicks for table events. It is silent when the
// audio device could not be opened.
type clicker struct {
	enabled bool
}

func newClicker() (*clicker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &clicker{}, err
	}
	return &clicker{enabled: true}, nil
}

// toneFor returns the click frequency for an event, or 0 for silent events.
func toneFor(e game.Event) float64 {
	switch e.Type {
	case game.EventBall:
		return 880
	case game.EventBorder:
		return 440
	case game.EventPocket:
		return 220
	case game.EventRack:
		return 110
	}
	return 0
}

// play clicks once per tick, at the lowest tone among the events.
func (c *clicker) play(events []game.Event) {
	if !c.enabled {
		return
	}
	var freq float64
	for _, e := range events {
		if f := toneFor(e); f > 0 && (freq == 0 || f < freq) {
			freq = f
		}
	}
	if freq == 0 {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(40*time.Millisecond), sine))
}
