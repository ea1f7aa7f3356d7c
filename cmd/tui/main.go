package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/scene"
)

// engine is the game.Engine of the terminal client.
type engine struct {
	interval time.Duration
}

func (e *engine) SetTargetFPS(fps int) {
	if fps <= 0 {
		fps = game.TargetFPS
	}
	e.interval = time.Second / time.Duration(fps)
}

type client struct {
	screen   tcell.Screen
	view     viewport
	recorder *scene.Recorder
	driver   *game.Driver
	engine   *engine
	sound    *clicker
	pressed  bool
	shots    int
}

func main() {
	// The screen owns the terminal; log to a file or nowhere.
	if path := os.Getenv("TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	sound, err := newClicker()
	if err != nil {
		log.Printf("[AUDIO] Audio initialization failed, running silent: %v", err)
	}

	c := newClient(screen, sound)
	defer c.driver.Deinit()
	c.run()
}

func newClient(screen tcell.Screen, sound *clicker) *client {
	c := &client{
		screen:   screen,
		recorder: scene.NewRecorder(),
		engine:   &engine{},
		sound:    sound,
	}
	c.driver = game.NewDriver(c.engine, c.recorder)
	c.driver.Init()
	c.view = newViewport(screen.Size())
	return c
}

func (c *client) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(c.engine.interval)
	defer ticker.Stop()
	dt := c.engine.interval.Seconds()

	c.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !c.handle(ev) {
				return
			}
		case <-ticker.C:
			c.tick(dt)
		}
	}
}

// handle applies one terminal event. It returns false to quit.
func (c *client) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Rune() == 'q':
			return false
		case ev.Rune() == 'r':
			c.driver.Deinit()
			c.driver.Init()
			log.Printf("[TABLE] Reracked by player")
		}

	case *tcell.EventResize:
		c.screen.Sync()
		c.view = newViewport(c.screen.Size())
		c.draw()

	case *tcell.EventMouse:
		col, row := ev.Position()
		down := ev.Buttons()&tcell.Button1 != 0
		if down == c.pressed || !c.view.valid() {
			return true
		}
		c.pressed = down
		x, y := c.view.toTable(col, row)
		if down {
			c.driver.MouseButtonPressed(x, y)
		} else {
			c.driver.MouseButtonReleased(x, y)
		}
	}
	return true
}

func (c *client) tick(dt float64) {
	c.driver.Update(dt)

	events := c.driver.Game().DrainEvents()
	for _, e := range events {
		if e.Type == game.EventShot {
			c.shots++
			log.Printf("[TABLE] Shot %d: charge=%.2f speed=%.2f", c.shots, e.Charge, e.Speed)
		}
	}
	c.sound.play(events)

	if c.recorder.Dirty() || len(events) > 0 {
		c.draw()
	}
}

func (c *client) draw() {
	render(c.screen, c.view, c.recorder.Frame(), statusLine(c.driver.Game(), c.shots))
}
