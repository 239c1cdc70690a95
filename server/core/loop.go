package core

import (
	"context"
	"log"
	"time"
)

const defaultTickRate = 60

type GameLoop struct {
	server   *Server
	tickRate int
	now      func() time.Time
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		now:      time.Now,
	}
}

// Run ticks the server at the loop's rate until ctx ends. Each tick is
// given the real time elapsed since the previous one.
func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[host] game loop started at %d ticks/second", g.tickRate)

	last := g.now()
	for {
		select {
		case <-ctx.Done():
			log.Println("[host] game loop stopped")
			return nil
		case <-ticker.C:
			now := g.now()
			g.server.tick(now.Sub(last).Seconds())
			last = now
		}
	}
}
