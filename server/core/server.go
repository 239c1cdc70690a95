package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/automoto/peerfire/game"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/systems"
)

// Options configure a headless host.
type Options struct {
	Name      string
	Arena     systems.Arena
	Transport network.Transport
	Session   network.Options
	TickRate  int
}

// Status is a point-in-time view of the hosted match.
type Status struct {
	SessionID string            `json:"sessionId"`
	Address   string            `json:"address"`
	State     string            `json:"state"`
	Players   []game.PlayerInfo `json:"players"`
	Peers     int               `json:"peers"`
}

// Server hosts a session without a local player and relays between guests.
// The game is only touched from the loop goroutine; Status is published
// after every tick for other goroutines to read.
type Server struct {
	game   *game.Game
	loop   *GameLoop
	status atomic.Pointer[Status]
}

// NewServer creates a headless host.
func NewServer(opts Options) *Server {
	s := &Server{
		game: game.New(game.Options{
			Name:      opts.Name,
			Arena:     opts.Arena,
			Transport: opts.Transport,
			Session:   opts.Session,
			Headless:  true,
		}),
	}
	s.loop = NewGameLoop(s, opts.TickRate)
	s.publish()
	return s
}

// Start hosts a new session and returns its id. Run must be called next to
// drive it.
func (s *Server) Start(ctx context.Context) (string, error) {
	id, err := s.game.HostGame(ctx)
	if err != nil {
		return "", fmt.Errorf("host: %w", err)
	}
	s.publish()
	log.Printf("[host] session %s open at %s", id, s.game.Session().Addr())
	return id, nil
}

// Run ticks the game until ctx ends, then closes the session.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.game.Close(); err != nil {
			log.Printf("[host] close: %v", err)
		}
		s.publish()
	}()
	return s.loop.Run(ctx)
}

func (s *Server) tick(dt float64) {
	s.game.Tick(dt)
	if s.game.State() == netconfig.GameStateOver {
		log.Printf("[host] match over, restarting")
		s.game.Restart()
	}
	s.publish()
}

func (s *Server) publish() {
	s.status.Store(&Status{
		SessionID: s.game.SessionID(),
		Address:   s.game.Session().Addr(),
		State:     s.game.State().String(),
		Players:   s.game.Scoreboard(),
		Peers:     len(s.game.Session().Peers()),
	})
}

// Status returns the state published by the last tick.
func (s *Server) Status() Status { return *s.status.Load() }

// PlayerCount returns the number of players in the hosted match.
func (s *Server) PlayerCount() int { return len(s.Status().Players) }

// StatusHandler serves Status as JSON.
func (s *Server) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
			log.Printf("[host] status encode error: %v", err)
		}
	})
}
