package main

import (
	"log"
	"sort"
	"sync"
	"time"
)

// SessionInfo describes a hosted game session visible to players.
type SessionInfo struct {
	SessionID string `json:"sessionId"`
	Address   string `json:"address"`
	HostName  string `json:"hostName"`
	Players   int    `json:"players"`
}

type sessionRecord struct {
	SessionInfo
	LastSeen time.Time
}

// Registry is an in-memory store of hosted sessions with TTL-based expiry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRegistry(ttl time.Duration) *Registry {
	return newRegistry(ttl, time.Now)
}

func newRegistry(ttl time.Duration, now func() time.Time) *Registry {
	r := &Registry{
		sessions: make(map[string]*sessionRecord),
		ttl:      ttl,
		now:      now,
		stopCh:   make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Register adds a session or refreshes the one with the same id. It reports
// whether the session is new.
func (r *Registry) Register(info SessionInfo) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.sessions[info.SessionID]
	r.sessions[info.SessionID] = &sessionRecord{
		SessionInfo: info,
		LastSeen:    r.now(),
	}
	return !exists
}

func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok || r.expired(rec) {
		return false
	}
	rec.LastSeen = r.now()
	rec.Players = players
	return true
}

func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Resolve returns a live session by id.
func (r *Registry) Resolve(id string) (SessionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok || r.expired(rec) {
		return SessionInfo{}, false
	}
	return rec.SessionInfo, true
}

// List returns every live session ordered by id.
func (r *Registry) List() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SessionInfo, 0, len(r.sessions))
	for _, rec := range r.sessions {
		if !r.expired(rec) {
			result = append(result, rec.SessionInfo)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SessionID < result[j].SessionID })
	return result
}

// expired must be called with r.mu held.
func (r *Registry) expired(rec *sessionRecord) bool {
	return r.now().Sub(rec.LastSeen) >= r.ttl
}

// sweep drops every expired session and returns how many it dropped.
func (r *Registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	now := r.now()
	for id, rec := range r.sessions {
		if r.expired(rec) {
			log.Printf("[registry] expired session %s of %q (last seen %s ago)",
				id, rec.HostName, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanupLoop() {
	interval := r.ttl / 3
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}
