package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry implements the registry HTTP API in memory.
type fakeRegistry struct {
	mu       sync.Mutex
	sessions map[string]Registration
	beats    int
}

func newFakeRegistry() (*fakeRegistry, *httptest.Server) {
	f := &fakeRegistry{sessions: make(map[string]Registration)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		var reg Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.sessions[reg.SessionID] = reg
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /sessions/{id}/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reg, ok := f.sessions[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var req heartbeatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		reg.Players = req.Players
		f.sessions[reg.SessionID] = reg
		f.beats++
	})
	mux.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.sessions, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		reg, ok := f.sessions[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(reg)
	})
	mux.HandleFunc("GET /sessions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		list := make([]Registration, 0, len(f.sessions))
		for _, reg := range f.sessions {
			list = append(list, reg)
		}
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(list)
	})
	return f, httptest.NewServer(mux)
}

func (f *fakeRegistry) get(id string) (Registration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.sessions[id]
	return reg, ok
}

func TestSignalClient(t *testing.T) {
	_, srv := newFakeRegistry()
	defer srv.Close()
	ctx := context.Background()
	c := NewSignalClient(srv.URL + "/")

	_, err := c.Resolve(ctx, "abc12345")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, c.Heartbeat(ctx, "abc12345", 2), ErrSessionNotFound)

	reg := Registration{SessionID: "abc12345", Address: "ws://10.0.0.2:7373", HostName: "Alice", Players: 1}
	require.NoError(t, c.Register(ctx, reg))

	addr, err := c.Resolve(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, reg.Address, addr)

	require.NoError(t, c.Heartbeat(ctx, "abc12345", 3))
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Players)

	require.NoError(t, c.Unregister(ctx, "abc12345"))
	_, err = c.Resolve(ctx, "abc12345")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStaticResolver(t *testing.T) {
	ctx := context.Background()
	r := StaticResolver{"abc": "ws://a"}
	addr, err := r.Resolve(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ws://a", addr)

	_, err = r.Resolve(ctx, "xyz")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	r["*"] = "ws://fallback"
	addr, err = r.Resolve(ctx, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "ws://fallback", addr)
}

func TestHostRegistersSession(t *testing.T) {
	registry, srv := newFakeRegistry()
	defer srv.Close()

	h := newPeer(NewMemoryNetwork(), "host", Options{
		Registrar: NewSignalClient(srv.URL),
		HostName:  "Alice",
		Heartbeat: 20 * time.Millisecond,
	})
	id, err := h.s.Host(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		reg, ok := registry.get(id)
		return ok && reg.Address == "memory://"+id && reg.HostName == "Alice" && reg.Players == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		registry.mu.Lock()
		defer registry.mu.Unlock()
		return registry.beats > 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.s.Close())
	require.Eventually(t, func() bool {
		_, ok := registry.get(id)
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}
