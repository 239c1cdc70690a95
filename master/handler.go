package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type heartbeatRequest struct {
	Players int `json:"players"`
}

const (
	maxRequestBody  = 1 << 16 // 64 KB
	maxSessionIDLen = 64
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[master] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func validID(id string) bool {
	return id != "" && len(id) <= maxSessionIDLen
}

func ListSessions(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, reg.List())
	}
}

func ResolveSession(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, ok := reg.Resolve(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func RegisterSession(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var info SessionInfo
		if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if !validID(info.SessionID) || info.Address == "" {
			writeError(w, http.StatusBadRequest, "sessionId and address required")
			return
		}

		status := http.StatusOK
		if reg.Register(info) {
			status = http.StatusCreated
			log.Printf("[master] registered session %s of %q at %s", info.SessionID, info.HostName, info.Address)
		}
		writeJSON(w, status, info)
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if !reg.Heartbeat(r.PathValue("id"), req.Players) {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func UnregisterSession(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if reg.Unregister(id) {
			log.Printf("[master] unregistered session %s", id)
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusNoContent)
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NewMux routes the registry API.
func NewMux(reg *Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions", ListSessions(reg))
	mux.HandleFunc("GET /sessions/{id}", ResolveSession(reg))
	mux.HandleFunc("POST /sessions", RegisterSession(reg))
	mux.HandleFunc("POST /sessions/{id}/heartbeat", Heartbeat(reg))
	mux.HandleFunc("DELETE /sessions/{id}", UnregisterSession(reg))
	mux.HandleFunc("GET /health", Health())
	return mux
}
