package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Registration is a hosted session as published to the signaling registry.
type Registration struct {
	SessionID string `json:"sessionId"`
	Address   string `json:"address"`
	HostName  string `json:"hostName"`
	Players   int    `json:"players"`
}

// Registrar publishes hosted sessions.
type Registrar interface {
	Register(ctx context.Context, reg Registration) error
	Heartbeat(ctx context.Context, sessionID string, players int) error
	Unregister(ctx context.Context, sessionID string) error
}

// Resolver maps a session id to the address its host listens on.
type Resolver interface {
	Resolve(ctx context.Context, sessionID string) (string, error)
}

// StaticResolver resolves from a fixed table. The "*" entry, if present,
// answers for any session id not listed.
type StaticResolver map[string]string

func (r StaticResolver) Resolve(_ context.Context, sessionID string) (string, error) {
	if addr, ok := r[sessionID]; ok {
		return addr, nil
	}
	if addr, ok := r["*"]; ok {
		return addr, nil
	}
	return "", fmt.Errorf("resolve %s: %w", sessionID, ErrSessionNotFound)
}

// SignalClient talks to the signaling registry over HTTP. It is both a
// Registrar for hosts and a Resolver for guests.
type SignalClient struct {
	baseURL string
	http    *http.Client
}

func NewSignalClient(baseURL string) *SignalClient {
	return &SignalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type heartbeatRequest struct {
	Players int `json:"players"`
}

func (c *SignalClient) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/sessions", reg, nil)
}

func (c *SignalClient) Heartbeat(ctx context.Context, sessionID string, players int) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/heartbeat",
		heartbeatRequest{Players: players}, nil)
}

func (c *SignalClient) Unregister(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(sessionID), nil, nil)
}

func (c *SignalClient) Resolve(ctx context.Context, sessionID string) (string, error) {
	var reg Registration
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID), nil, &reg); err != nil {
		return "", err
	}
	if reg.Address == "" {
		return "", fmt.Errorf("resolve %s: empty address", sessionID)
	}
	return reg.Address, nil
}

// List returns every live session on the registry.
func (c *SignalClient) List(ctx context.Context) ([]Registration, error) {
	var regs []Registration
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *SignalClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("signal: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("signal: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("signal: %s %s: %w", method, path, ErrSessionNotFound)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("signal: %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("signal: decode response: %w", err)
		}
	}
	return nil
}
