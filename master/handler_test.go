package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg, _ := newTestRegistry(t, time.Minute)
	srv := httptest.NewServer(NewMux(reg))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, http.MethodPost, srv.URL+"/sessions",
		`{"sessionId":"abc12345","address":"ws://10.0.0.2:7373","hostName":"Alice","players":1}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = call(t, http.MethodPost, srv.URL+"/sessions",
		`{"sessionId":"abc12345","address":"ws://10.0.0.2:7373","hostName":"Alice","players":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, http.MethodPost, srv.URL+"/sessions/abc12345/heartbeat", `{"players":3}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, http.MethodGet, srv.URL+"/sessions/abc12345", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, SessionInfo{SessionID: "abc12345", Address: "ws://10.0.0.2:7373", HostName: "Alice", Players: 3}, info)

	resp = call(t, http.MethodGet, srv.URL+"/sessions", "")
	var list []SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)

	resp = call(t, http.MethodDelete, srv.URL+"/sessions/abc12345", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, http.MethodGet, srv.URL+"/sessions/abc12345", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = call(t, http.MethodPost, srv.URL+"/sessions/abc12345/heartbeat", `{"players":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing id", `{"address":"ws://a"}`},
		{"missing address", `{"sessionId":"abc"}`},
		{"id too long", `{"sessionId":"` + strings.Repeat("x", maxSessionIDLen+1) + `","address":"ws://a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, http.MethodPost, srv.URL+"/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	body := bytes.Repeat([]byte(" "), maxRequestBody+1)
	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := call(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
