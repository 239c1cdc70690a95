// Package netconfig defines lightweight types shared between the client, the
// headless host and the wire protocol. It must have zero dependencies on ebiten
// or any graphics library so the dedicated host binary stays headless.
package netconfig

// GameState is the top-level state of a game process.
type GameState int

const (
	GameStateLoading GameState = iota // Connecting to a host
	GameStateMenu                     // No match running
	GameStatePlaying                  // Active gameplay
	GameStateOver                     // Match over, showing results
)

var gameStateNames = map[GameState]string{
	GameStateLoading: "loading",
	GameStateMenu:    "menu",
	GameStatePlaying: "playing",
	GameStateOver:    "gameOver",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Role is the part a process plays in a session.
type Role int

const (
	RoleUnset Role = iota
	RoleHost
	RoleGuest
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	default:
		return "unset"
	}
}

// SessionState tracks the network session lifecycle:
// Disconnected -> Connecting -> Host|Guest -> Disconnected.
type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionConnecting
	SessionHost
	SessionGuest
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "connecting"
	case SessionHost:
		return "host"
	case SessionGuest:
		return "guest"
	default:
		return "disconnected"
	}
}

// Active reports whether the session holds a role.
func (s SessionState) Active() bool {
	return s == SessionHost || s == SessionGuest
}
