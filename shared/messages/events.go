package messages

import "github.com/automoto/peerfire/shared/gamemath"

// Snapshot is the serialized state of one player.
type Snapshot struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Position      gamemath.Vec3 `json:"position"`
	Rotation      gamemath.Vec3 `json:"rotation"`
	Health        int           `json:"health"`
	IsDead        bool          `json:"isDead"`
	CurrentWeapon int           `json:"currentWeapon"` // -1 when unarmed
	IsReloading   bool          `json:"isReloading"`
	Kills         int           `json:"kills"`
	Deaths        int           `json:"deaths"`
}

// HostConfirm is the first message a host sends on a new channel.
type HostConfirm struct {
	SessionID string `json:"sessionId"`
}

// GameState carries every player the host knows about.
type GameState struct {
	Players map[string]Snapshot `json:"players"`
}

// PlayerUpdate is the periodic replication of one player.
type PlayerUpdate struct {
	Player Snapshot `json:"player"`
}

// PlayerJoin announces a participant.
type PlayerJoin struct {
	Player Snapshot `json:"player"`
}

// PlayerDisconnected removes a participant.
type PlayerDisconnected struct {
	PlayerID string `json:"playerId"`
}

// Hit reports a combat outcome. From the host it is authoritative; from a
// guest it is a suggestion the host arbitrates.
type Hit struct {
	TargetID   string `json:"targetId"`
	Damage     int    `json:"damage"`
	Killed     bool   `json:"killed"`
	AttackerID string `json:"attackerId"`
}

// ChatMessage is free text relayed to everyone.
type ChatMessage struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

func (HostConfirm) Kind() Kind        { return KindHostConfirm }
func (GameState) Kind() Kind          { return KindGameState }
func (PlayerUpdate) Kind() Kind       { return KindPlayerUpdate }
func (PlayerJoin) Kind() Kind         { return KindPlayerJoin }
func (PlayerDisconnected) Kind() Kind { return KindPlayerDisconnected }
func (Hit) Kind() Kind                { return KindHit }
func (ChatMessage) Kind() Kind        { return KindChatMessage }

func (m HostConfirm) Accept(from string, h Handler)        { h.HandleHostConfirm(from, m) }
func (m GameState) Accept(from string, h Handler)          { h.HandleGameState(from, m) }
func (m PlayerUpdate) Accept(from string, h Handler)       { h.HandlePlayerUpdate(from, m) }
func (m PlayerJoin) Accept(from string, h Handler)         { h.HandlePlayerJoin(from, m) }
func (m PlayerDisconnected) Accept(from string, h Handler) { h.HandlePlayerDisconnected(from, m) }
func (m Hit) Accept(from string, h Handler)                { h.HandleHit(from, m) }
func (m ChatMessage) Accept(from string, h Handler)        { h.HandleChatMessage(from, m) }

func (HostConfirm) sealed()        {}
func (GameState) sealed()          {}
func (PlayerUpdate) sealed()       {}
func (PlayerJoin) sealed()         {}
func (PlayerDisconnected) sealed() {}
func (Hit) sealed()                {}
func (ChatMessage) sealed()        {}
