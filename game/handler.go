package game

import (
	"errors"
	"log"

	"github.com/automoto/peerfire/components"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/shared/messages"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/systems"
)

var _ network.Handler = (*Game)(nil)

func (g *Game) HandleHostConfirm(_ string, m messages.HostConfirm) {
	log.Printf("[game] host confirmed session %s", m.SessionID)
}

func (g *Game) HandleGameState(_ string, m messages.GameState) {
	for id, snap := range m.Players {
		if id == g.localID || snap.ID != id {
			continue
		}
		systems.UpsertPlayer(g.ctx, snap)
	}
}

func (g *Game) HandlePlayerJoin(_ string, m messages.PlayerJoin) {
	if m.Player.ID == "" || m.Player.ID == g.localID {
		return
	}
	if _, created := systems.UpsertPlayer(g.ctx, m.Player); created {
		g.ctx.Notify("%s joined", m.Player.Name)
	}
}

func (g *Game) HandlePlayerUpdate(_ string, m messages.PlayerUpdate) {
	if m.Player.ID == g.localID {
		return
	}
	e, ok := g.ctx.Player(m.Player.ID)
	if !ok {
		return
	}
	systems.ApplySnapshot(g.ctx, e, m.Player)
}

func (g *Game) HandlePlayerDisconnected(_ string, m messages.PlayerDisconnected) {
	if m.PlayerID != g.localID {
		g.removePlayer(m.PlayerID)
	}
}

func (g *Game) removePlayer(id string) {
	e, ok := g.ctx.Player(id)
	if !ok {
		return
	}
	name := components.Player.Get(e).Name
	g.ctx.RemovePlayer(id)
	g.ctx.Notify("%s left", name)
}

// HandleHit applies a hit reported by a peer. A guest takes the host's word.
// The host treats a guest's report as a suggestion: it is dropped when the
// shooter is not the player on that channel or the target is unknown or
// already dead, otherwise applied and passed on to everyone but the shooter.
func (g *Game) HandleHit(from string, m messages.Hit) {
	if !g.session.IsHost() {
		systems.ApplyHit(g.ctx, m)
		return
	}

	if owner, ok := g.session.PlayerFor(from); !ok || owner != m.AttackerID {
		log.Printf("[host] dropped hit from %s claiming shooter %s", from, m.AttackerID)
		return
	}
	target, ok := g.ctx.Player(m.TargetID)
	if !ok || m.Damage <= 0 || components.Player.Get(target).Dead {
		return
	}
	m.Killed = systems.TakeDamage(g.ctx, target, m.Damage, m.AttackerID)
	g.broadcast(m, from)
}

func (g *Game) HandleChatMessage(_ string, m messages.ChatMessage) {
	g.ctx.Notify("%s: %s", m.PlayerName, m.Message)
}

func (g *Game) GameState() messages.GameState {
	players := make(map[string]messages.Snapshot, g.ctx.PlayerCount())
	for _, e := range g.ctx.Players() {
		s := systems.Serialize(e)
		players[s.ID] = s
	}
	return messages.GameState{Players: players}
}

func (g *Game) LocalSnapshot() (messages.Snapshot, bool) {
	local, ok := g.ctx.LocalPlayer()
	if !ok {
		return messages.Snapshot{}, false
	}
	return systems.Serialize(local), true
}

func (g *Game) Joined(sessionID string) {
	g.setState(netconfig.GameStatePlaying)
	g.ctx.Notify("Joined session %s", sessionID)
}

func (g *Game) PeerLeft(playerID string) {
	g.removePlayer(playerID)
}

func (g *Game) SessionFailed(err error) {
	if errors.Is(err, network.ErrHostLost) {
		log.Printf("[game] host left, back to menu")
	}
	g.fail(err)
}
