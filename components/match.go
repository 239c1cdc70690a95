package components

import (
	"time"

	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/yohamta/donburi"
)

// MatchData stores the current match state.
// This is a singleton component - only one match exists at a time.
type MatchData struct {
	State    netconfig.GameState
	Clock    float64       // game time in seconds, advanced while playing
	Elapsed  time.Duration // time spent in the current match
	Duration time.Duration // 0 means no limit
}

var Match = donburi.NewComponentType[MatchData]()

// Remaining returns the time left in a timed match.
func (m *MatchData) Remaining() (time.Duration, bool) {
	if m.Duration <= 0 {
		return 0, false
	}
	return max(m.Duration-m.Elapsed, 0), true
}
