package components

import (
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/yohamta/donburi"
)

// InterpData smooths the drawn position of a remote player between two
// snapshots. Game logic keeps using Transform; the renderer draws Display.
type InterpData struct {
	Prev, Target gamemath.Vec3
	Display      gamemath.Vec3
	T            float64
	Initialized  bool
}

var Interp = donburi.NewComponentType[InterpData]()

// Retarget starts a new segment from the drawn position towards pos. The
// first call, and any call with snap set, jumps straight there.
func (d *InterpData) Retarget(pos gamemath.Vec3, snap bool) {
	if !d.Initialized || snap {
		d.Prev, d.Target, d.Display = pos, pos, pos
		d.T = 1
		d.Initialized = true
		return
	}
	d.Prev = d.Display
	d.Target = pos
	d.T = 0
}

// Advance moves the drawn position along the segment; a segment lasts period
// seconds.
func (d *InterpData) Advance(dt, period float64) {
	if d.T < 1 {
		if period <= 0 {
			d.T = 1
		} else {
			d.T = min(1, d.T+dt/period)
		}
	}
	d.Display = d.Prev.Add(d.Target.Sub(d.Prev).Scale(d.T))
}
