package components

import (
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/yohamta/donburi"
)

// Tracer is a short-lived shot trail.
type Tracer struct {
	From, To gamemath.Vec3
	Hit      bool // ended on a player
	Impact   bool // ended on a wall
	TTL      float64
	Life     float64
}

// EffectsData is a singleton holding visual effects the renderer fades out.
type EffectsData struct {
	Tracers []Tracer
}

var Effects = donburi.NewComponentType[EffectsData]()

// Decay ages every effect by dt seconds and drops expired ones.
func (e *EffectsData) Decay(dt float64) {
	kept := e.Tracers[:0]
	for _, t := range e.Tracers {
		t.TTL -= dt
		if t.TTL > 0 {
			kept = append(kept, t)
		}
	}
	e.Tracers = kept
}
