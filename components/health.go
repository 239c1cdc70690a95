package components

import "github.com/yohamta/donburi"

// HealthData is clamped to [0, Max]; Current is 0 exactly when the owning
// player is dead.
type HealthData struct {
	Current int
	Max     int
}

var Health = donburi.NewComponentType[HealthData]()
