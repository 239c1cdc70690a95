// Package leveldata provides TMX arena parsing shared between client and host.
// It has no dependencies on ebitengine, donburi, or resolv, pure data only.
package leveldata

// CollisionData holds all collision-relevant data parsed from a TMX level file.
// Coordinates are TMX pixels with the origin at the map's top-left corner.
type CollisionData struct {
	Name        string
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
	WallHeight  float64 // world units, default height of solids
}

// SolidRect represents a solid block in the arena's ground plane.
type SolidRect struct {
	X, Y, W, H float64
	Height     float64 // world units above the floor
	Kind       string  // object class: "wall", "crate"
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y   float64
	Region string // spawn region name, e.g. "north-west"
}
