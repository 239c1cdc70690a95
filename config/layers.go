package config

import "github.com/yohamta/donburi/ecs"

// Draw layers, lowest first
const (
	Default ecs.LayerID = iota
	LayerEffects
	LayerHUD
)
