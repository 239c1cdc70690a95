package archetypes

import (
	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Player = newArchetype(
		tags.Player,
		components.Player,
		components.Health,
		components.Inventory,
		components.Transform,
	)
	LocalPlayer = Player.extend(
		tags.LocalPlayer,
		components.Input,
	)
	RemotePlayer = Player.extend(
		tags.RemotePlayer,
		components.Interp,
	)
	Match = newArchetype(
		components.Match,
		components.Feed,
		components.Effects,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) extend(cs ...donburi.IComponentType) *archetype {
	return newArchetype(append(append([]donburi.IComponentType{}, a.components...), cs...)...)
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(append([]donburi.IComponentType{}, a.components...), cs...)...,
	))
	return e
}
