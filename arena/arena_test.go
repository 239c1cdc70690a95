package arena

import (
	"math/rand"
	"testing"

	"github.com/automoto/peerfire/assets"
	"github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadArena(t *testing.T) *Arena {
	t.Helper()
	a, err := Load(assets.Levels(), config.Arena.LevelPath)
	require.NoError(t, err)
	return a
}

func TestLoad(t *testing.T) {
	a := loadArena(t)

	assert.Equal(t, 50.0, a.Size())
	assert.Len(t, a.Colliders(), 22)
	assert.Len(t, a.SpawnPoints(), 10)

	for _, sp := range a.SpawnPoints() {
		assert.Equal(t, config.Player.Height/2, sp.Y)
		assert.True(t, sp.X > -25 && sp.X < 25)
		assert.True(t, sp.Z > -25 && sp.Z < 25)
	}

	north := a.Colliders()[0]
	assert.Equal(t, gamemath.Vec3{X: -25, Y: 0, Z: -25}, north.Min)
	assert.Equal(t, gamemath.Vec3{X: 25, Y: 4, Z: -24}, north.Max)
}

func TestRandomSpawnPointDeterministic(t *testing.T) {
	a := loadArena(t)
	p1 := a.RandomSpawnPoint(rand.New(rand.NewSource(3)))
	p2 := a.RandomSpawnPoint(rand.New(rand.NewSource(3)))
	assert.Equal(t, p1, p2)
	assert.Contains(t, a.SpawnPoints(), p1)
}

func TestMoveAndCollide(t *testing.T) {
	a := loadArena(t)

	t.Run("open floor", func(t *testing.T) {
		pos, bx, bz := a.MoveAndCollide(gamemath.Vec3{X: -15, Y: 0.9, Z: -15}, 1, 0.5)
		assert.False(t, bx)
		assert.False(t, bz)
		assert.InDelta(t, -14, pos.X, 1e-9)
		assert.InDelta(t, -14.5, pos.Z, 1e-9)
		assert.Equal(t, 0.9, pos.Y)
	})

	t.Run("outer wall", func(t *testing.T) {
		pos, bx, _ := a.MoveAndCollide(gamemath.Vec3{X: -23, Z: 0}, -5, 0)
		assert.True(t, bx)
		assert.InDelta(t, -23.5, pos.X, 1e-9)
	})

	t.Run("crate", func(t *testing.T) {
		pos, bx, _ := a.MoveAndCollide(gamemath.Vec3{X: -13, Z: -10}, 5, 0)
		assert.True(t, bx)
		assert.InDelta(t, -11.5, pos.X, 1e-9)
	})
}

func TestClampToBounds(t *testing.T) {
	a := loadArena(t)

	pos, cx, cz := a.ClampToBounds(gamemath.Vec3{X: 30, Y: 1, Z: -40})
	assert.True(t, cx)
	assert.True(t, cz)
	assert.Equal(t, gamemath.Vec3{X: 25, Y: 1, Z: -25}, pos)

	pos, cx, cz = a.ClampToBounds(gamemath.Vec3{X: 3})
	assert.False(t, cx)
	assert.False(t, cz)
	assert.Equal(t, gamemath.Vec3{X: 3}, pos)
}
