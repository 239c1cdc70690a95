package leveldata_test

import (
	"testing"
	"testing/fstest"

	"github.com/automoto/peerfire/assets"
	"github.com/automoto/peerfire/shared/leveldata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArena(t *testing.T) {
	data, err := leveldata.LoadCollisionData(assets.Levels(), "levels/arena.tmx")
	require.NoError(t, err)

	assert.Equal(t, "arena", data.Name)
	assert.Equal(t, 800, data.MapWidth)
	assert.Equal(t, 800, data.MapHeight)
	assert.Equal(t, 4.0, data.WallHeight)
	assert.Len(t, data.SolidRects, 22)
	assert.Len(t, data.SpawnPoints, 10)

	crates := 0
	for _, r := range data.SolidRects {
		if r.Kind == "crate" {
			crates++
			assert.Equal(t, 2.0, r.Height)
		} else {
			assert.Equal(t, 4.0, r.Height)
		}
	}
	assert.Equal(t, 8, crates)

	for i := 1; i < len(data.SpawnPoints); i++ {
		assert.LessOrEqual(t, data.SpawnPoints[i-1].X, data.SpawnPoints[i].X)
	}
	assert.NotEmpty(t, data.SpawnPoints[0].Region)
}

func TestLoadWithoutSpawns(t *testing.T) {
	fsys := fstest.MapFS{
		"levels/empty.tmx": {Data: []byte(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="4" height="4" tilewidth="16" tileheight="16" infinite="0">
 <objectgroup id="1" name="Walls">
  <object id="1" x="0" y="0" width="64" height="16"/>
 </objectgroup>
</map>
`)},
	}
	_, err := leveldata.LoadCollisionData(fsys, "levels/empty.tmx")
	assert.Error(t, err)

	_, _, err = leveldata.LoadAllLevels(fsys, "levels")
	assert.Error(t, err)
}

func TestLoadAllLevels(t *testing.T) {
	levels, names, err := leveldata.LoadAllLevels(assets.Levels(), "levels")
	require.NoError(t, err)
	assert.Contains(t, names, "arena")
	assert.NotNil(t, levels["arena"])
}
