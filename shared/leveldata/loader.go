package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Object group names read from arena maps.
const (
	GroupWalls  = "Walls"
	GroupSpawns = "PlayerSpawn"
)

// LoadCollisionData parses a TMX file and returns its walls and player spawn
// points. It takes an fs.FS so callers can pass embed.FS (client) or
// os.DirFS (host).
func LoadCollisionData(fsys fs.FS, tmxPath string) (*CollisionData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &CollisionData{
		Name:       strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		MapWidth:   levelMap.Width * levelMap.TileWidth,
		MapHeight:  levelMap.Height * levelMap.TileHeight,
		WallHeight: 4,
	}
	if levelMap.Properties != nil {
		if h := levelMap.Properties.GetFloat("wallHeight"); h > 0 {
			data.WallHeight = h
		}
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case GroupWalls:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				height := data.WallHeight
				if h := o.Properties.GetFloat("height"); h > 0 {
					height = h
				}
				data.SolidRects = append(data.SolidRects, SolidRect{
					X:      o.X,
					Y:      o.Y,
					W:      o.Width,
					H:      o.Height,
					Height: height,
					Kind:   o.Class,
				})
			}
		case GroupSpawns:
			for _, o := range og.Objects {
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:      o.X,
					Y:      o.Y,
					Region: o.Properties.GetString("region"),
				})
			}
		}
	}

	if len(data.SpawnPoints) == 0 {
		return nil, fmt.Errorf("TMX %s has no %s objects", tmxPath, GroupSpawns)
	}

	// Stable order so every peer indexes spawns the same way
	sort.Slice(data.SpawnPoints, func(i, j int) bool {
		a, b := data.SpawnPoints[i], data.SpawnPoints[j]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	return data, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads collision
// data for each, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*CollisionData, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*CollisionData, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		data, err := LoadCollisionData(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		levels[data.Name] = data
		names = append(names, data.Name)
	}

	sort.Strings(names)
	return levels, names, nil
}
