// Package assets embeds the arena maps shipped with the game.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed all:levels
var assetFS embed.FS

// Levels returns the embedded file system rooted above the levels directory,
// so paths look like "levels/arena.tmx".
func Levels() fs.FS {
	return assetFS
}
