package components

import (
	"github.com/yohamta/donburi"
)

// PlayerData is the identity and scoreboard of one participant.
type PlayerData struct {
	ID     string
	Name   string
	Local  bool // owned by this process
	Dead   bool
	Kills  int
	Deaths int
}

var Player = donburi.NewComponentType[PlayerData]()
