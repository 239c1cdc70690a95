package tags

import "github.com/yohamta/donburi"

var (
	Player       = donburi.NewTag().SetName("Player")
	LocalPlayer  = donburi.NewTag().SetName("LocalPlayer")
	RemotePlayer = donburi.NewTag().SetName("RemotePlayer")
)
