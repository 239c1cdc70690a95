package components

import (
	"github.com/automoto/peerfire/config"
	"github.com/yohamta/donburi"
)

// FireResult reports the outcome of a trigger pull.
type FireResult struct {
	Fired   bool
	Pellets int // independent hit tests to run
}

// WeaponData is the runtime state of one weapon. The magazine stays within
// [0, MagazineSize] and the reserve within [0, TotalAmmo].
type WeaponData struct {
	profile  config.WeaponConfig
	magazine int
	reserve  int
	lastFire float64
	hasFired bool
}

// NewWeapon returns a fully loaded weapon for profile.
func NewWeapon(profile config.WeaponConfig) *WeaponData {
	return &WeaponData{
		profile:  profile,
		magazine: profile.MagazineSize,
		reserve:  profile.TotalAmmo,
	}
}

func (w *WeaponData) Profile() config.WeaponConfig { return w.profile }
func (w *WeaponData) Magazine() int                { return w.magazine }
func (w *WeaponData) Reserve() int                 { return w.reserve }

// Fire consumes one round if the fire interval has passed since the last shot
// and the magazine is not empty. now is game time in seconds.
func (w *WeaponData) Fire(now float64) FireResult {
	if w.hasFired && now-w.lastFire < w.profile.FireInterval {
		return FireResult{}
	}
	if w.magazine <= 0 {
		return FireResult{}
	}
	w.magazine--
	w.lastFire = now
	w.hasFired = true

	pellets := w.profile.Pellets
	if pellets < 1 {
		pellets = 1
	}
	return FireResult{Fired: true, Pellets: pellets}
}

// CanReload reports whether Reload would move any rounds.
func (w *WeaponData) CanReload() bool {
	return w.magazine < w.profile.MagazineSize && w.reserve > 0
}

// Reload moves rounds from the reserve into the magazine. It returns false
// when the magazine is full or the reserve is empty.
func (w *WeaponData) Reload() bool {
	if !w.CanReload() {
		return false
	}
	n := min(w.profile.MagazineSize-w.magazine, w.reserve)
	w.magazine += n
	w.reserve -= n
	return true
}

// Refill restores the magazine and reserve to their starting values.
func (w *WeaponData) Refill() {
	w.magazine = w.profile.MagazineSize
	w.reserve = w.profile.TotalAmmo
}

// InventoryData is a player's ordered weapon set.
type InventoryData struct {
	Weapons   []*WeaponData
	Active    int // -1 when empty
	Reloading bool
}

// NewInventory returns an inventory holding one of each profile, with the
// first one active.
func NewInventory(profiles []config.WeaponConfig) InventoryData {
	inv := InventoryData{Active: -1}
	for _, p := range profiles {
		inv.Weapons = append(inv.Weapons, NewWeapon(p))
	}
	if len(inv.Weapons) > 0 {
		inv.Active = 0
	}
	return inv
}

// Current returns the active weapon, or nil.
func (inv *InventoryData) Current() *WeaponData {
	if inv.Active < 0 || inv.Active >= len(inv.Weapons) {
		return nil
	}
	return inv.Weapons[inv.Active]
}

var Inventory = donburi.NewComponentType[InventoryData]()
