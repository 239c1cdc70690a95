package components

import (
	"testing"

	"github.com/automoto/peerfire/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pistol() *WeaponData { return NewWeapon(config.Weapons[config.WeaponPistol]) }

func TestFireRateGate(t *testing.T) {
	w := pistol()

	first := w.Fire(10)
	require.True(t, first.Fired)
	assert.Equal(t, 1, first.Pellets)
	assert.Equal(t, 11, w.Magazine())

	assert.False(t, w.Fire(10.1).Fired)
	assert.Equal(t, 11, w.Magazine())

	assert.True(t, w.Fire(10.35).Fired)
	assert.Equal(t, 10, w.Magazine())
}

func TestFirstShotNotGated(t *testing.T) {
	w := pistol()
	assert.True(t, w.Fire(0).Fired)
}

func TestFireEmptyMagazine(t *testing.T) {
	w := pistol()
	now := 0.0
	for i := 0; i < 12; i++ {
		require.True(t, w.Fire(now).Fired)
		now += 1
	}
	assert.False(t, w.Fire(now).Fired)
	assert.Zero(t, w.Magazine())
	assert.Equal(t, 36, w.Reserve())
}

func TestShotgunPellets(t *testing.T) {
	w := NewWeapon(config.Weapons[config.WeaponShotgun])
	res := w.Fire(0)
	require.True(t, res.Fired)
	assert.Equal(t, 8, res.Pellets)
}

func TestReload(t *testing.T) {
	w := pistol()
	assert.False(t, w.Reload(), "full magazine")

	now := 0.0
	for i := 0; i < 5; i++ {
		w.Fire(now)
		now += 1
	}
	require.True(t, w.Reload())
	assert.Equal(t, 12, w.Magazine())
	assert.Equal(t, 31, w.Reserve())
}

func TestReloadPartialReserve(t *testing.T) {
	w := NewWeapon(config.WeaponConfig{MagazineSize: 10, TotalAmmo: 3, Pellets: 1})
	now := 0.0
	for i := 0; i < 10; i++ {
		w.Fire(now)
		now += 1
	}
	require.True(t, w.Reload())
	assert.Equal(t, 3, w.Magazine())
	assert.Zero(t, w.Reserve())
	assert.False(t, w.CanReload())
	assert.False(t, w.Reload())
}

func TestRefill(t *testing.T) {
	w := pistol()
	w.Fire(0)
	w.Reload()
	w.Refill()
	assert.Equal(t, 12, w.Magazine())
	assert.Equal(t, 36, w.Reserve())
}

func TestAmmoInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		profile := config.Weapons[rapid.IntRange(0, len(config.Weapons)-1).Draw(t, "weapon")]
		w := NewWeapon(profile)
		total := w.Magazine() + w.Reserve()
		now := 0.0

		ops := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(t, "ops")
		for _, op := range ops {
			now += rapid.Float64Range(0, 1).Draw(t, "dt")
			before := w.Magazine() + w.Reserve()
			switch op {
			case 0:
				if w.Fire(now).Fired {
					total--
				}
			case 1:
				w.Reload()
				if w.Magazine()+w.Reserve() != before {
					t.Fatalf("reload changed total ammo: %d -> %d", before, w.Magazine()+w.Reserve())
				}
			case 2:
				w.Refill()
				total = profile.MagazineSize + profile.TotalAmmo
			}

			if w.Magazine() < 0 || w.Magazine() > profile.MagazineSize {
				t.Fatalf("magazine %d out of [0, %d]", w.Magazine(), profile.MagazineSize)
			}
			if w.Reserve() < 0 || w.Reserve() > profile.TotalAmmo {
				t.Fatalf("reserve %d out of [0, %d]", w.Reserve(), profile.TotalAmmo)
			}
			if w.Magazine()+w.Reserve() != total {
				t.Fatalf("ammo total %d, want %d", w.Magazine()+w.Reserve(), total)
			}
		}
	})
}

func TestInventory(t *testing.T) {
	inv := NewInventory(config.Weapons)
	assert.Len(t, inv.Weapons, 3)
	assert.Equal(t, 0, inv.Active)
	assert.Equal(t, "Pistol", inv.Current().Profile().Name)

	empty := NewInventory(nil)
	assert.Equal(t, -1, empty.Active)
	assert.Nil(t, empty.Current())
}

func TestFeed(t *testing.T) {
	var f FeedData
	for _, s := range []string{"a", "b", "c"} {
		f.Push(s, 1, 2)
	}
	require.Len(t, f.Notices, 2)
	assert.Equal(t, "b", f.Notices[0].Text)

	f.Notices[0].TTL = 0.2
	f.Decay(0.5)
	require.Len(t, f.Notices, 1)
	assert.Equal(t, "c", f.Notices[0].Text)
}
