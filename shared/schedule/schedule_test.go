package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRunsAfterDelay(t *testing.T) {
	s := New()
	ran := 0
	key := Key{Reload, "p1"}
	s.Schedule(key, 1.2, func() { ran++ })

	s.Update(0.5)
	assert.Zero(t, ran)
	p, ok := s.Progress(key)
	require.True(t, ok)
	assert.InDelta(t, 0.5/1.2, p, 1e-3)

	s.Update(0.5)
	assert.Zero(t, ran)

	s.Update(0.3)
	assert.Equal(t, 1, ran)
	assert.False(t, s.Pending(key))

	s.Update(5)
	assert.Equal(t, 1, ran)
}

func TestScheduleSupersedes(t *testing.T) {
	s := New()
	var got []string
	key := Key{Respawn, "p1"}
	s.Schedule(key, 1, func() { got = append(got, "old") })
	s.Update(0.9)
	s.Schedule(key, 1, func() { got = append(got, "new") })

	s.Update(0.2)
	assert.Empty(t, got)
	s.Update(0.9)
	assert.Equal(t, []string{"new"}, got)
}

func TestCancel(t *testing.T) {
	s := New()
	ran := false
	key := Key{Reload, "p1"}
	s.Schedule(key, 1, func() { ran = true })

	assert.True(t, s.Cancel(key))
	assert.False(t, s.Cancel(key))
	s.Update(2)
	assert.False(t, ran)
}

func TestCancelOwner(t *testing.T) {
	s := New()
	ran := map[Key]bool{}
	keys := []Key{{Reload, "a"}, {Respawn, "a"}, {Reload, "b"}}
	for _, k := range keys {
		s.Schedule(k, 1, func() { ran[k] = true })
	}

	s.CancelOwner("a")
	assert.Equal(t, 1, s.Len())
	s.Update(1)
	assert.Equal(t, map[Key]bool{{Reload, "b"}: true}, ran)
}

func TestUpdateOrderAndCallbackCancellation(t *testing.T) {
	s := New()
	var order []string
	first := Key{Respawn, "a"}
	second := Key{Reload, "a"}
	third := Key{Reload, "b"}

	s.Schedule(first, 1, func() {
		order = append(order, "first")
		s.Cancel(second)
	})
	s.Schedule(second, 1, func() { order = append(order, "second") })
	s.Schedule(third, 1, func() { order = append(order, "third") })

	s.Update(1.5)
	assert.Equal(t, []string{"first", "third"}, order)
	assert.Zero(t, s.Len())
}

func TestCallbackMayReschedule(t *testing.T) {
	s := New()
	count := 0
	key := Key{Reload, "p"}
	var fn func()
	fn = func() {
		count++
		if count < 3 {
			s.Schedule(key, 1, fn)
		}
	}
	s.Schedule(key, 1, fn)

	for i := 0; i < 5; i++ {
		s.Update(1)
	}
	assert.Equal(t, 3, count)
}

func TestClear(t *testing.T) {
	s := New()
	s.Schedule(Key{Reload, "a"}, 1, func() { t.Fatal("cleared task ran") })
	s.Clear()
	s.Update(2)
	assert.Zero(t, s.Len())
}
