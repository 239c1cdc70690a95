package scenes

import (
	"testing"
	"time"

	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/stretchr/testify/assert"
)

func TestViewMapsArenaOntoScreen(t *testing.T) {
	v := newView(50, 960, 720)

	x, y := v.toScreen(gamemath.Vec3{})
	assert.Equal(t, float32(480), x)
	assert.Equal(t, float32(360), y)

	// The arena fills 92% of the short side.
	assert.InDelta(t, 720*0.92, float64(v.length(50)), 1e-3)

	x, y = v.toScreen(gamemath.Vec3{X: 25, Y: 3, Z: -25})
	assert.Greater(t, x, float32(480))
	assert.Less(t, y, float32(360))

	p := v.toWorld(int(x), int(y))
	assert.InDelta(t, 25, p.X, 0.1)
	assert.InDelta(t, -25, p.Z, 0.1)
	assert.Zero(t, p.Y)
}

func TestFormatClock(t *testing.T) {
	for _, tc := range []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{2*time.Minute + 5*time.Second, "2:05"},
	} {
		assert.Equal(t, tc.want, formatClock(tc.in))
	}
}
