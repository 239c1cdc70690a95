package scenes

import (
	"image/color"

	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/components"
	"github.com/automoto/peerfire/fonts"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

var (
	wallColor  = color.RGBA{R: 110, G: 110, B: 120, A: 255}
	crateColor = color.RGBA{R: 140, G: 100, B: 50, A: 255}
)

func (as *ArenaScene) drawArena(_ *ecs.ECS, screen *ebiten.Image) {
	half := as.env.Arena.Size() / 2
	x, y := as.view.toScreen(gamemath.Vec3{X: -half, Z: -half})
	side := as.view.length(as.env.Arena.Size())
	vector.FillRect(screen, x, y, side, side, cfg.Floor, false)

	for _, w := range as.env.Arena.Walls() {
		clr := wallColor
		if w.Kind == "crate" {
			clr = crateColor
		}
		x0, y0 := as.view.toScreen(w.Box.Min)
		x1, y1 := as.view.toScreen(w.Box.Max)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
	}
}

func (as *ArenaScene) drawPlayers(_ *ecs.ECS, screen *ebiten.Image) {
	c := as.env.Game.Context()
	radius := as.view.length(cfg.Player.Radius)
	small := fonts.Small.Get()

	for _, e := range c.Players() {
		p := components.Player.Get(e)
		tr := components.Transform.Get(e)

		pos := tr.Position
		if e.HasComponent(components.Interp) {
			if ip := components.Interp.Get(e); ip.Initialized {
				pos = ip.Display
			}
		}
		x, y := as.view.toScreen(pos)

		if p.Dead {
			vector.StrokeCircle(screen, x, y, radius, 1, cfg.Gray, true)
			continue
		}

		body := cfg.LightRed
		if p.Local {
			body = cfg.LightBlue
		}
		vector.DrawFilledCircle(screen, x, y, radius, body, true)

		facing := gamemath.Forward(gamemath.Vec3{Y: tr.Rotation.Y})
		fx, fy := as.view.toScreen(pos.Add(facing.Scale(cfg.Player.Radius * 2)))
		vector.StrokeLine(screen, x, y, fx, fy, 2, cfg.White, true)

		if !p.Local {
			h := components.Health.Get(e)
			barW := radius * 3
			frac := float32(h.Current) / float32(max(h.Max, 1))
			vector.FillRect(screen, x-barW/2, y-radius-8, barW, 3, cfg.Red, false)
			vector.FillRect(screen, x-barW/2, y-radius-8, barW*frac, 3, cfg.Green, false)
			tx := int(x) - fonts.Width(small, p.Name)/2
			text.Draw(screen, p.Name, small, tx, int(y-radius)-12, cfg.White)
		}
	}
}

func (as *ArenaScene) drawTracers(_ *ecs.ECS, screen *ebiten.Image) {
	for _, t := range as.env.Game.Context().Effects().Tracers {
		alpha := uint8(255)
		if t.Life > 0 {
			alpha = uint8(255 * gamemath.Clamp(t.TTL/t.Life, 0, 1))
		}
		clr := color.NRGBA{R: 255, G: 230, B: 120, A: alpha}
		if t.Hit {
			clr = color.NRGBA{R: 255, G: 80, B: 80, A: alpha}
		}
		x0, y0 := as.view.toScreen(t.From)
		x1, y1 := as.view.toScreen(t.To)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		if t.Impact {
			vector.DrawFilledCircle(screen, x1, y1, 2, clr, true)
		}
	}
}
