package scenes

import (
	"fmt"
	"image/color"
	"time"

	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/components"
	"github.com/automoto/peerfire/fonts"
	"github.com/automoto/peerfire/input"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

func lineHeight() int { return int(cfg.UI.HUDFontSize) + 6 }

// drawBar draws a background bar filled to frac.
func drawBar(screen *ebiten.Image, x, y, w, h float32, frac float64, bg, fg color.Color) {
	vector.FillRect(screen, x, y, w, h, bg, false)
	vector.FillRect(screen, x, y, w*float32(min(max(frac, 0), 1)), h, fg, false)
}

func (as *ArenaScene) drawHUD(_ *ecs.ECS, screen *ebiten.Image) {
	g := as.env.Game
	face := fonts.HUD.Get()
	m := int(cfg.UI.Margin)
	lh := lineHeight()

	if g.State() == netconfig.GameStateLoading {
		vector.FillRect(screen, 0, 0, float32(cfg.C.Width), float32(cfg.C.Height), cfg.BlackOverlay, false)
		msg := fmt.Sprintf("Connecting to %s...", g.SessionID())
		title := fonts.Bold.Get()
		text.Draw(screen, msg, title, (cfg.C.Width-fonts.Width(title, msg))/2, cfg.C.Height/2, cfg.White)
		return
	}

	role := "guest"
	if g.IsHost() {
		role = "host"
	}
	y := m + lh
	text.Draw(screen, fmt.Sprintf("%s  %s", g.SessionID(), role), fonts.Small.Get(), m, y, cfg.Gray)

	if left, timed := g.Context().Match().Remaining(); timed {
		clock := formatClock(left)
		bold := fonts.Bold.Get()
		text.Draw(screen, clock, bold, (cfg.C.Width-fonts.Width(bold, clock))/2, m+lh, cfg.White)
	}

	local, ok := g.Context().LocalPlayer()
	if !ok {
		return
	}
	p := components.Player.Get(local)
	h := components.Health.Get(local)

	y = cfg.C.Height - m - 4*lh
	text.Draw(screen, fmt.Sprintf("HP %d", h.Current), face, m, y, cfg.White)
	drawBar(screen, float32(m), float32(y+6), float32(cfg.UI.HealthBarW), float32(cfg.UI.HealthBarH),
		float64(h.Current)/float64(max(h.Max, 1)), cfg.DarkGray, cfg.Green)

	inv := components.Inventory.Get(local)
	if w := inv.Current(); w != nil {
		y += 2 * lh
		ammo := fmt.Sprintf("%s  %d / %d", w.Profile().Name, w.Magazine(), w.Reserve())
		text.Draw(screen, ammo, face, m, y, cfg.Yellow)
		if frac, reloading := systems.ReloadProgress(g.Context(), p.ID); reloading {
			y += lh / 2
			drawBar(screen, float32(m), float32(y), float32(cfg.UI.HealthBarW), 4, frac, cfg.DarkGray, cfg.Yellow)
		}
	}

	if p.Dead {
		bold := fonts.Bold.Get()
		msg := "You were eliminated"
		cx := cfg.C.Width / 2
		text.Draw(screen, msg, bold, cx-fonts.Width(bold, msg)/2, cfg.C.Height/2-lh, cfg.LightRed)
		if frac, pending := systems.RespawnProgress(g.Context(), p.ID); pending {
			w := float32(cfg.UI.HealthBarW)
			drawBar(screen, float32(cx)-w/2, float32(cfg.C.Height/2), w, 6, frac, cfg.DarkGray, cfg.White)
		}
	}
}

func formatClock(d time.Duration) string {
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func (as *ArenaScene) drawFeed(_ *ecs.ECS, screen *ebiten.Image) {
	face := fonts.Small.Get()
	m := int(cfg.UI.Margin)
	y := m + lineHeight()
	for _, n := range as.env.Game.Context().Feed().Notices {
		x := cfg.C.Width - m - fonts.Width(face, n.Text)
		text.Draw(screen, n.Text, face, x, y, cfg.White)
		y += lineHeight() - 4
	}
}

// drawScoreboard lists players in the corner, or as a full table while the
// scores key is held.
func (as *ArenaScene) drawScoreboard(_ *ecs.ECS, screen *ebiten.Image) {
	g := as.env.Game
	if g.State() != netconfig.GameStatePlaying {
		return
	}
	board := g.Scoreboard()
	m := int(cfg.UI.Margin)
	lh := lineHeight()

	if !as.input.Action(input.ActionScores).Pressed {
		face := fonts.Small.Get()
		y := cfg.C.Height - m - (len(board)-1)*(lh-4)
		for _, p := range board {
			line := fmt.Sprintf("%s %d", p.Name, p.Kills)
			clr := color.Color(cfg.White)
			if p.Local {
				line = "> " + line
				clr = cfg.LightBlue
			}
			text.Draw(screen, line, face, cfg.C.Width-m-fonts.Width(face, line), y, clr)
			y += lh - 4
		}
		return
	}

	w, h := 420, (len(board)+2)*lh+m
	x0, y0 := (cfg.C.Width-w)/2, (cfg.C.Height-h)/2
	vector.FillRect(screen, float32(x0), float32(y0), float32(w), float32(h), cfg.BlackOverlay, false)

	face := fonts.HUD.Get()
	y := y0 + lh
	text.Draw(screen, "PLAYER", face, x0+m, y, cfg.Gray)
	text.Draw(screen, "K", face, x0+w-140, y, cfg.Gray)
	text.Draw(screen, "D", face, x0+w-90, y, cfg.Gray)
	text.Draw(screen, "HP", face, x0+w-45, y, cfg.Gray)
	for _, p := range board {
		y += lh
		clr := color.Color(cfg.White)
		if p.Local {
			clr = cfg.LightBlue
		}
		text.Draw(screen, p.Name, face, x0+m, y, clr)
		text.Draw(screen, fmt.Sprint(p.Kills), face, x0+w-140, y, clr)
		text.Draw(screen, fmt.Sprint(p.Deaths), face, x0+w-90, y, clr)
		text.Draw(screen, fmt.Sprint(p.Health), face, x0+w-45, y, clr)
	}
}

func (as *ArenaScene) drawChat(_ *ecs.ECS, screen *ebiten.Image) {
	if !as.chatOpen {
		return
	}
	m := int(cfg.UI.Margin)
	lh := lineHeight()
	y := cfg.C.Height - m - 6*lh
	vector.FillRect(screen, float32(m), float32(y-lh+4), float32(cfg.C.Width/2), float32(lh), cfg.BlackOverlay, false)
	text.Draw(screen, "say: "+string(as.chat)+"_", fonts.HUD.Get(), m+4, y, cfg.White)
}
