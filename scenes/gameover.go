package scenes

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/automoto/peerfire/components"
	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/fonts"
	"github.com/automoto/peerfire/input"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var resultsOptions = [components.ResultsOptionCount]string{
	components.ResultsPlayAgain: "Play again",
	components.ResultsMainMenu:  "Main menu",
}

// GameOverScene shows the final scores. The session stays up underneath so
// the match can restart without rejoining.
type GameOverScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	env          *Env
	once         sync.Once
	input        input.State
}

func NewGameOverScene(sc SceneChanger, env *Env) *GameOverScene {
	return &GameOverScene{sceneChanger: sc, env: env}
}

func (gs *GameOverScene) Update() {
	gs.once.Do(gs.configure)
	gs.ecs.Update()
}

func (gs *GameOverScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if gs.ecs == nil {
		return
	}
	gs.ecs.Draw(screen)
}

func (gs *GameOverScene) configure() {
	gs.ecs = ecs.NewECS(donburi.NewWorld())
	gs.ecs.World.Create(components.ResultsMenu)

	gs.input.Poll(input.Default)
	gs.input.Latch()

	gs.ecs.AddSystem(gs.updateMenu)
	gs.ecs.AddSystem(gs.tick)
	gs.ecs.AddRenderer(cfg.Default, gs.drawResults)
}

func (gs *GameOverScene) menu() *components.ResultsMenuData {
	return components.ResultsMenu.Get(components.ResultsMenu.MustFirst(gs.ecs.World))
}

func (gs *GameOverScene) updateMenu(_ *ecs.ECS) {
	gs.input.Poll(input.Default)
	menu := gs.menu()

	if gs.input.Action(input.ActionMoveForward).JustPressed {
		menu.Step(-1)
	}
	if gs.input.Action(input.ActionMoveBack).JustPressed {
		menu.Step(1)
	}

	g := gs.env.Game
	if gs.input.Action(input.ActionMenuBack).JustPressed {
		g.ReturnToMenu()
		return
	}
	if gs.input.Action(input.ActionChat).JustPressed || gs.input.Action(input.ActionJump).JustPressed {
		switch menu.Selected {
		case components.ResultsPlayAgain:
			g.Restart()
		case components.ResultsMainMenu:
			g.ReturnToMenu()
		}
	}
}

func (gs *GameOverScene) tick(_ *ecs.ECS) {
	g := gs.env.Game
	g.Tick(tickDelta())

	switch g.State() {
	case netconfig.GameStatePlaying:
		gs.sceneChanger.ChangeScene(NewArenaScene(gs.sceneChanger, gs.env))
	case netconfig.GameStateMenu:
		gs.sceneChanger.ChangeScene(NewMenuScene(gs.sceneChanger, gs.env))
	}
}

func (gs *GameOverScene) drawResults(_ *ecs.ECS, screen *ebiten.Image) {
	width := cfg.C.Width
	lh := lineHeight()

	titleFont := fonts.Title.Get()
	title := "MATCH OVER"
	text.Draw(screen, title, titleFont, (width-fonts.Width(titleFont, title))/2, 100, cfg.LightRed)

	face := fonts.HUD.Get()
	x0 := width/2 - 200
	y := 160
	text.Draw(screen, "PLAYER", face, x0, y, cfg.Gray)
	text.Draw(screen, "KILLS", face, x0+260, y, cfg.Gray)
	text.Draw(screen, "DEATHS", face, x0+330, y, cfg.Gray)
	for i, p := range gs.env.Game.Results() {
		y += lh
		clr := color.Color(cfg.White)
		if p.Local {
			clr = cfg.LightBlue
		}
		text.Draw(screen, fmt.Sprintf("%d. %s", i+1, p.Name), face, x0, y, clr)
		text.Draw(screen, fmt.Sprint(p.Kills), face, x0+260, y, clr)
		text.Draw(screen, fmt.Sprint(p.Deaths), face, x0+330, y, clr)
	}

	menuFont := fonts.Bold.Get()
	selected := gs.menu().Selected
	y += 3 * lh
	for i, option := range resultsOptions {
		textColor := color.Color(cfg.White)
		if components.ResultsOption(i) == selected {
			textColor = cfg.Yellow
		}
		text.Draw(screen, option, menuFont, (width-fonts.Width(menuFont, option))/2, y, textColor)
		y += lh + 8
	}
}
