package scenes

import (
	"image/color"
	"sync"

	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/components"
	"github.com/automoto/peerfire/game"
	"github.com/automoto/peerfire/input"
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ArenaScene plays the match: it turns input into intents, ticks the game
// and draws the arena from above with the HUD on top.
type ArenaScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	env          *Env
	once         sync.Once

	input input.State
	view  view
	yaw   float64

	padAim           bool
	cursorX, cursorY int

	chatOpen bool
	chat     []rune
}

func NewArenaScene(sc SceneChanger, env *Env) *ArenaScene {
	return &ArenaScene{sceneChanger: sc, env: env}
}

func (as *ArenaScene) Update() {
	as.once.Do(as.configure)
	as.ecs.Update()
}

func (as *ArenaScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if as.ecs == nil {
		return
	}
	as.ecs.Draw(screen)
}

func (as *ArenaScene) configure() {
	as.ecs = ecs.NewECS(donburi.NewWorld())
	as.view = newView(as.env.Arena.Size(), cfg.C.Width, cfg.C.Height)

	// Keys still held from the menu must not fire on the first frame.
	as.input.Poll(input.Default)
	as.input.Latch()

	as.ecs.AddSystem(as.updateInput)
	as.ecs.AddSystem(as.tick)
	as.ecs.AddSystem(as.followState)

	as.ecs.AddRenderer(cfg.Default, as.drawArena)
	as.ecs.AddRenderer(cfg.Default, as.drawPlayers)
	as.ecs.AddRenderer(cfg.LayerEffects, as.drawTracers)
	as.ecs.AddRenderer(cfg.LayerHUD, as.drawHUD)
	as.ecs.AddRenderer(cfg.LayerHUD, as.drawFeed)
	as.ecs.AddRenderer(cfg.LayerHUD, as.drawScoreboard)
	as.ecs.AddRenderer(cfg.LayerHUD, as.drawChat)
}

func (as *ArenaScene) updateInput(_ *ecs.ECS) {
	g := as.env.Game
	as.input.Poll(input.Default)

	if as.chatOpen {
		as.updateChat()
		g.SetIntent(game.Intent{Yaw: as.yaw})
		return
	}
	if as.input.Action(input.ActionMenuBack).JustPressed {
		g.ReturnToMenu()
		return
	}
	if g.State() != netconfig.GameStatePlaying {
		return
	}
	if as.input.Action(input.ActionChat).JustPressed {
		as.chatOpen = true
		as.chat = as.chat[:0]
		return
	}

	as.aim()
	g.SetIntent(game.Intent{
		Move: as.moveInput(),
		Jump: as.input.Action(input.ActionJump).Pressed,
		Yaw:  as.yaw,
	})

	if as.input.Action(input.ActionFire).Pressed {
		g.Fire()
	}
	if as.input.Action(input.ActionReload).JustPressed {
		g.Reload()
	}
	for i, action := range []input.ActionID{input.ActionWeapon1, input.ActionWeapon2, input.ActionWeapon3} {
		if as.input.Action(action).JustPressed {
			g.SwitchWeapon(i)
		}
	}
}

// moveInput returns the view-relative move direction: X strafes right and
// negative Z walks forward.
func (as *ArenaScene) moveInput() gamemath.Vec3 {
	var move gamemath.Vec3
	if as.input.Action(input.ActionMoveForward).Pressed {
		move.Z--
	}
	if as.input.Action(input.ActionMoveBack).Pressed {
		move.Z++
	}
	if as.input.Action(input.ActionMoveLeft).Pressed {
		move.X--
	}
	if as.input.Action(input.ActionMoveRight).Pressed {
		move.X++
	}
	move.X += as.input.StickX
	move.Z += as.input.StickY
	return move
}

// aim turns the view with the right stick, or towards the mouse cursor
// once it moves.
func (as *ArenaScene) aim() {
	x, y := ebiten.CursorPosition()
	if x != as.cursorX || y != as.cursorY {
		as.cursorX, as.cursorY = x, y
		as.padAim = false
	}
	if as.input.TurnX != 0 {
		as.padAim = true
	}
	if as.padAim {
		as.yaw -= as.input.TurnX * input.Default.StickTurnRate * tickDelta()
		return
	}

	local, ok := as.env.Game.Context().LocalPlayer()
	if !ok {
		return
	}
	pos := components.Transform.Get(local).Position.Flat()
	cursor := as.view.toWorld(x, y)
	if cursor.Sub(pos).Len() < cfg.Player.Radius {
		return
	}
	as.yaw = gamemath.YawTowards(pos, cursor)
}

func (as *ArenaScene) updateChat() {
	if len(as.chat) < cfg.Match.ChatMaxLength {
		as.chat = ebiten.AppendInputChars(as.chat)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(as.chat) > 0 {
		as.chat = as.chat[:len(as.chat)-1]
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		as.env.Game.SendChat(string(as.chat))
		as.chatOpen = false
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		as.chatOpen = false
	}
}

func (as *ArenaScene) tick(_ *ecs.ECS) {
	as.env.Game.Tick(tickDelta())
}

func (as *ArenaScene) followState(_ *ecs.ECS) {
	switch as.env.Game.State() {
	case netconfig.GameStateMenu:
		as.sceneChanger.ChangeScene(NewMenuScene(as.sceneChanger, as.env))
	case netconfig.GameStateOver:
		as.sceneChanger.ChangeScene(NewGameOverScene(as.sceneChanger, as.env))
	}
}
