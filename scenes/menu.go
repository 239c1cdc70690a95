package scenes

import (
	"context"
	"image/color"
	"log"
	"os"
	"sync"
	"time"

	cfg "github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

type MenuScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	env          *Env
	menuUI       *ui.MenuUI
	once         sync.Once
	next         interface{}

	mu        sync.Mutex
	fetched   []ui.SessionEntry
	fetchErr  error
	fetchDone bool
}

func NewMenuScene(sc SceneChanger, env *Env) *MenuScene {
	return &MenuScene{sceneChanger: sc, env: env}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)
	ms.ecs.Update()

	if ms.next != nil {
		ms.sceneChanger.ChangeScene(ms.next)
	}
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	if ms.ecs == nil {
		return
	}
	ms.ecs.Draw(screen)
}

func (ms *MenuScene) configure() {
	ms.ecs = ecs.NewECS(donburi.NewWorld())

	g := ms.env.Game
	ms.menuUI = ui.NewMenuUI(g.Name(), ms.env.Profile.LastSession, ms.env.Signal != nil)
	ms.menuUI.OnHost = ms.onHost
	ms.menuUI.OnJoin = ms.onJoin
	ms.menuUI.OnRefresh = ms.fetchSessions
	ms.menuUI.OnQuit = func() {
		_ = g.Close()
		os.Exit(0)
	}
	if err := g.LastError(); err != nil {
		ms.menuUI.SetStatus(err.Error())
	}

	ms.ecs.AddSystem(ms.updateUI)
	ms.ecs.AddSystem(ms.applyFetch)
	ms.ecs.AddRenderer(cfg.Default, func(_ *ecs.ECS, screen *ebiten.Image) {
		ms.menuUI.UI.Draw(screen)
	})

	if ms.env.Signal != nil {
		ms.fetchSessions()
	}
}

func (ms *MenuScene) updateUI(_ *ecs.ECS) {
	ms.menuUI.Update()
}

func (ms *MenuScene) onHost(name string) {
	g := ms.env.Game
	g.SetName(name)
	id, err := g.HostGame(context.Background())
	if err != nil {
		ms.menuUI.SetStatus(err.Error())
		return
	}
	ms.env.remember(id)
	ms.menuUI.SetBusy(true)
	ms.next = NewArenaScene(ms.sceneChanger, ms.env)
}

func (ms *MenuScene) onJoin(name, sessionID string) {
	g := ms.env.Game
	g.SetName(name)
	if err := g.JoinGame(context.Background(), sessionID); err != nil {
		ms.menuUI.SetStatus(err.Error())
		return
	}
	ms.env.remember(g.SessionID())
	ms.menuUI.SetBusy(true)
	ms.next = NewArenaScene(ms.sceneChanger, ms.env)
}

// applyFetch hands a finished registry query to the UI on the update goroutine.
func (ms *MenuScene) applyFetch(_ *ecs.ECS) {
	ms.mu.Lock()
	if !ms.fetchDone {
		ms.mu.Unlock()
		return
	}
	sessions, err := ms.fetched, ms.fetchErr
	ms.fetchDone = false
	ms.fetched = nil
	ms.fetchErr = nil
	ms.mu.Unlock()

	ms.menuUI.SetRefreshing(false)
	if err != nil {
		ms.menuUI.SetBrowseStatus(err.Error())
		return
	}
	ms.menuUI.SetSessions(sessions)
	if len(sessions) == 0 {
		ms.menuUI.SetBrowseStatus("No sessions")
	} else {
		ms.menuUI.SetBrowseStatus("")
	}
}

func (ms *MenuScene) fetchSessions() {
	ms.menuUI.SetBrowseStatus("Fetching sessions...")
	ms.menuUI.SetRefreshing(true)

	go ms.queryRegistry()
}

func (ms *MenuScene) queryRegistry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	regs, err := ms.env.Signal.List(ctx)
	if err != nil {
		log.Printf("[browser] registry query failed: %v", err)
	}
	sessions := make([]ui.SessionEntry, 0, len(regs))
	for _, r := range regs {
		sessions = append(sessions, ui.SessionEntry{ID: r.SessionID, HostName: r.HostName, Players: r.Players})
	}

	ms.mu.Lock()
	ms.fetched = sessions
	ms.fetchErr = err
	ms.fetchDone = true
	ms.mu.Unlock()
}
