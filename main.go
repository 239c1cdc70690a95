package main

import (
	"context"
	"flag"
	"log"

	"github.com/automoto/peerfire/arena"
	"github.com/automoto/peerfire/assets"
	"github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/fonts"
	"github.com/automoto/peerfire/game"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/scenes"
	"github.com/automoto/peerfire/shared/protocol"
	"github.com/automoto/peerfire/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	scene Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.C.Width, config.C.Height
}

func loadFonts() {
	for name, size := range map[fonts.FontName]float64{
		fonts.HUD:   config.UI.HUDFontSize,
		fonts.Bold:  config.UI.HUDFontSize + 4,
		fonts.Title: config.UI.TitleFontSize,
		fonts.Small: config.UI.HUDFontSize - 3,
	} {
		if err := fonts.LoadFont(name, goregular.TTF, size); err != nil {
			log.Fatal(err)
		}
	}
}

func main() {
	store, _ := systems.OpenProfileStore("peerfire")
	profile, _ := store.Load()
	if profile == nil {
		profile = &systems.SavedProfile{Codec: config.Network.Codec, SignalURL: config.Network.SignalURL}
	}

	name := flag.String("name", profile.Name, "Player name")
	join := flag.String("join", "", "Join this session id on start")
	host := flag.Bool("host", false, "Host a session on start")
	signalURL := flag.String("signal", profile.SignalURL, "Session registry base URL (empty uses -connect)")
	connect := flag.String("connect", config.Network.AdvertiseAddr, "Host address to dial when no registry is set")
	codecName := flag.String("codec", profile.Codec, "Wire codec: json or msgpack")
	listen := flag.String("listen", config.Network.ListenAddr, "Websocket listen address when hosting")
	advertise := flag.String("advertise", config.Network.AdvertiseAddr, "Address guests dial, published to the registry")
	flag.Parse()

	config.Network.ListenAddr = *listen
	config.Network.AdvertiseAddr = *advertise
	config.Network.SignalURL = *signalURL
	if *codecName != "" {
		config.Network.Codec = *codecName
	}
	profile.Codec = config.Network.Codec
	profile.SignalURL = config.Network.SignalURL

	codec, err := protocol.ByName(config.Network.Codec)
	if err != nil {
		log.Fatal(err)
	}
	level, err := arena.Load(assets.Levels(), config.Arena.LevelPath)
	if err != nil {
		log.Fatalf("load arena: %v", err)
	}

	opts := network.Options{Codec: codec, Heartbeat: config.Network.HeartbeatInterval}
	var resolver network.Resolver = network.StaticResolver{"*": *connect}
	var signal *network.SignalClient
	if *signalURL != "" {
		signal = network.NewSignalClient(*signalURL)
		opts.Registrar = signal
		resolver = signal
	}

	env := &scenes.Env{
		Game: game.New(game.Options{
			Name:      *name,
			Arena:     level,
			Transport: network.NewWebSocketTransport(resolver),
			Session:   opts,
		}),
		Arena:   level,
		Signal:  signal,
		Store:   store,
		Profile: profile,
	}
	defer env.Game.Close()

	loadFonts()
	g := &Game{}
	g.scene = startScene(g, env, *host, *join)

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// startScene hosts or joins straight away when asked to on the command line.
func startScene(sc scenes.SceneChanger, env *scenes.Env, host bool, join string) Scene {
	ctx := context.Background()
	switch {
	case host:
		if _, err := env.Game.HostGame(ctx); err != nil {
			log.Printf("host: %v", err)
			break
		}
		return scenes.NewArenaScene(sc, env)
	case join != "":
		if err := env.Game.JoinGame(ctx, join); err != nil {
			log.Printf("join: %v", err)
			break
		}
		return scenes.NewArenaScene(sc, env)
	}
	return scenes.NewMenuScene(sc, env)
}
