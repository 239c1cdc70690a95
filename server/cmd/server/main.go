package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/peerfire/arena"
	"github.com/automoto/peerfire/assets"
	"github.com/automoto/peerfire/config"
	"github.com/automoto/peerfire/network"
	"github.com/automoto/peerfire/server/core"
	"github.com/automoto/peerfire/shared/protocol"
	"golang.org/x/sync/errgroup"
)

func main() {
	name := flag.String("name", "Dedicated host", "Host name shown in the session list")
	listen := flag.String("listen", config.Network.ListenAddr, "Websocket listen address")
	advertise := flag.String("advertise", config.Network.AdvertiseAddr, "Address guests dial, published to the registry")
	signalURL := flag.String("signal", config.Network.SignalURL, "Session registry base URL (empty disables registration)")
	codecName := flag.String("codec", config.Network.Codec, "Wire codec: json or msgpack")
	tickRate := flag.Int("tick", 60, "Host tick rate (updates per second)")
	statusAddr := flag.String("status", "", "Address for the JSON status endpoint (empty disables it)")
	flag.Parse()

	config.Network.ListenAddr = *listen
	config.Network.AdvertiseAddr = *advertise
	config.Network.SignalURL = *signalURL
	config.Network.Codec = *codecName

	codec, err := protocol.ByName(*codecName)
	if err != nil {
		log.Fatalf("[host] %v", err)
	}
	level, err := arena.Load(assets.Levels(), config.Arena.LevelPath)
	if err != nil {
		log.Fatalf("[host] load arena: %v", err)
	}

	opts := network.Options{
		Codec:     codec,
		HostName:  *name,
		Heartbeat: config.Network.HeartbeatInterval,
	}
	if *signalURL != "" {
		opts.Registrar = network.NewSignalClient(*signalURL)
	}

	srv := core.NewServer(core.Options{
		Name:      *name,
		Arena:     level,
		Transport: network.NewWebSocketTransport(nil),
		Session:   opts,
		TickRate:  *tickRate,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := srv.Start(ctx)
	if err != nil {
		log.Fatalf("[host] %v", err)
	}
	log.Printf("[host] %q hosting session %s (codec %s, %d ticks/s)", *name, id, codec.Name(), *tickRate)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if *statusAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /status", srv.StatusHandler())
		statusSrv := &http.Server{Addr: *statusAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			log.Printf("[host] status on http://%s/status", *statusAddr)
			if err := statusSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return statusSrv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("[host] %v", err)
	}
	log.Println("[host] shut down")
}
