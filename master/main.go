package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 30*time.Second, "Session TTL without heartbeats")
	flag.Parse()

	reg := NewRegistry(*ttl)
	defer reg.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           NewMux(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[master] shutdown: %v", err)
		}
	}()

	log.Printf("[master] starting on %s (TTL=%s)", srv.Addr, *ttl)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[master] fatal: %v", err)
	}
	log.Printf("[master] stopped")
}
