package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"truco-lite/apps/server/internal/config"
	"truco-lite/apps/server/internal/gateway"
	"truco-lite/apps/server/internal/lobby"
	"truco-lite/eventbus"
	"truco-lite/store"
	"truco-lite/table"
	"truco-lite/truco"
	"truco-lite/truco/npc"
)

func main() {
	log := logrus.StandardLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	st, storeMode, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("[Server] Failed to init store: %v", err)
	}
	defer st.Close()

	registry := npc.NewDefaultRegistry()
	if cfg.PersonasFile != "" {
		if err := registry.LoadFromFile(cfg.PersonasFile); err != nil {
			log.Fatalf("[Server] Failed to load personas: %v", err)
		}
	}

	rng := truco.NewRandom(cfg.Seed)
	npcs := npc.NewManager(registry, cfg.Think, rng, log)
	npcs.SetTier(cfg.NPCTier)
	runner := &table.GoRunner{}
	engine := table.New(table.Options{
		Store:   st,
		Bus:     eventbus.New(log),
		NPC:     npcs,
		Sleeper: table.RealSleeper,
		Runner:  runner,
		Rand:    rng,
		Log:     log,
	})
	lby := lobby.New(engine, log, lobby.Options{})
	gw := gateway.New(lby, log)

	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)
	lobby.NewHTTPHandler(lby).RegisterRoutes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("[Server] Store mode: %s", storeMode)
		log.Infof("[Server] NPC personas: %d", registry.Count())
		log.Infof("[Server] Starting server on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] Failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = gw.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("[Server] Shutdown error")
	}
	runner.Wait()
}
