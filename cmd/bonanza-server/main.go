package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bayou-games/bayou-bonanza/internal/admin"
	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/config"
	"github.com/bayou-games/bayou-bonanza/internal/msgcat"
	"github.com/bayou-games/bayou-bonanza/internal/obslog"
	"github.com/bayou-games/bayou-bonanza/internal/server"
	"github.com/bayou-games/bayou-bonanza/internal/store"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		panic(err)
	}
	log := obslog.L()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	// A server without piece definitions cannot referee anything.
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("load piece catalog", zap.Error(err))
	}

	msgs, err := msgcat.New(os.Getenv("MESSAGES_DIR"))
	if err != nil {
		log.Fatal("load message catalog", zap.Error(err))
	}

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal("open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	hub := server.NewHub(cfg, st, cat, msgs)

	if cfg.AdminAddr != "" {
		go func() {
			if err := admin.New(hub).ListenAndServe(cfg.AdminAddr); err != nil {
				log.Error("admin server", zap.Error(err))
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(ctx)
	}()

	log.Info("bonanza server listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("store", cfg.StoreBackend))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("listen", zap.Error(err))
	}
}
