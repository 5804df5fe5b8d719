package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campreg/internal/admin/gate"
	adminhandler "campreg/internal/admin/handler"
	"campreg/internal/platform/config"
	"campreg/internal/platform/httpserver"
	"campreg/internal/platform/logger"
	"campreg/internal/platform/metrics"
	"campreg/internal/platform/middleware"
	platformredis "campreg/internal/platform/redis"
	receiptservice "campreg/internal/receipt/service"
	receiptstore "campreg/internal/receipt/store"
	reghandler "campreg/internal/registration/handler"
	regservice "campreg/internal/registration/service"
	regstore "campreg/internal/registration/store"
	"campreg/internal/transport/shared"
)

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal service packages.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rdb, err := platformredis.New(cfg.RedisURL, cfg.StoreTimeout)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	m := metrics.New()

	regs := regstore.NewRedisStore(rdb.Client, log, m)
	fulls := regstore.NewRedisFullCache(rdb.Client, m)

	var blobs receiptstore.BlobStore
	switch cfg.ReceiptBackend {
	case config.ReceiptBackendS3:
		blobs, err = receiptstore.NewS3BlobStore(context.Background(), cfg.S3)
		if err != nil {
			log.Error("failed to init s3 receipt store", "error", err)
			os.Exit(1)
		}
	default:
		blobs = receiptstore.NewRedisBlobStore(rdb.Client)
	}

	regService := regservice.New(regs, fulls, log, m)
	receiptService := receiptservice.New(blobs, regs, log, m)
	adminGate := gate.New(cfg.AdminKey, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	reghandler.New(regService, receiptService, adminGate, cfg.PIXKey, log).Register(r)
	adminhandler.New(regService, adminGate, log).Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := rdb.Health(req.Context()); err != nil {
			shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting campreg server", "addr", cfg.Addr, "receipt_backend", cfg.ReceiptBackend)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
