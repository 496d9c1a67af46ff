package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"p2v/internal/api"
	"p2v/internal/app/service"
	"p2v/internal/app/worker"
	"p2v/internal/common/security"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/config"
	"p2v/internal/platform/database"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"
	"p2v/internal/platform/queue"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer db.Close()
	log.Info("database connected")

	if err := database.RunMigrations(cfg.DBURL); err != nil {
		log.Fatal("migrations failed", "error", err)
	}
	log.Info("migrations applied")

	rdb, err := queue.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connection failed", "error", err)
	}
	defer rdb.Close()
	log.Info("redis connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	userRepo := repository.NewPgUserRepository(db)
	placeRepo := repository.NewPgPlaceRepository(db)
	voteRepo := repository.NewPgVoteRepository(db)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := security.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL)

	var google service.IdentityVerifier
	if cfg.GoogleLoginEnabled() {
		verifier, err := security.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			log.Fatal("google verifier setup failed", "error", err)
		}
		google = verifier
		log.Info("google login enabled")
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set; google login disabled")
	}

	tallyQueue := queue.NewTallyQueue(rdb, cfg.VoteTallyQueue)

	authService := service.NewAuthService(userRepo, hasher, tokens, google, log, recorder)
	userService := service.NewUserService(userRepo, hasher, log, recorder)
	placeService := service.NewPlaceService(placeRepo, voteRepo, log)
	voteService := service.NewVoteService(voteRepo, placeRepo, tallyQueue, log, recorder)

	tallyWorker := worker.NewTallyWorker(
		rdb,
		tallyQueue.Name(),
		time.Duration(cfg.VoteTallyLockTTLSeconds)*time.Second,
		voteRepo,
		placeRepo,
		log,
		recorder,
	)
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	go tallyWorker.Start(workerCtx)

	router := api.NewRouter(authService, userService, placeService, voteService, recorder, registry, log)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen", "port", cfg.APIPort, "error", err)
		}
	}()

	<-stop

	log.Info("shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return
	}
	log.Info("server and worker stopped")
}
