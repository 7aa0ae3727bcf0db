package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/shelfstack/shelfstack/internal/config"
	"github.com/shelfstack/shelfstack/internal/controller"
	"github.com/shelfstack/shelfstack/internal/credentials"
	"github.com/shelfstack/shelfstack/internal/db"
	"github.com/shelfstack/shelfstack/internal/graph"
	"github.com/shelfstack/shelfstack/internal/healthz"
	shttp "github.com/shelfstack/shelfstack/internal/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

func main() {
	os.Exit(run())
}

const (
	ecExit = iota
	ecConfig
	ecDatabaseConnection
	ecMigration
	ecSchema
)

func run() int {
	ctx := context.Background()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("[Startup] Loading configuration ...")
	cfg, err := config.Load()
	if err != nil {
		logger.Error("[Startup] Failed to load configuration.", zap.Error(err))
		return ecConfig
	}
	logger.Info("[Startup] Loaded configuration.", zap.String("env", string(cfg.Env)))

	logger.Info("[Startup] Connecting to DB ...")
	dbconn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("[Startup] Failed to initialize database connection.", zap.Error(err))
		return ecDatabaseConnection
	}
	defer dbconn.Close()

	// The pool establishes connections lazily; ping so a bad database
	// configuration fails here instead of on the first request.
	if err := dbconn.Ping(ctx); err != nil {
		logger.Error("[Startup] Failed to reach database.", zap.Error(err))
		return ecDatabaseConnection
	}
	logger.Info("[Startup] Connected to DB.")

	logger.Info("[Startup] Migrating DB ...")
	if err := db.Migrate(dbconn); err != nil {
		logger.Error("[Startup] Failed to migrate database model.", zap.Error(err))
		return ecMigration
	}
	logger.Info("[Startup] Migrated DB.")

	logger.Info("[Startup] Creating credentials manager ...")
	creds, err := credentials.NewManager(cfg.JWTSecret)
	if err != nil {
		logger.Error("[Startup] Failed to create credentials manager.", zap.Error(err))
		return ecConfig
	}
	logger.Info("[Startup] Created credentials manager.")

	logger.Info("[Startup] Creating controller ...")
	ctrl := controller.New(db.NewStore(logger, dbconn), creds)
	logger.Info("[Startup] Created controller.")

	logger.Info("[Startup] Parsing graphql schema ...")
	schema, err := graph.NewSchema(logger, ctrl)
	if err != nil {
		logger.Error("[Startup] Failed to parse graphql schema.", zap.Error(err))
		return ecSchema
	}
	logger.Info("[Startup] Parsed graphql schema.")

	healthcheck := healthz.NewHTTP()

	router := chi.NewRouter()
	router.Use(
		shttp.RequestLogger(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		}),
	)
	router.Method(http.MethodGet, "/healthz", healthcheck)
	router.Handle("/graphql", &relay.Handler{Schema: schema})

	srv := http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Waitgroup to ensure all supporting goroutines close properly on
	// application close.
	var wg sync.WaitGroup

	// Root context passed to child goroutines. Cancelled on SIGTERM or
	// SIGINT.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, unix.SIGTERM, unix.SIGINT)

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-signalc:
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		// Fail health checks before closing the listener so balancers drain
		// the instance first.
		healthcheck.Sick()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("[Shutdown] Failed to correctly shutdown API.", zap.Error(err))
		}
	}()

	healthcheck.Healthy()

	logger.Sugar().Infof("shelfstack API listening at :%d", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("[Shutdown] Failed to listen and serve API.", zap.Error(err))
	}

	cancel()
	wg.Wait()
	return ecExit
}
