package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/playbook-graph/versioning-core/internal/commitstore"
	"github.com/playbook-graph/versioning-core/internal/config"
	"github.com/playbook-graph/versioning-core/internal/orchestrator"
	"github.com/playbook-graph/versioning-core/transport/httpapi"
)

func main() {
	ctx := context.Background()
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	dbURL, dbURLSet := os.LookupEnv("DATABASE_URL")

	var srvCfg config.Server
	if cfgPath, ok := os.LookupEnv("CONFIG_FILE"); ok {
		loaded, err := config.LoadServer(cfgPath)
		if err != nil {
			slog.Error("failed to load config file", "path", cfgPath, "error", err)
			return
		}
		srvCfg = loaded
	} else if dbURLSet {
		srvCfg = config.DefaultServer(dbURL)
	} else {
		slog.Error("neither CONFIG_FILE nor DATABASE_URL is set")
		return
	}
	if dbURLSet {
		srvCfg.Postgres.URI = dbURL
	}

	pool, err := config.Connect(ctx, srvCfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return
	}
	defer pool.Close()

	store, err := commitstore.NewPostgres(pool)
	if err != nil {
		slog.Error("failed to create commit store", "error", err)
		return
	}

	orch := orchestrator.New(store, logger)

	mainRouter := mux.NewRouter()
	apiRouter := mainRouter.PathPrefix("/api/v1").Subrouter()

	svc := httpapi.NewService(orch, store, logger)
	svc.LoadRoutes(apiRouter)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(srvCfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)(mainRouter)

	srv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: corsHandler,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srvCfg.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("could not stop server gracefully", "error", err)
			srv.Close()
		}
	}
}
