package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kitchenport/recipe-assistant/internal/adapters/http"
	"github.com/kitchenport/recipe-assistant/internal/bootstrap"
	"github.com/kitchenport/recipe-assistant/internal/config"
	"github.com/kitchenport/recipe-assistant/internal/observability/logging"
	"github.com/kitchenport/recipe-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Init("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app.StartSessionJanitor(ctx, httpMetrics)

	router := httpadapter.NewRouter(
		"api",
		app.ChatUC,
		app.SearchUC,
		app.StatsUC,
		app.Sessions,
		httpMetrics,
	).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
