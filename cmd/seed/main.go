package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitchenport/recipe-assistant/internal/bootstrap"
	"github.com/kitchenport/recipe-assistant/internal/config"
	csvdataset "github.com/kitchenport/recipe-assistant/internal/infrastructure/dataset/csv"
	"github.com/kitchenport/recipe-assistant/internal/observability/logging"
)

func main() {
	datasetPath := flag.String("dataset", "recipes.csv", "path to the recipe dataset CSV")
	flag.Parse()

	cfg := config.Load()
	logging.Init("seed", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	recipes, err := csvdataset.NewLoader().LoadFile(*datasetPath)
	if err != nil {
		log.Fatalf("load dataset error: %v", err)
	}
	log.Printf("loaded %d recipes from %s", len(recipes), *datasetPath)

	seeded := 0
	for _, recipe := range recipes {
		if ctx.Err() != nil {
			break
		}
		if _, err := app.IngestUC.Ingest(ctx, recipe); err != nil {
			log.Printf("skip recipe %q: %v", recipe.Name, err)
			continue
		}
		seeded++
	}
	log.Printf("seeded %d/%d recipes", seeded, len(recipes))
}
