package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/app"
	"github.com/kapu/workout-planner-go/internal/config"
)

func main() {
	name := flag.String("name", "", "exercise name to resolve")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if strings.TrimSpace(*name) == "" {
		logger.Fatal("-name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to assemble services", zap.Error(err))
	}
	defer container.Close()

	result := container.Videos.Resolve(ctx, *name)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal("failed to write result", zap.Error(err))
	}
}
