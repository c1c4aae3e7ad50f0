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
	"github.com/kapu/workout-planner-go/internal/domain"
)

const defaultOutput = "workout-plan.json"

func main() {
	requirements := flag.String("prompt", "", "free-text workout requirements")
	equipment := flag.String("equipment", "", "comma separated equipment (default: Chair, Yoga Mat)")
	duration := flag.Int("duration", 0, "session length in minutes (30, 60, 90 or 120)")
	intensity := flag.String("intensity", "", "easy, moderate or hard")
	groups := flag.String("groups", "", "comma separated exercise groups to focus on")
	output := flag.String("out", defaultOutput, "output file")
	save := flag.Bool("save", false, "also store the plan in the configured plan repository")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if strings.TrimSpace(*requirements) == "" {
		logger.Fatal("-prompt is required")
	}

	opts := &domain.WorkoutOptions{
		DurationMinutes: *duration,
		Intensity:       domain.Intensity(strings.ToLower(*intensity)),
		ExerciseGroups:  config.ParseEquipment(*groups),
	}
	if err := opts.Validate(); err != nil {
		logger.Fatal("invalid options", zap.Error(err))
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

	plan, err := container.Generator.GenerateWorkouts(ctx, *requirements, config.ParseEquipment(*equipment), opts)
	if err != nil {
		logger.Fatal("failed to generate workout", zap.Error(err))
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		logger.Fatal("failed to encode plan", zap.Error(err))
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		logger.Fatal("failed to write plan", zap.Error(err))
	}

	if *save {
		saved, err := container.Plans.Save(ctx, *plan)
		if err != nil {
			logger.Fatal("failed to save plan", zap.Error(err))
		}
		logger.Info("Plan stored", zap.String("id", saved.ID))
	}

	logger.Info("Workout plan written",
		zap.String("workout_day", plan.WorkoutDay),
		zap.Int("exercises", len(plan.Exercises)),
		zap.String("output", *output))
}
