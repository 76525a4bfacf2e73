package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/pipeline"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
	"github.com/ignite/reminder-optimizer/internal/strategy"
)

func main() {
	var (
		configPath       = flag.String("config", "", "path to config.yaml (defaults apply when empty)")
		customersCSV     = flag.String("customers", "", "customer table CSV (synthetic data when empty)")
		interactionsCSV  = flag.String("interactions", "", "interaction table CSV (synthetic data when empty)")
		usePostgres      = flag.Bool("postgres", false, "load both tables from the configured Postgres DSN")
		sampleStrategies = flag.Int("sample-strategies", 5, "number of sample strategies to log")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromEnv(*configPath)
		if err != nil {
			logger.Error("load config", "path", *configPath, "error", err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	applyLogging(cfg.Logging)

	customers, interactions, err := loadTables(cfg, *customersCSV, *interactionsCSV, *usePostgres)
	if err != nil {
		logger.Error("load dataset", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("dataset ready", "customers", len(customers), "interactions", len(interactions))

	var cache strategy.Cache
	if cfg.Storage.RedisAddr != "" {
		cache = strategy.NewRedisCache(cfg.Storage.RedisAddr, cfg.Storage.StrategyTTL())
		logger.Info("strategy cache enabled", "addr", cfg.Storage.RedisAddr)
	}

	opts := pipeline.FromConfig(cfg)
	opts.Cache = cache
	runner := pipeline.New(opts)

	ctx := context.Background()
	result, err := runner.Run(ctx, customers, interactions)
	if err != nil {
		logger.Error("optimization run failed", "error", err.Error())
		os.Exit(1)
	}

	for _, s := range result.SegmentStats {
		logger.Info("segment statistics",
			"segment", s.Segment,
			"customers", s.Customers,
			"mean_late_payment_rate", fmt.Sprintf("%.3f", s.MeanLateRate),
			"mean_payment_amount", fmt.Sprintf("%.3f", s.MeanAmount),
			"mean_satisfaction", fmt.Sprintf("%.3f", s.MeanSatisfaction))
	}
	logger.Info("channel prediction accuracy", "accuracy", fmt.Sprintf("%.2f%%", result.Model.Accuracy*100))
	for _, fi := range result.Model.Ranking {
		logger.Info("feature importance", "feature", fi.Feature, "importance", fmt.Sprintf("%.4f", fi.Importance))
	}

	// Sample strategies for a few customers, mirroring the run report the
	// collections team reviews.
	rng := rand.New(rand.NewSource(cfg.Optimizer.Seed))
	for _, idx := range rng.Perm(len(result.Merged))[:min(*sampleStrategies, len(result.Merged))] {
		id := result.Merged[idx].Customer.CustomerID
		s, err := result.SynthesizeStrategy(ctx, id)
		if err != nil {
			logger.Error("sample strategy failed", "customer_id", id, "error", err.Error())
			continue
		}
		logger.Info("sample strategy",
			"customer_id", s.CustomerID,
			"segment", s.Segment,
			"channel", s.OptimalChannel,
			"reminder_frequency", s.ReminderFrequency,
			"confidence", fmt.Sprintf("%.1f%%", s.PersonalizationConfidence*100))
	}

	// Validate against a random sample.
	sampleSize := min(cfg.Experiment.SampleSize, len(result.Segmented))
	sample := make([]dataset.CustomerRecord, 0, sampleSize)
	for _, idx := range rng.Perm(len(result.Segmented))[:sampleSize] {
		sample = append(sample, result.Segmented[idx])
	}

	exp, err := runner.RunExperiment(sample, result.Policies, "control", "personalized")
	if err != nil {
		logger.Error("experiment failed", "error", err.Error())
		os.Exit(1)
	}

	if exp.ResponseSignificant && exp.ResponseImprovementDefined {
		lift := exp.ResponseImprovement * 100
		logger.Info("expected business impact",
			"response_rate_improvement", fmt.Sprintf("+%.1f%%", lift),
			"estimated_delinquency_reduction", fmt.Sprintf("%.1f%%", lift*0.4))
	}
	if exp.SatisfactionSignificant {
		logger.Info("expected business impact",
			"satisfaction_increase", fmt.Sprintf("+%.2f points", exp.SatisfactionImprovement))
	}

	logger.Info("optimization complete")
}

func loadTables(cfg *config.Config, customersCSV, interactionsCSV string, usePostgres bool) ([]dataset.CustomerRecord, []dataset.InteractionRecord, error) {
	switch {
	case usePostgres:
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres source requested but no DSN configured")
		}
		db, err := dataset.Open(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		repo := dataset.NewRepo(db)
		ctx := context.Background()
		customers, err := repo.Customers(ctx)
		if err != nil {
			return nil, nil, err
		}
		interactions, err := repo.Interactions(ctx)
		if err != nil {
			return nil, nil, err
		}
		return customers, interactions, nil

	case customersCSV != "" || interactionsCSV != "":
		if customersCSV == "" || interactionsCSV == "" {
			return nil, nil, fmt.Errorf("both -customers and -interactions are required for CSV input")
		}
		customers, err := dataset.LoadCustomersCSV(customersCSV)
		if err != nil {
			return nil, nil, err
		}
		interactions, err := dataset.LoadInteractionsCSV(interactionsCSV)
		if err != nil {
			return nil, nil, err
		}
		return customers, interactions, nil

	default:
		gen := dataset.NewGenerator(cfg.Optimizer.Seed)
		customers, interactions := gen.Generate(cfg.Optimizer.SyntheticCustomers)
		return customers, interactions, nil
	}
}

func applyLogging(cfg config.LoggingConfig) {
	switch cfg.Level {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}
	if cfg.RedactPII != nil {
		logger.SetRedactPII(*cfg.RedactPII)
	}
}
