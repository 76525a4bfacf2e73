// Package pipeline orchestrates the reminder optimization run. Each stage
// consumes the complete output of the previous one; the accumulated state
// travels in an immutable Result rather than mutable fields, so every
// stage stays a pure function of its inputs.
package pipeline

import (
	"context"
	"fmt"

	"github.com/ignite/reminder-optimizer/internal/channel"
	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/experiment"
	"github.com/ignite/reminder-optimizer/internal/frequency"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
	"github.com/ignite/reminder-optimizer/internal/segmentation"
	"github.com/ignite/reminder-optimizer/internal/strategy"
)

// Options are the pipeline tunables.
type Options struct {
	Seed           int64
	Trees          int
	FeatureTarget  int
	TestFraction   float64
	Weights        frequency.Weights
	DefaultChannel string
	Cache          strategy.Cache
	Experiment     experiment.Config
}

// FromConfig builds pipeline options from application configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Seed:          cfg.Optimizer.Seed,
		Trees:         cfg.Optimizer.Trees,
		FeatureTarget: cfg.Optimizer.FeatureTarget,
		TestFraction:  cfg.Optimizer.TestFraction,
		Weights: frequency.Weights{
			Response:     cfg.Optimizer.ResponseWeight,
			Satisfaction: cfg.Optimizer.SatisfactionWeight,
			Complaint:    cfg.Optimizer.ComplaintWeight,
		},
		DefaultChannel: cfg.Optimizer.DefaultChannel,
		Experiment: experiment.Config{
			Seed:                cfg.Experiment.Seed,
			ControlResponseRate: cfg.Experiment.ControlResponseRate,
			ControlSatisfaction: cfg.Experiment.ControlSatisfaction,
			SatisfactionStdDev:  cfg.Experiment.SatisfactionStdDev,
			Alpha:               cfg.Experiment.Alpha,
		},
	}
}

// Runner executes pipeline stages with fixed options.
type Runner struct {
	opts Options
}

// New creates a pipeline runner.
func New(opts Options) *Runner {
	if opts.Weights == (frequency.Weights{}) {
		opts.Weights = frequency.DefaultWeights()
	}
	if opts.DefaultChannel == "" {
		opts.DefaultChannel = dataset.ChannelWhatsApp
	}
	return &Runner{opts: opts}
}

// Result is the immutable outcome of a full optimization pass.
type Result struct {
	Segmented    []dataset.CustomerRecord
	SegmentStats []segmentation.Stats
	Model        *channel.Model
	Policies     map[string]frequency.Policy
	Merged       []dataset.MergedRecord

	synth  *strategy.Synthesizer
	byID   map[string]int
}

// Segment scores and labels the customer batch.
func (r *Runner) Segment(customers []dataset.CustomerRecord) ([]dataset.CustomerRecord, error) {
	return segmentation.NewEngine(nil).Segment(customers)
}

// TrainChannelModel fits the channel-preference classifier.
func (r *Runner) TrainChannelModel(interactions []dataset.InteractionRecord) (*channel.Model, error) {
	return channel.Train(interactions, channel.TrainConfig{
		Trees:         r.opts.Trees,
		FeatureTarget: r.opts.FeatureTarget,
		TestFraction:  r.opts.TestFraction,
		Seed:          r.opts.Seed,
	})
}

// OptimizeFrequencies derives the per-segment reminder policy map.
func (r *Runner) OptimizeFrequencies(segmented []dataset.CustomerRecord) (map[string]frequency.Policy, error) {
	return frequency.Optimize(segmented, r.opts.Weights)
}

// RunExperiment validates the derived policies on a customer sample.
func (r *Runner) RunExperiment(sample []dataset.CustomerRecord, policies map[string]frequency.Policy, controlLabel, treatmentLabel string) (*experiment.Result, error) {
	return experiment.Run(sample, policies, controlLabel, treatmentLabel, r.opts.Experiment)
}

// Run executes the full pass: segmentation, channel model training,
// frequency optimization, and the merge that strategy synthesis reads.
// An empty input table is a setup failure and terminates the run.
func (r *Runner) Run(ctx context.Context, customers []dataset.CustomerRecord, interactions []dataset.InteractionRecord) (*Result, error) {
	if len(customers) == 0 || len(interactions) == 0 {
		return nil, fmt.Errorf("pipeline: empty input dataset (%d customers, %d interactions)", len(customers), len(interactions))
	}

	segmented, err := r.Segment(customers)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	model, err := r.TrainChannelModel(interactions)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	policies, err := r.OptimizeFrequencies(segmented)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	merged, err := dataset.Merge(segmented, interactions)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	byID := make(map[string]int, len(merged))
	for i, m := range merged {
		byID[m.Customer.CustomerID] = i
	}

	return &Result{
		Segmented:    segmented,
		SegmentStats: segmentation.Summarize(segmented),
		Model:        model,
		Policies:     policies,
		Merged:       merged,
		synth:        strategy.NewSynthesizer(model, policies, r.opts.DefaultChannel, r.opts.Cache),
		byID:         byID,
	}, nil
}

// SynthesizeStrategy derives the strategy for one customer from a
// completed run.
func (res *Result) SynthesizeStrategy(ctx context.Context, customerID string) (strategy.Strategy, error) {
	idx, ok := res.byID[customerID]
	if !ok {
		return strategy.Strategy{}, fmt.Errorf("synthesize strategy: unknown customer %s", customerID)
	}
	return res.synth.Synthesize(ctx, res.Merged[idx])
}

// SynthesizeAll derives strategies for every customer in the run. A
// failure inside one customer's strategy is logged and skipped; it never
// aborts the batch.
func (res *Result) SynthesizeAll(ctx context.Context) []strategy.Strategy {
	out := make([]strategy.Strategy, 0, len(res.Merged))
	for _, rec := range res.Merged {
		s, err := res.synth.Synthesize(ctx, rec)
		if err != nil {
			logger.Error("strategy synthesis failed, skipping customer",
				"customer_id", rec.Customer.CustomerID, "error", err.Error())
			continue
		}
		out = append(out, s)
	}
	return out
}
