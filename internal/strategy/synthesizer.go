// Package strategy combines segment, predicted channel, optimal frequency,
// and a confidence heuristic into a per-customer reminder strategy.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/frequency"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
)

// ErrUnknownSegment reports a frequency-policy lookup for a segment the
// optimizer never produced. It signals an upstream segmentation/policy
// mismatch and is never silently defaulted.
var ErrUnknownSegment = errors.New("no frequency policy for segment")

// Strategy is the personalized reminder plan for one customer.
type Strategy struct {
	CustomerID                string  `json:"customer_id"`
	Segment                   string  `json:"segment"`
	OptimalChannel            string  `json:"optimal_channel"`
	ReminderFrequency         int     `json:"reminder_frequency"`
	ExpectedResponseRate      float64 `json:"expected_response_rate"`
	PersonalizationConfidence float64 `json:"personalization_confidence"`
}

// ChannelPredictor is the trained channel model surface the synthesizer
// consumes. A nil predictor means the model was never trained.
type ChannelPredictor interface {
	Predict(features []float64) (string, error)
}

// Synthesizer derives strategies from a trained channel model and a
// frequency policy map. Both inputs are written once per optimizer run and
// read-only here.
type Synthesizer struct {
	model          ChannelPredictor
	policies       map[string]frequency.Policy
	defaultChannel string
	cache          Cache
}

// NewSynthesizer creates a synthesizer. model may be nil, in which case
// every strategy falls back to defaultChannel. cache may be nil to disable
// strategy caching.
func NewSynthesizer(model ChannelPredictor, policies map[string]frequency.Policy, defaultChannel string, cache Cache) *Synthesizer {
	if defaultChannel == "" {
		defaultChannel = dataset.ChannelWhatsApp
	}
	return &Synthesizer{model: model, policies: policies, defaultChannel: defaultChannel, cache: cache}
}

// Synthesize produces the strategy for one merged customer row.
func (s *Synthesizer) Synthesize(ctx context.Context, rec dataset.MergedRecord) (Strategy, error) {
	id := rec.Customer.CustomerID

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.Warn("strategy cache read failed", "customer_id", id, "error", err.Error())
		} else if cached != nil {
			return *cached, nil
		}
	}

	segment := rec.Customer.Segment
	policy, ok := s.policies[segment]
	if !ok {
		return Strategy{}, fmt.Errorf("customer %s segment %q: %w", id, segment, ErrUnknownSegment)
	}

	optimalChannel := s.defaultChannel
	if s.model != nil {
		predicted, err := s.model.Predict(rec.Interaction.Features())
		if err != nil {
			return Strategy{}, fmt.Errorf("predict channel for customer %s: %w", id, err)
		}
		optimalChannel = predicted
	}

	out := Strategy{
		CustomerID:                id,
		Segment:                   segment,
		OptimalChannel:            optimalChannel,
		ReminderFrequency:         policy.OptimalFrequency,
		ExpectedResponseRate:      policy.ExpectedResponseRate,
		PersonalizationConfidence: confidence(rec.Customer, segment),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, out); err != nil {
			logger.Warn("strategy cache write failed", "customer_id", id, "error", err.Error())
		}
	}
	return out, nil
}

// confidence scores how much the strategy is tailored to this customer.
// Base 0.7, +0.2 when the stored segment matches the lookup segment (a
// mismatch would mean the merge corrupted the row), +0.1 for more than a
// year of history, capped at 1.0.
func confidence(c dataset.CustomerRecord, segment string) float64 {
	conf := 0.7
	if c.Segment == segment {
		conf += 0.2
	}
	if c.MonthsOfHistory > 12 {
		conf += 0.1
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
