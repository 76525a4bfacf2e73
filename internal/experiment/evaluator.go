// Package experiment validates a reminder strategy through a simulated
// randomized controlled trial: customers split evenly into control and
// treatment, outcomes drawn from each group's expected rates, and the
// observed differences tested for significance.
package experiment

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/frequency"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
)

// Config holds the simulation parameters. Control outcomes use fixed
// reference constants; treatment outcomes come from the frequency policies.
type Config struct {
	Seed                int64
	ControlResponseRate float64
	ControlSatisfaction float64
	SatisfactionStdDev  float64
	Alpha               float64
}

// DefaultConfig returns the reference experiment parameters.
func DefaultConfig() Config {
	return Config{
		Seed:                42,
		ControlResponseRate: 0.25,
		ControlSatisfaction: 3.2,
		SatisfactionStdDev:  0.3,
		Alpha:               0.05,
	}
}

// Outcome is one simulated per-customer observation.
type Outcome struct {
	CustomerID   string  `json:"customer_id"`
	Group        string  `json:"group"`
	Segment      string  `json:"segment"`
	Responded    bool    `json:"responded"`
	Satisfaction float64 `json:"satisfaction"`
}

// Result is the aggregate report of one evaluator run.
type Result struct {
	RunID          string `json:"run_id"`
	ControlLabel   string `json:"control_label"`
	TreatmentLabel string `json:"treatment_label"`

	ControlResponseRate float64 `json:"control_response_rate"`
	TestResponseRate    float64 `json:"test_response_rate"`
	ControlSatisfaction float64 `json:"control_satisfaction"`
	TestSatisfaction    float64 `json:"test_satisfaction"`

	// ResponseImprovement is relative to the control mean and only
	// meaningful when ResponseImprovementDefined is true (control > 0).
	ResponseImprovement        float64 `json:"response_improvement"`
	ResponseImprovementDefined bool    `json:"response_improvement_defined"`
	SatisfactionImprovement    float64 `json:"satisfaction_improvement"`

	ResponseP               float64 `json:"response_p"`
	SatisfactionP           float64 `json:"satisfaction_p"`
	ResponseSignificant     bool    `json:"response_significant"`
	SatisfactionSignificant bool    `json:"satisfaction_significant"`

	Outcomes []Outcome `json:"outcomes"`
}

// Run assigns each sampled customer to control or treatment with equal
// probability (seeded), simulates outcomes, and tests both effects at the
// configured significance level. The control and treatment labels are
// informational only.
func Run(sample []dataset.CustomerRecord, policies map[string]frequency.Policy, controlLabel, treatmentLabel string, cfg Config) (*Result, error) {
	if len(sample) == 0 {
		return nil, fmt.Errorf("run experiment: empty sample")
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		cfg.Alpha = 0.05
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	outcomes := make([]Outcome, 0, len(sample))

	for _, c := range sample {
		group := "control"
		responseRate := cfg.ControlResponseRate
		satisfaction := cfg.ControlSatisfaction

		if rng.Float64() < 0.5 {
			group = "test"
			policy, ok := policies[c.Segment]
			if !ok {
				return nil, fmt.Errorf("run experiment: customer %s segment %q has no policy", c.CustomerID, c.Segment)
			}
			responseRate = policy.ExpectedResponseRate
			satisfaction = policy.ExpectedSatisfaction
		}

		outcomes = append(outcomes, Outcome{
			CustomerID:   c.CustomerID,
			Group:        group,
			Segment:      c.Segment,
			Responded:    rng.Float64() < responseRate,
			Satisfaction: satisfaction + rng.NormFloat64()*cfg.SatisfactionStdDev,
		})
	}

	var controlSat, testSat []float64
	var controlResponded, controlTotal, testResponded, testTotal float64
	for _, o := range outcomes {
		if o.Group == "control" {
			controlTotal++
			controlSat = append(controlSat, o.Satisfaction)
			if o.Responded {
				controlResponded++
			}
		} else {
			testTotal++
			testSat = append(testSat, o.Satisfaction)
			if o.Responded {
				testResponded++
			}
		}
	}

	res := &Result{
		RunID:          uuid.New().String(),
		ControlLabel:   controlLabel,
		TreatmentLabel: treatmentLabel,
		Outcomes:       outcomes,
		ResponseP:      1,
		SatisfactionP:  1,
	}
	if controlTotal > 0 {
		res.ControlResponseRate = controlResponded / controlTotal
		res.ControlSatisfaction = stat.Mean(controlSat, nil)
	}
	if testTotal > 0 {
		res.TestResponseRate = testResponded / testTotal
		res.TestSatisfaction = stat.Mean(testSat, nil)
	}

	if controlTotal > 0 && testTotal > 0 {
		_, res.ResponseP = ChiSquare2x2([2][2]float64{
			{controlResponded, controlTotal - controlResponded},
			{testResponded, testTotal - testResponded},
		})
		_, res.SatisfactionP = TTestInd(controlSat, testSat)

		if res.ControlResponseRate > 0 {
			res.ResponseImprovement = (res.TestResponseRate - res.ControlResponseRate) / res.ControlResponseRate
			res.ResponseImprovementDefined = true
		} else {
			logger.Warn("experiment: control response rate is zero, relative improvement undefined", "run_id", res.RunID)
		}
		res.SatisfactionImprovement = res.TestSatisfaction - res.ControlSatisfaction
		res.ResponseSignificant = res.ResponseP < cfg.Alpha
		res.SatisfactionSignificant = res.SatisfactionP < cfg.Alpha
	} else {
		logger.Warn("experiment: one group is empty, significance not testable",
			"run_id", res.RunID, "control", controlTotal, "test", testTotal)
	}

	logger.Info("experiment complete",
		"run_id", res.RunID,
		"control_response_rate", fmt.Sprintf("%.4f", res.ControlResponseRate),
		"test_response_rate", fmt.Sprintf("%.4f", res.TestResponseRate),
		"response_p", fmt.Sprintf("%.4f", res.ResponseP),
		"satisfaction_p", fmt.Sprintf("%.4f", res.SatisfactionP))

	return res, nil
}
