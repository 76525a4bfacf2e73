// Package frequency picks the reminder frequency that maximizes a weighted
// trade-off of payment response, satisfaction, and complaints, per customer
// segment.
package frequency

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
)

// Policy is the optimal reminder policy for one segment, valid for a
// single optimization run.
type Policy struct {
	Segment              string  `json:"segment"`
	OptimalFrequency     int     `json:"optimal_frequency"`
	ExpectedResponseRate float64 `json:"expected_response_rate"`
	ExpectedSatisfaction float64 `json:"expected_satisfaction"`
}

// Weights are the optimization-score coefficients. The response rate
// dominates, satisfaction follows, and complaints penalize.
type Weights struct {
	Response     float64
	Satisfaction float64
	Complaint    float64
}

// DefaultWeights returns the production coefficients.
func DefaultWeights() Weights {
	return Weights{Response: 0.6, Satisfaction: 0.3, Complaint: 0.1}
}

// Optimize evaluates every reminder frequency present in each segment and
// returns one Policy per segment, keyed by segment label. Segments with no
// rows are skipped. Score ties resolve to the lowest frequency; the source
// data never pins a tie-break, so this choice is implementation-defined.
func Optimize(segmented []dataset.CustomerRecord, w Weights) (map[string]Policy, error) {
	if len(segmented) == 0 {
		return nil, fmt.Errorf("optimize frequencies: empty batch")
	}

	type group struct{ response, satisfaction, complaints []float64 }
	bySegment := make(map[string]map[int]*group)
	for _, c := range segmented {
		if c.Segment == "" {
			return nil, fmt.Errorf("optimize frequencies: customer %s has no segment", c.CustomerID)
		}
		freqs, ok := bySegment[c.Segment]
		if !ok {
			freqs = make(map[int]*group)
			bySegment[c.Segment] = freqs
		}
		g, ok := freqs[c.CurrentReminderFreq]
		if !ok {
			g = &group{}
			freqs[c.CurrentReminderFreq] = g
		}
		g.response = append(g.response, c.PaymentResponseRate)
		g.satisfaction = append(g.satisfaction, c.Satisfaction)
		g.complaints = append(g.complaints, c.ComplaintRate)
	}

	policies := make(map[string]Policy, len(bySegment))
	for segment, freqs := range bySegment {
		ordered := make([]int, 0, len(freqs))
		for f := range freqs {
			ordered = append(ordered, f)
		}
		sort.Ints(ordered)

		var best Policy
		bestScore := 0.0
		for i, f := range ordered {
			g := freqs[f]
			response := stat.Mean(g.response, nil)
			satisfaction := stat.Mean(g.satisfaction, nil)
			complaints := stat.Mean(g.complaints, nil)
			score := w.Response*response + w.Satisfaction*satisfaction - w.Complaint*complaints

			if i == 0 || score > bestScore {
				bestScore = score
				best = Policy{
					Segment:              segment,
					OptimalFrequency:     f,
					ExpectedResponseRate: response,
					ExpectedSatisfaction: satisfaction,
				}
			}
		}
		policies[segment] = best
		logger.Info("optimal reminder frequency",
			"segment", segment,
			"frequency", best.OptimalFrequency,
			"expected_response_rate", fmt.Sprintf("%.4f", best.ExpectedResponseRate))
	}
	return policies, nil
}
