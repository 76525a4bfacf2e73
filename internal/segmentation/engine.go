package segmentation

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
)

// Engine computes RFM scores and segment labels for a customer batch.
type Engine struct {
	binner QuantileBinner
}

// NewEngine creates a segmentation engine. A nil binner defaults to the
// equal-population RankBinner.
func NewEngine(binner QuantileBinner) *Engine {
	if binner == nil {
		binner = RankBinner{}
	}
	return &Engine{binner: binner}
}

// Segment scores the batch in place and returns it with R/F/M scores and
// segment labels populated. This is the only point in the pipeline that
// mutates customer records.
func (e *Engine) Segment(customers []dataset.CustomerRecord) ([]dataset.CustomerRecord, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("segment customers: empty batch")
	}

	recency := make([]float64, len(customers))
	frequency := make([]float64, len(customers))
	monetary := make([]float64, len(customers))
	for i, c := range customers {
		recency[i] = c.DaysSinceLastPay
		frequency[i] = c.PaymentFrequency
		monetary[i] = c.AvgPaymentAmount
	}

	rBuckets := e.binner.Bin(recency, 5)
	fBuckets := e.binner.Bin(frequency, 5)
	mBuckets := e.binner.Bin(monetary, 5)

	for i := range customers {
		// A recent payment means fewer days elapsed, so recency scores
		// run opposite to the bucket order.
		customers[i].RScore = 5 - rBuckets[i]
		customers[i].FScore = fBuckets[i] + 1
		customers[i].MScore = mBuckets[i] + 1
		customers[i].Segment = AssignSegment(customers[i].RScore, customers[i].FScore, customers[i].MScore)
	}

	logger.Info("segmented customer batch", "customers", len(customers))
	return customers, nil
}

// Stats summarizes a segment: population and key behavioral means.
type Stats struct {
	Segment          string  `json:"segment"`
	Customers        int     `json:"customers"`
	MeanLateRate     float64 `json:"mean_late_payment_rate"`
	MeanAmount       float64 `json:"mean_payment_amount"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
}

// Summarize returns per-segment statistics for a segmented batch, ordered
// by segment label.
func Summarize(customers []dataset.CustomerRecord) []Stats {
	type acc struct{ late, amount, sat []float64 }
	groups := make(map[string]*acc)
	for _, c := range customers {
		g, ok := groups[c.Segment]
		if !ok {
			g = &acc{}
			groups[c.Segment] = g
		}
		g.late = append(g.late, c.LatePaymentRate)
		g.amount = append(g.amount, c.AvgPaymentAmount)
		g.sat = append(g.sat, c.Satisfaction)
	}

	out := make([]Stats, 0, len(groups))
	for seg, g := range groups {
		out = append(out, Stats{
			Segment:          seg,
			Customers:        len(g.late),
			MeanLateRate:     stat.Mean(g.late, nil),
			MeanAmount:       stat.Mean(g.amount, nil),
			MeanSatisfaction: stat.Mean(g.sat, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Segment < out[j].Segment })
	return out
}
