package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/reminder-optimizer/internal/dataset"
)

func TestEngine_Segment(t *testing.T) {
	customers, _ := dataset.NewGenerator(42).Generate(500)

	segmented, err := NewEngine(nil).Segment(customers)
	require.NoError(t, err)
	require.Len(t, segmented, 500)

	valid := make(map[string]bool)
	for _, l := range Labels() {
		valid[l] = true
	}

	for _, c := range segmented {
		assert.GreaterOrEqual(t, c.RScore, 1)
		assert.LessOrEqual(t, c.RScore, 5)
		assert.GreaterOrEqual(t, c.FScore, 1)
		assert.LessOrEqual(t, c.FScore, 5)
		assert.GreaterOrEqual(t, c.MScore, 1)
		assert.LessOrEqual(t, c.MScore, 5)
		assert.True(t, valid[c.Segment], "customer %s has unknown segment %q", c.CustomerID, c.Segment)
	}
}

func TestEngine_Segment_RecencyReversed(t *testing.T) {
	// The customer who paid most recently gets the highest R score.
	customers := []dataset.CustomerRecord{
		{CustomerID: "a", DaysSinceLastPay: 1, PaymentFrequency: 1, AvgPaymentAmount: 100},
		{CustomerID: "b", DaysSinceLastPay: 10, PaymentFrequency: 2, AvgPaymentAmount: 200},
		{CustomerID: "c", DaysSinceLastPay: 20, PaymentFrequency: 3, AvgPaymentAmount: 300},
		{CustomerID: "d", DaysSinceLastPay: 40, PaymentFrequency: 4, AvgPaymentAmount: 400},
		{CustomerID: "e", DaysSinceLastPay: 80, PaymentFrequency: 5, AvgPaymentAmount: 500},
	}

	segmented, err := NewEngine(nil).Segment(customers)
	require.NoError(t, err)

	assert.Equal(t, 5, segmented[0].RScore)
	assert.Equal(t, 1, segmented[4].RScore)
	assert.Equal(t, 1, segmented[0].FScore)
	assert.Equal(t, 5, segmented[4].FScore)
	assert.Equal(t, 1, segmented[0].MScore)
	assert.Equal(t, 5, segmented[4].MScore)
}

func TestEngine_Segment_EmptyBatch(t *testing.T) {
	_, err := NewEngine(nil).Segment(nil)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	customers, _ := dataset.NewGenerator(42).Generate(1000)
	segmented, err := NewEngine(nil).Segment(customers)
	require.NoError(t, err)

	stats := Summarize(segmented)
	require.NotEmpty(t, stats)

	total := 0
	for _, s := range stats {
		total += s.Customers
		assert.Greater(t, s.Customers, 0)
		assert.GreaterOrEqual(t, s.MeanLateRate, 0.0)
		assert.LessOrEqual(t, s.MeanLateRate, 1.0)
		assert.GreaterOrEqual(t, s.MeanAmount, 50.0)
		assert.LessOrEqual(t, s.MeanAmount, 5000.0)
		assert.GreaterOrEqual(t, s.MeanSatisfaction, 1.0)
		assert.LessOrEqual(t, s.MeanSatisfaction, 5.0)
	}
	assert.Equal(t, 1000, total)
}
