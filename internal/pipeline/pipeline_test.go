package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/segmentation"
	"github.com/ignite/reminder-optimizer/internal/strategy"
)

func testOptions() Options {
	opts := FromConfig(config.Default())
	opts.Trees = 25 // keep the suite fast
	return opts
}

func TestRun_EndToEnd(t *testing.T) {
	customers, interactions := dataset.NewGenerator(42).Generate(1000)
	runner := New(testOptions())
	ctx := context.Background()

	result, err := runner.Run(ctx, customers, interactions)
	require.NoError(t, err)

	// Every segment label appears on a batch this size.
	bySegment := make(map[string]int)
	for _, c := range result.Segmented {
		bySegment[c.Segment]++
	}
	for _, label := range segmentation.Labels() {
		assert.Greater(t, bySegment[label], 0, "segment %q is empty", label)
	}

	assert.Greater(t, result.Model.Accuracy, 0.0)
	assert.Less(t, result.Model.Accuracy, 1.0)

	require.Len(t, result.Policies, len(bySegment))
	for segment, p := range result.Policies {
		assert.Equal(t, segment, p.Segment)
		assert.GreaterOrEqual(t, p.OptimalFrequency, 1)
		assert.LessOrEqual(t, p.OptimalFrequency, 5)
		assert.GreaterOrEqual(t, p.ExpectedResponseRate, 0.0)
		assert.LessOrEqual(t, p.ExpectedResponseRate, 1.0)
	}

	validChannels := make(map[string]bool)
	for _, c := range dataset.Channels() {
		validChannels[c] = true
	}

	s, err := result.SynthesizeStrategy(ctx, customers[0].CustomerID)
	require.NoError(t, err)
	assert.Equal(t, customers[0].CustomerID, s.CustomerID)
	assert.True(t, validChannels[s.OptimalChannel])
	assert.GreaterOrEqual(t, s.PersonalizationConfidence, 0.7)
	assert.LessOrEqual(t, s.PersonalizationConfidence, 1.0)

	all := result.SynthesizeAll(ctx)
	assert.Len(t, all, len(result.Merged))
}

func TestRun_ExperimentOnRealPolicies(t *testing.T) {
	customers, interactions := dataset.NewGenerator(42).Generate(600)
	runner := New(testOptions())

	result, err := runner.Run(context.Background(), customers, interactions)
	require.NoError(t, err)

	exp, err := runner.RunExperiment(result.Segmented[:200], result.Policies, "control", "personalized")
	require.NoError(t, err)
	assert.Len(t, exp.Outcomes, 200)
	assert.NotEmpty(t, exp.RunID)
}

func TestRun_WithCache(t *testing.T) {
	customers, interactions := dataset.NewGenerator(42).Generate(300)
	opts := testOptions()
	cache := strategy.NewMemoryCache()
	opts.Cache = cache
	runner := New(opts)
	ctx := context.Background()

	result, err := runner.Run(ctx, customers, interactions)
	require.NoError(t, err)

	first, err := result.SynthesizeStrategy(ctx, customers[0].CustomerID)
	require.NoError(t, err)
	second, err := result.SynthesizeStrategy(ctx, customers[0].CustomerID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cached, err := cache.Get(ctx, customers[0].CustomerID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, first, *cached)
}

func TestRun_EmptyInput(t *testing.T) {
	runner := New(testOptions())

	_, err := runner.Run(context.Background(), nil, nil)
	assert.Error(t, err)

	customers, _ := dataset.NewGenerator(42).Generate(10)
	_, err = runner.Run(context.Background(), customers, nil)
	assert.Error(t, err)
}

func TestSynthesizeStrategy_UnknownCustomer(t *testing.T) {
	customers, interactions := dataset.NewGenerator(42).Generate(100)
	runner := New(testOptions())

	result, err := runner.Run(context.Background(), customers, interactions)
	require.NoError(t, err)

	_, err = result.SynthesizeStrategy(context.Background(), "CUST_9999")
	assert.ErrorContains(t, err, "unknown customer")
}
