package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/reminder-optimizer/internal/dataset"
)

func TestTrain(t *testing.T) {
	_, interactions := dataset.NewGenerator(42).Generate(400)

	model, err := Train(interactions, TrainConfig{Trees: 25, FeatureTarget: 10, TestFraction: 0.3, Seed: 42})
	require.NoError(t, err)

	// Five candidate features, so the target of ten keeps them all.
	assert.Equal(t, dataset.FeatureNames(), model.SelectedNames)
	assert.Greater(t, model.Accuracy, 0.0)
	assert.LessOrEqual(t, model.Accuracy, 1.0)

	require.Len(t, model.Ranking, len(model.SelectedNames))
	sum := 0.0
	for i, fi := range model.Ranking {
		sum += fi.Importance
		if i > 0 {
			assert.GreaterOrEqual(t, model.Ranking[i-1].Importance, fi.Importance)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTrain_Deterministic(t *testing.T) {
	_, interactions := dataset.NewGenerator(42).Generate(300)
	cfg := TrainConfig{Trees: 15, FeatureTarget: 3, TestFraction: 0.3, Seed: 7}

	a, err := Train(interactions, cfg)
	require.NoError(t, err)
	b, err := Train(interactions, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.SelectedNames, b.SelectedNames)
	assert.Equal(t, a.Accuracy, b.Accuracy)
	assert.Equal(t, a.Ranking, b.Ranking)
}

func TestTrain_Empty(t *testing.T) {
	_, err := Train(nil, TrainConfig{})
	assert.Error(t, err)
}

func TestModel_Predict(t *testing.T) {
	_, interactions := dataset.NewGenerator(42).Generate(300)

	model, err := Train(interactions, TrainConfig{Trees: 15, Seed: 42})
	require.NoError(t, err)

	valid := make(map[string]bool)
	for _, c := range dataset.Channels() {
		valid[c] = true
	}
	for _, ir := range interactions[:50] {
		got, err := model.Predict(ir.Features())
		require.NoError(t, err)
		assert.True(t, valid[got], "predicted unknown channel %q", got)
	}

	_, err = model.Predict([]float64{1, 2})
	assert.Error(t, err)
}
