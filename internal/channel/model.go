package channel

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/ignite/reminder-optimizer/internal/dataset"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
)

// TrainConfig holds the channel-model training parameters.
type TrainConfig struct {
	Trees         int     // ensemble size (default 100)
	FeatureTarget int     // features kept by elimination (default 10)
	TestFraction  float64 // held-out share (default 0.3)
	Seed          int64
}

// FeatureImportance pairs a selected feature with its trained importance.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Model is the trained channel classifier artifact: the fitted ensemble,
// the ordered selected feature names, and the held-out validation report.
// It is written once by Train and read-only afterwards.
type Model struct {
	forest        *Forest
	selected      []int
	SelectedNames []string
	Accuracy      float64
	Ranking       []FeatureImportance
}

// Train selects the most predictive interaction features, fits the
// ensemble on a seeded 70/30 split, and reports held-out accuracy and the
// importance ranking.
func Train(interactions []dataset.InteractionRecord, cfg TrainConfig) (*Model, error) {
	if len(interactions) == 0 {
		return nil, fmt.Errorf("train channel model: no interaction rows")
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.FeatureTarget <= 0 {
		cfg.FeatureTarget = 10
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.3
	}

	names := dataset.FeatureNames()
	X := make([][]float64, len(interactions))
	y := make([]string, len(interactions))
	for i, ir := range interactions {
		X[i] = ir.Features()
		y[i] = ir.BestChannel
	}

	selected, err := SelectFeatures(func() Classifier {
		return NewForest(cfg.Trees, cfg.Seed)
	}, X, y, names, cfg.FeatureTarget)
	if err != nil {
		return nil, err
	}

	selectedNames := make([]string, len(selected))
	for i, idx := range selected {
		selectedNames[i] = names[idx]
	}
	Xsel := columns(X, selected)

	// Seeded shuffle split for reproducible validation.
	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(len(Xsel))
	testN := int(math.Round(float64(len(Xsel)) * cfg.TestFraction))
	trainIdx, testIdx := perm[testN:], perm[:testN]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]string, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = Xsel[idx]
		trainY[i] = y[idx]
	}

	forest := NewForest(cfg.Trees, cfg.Seed)
	if err := forest.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("train channel model: %w", err)
	}

	accuracy := 0.0
	if len(testIdx) > 0 {
		hits := 0
		for _, idx := range testIdx {
			if forest.Predict(Xsel[idx]) == y[idx] {
				hits++
			}
		}
		accuracy = float64(hits) / float64(len(testIdx))
	} else {
		logger.Warn("channel model: no held-out rows, accuracy not measured", "rows", len(Xsel))
	}

	imp := forest.FeatureImportances()
	ranking := make([]FeatureImportance, len(selectedNames))
	for i, name := range selectedNames {
		ranking[i] = FeatureImportance{Feature: name, Importance: imp[i]}
	}
	sort.SliceStable(ranking, func(a, b int) bool { return ranking[a].Importance > ranking[b].Importance })

	logger.Info("trained channel model",
		"rows", len(interactions),
		"selected_features", len(selectedNames),
		"accuracy", fmt.Sprintf("%.4f", accuracy))

	return &Model{
		forest:        forest,
		selected:      selected,
		SelectedNames: selectedNames,
		Accuracy:      accuracy,
		Ranking:       ranking,
	}, nil
}

// Predict returns the best contact channel for a full feature row in
// dataset.FeatureNames order. The model applies its own feature selection.
func (m *Model) Predict(features []float64) (string, error) {
	if len(features) != len(dataset.FeatureNames()) {
		return "", fmt.Errorf("predict channel: want %d features, got %d", len(dataset.FeatureNames()), len(features))
	}
	row := make([]float64, len(m.selected))
	for i, idx := range m.selected {
		row[i] = features[idx]
	}
	return m.forest.Predict(row), nil
}
