// Package classifier trains and applies the burnout category model: a
// bagged ensemble of CART trees over standardized engineered features,
// with a sorted label codec and an 80/20 stratified holdout for the
// reported accuracy.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/teamsignal/burnout-engine/internal/models"
)

var (
	// ErrNotTrained is returned when predictions, metadata or exports
	// are requested before a successful training run.
	ErrNotTrained = errors.New("model not trained")

	// ErrEmptyDataset is returned when training finds no usable rows
	ErrEmptyDataset = errors.New("no trainable rows in dataset")
)

// Config holds the ensemble hyperparameters
type Config struct {
	Trees            int
	MaxDepth         int
	MinSplit         int
	FeaturesPerSplit int // 0 means sqrt of the feature count
	HoldoutFraction  float64
	Seed             int64
}

// DefaultConfig returns the standard training setup
func DefaultConfig() Config {
	return Config{
		Trees:           50,
		MaxDepth:        8,
		MinSplit:        2,
		HoldoutFraction: 0.2,
		Seed:            42,
	}
}

// Model is the burnout category classifier. It starts untrained; Train
// fits the codec, scaler and forest together and swaps them in as a
// unit, so readers never observe a partially fitted model. Model is not
// safe for concurrent use, callers serialize access.
type Model struct {
	cfg Config
	now func() time.Time

	trained  bool
	forest   *forest
	scaler   *standardScaler
	codec    *labelCodec
	features []string
	info     models.ModelInfo
}

// New creates an untrained model
func New(cfg Config) *Model {
	return &Model{cfg: cfg, now: time.Now}
}

// Train fits the model from scratch on the engineered rows of the
// dataset; rows without a feature block are dropped. The label space is
// encoded from the data, an 80/20 stratified holdout is carved out, the
// scaler is fitted on the training partition only, and the forest is
// grown on the standardized training matrix. The holdout partition is
// scored once with the fresh fit to report accuracy.
func (m *Model) Train(ds models.Dataset) (models.ModelInfo, error) {
	rows := ds.Engineered()
	if len(rows) == 0 {
		return models.ModelInfo{}, ErrEmptyDataset
	}

	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = string(row.Features.BurnoutCategory)
	}
	codec := fitLabels(labels)

	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		X[i] = featureVector(row)
		cls, ok := codec.Encode(labels[i])
		if !ok {
			return models.ModelInfo{}, fmt.Errorf("category %q missing from label space", labels[i])
		}
		y[i] = cls
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed))
	trainIdx, testIdx := stratifiedSplit(y, codec.Len(), m.cfg.HoldoutFraction, rng)
	if len(trainIdx) == 0 {
		return models.ModelInfo{}, ErrEmptyDataset
	}

	Xtrain := make([][]float64, len(trainIdx))
	ytrain := make([]int, len(trainIdx))
	for k, i := range trainIdx {
		Xtrain[k] = X[i]
		ytrain[k] = y[i]
	}

	scaler := fitScaler(Xtrain)

	mtry := m.cfg.FeaturesPerSplit
	if mtry <= 0 {
		mtry = int(math.Sqrt(float64(len(featureColumns))))
	}
	grown := fitForest(scaler.Transform(Xtrain), ytrain, codec.Len(), forestConfig{
		trees:            m.cfg.Trees,
		maxDepth:         m.cfg.MaxDepth,
		minSplit:         m.cfg.MinSplit,
		featuresPerSplit: mtry,
	}, rng)

	correct := 0
	for _, i := range testIdx {
		if argmax(grown.proba(scaler.TransformRow(X[i]))) == y[i] {
			correct++
		}
	}
	accuracy := 0.0
	if len(testIdx) > 0 {
		accuracy = float64(correct) / float64(len(testIdx))
	}

	info := models.ModelInfo{
		ID:              uuid.New().String(),
		TrainedAt:       m.now().UTC(),
		Classes:         append([]string(nil), codec.Classes...),
		FeatureColumns:  FeatureColumns(),
		HoldoutAccuracy: accuracy,
		TrainingRows:    len(trainIdx),
		Source:          models.ModelSourceTrained,
	}

	m.forest = grown
	m.scaler = scaler
	m.codec = codec
	m.features = FeatureColumns()
	m.info = info
	m.trained = true
	return info, nil
}

// Predict scores every engineered row and returns a new dataset with
// the prediction block filled: the most likely category plus the
// probability mass on High. When High was absent from the training
// label space the probability reports 0. Rows without features pass
// through unscored. The scaler is applied as fitted, never refitted.
func (m *Model) Predict(ds models.Dataset) (models.Dataset, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}

	out := ds.Clone()
	highIdx := m.codec.Index(string(models.CategoryHigh))
	for i := range out {
		if !out[i].Engineered {
			continue
		}
		probs := m.forest.proba(m.scaler.TransformRow(featureVector(out[i])))
		out[i].PredictedCategory = models.BurnoutCategory(m.codec.Decode(argmax(probs)))
		if highIdx >= 0 {
			out[i].ProbaHigh = probs[highIdx]
		} else {
			out[i].ProbaHigh = 0
		}
		out[i].Scored = true
	}
	return out, nil
}

// Info returns the metadata of the current fit
func (m *Model) Info() (models.ModelInfo, error) {
	if !m.trained {
		return models.ModelInfo{}, ErrNotTrained
	}
	return m.info, nil
}
