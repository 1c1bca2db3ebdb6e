// Package engine owns the live workforce dataset and the model serving
// predictions over it. A refresh rebuilds both from scratch and swaps
// them in atomically; readers always see a complete snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamsignal/burnout-engine/internal/classifier"
	"github.com/teamsignal/burnout-engine/internal/datagen"
	"github.com/teamsignal/burnout-engine/internal/models"
	"github.com/teamsignal/burnout-engine/internal/observability"
	"github.com/teamsignal/burnout-engine/internal/pipeline"
	"github.com/teamsignal/burnout-engine/internal/storage"
)

// ErrNoSnapshot is returned by readers before the first successful
// refresh has published a dataset.
var ErrNoSnapshot = errors.New("no dataset snapshot available")

// Engine defines the interface for dataset lifecycle management
type Engine interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
	Snapshot() (models.Dataset, models.Snapshot, error)
	Model() (models.ModelInfo, error)
	RestoreModel(ctx context.Context) (models.ModelInfo, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config holds the dataset shape and base seed for refresh cycles
type Config struct {
	Employees int
	Days      int
	Seed      int64
}

// DatasetEngine implements Engine with the in-process generate,
// engineer, train and score stages.
type DatasetEngine struct {
	cfg        Config
	profile    datagen.Profile
	classifier classifier.Config
	store      storage.ModelStore
	metrics    *observability.Metrics
	now        func() time.Time

	// refreshMu serializes refresh cycles; mu guards the published
	// snapshot state. Refresh does its heavy work outside mu and takes
	// it only for the final swap.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	dataset   models.Dataset
	snapshot  models.Snapshot
	ready     bool
	predictor *classifier.Model
	modelInfo models.ModelInfo
	hasModel  bool
	cycles    int64
}

// Option adjusts a DatasetEngine
type Option func(*DatasetEngine)

// WithNow overrides the clock used for snapshot and model timestamps
// and for the generator's reference date
func WithNow(now func() time.Time) Option {
	return func(e *DatasetEngine) { e.now = now }
}

// WithClassifierConfig overrides the ensemble hyperparameters
func WithClassifierConfig(cfg classifier.Config) Option {
	return func(e *DatasetEngine) { e.classifier = cfg }
}

// NewDatasetEngine creates an engine with no published snapshot. The
// caller runs Refresh once to bring it to a serving state.
func NewDatasetEngine(cfg Config, profile datagen.Profile, store storage.ModelStore, metrics *observability.Metrics, opts ...Option) *DatasetEngine {
	e := &DatasetEngine{
		cfg:        cfg,
		profile:    profile,
		classifier: classifier.DefaultConfig(),
		store:      store,
		metrics:    metrics,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Refresh rebuilds the dataset end to end: generate a fresh workforce
// history, engineer its features, train a new model and score every
// row. The new dataset, snapshot and model replace the old ones in a
// single swap only after every stage succeeds. Each cycle advances the
// generation seed so consecutive refreshes produce different data
// while the whole sequence stays reproducible from the base seed.
func (e *DatasetEngine) Refresh(ctx context.Context) (result *models.RefreshResult, err error) {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	start := time.Now()
	defer func() {
		e.metrics.RefreshCompleted(time.Since(start), err == nil)
	}()

	seed := e.cfg.Seed + e.cycles
	gen := datagen.New(e.profile, e.cfg.Employees, e.cfg.Days, seed, datagen.WithNow(e.now))
	raw := gen.Generate()

	engineered := pipeline.Engineer(raw)
	e.metrics.RowsEngineered(len(engineered))

	fresh := classifier.New(e.classifier)
	info, err := fresh.Train(engineered)
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}

	scored, err := fresh.Predict(engineered)
	if err != nil {
		return nil, fmt.Errorf("failed to score dataset: %w", err)
	}
	e.metrics.PredictionsScored(len(scored))

	snapshot := models.Snapshot{
		ID:          uuid.New().String(),
		GeneratedAt: e.now().UTC(),
		Employees:   e.cfg.Employees,
		Days:        e.cfg.Days,
		Rows:        len(scored),
		Seed:        seed,
	}

	e.saveModel(ctx, fresh, info)

	e.mu.Lock()
	e.dataset = scored
	e.snapshot = snapshot
	e.ready = true
	e.predictor = fresh
	e.modelInfo = info
	e.hasModel = true
	e.cycles++
	e.mu.Unlock()

	e.metrics.SetModelAccuracy(info.HoldoutAccuracy)

	slog.Info("dataset refreshed",
		"snapshot_id", snapshot.ID,
		"rows", snapshot.Rows,
		"model_id", info.ID,
		"holdout_accuracy", info.HoldoutAccuracy,
		"duration", time.Since(start),
	)

	return &models.RefreshResult{Snapshot: snapshot, Model: info}, nil
}

// saveModel persists the freshly trained bundle. Storage trouble is
// logged and swallowed: the in-memory refresh result stands either way.
func (e *DatasetEngine) saveModel(ctx context.Context, m *classifier.Model, info models.ModelInfo) {
	blob, err := m.Export()
	if err != nil {
		slog.Error("failed to export model bundle", "error", err, "model_id", info.ID)
		return
	}

	if err := e.store.Save(ctx, &storage.ModelRecord{Info: info, Bundle: blob}); err != nil {
		slog.Error("failed to save model bundle", "error", err, "model_id", info.ID)
		return
	}

	slog.Info("model bundle saved", "model_id", info.ID, "bytes", len(blob))
}

// Snapshot returns the current scored dataset and its metadata. The
// returned dataset is shared and must be treated as read-only; a
// refresh replaces the slice wholesale instead of mutating it.
func (e *DatasetEngine) Snapshot() (models.Dataset, models.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ready {
		return nil, models.Snapshot{}, ErrNoSnapshot
	}
	return e.dataset, e.snapshot, nil
}

// Model returns the metadata of the model currently serving
// predictions
func (e *DatasetEngine) Model() (models.ModelInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.hasModel {
		return models.ModelInfo{}, classifier.ErrNotTrained
	}
	return e.modelInfo, nil
}

// RestoreModel loads the latest stored bundle into the engine so the
// model endpoint can report it before the first refresh completes.
// Callers detect an empty store with errors.Is(err, storage.ErrNoModel).
func (e *DatasetEngine) RestoreModel(ctx context.Context) (models.ModelInfo, error) {
	rec, err := e.store.LoadLatest(ctx)
	if err != nil {
		return models.ModelInfo{}, fmt.Errorf("failed to load stored model: %w", err)
	}

	restored, err := classifier.Restore(rec.Bundle)
	if err != nil {
		return models.ModelInfo{}, fmt.Errorf("failed to restore model: %w", err)
	}

	info, err := restored.Info()
	if err != nil {
		return models.ModelInfo{}, fmt.Errorf("failed to read restored model info: %w", err)
	}

	e.mu.Lock()
	e.predictor = restored
	e.modelInfo = info
	e.hasModel = true
	e.mu.Unlock()

	e.metrics.SetModelAccuracy(info.HoldoutAccuracy)

	slog.Info("model restored from store",
		"model_id", info.ID,
		"trained_at", info.TrainedAt,
		"holdout_accuracy", info.HoldoutAccuracy,
	)

	return info, nil
}

// Ping checks if the engine is operational
func (e *DatasetEngine) Ping(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("model store ping failed: %w", err)
	}
	return nil
}

// Close releases the engine's backing resources
func (e *DatasetEngine) Close() error {
	return e.store.Close()
}
