package storage

import (
	"context"
	"errors"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// ErrNoModel is returned by LoadLatest when the store holds nothing
var ErrNoModel = errors.New("no stored model")

// ModelRecord is a persisted model bundle plus its metadata
type ModelRecord struct {
	Info   models.ModelInfo `json:"info"`
	Bundle []byte           `json:"-"`
}

// ModelStore defines the interface for trained-model persistence
type ModelStore interface {
	// Save persists a bundle under its model ID
	Save(ctx context.Context, rec *ModelRecord) error

	// LoadLatest returns the most recently trained record, or
	// ErrNoModel when the store is empty.
	LoadLatest(ctx context.Context) (*ModelRecord, error)

	// List returns model metadata newest first, at most limit entries
	// (0 means no cap). Bundles are not loaded.
	List(ctx context.Context, limit int) ([]models.ModelInfo, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
