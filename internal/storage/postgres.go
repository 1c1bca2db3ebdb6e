package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// PostgresStore implements ModelStore using PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresStore creates a connection pool, verifies connectivity and
// ensures the model table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// ensureSchema creates the model table if it doesn't exist
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS burnout_models (
			id UUID PRIMARY KEY,
			trained_at TIMESTAMP WITH TIME ZONE NOT NULL,
			source VARCHAR(32) NOT NULL,
			classes JSONB NOT NULL,
			feature_columns JSONB NOT NULL,
			holdout_accuracy DOUBLE PRECISION NOT NULL,
			training_rows INTEGER NOT NULL,
			bundle BYTEA NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure model table: %w", err)
	}
	return nil
}

// Save inserts a model record; saving the same ID twice is a no-op
func (s *PostgresStore) Save(ctx context.Context, rec *ModelRecord) error {
	classesJSON, err := json.Marshal(rec.Info.Classes)
	if err != nil {
		return fmt.Errorf("failed to marshal classes: %w", err)
	}
	columnsJSON, err := json.Marshal(rec.Info.FeatureColumns)
	if err != nil {
		return fmt.Errorf("failed to marshal feature columns: %w", err)
	}

	query := `
		INSERT INTO burnout_models (id, trained_at, source, classes, feature_columns, holdout_accuracy, training_rows, bundle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = s.pool.Exec(ctx, query,
		rec.Info.ID,
		rec.Info.TrainedAt,
		rec.Info.Source,
		classesJSON,
		columnsJSON,
		rec.Info.HoldoutAccuracy,
		rec.Info.TrainingRows,
		rec.Bundle,
	)
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// LoadLatest returns the newest record by training time
func (s *PostgresStore) LoadLatest(ctx context.Context) (*ModelRecord, error) {
	query, args, err := sq.Select("id", "trained_at", "source", "classes", "feature_columns", "holdout_accuracy", "training_rows", "bundle").
		From("burnout_models").
		OrderBy("trained_at DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rec ModelRecord
	var classesJSON, columnsJSON []byte

	err = s.pool.QueryRow(ctx, query, args...).Scan(
		&rec.Info.ID,
		&rec.Info.TrainedAt,
		&rec.Info.Source,
		&classesJSON,
		&columnsJSON,
		&rec.Info.HoldoutAccuracy,
		&rec.Info.TrainingRows,
		&rec.Bundle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoModel
		}
		return nil, fmt.Errorf("failed to load latest model: %w", err)
	}

	if err := json.Unmarshal(classesJSON, &rec.Info.Classes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classes: %w", err)
	}
	if err := json.Unmarshal(columnsJSON, &rec.Info.FeatureColumns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature columns: %w", err)
	}
	return &rec, nil
}

// List returns model metadata newest first without bundles
func (s *PostgresStore) List(ctx context.Context, limit int) ([]models.ModelInfo, error) {
	builder := sq.Select("id", "trained_at", "source", "classes", "feature_columns", "holdout_accuracy", "training_rows").
		From("burnout_models").
		OrderBy("trained_at DESC").
		PlaceholderFormat(sq.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var infos []models.ModelInfo
	for rows.Next() {
		var info models.ModelInfo
		var classesJSON, columnsJSON []byte

		err := rows.Scan(
			&info.ID,
			&info.TrainedAt,
			&info.Source,
			&classesJSON,
			&columnsJSON,
			&info.HoldoutAccuracy,
			&info.TrainingRows,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}

		if err := json.Unmarshal(classesJSON, &info.Classes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal classes: %w", err)
		}
		if err := json.Unmarshal(columnsJSON, &info.FeatureColumns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature columns: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating models: %w", err)
	}
	return infos, nil
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
