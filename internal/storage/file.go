package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teamsignal/burnout-engine/internal/models"
)

const (
	bundleSuffix = ".bundle"
	metaSuffix   = ".json"
	latestMarker = "latest"
)

// FileStore keeps one bundle file plus a metadata sidecar per model
// under a single directory, with a marker file naming the latest model.
// Writes go through a temp file and rename, so readers never see a
// partial bundle.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("model directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the bundle, its metadata and the latest marker
func (s *FileStore) Save(ctx context.Context, rec *ModelRecord) error {
	if rec.Info.ID == "" {
		return fmt.Errorf("model record has no ID")
	}

	if err := s.writeAtomic(rec.Info.ID+bundleSuffix, rec.Bundle); err != nil {
		return fmt.Errorf("failed to write model bundle: %w", err)
	}

	meta, err := json.Marshal(rec.Info)
	if err != nil {
		return fmt.Errorf("failed to marshal model metadata: %w", err)
	}
	if err := s.writeAtomic(rec.Info.ID+metaSuffix, meta); err != nil {
		return fmt.Errorf("failed to write model metadata: %w", err)
	}

	if err := s.writeAtomic(latestMarker, []byte(rec.Info.ID)); err != nil {
		return fmt.Errorf("failed to update latest marker: %w", err)
	}
	return nil
}

// LoadLatest follows the marker to the newest saved record
func (s *FileStore) LoadLatest(ctx context.Context) (*ModelRecord, error) {
	marker, err := os.ReadFile(filepath.Join(s.dir, latestMarker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoModel
		}
		return nil, fmt.Errorf("failed to read latest marker: %w", err)
	}
	id := strings.TrimSpace(string(marker))

	bundle, err := os.ReadFile(filepath.Join(s.dir, id+bundleSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle %s: %w", id, err)
	}
	meta, err := os.ReadFile(filepath.Join(s.dir, id+metaSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata %s: %w", id, err)
	}

	rec := &ModelRecord{Bundle: bundle}
	if err := json.Unmarshal(meta, &rec.Info); err != nil {
		return nil, fmt.Errorf("failed to parse model metadata %s: %w", id, err)
	}
	return rec, nil
}

// List scans the metadata sidecars, newest first
func (s *FileStore) List(ctx context.Context, limit int) ([]models.ModelInfo, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+metaSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan model directory: %w", err)
	}

	infos := make([]models.ModelInfo, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var info models.ModelInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].TrainedAt.After(infos[j].TrainedAt)
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// Ping verifies the directory is still reachable
func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("model directory unavailable: %w", err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) writeAtomic(name string, data []byte) error {
	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
