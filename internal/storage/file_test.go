package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teamsignal/burnout-engine/internal/models"
)

func record(id string, trainedAt time.Time) *ModelRecord {
	return &ModelRecord{
		Info: models.ModelInfo{
			ID:              id,
			TrainedAt:       trainedAt,
			Classes:         []string{"High", "Low", "Medium"},
			FeatureColumns:  []string{"workload_index"},
			HoldoutAccuracy: 0.93,
			TrainingRows:    336,
			Source:          models.ModelSourceTrained,
		},
		Bundle: []byte("bundle-" + id),
	}
}

func TestFileStoreSaveLoadLatest(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := store.LoadLatest(ctx); !errors.Is(err, ErrNoModel) {
		t.Fatalf("empty store: expected ErrNoModel, got %v", err)
	}

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	first := record("0d7e3f6a-0001-4000-8000-000000000001", base)
	second := record("0d7e3f6a-0002-4000-8000-000000000002", base.Add(time.Hour))

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	latest, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if latest.Info.ID != second.Info.ID {
		t.Errorf("latest ID = %s, want %s", latest.Info.ID, second.Info.ID)
	}
	if !bytes.Equal(latest.Bundle, second.Bundle) {
		t.Error("bundle bytes changed across save/load")
	}
	if latest.Info.HoldoutAccuracy != 0.93 {
		t.Errorf("accuracy = %v, want 0.93", latest.Info.HoldoutAccuracy)
	}
	if !latest.Info.TrainedAt.Equal(second.Info.TrainedAt) {
		t.Errorf("trained_at = %v, want %v", latest.Info.TrainedAt, second.Info.TrainedAt)
	}
}

func TestFileStoreList(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{
		"0d7e3f6a-0001-4000-8000-000000000001",
		"0d7e3f6a-0002-4000-8000-000000000002",
		"0d7e3f6a-0003-4000-8000-000000000003",
	} {
		if err := store.Save(ctx, record(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("listed %d models, want 3", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i].TrainedAt.After(infos[i-1].TrainedAt) {
			t.Fatal("list not ordered newest first")
		}
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited list has %d entries, want 2", len(limited))
	}
	if limited[0].ID != "0d7e3f6a-0003-4000-8000-000000000003" {
		t.Errorf("newest model = %s, want the latest ID", limited[0].ID)
	}
}

func TestFileStoreSaveValidation(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), &ModelRecord{}); err == nil {
		t.Error("expected error for record without ID")
	}
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestFileStorePing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping on existing directory: %v", err)
	}
}
