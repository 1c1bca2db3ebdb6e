package classifier

import (
	"errors"
	"testing"
	"time"

	"github.com/teamsignal/burnout-engine/internal/datagen"
	"github.com/teamsignal/burnout-engine/internal/models"
	"github.com/teamsignal/burnout-engine/internal/pipeline"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
}

func engineeredDataset(t *testing.T) models.Dataset {
	t.Helper()
	gen := datagen.New(datagen.DefaultProfile(), 20, 30, 42, datagen.WithNow(fixedNow))
	return pipeline.Engineer(gen.Generate())
}

func TestPredictBeforeTrain(t *testing.T) {
	m := New(DefaultConfig())
	if _, err := m.Predict(engineeredDataset(t)); !errors.Is(err, ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
	if _, err := m.Info(); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Info: expected ErrNotTrained, got %v", err)
	}
}

func TestTrainAndPredict(t *testing.T) {
	ds := engineeredDataset(t)
	m := New(DefaultConfig())

	info, err := m.Train(ds)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if info.ID == "" {
		t.Error("model ID is empty")
	}
	if info.TrainedAt.IsZero() {
		t.Error("trained_at is zero")
	}
	if len(info.Classes) == 0 {
		t.Error("no classes recorded")
	}
	for _, class := range info.Classes {
		if !models.BurnoutCategory(class).IsValid() {
			t.Errorf("unknown class %q", class)
		}
	}
	if len(info.FeatureColumns) != 13 {
		t.Errorf("feature columns = %d, want 13", len(info.FeatureColumns))
	}
	if info.HoldoutAccuracy < 0 || info.HoldoutAccuracy > 1 {
		t.Errorf("holdout accuracy %v out of [0,1]", info.HoldoutAccuracy)
	}
	if info.HoldoutAccuracy < 0.5 {
		t.Errorf("holdout accuracy %v suspiciously low for rule-derived labels", info.HoldoutAccuracy)
	}
	if info.TrainingRows <= 0 || info.TrainingRows >= len(ds) {
		t.Errorf("training rows = %d, want within (0, %d)", info.TrainingRows, len(ds))
	}

	scored, err := m.Predict(ds)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	agree := 0
	for _, row := range scored {
		if !row.Scored {
			t.Fatal("engineered row left unscored")
		}
		if !row.PredictedCategory.IsValid() {
			t.Fatalf("invalid predicted category %q", row.PredictedCategory)
		}
		if row.ProbaHigh < 0 || row.ProbaHigh > 1 {
			t.Fatalf("proba high %v out of [0,1]", row.ProbaHigh)
		}
		if row.PredictedCategory == row.Features.BurnoutCategory {
			agree++
		}
	}
	if ratio := float64(agree) / float64(len(scored)); ratio < 0.6 {
		t.Errorf("prediction agreement %.2f below expectation", ratio)
	}
}

func TestTrainDeterminism(t *testing.T) {
	ds := engineeredDataset(t)

	a := New(DefaultConfig())
	if _, err := a.Train(ds); err != nil {
		t.Fatal(err)
	}
	b := New(DefaultConfig())
	if _, err := b.Train(ds); err != nil {
		t.Fatal(err)
	}

	predA, err := a.Predict(ds)
	if err != nil {
		t.Fatal(err)
	}
	predB, err := b.Predict(ds)
	if err != nil {
		t.Fatal(err)
	}
	for i := range predA {
		if predA[i].PredictedCategory != predB[i].PredictedCategory {
			t.Fatalf("row %d: categories diverge under identical seeds", i)
		}
		if predA[i].ProbaHigh != predB[i].ProbaHigh {
			t.Fatalf("row %d: probabilities diverge under identical seeds", i)
		}
	}
}

func TestTrainDropsRowsWithoutFeatures(t *testing.T) {
	ds := engineeredDataset(t)
	withRaw := ds.Clone()
	withRaw = append(withRaw, models.Observation{
		EmployeeID: "EMP999", Date: fixedNow(), ActiveHours: 8, SleepHours: 7,
	})

	a := New(DefaultConfig())
	infoA, err := a.Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	b := New(DefaultConfig())
	infoB, err := b.Train(withRaw)
	if err != nil {
		t.Fatal(err)
	}
	if infoA.TrainingRows != infoB.TrainingRows {
		t.Errorf("raw row leaked into training: %d vs %d rows", infoA.TrainingRows, infoB.TrainingRows)
	}

	scored, err := b.Predict(withRaw)
	if err != nil {
		t.Fatal(err)
	}
	last := scored[len(scored)-1]
	if last.Scored {
		t.Error("row without features was scored")
	}
}

func TestTrainEmptyDataset(t *testing.T) {
	m := New(DefaultConfig())
	if _, err := m.Train(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}

	raw := models.Dataset{{EmployeeID: "EMP000", ActiveHours: 8}}
	if _, err := m.Train(raw); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset for raw-only dataset, got %v", err)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	ds := engineeredDataset(t)
	m := New(DefaultConfig())
	info, err := m.Train(ds)
	if err != nil {
		t.Fatal(err)
	}

	blob, err := m.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	restored, err := Restore(blob)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	restoredInfo, err := restored.Info()
	if err != nil {
		t.Fatal(err)
	}
	if restoredInfo.ID != info.ID {
		t.Errorf("model ID changed across restore: %q vs %q", restoredInfo.ID, info.ID)
	}
	if restoredInfo.HoldoutAccuracy != info.HoldoutAccuracy {
		t.Errorf("accuracy changed across restore: %v vs %v",
			restoredInfo.HoldoutAccuracy, info.HoldoutAccuracy)
	}
	if restoredInfo.Source != models.ModelSourceRestored {
		t.Errorf("source = %q, want %q", restoredInfo.Source, models.ModelSourceRestored)
	}

	before, err := m.Predict(ds)
	if err != nil {
		t.Fatal(err)
	}
	after, err := restored.Predict(ds)
	if err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i].PredictedCategory != after[i].PredictedCategory ||
			before[i].ProbaHigh != after[i].ProbaHigh {
			t.Fatalf("row %d: restored model disagrees with original", i)
		}
	}
}

func TestExportBeforeTrain(t *testing.T) {
	if _, err := New(DefaultConfig()).Export(); !errors.Is(err, ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	if _, err := Restore([]byte("not a bundle")); err == nil {
		t.Error("expected error for invalid blob")
	}
}

func TestProbaHighAbsentFromLabelSpace(t *testing.T) {
	// Two clean patterns that engineer to Low and Medium, never High.
	raw := make(models.Dataset, 0, 24)
	for i := 0; i < 12; i++ {
		empID := "EMP" + string(rune('A'+i))
		raw = append(raw, models.Observation{
			EmployeeID: empID, Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
			ActiveHours: 12.5, Meetings: 0, AfterHours: 0,
			SleepHours: 8, StressScore: 0.4, SkillLevel: 0.7,
		})
		raw = append(raw, models.Observation{
			EmployeeID: empID, Date: time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC),
			ActiveHours: 8, Meetings: 11, AfterHours: 0,
			SleepHours: 4.2, StressScore: 0.9, SkillLevel: 0.7,
		})
	}
	ds := pipeline.Engineer(raw)
	for _, row := range ds {
		if row.Features.BurnoutCategory == models.CategoryHigh {
			t.Fatalf("test fixture produced a High row: %+v", row.Features)
		}
	}

	m := New(DefaultConfig())
	info, err := m.Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	for _, class := range info.Classes {
		if class == string(models.CategoryHigh) {
			t.Fatal("High unexpectedly present in label space")
		}
	}

	scored, err := m.Predict(ds)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range scored {
		if row.ProbaHigh != 0 {
			t.Errorf("proba high = %v for label space without High", row.ProbaHigh)
		}
	}
}
