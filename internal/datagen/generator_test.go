package datagen

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/teamsignal/burnout-engine/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 21, 15, 30, 0, 0, time.UTC)
}

func containsDept(set []models.Department, d models.Department) bool {
	for _, v := range set {
		if v == d {
			return true
		}
	}
	return false
}

func testGenerator(seed int64) *Generator {
	return New(DefaultProfile(), 5, 30, seed, WithNow(fixedNow))
}

func TestGenerateReproducible(t *testing.T) {
	a := testGenerator(42).Generate()
	b := testGenerator(42).Generate()

	if len(a) == 0 {
		t.Fatal("expected non-empty dataset")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and reference date produced different datasets")
	}
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	a := testGenerator(42).Generate()
	b := testGenerator(43).Generate()

	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical datasets")
	}
}

func TestGenerateSkipsWeekends(t *testing.T) {
	const days = 30
	ds := New(DefaultProfile(), 3, days, 7, WithNow(fixedNow)).Generate()

	ref := fixedNow().UTC()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	weekdays := 0
	for d := 0; d < days; d++ {
		wd := start.AddDate(0, 0, d).Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			weekdays++
		}
	}

	if want := 3 * weekdays; len(ds) != want {
		t.Errorf("expected %d rows, got %d", want, len(ds))
	}
	for _, row := range ds {
		if wd := row.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend row generated for %s", row.Date)
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	p := DefaultProfile()
	ds := New(p, 10, 30, 42, WithNow(fixedNow)).Generate()

	for _, row := range ds {
		if row.ActiveHours < p.ActiveHours.Min || row.ActiveHours > p.ActiveHours.Max {
			t.Fatalf("active hours %v out of clamp range", row.ActiveHours)
		}
		if row.SleepHours < p.SleepHours.Min || row.SleepHours > p.SleepHours.Max {
			t.Fatalf("sleep hours %v out of clamp range", row.SleepHours)
		}
		if row.StressScore < 0 || row.StressScore > 1 {
			t.Fatalf("stress score %v out of [0,1]", row.StressScore)
		}
		if row.FocusHours < 1 {
			t.Fatalf("focus hours %v below floor", row.FocusHours)
		}
		if row.AfterHours < 0 {
			t.Fatalf("after-hours work %v negative", row.AfterHours)
		}
		if row.Meetings < 0 {
			t.Fatalf("negative meeting count %d", row.Meetings)
		}
		if row.TenureYears < p.TenureYears.Min || row.TenureYears > p.TenureYears.Max {
			t.Fatalf("tenure %v out of range", row.TenureYears)
		}
		if row.SkillLevel < p.SkillLevel.Min || row.SkillLevel > p.SkillLevel.Max {
			t.Fatalf("skill %v out of range", row.SkillLevel)
		}
		if !containsDept(p.Departments, row.Department) {
			t.Fatalf("unknown department %q", row.Department)
		}
	}
}

func TestRosterIdentity(t *testing.T) {
	ds := New(DefaultProfile(), 3, 10, 42, WithNow(fixedNow)).Generate()

	ids := ds.EmployeeIDs()
	want := []string{"EMP000", "EMP001", "EMP002"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("employee IDs = %v, want %v", ids, want)
	}
	if ds[0].Name != "Employee_0" {
		t.Errorf("first employee name = %q, want Employee_0", ds[0].Name)
	}
}

func TestSamplerMoments(t *testing.T) {
	const n = 20000
	s := newSampler(1)

	var sum float64
	for i := 0; i < n; i++ {
		sum += s.Normal(6, 2)
	}
	if mean := sum / n; math.Abs(mean-6) > 0.1 {
		t.Errorf("normal sample mean = %v, want ~6", mean)
	}

	s = newSampler(2)
	sum = 0
	for i := 0; i < n; i++ {
		sum += float64(s.Poisson(5))
	}
	if mean := sum / n; math.Abs(mean-5) > 0.15 {
		t.Errorf("poisson sample mean = %v, want ~5", mean)
	}

	s = newSampler(3)
	sum = 0
	for i := 0; i < n; i++ {
		v := s.Beta(2, 5)
		if v < 0 || v > 1 {
			t.Fatalf("beta draw %v out of [0,1]", v)
		}
		sum += v
	}
	if mean := sum / n; math.Abs(mean-2.0/7.0) > 0.05 {
		t.Errorf("beta sample mean = %v, want ~%v", mean, 2.0/7.0)
	}

	s = newSampler(4)
	for i := 0; i < 1000; i++ {
		if v := s.Uniform(0.5, 8); v < 0.5 || v >= 8 {
			t.Fatalf("uniform draw %v out of [0.5, 8)", v)
		}
	}
}

func TestSamplerDeterminism(t *testing.T) {
	a := newSampler(99)
	b := newSampler(99)
	for i := 0; i < 100; i++ {
		if a.Poisson(5) != b.Poisson(5) {
			t.Fatal("same-seed samplers diverged")
		}
	}
}

func TestRoundHelpers(t *testing.T) {
	if got := round2(0.123456); got != 0.12 {
		t.Errorf("round2(0.123456) = %v", got)
	}
	if got := round2(0.987654); got != 0.99 {
		t.Errorf("round2(0.987654) = %v", got)
	}
	if got := round1(6.74); got != 6.7 {
		t.Errorf("round1(6.74) = %v", got)
	}
	if got := round1(6.76); got != 6.8 {
		t.Errorf("round1(6.76) = %v", got)
	}
}

func TestDefaultProfileValid(t *testing.T) {
	if err := DefaultProfile().Validate(); err != nil {
		t.Fatalf("default profile failed validation: %v", err)
	}
}

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := []byte("meetings:\n  lambda: 3\nworkday_hours: 7\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Meetings.Lambda != 3 {
		t.Errorf("lambda = %v, want 3", p.Meetings.Lambda)
	}
	if p.WorkdayHours != 7 {
		t.Errorf("workday_hours = %v, want 7", p.WorkdayHours)
	}
	if p.ActiveHours.Mean != 6 {
		t.Errorf("active_hours mean = %v, want default 6", p.ActiveHours.Mean)
	}
	if len(p.Departments) != 5 {
		t.Errorf("departments = %v, want defaults", p.Departments)
	}
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := []byte("active_hours:\n  mean: 6\n  stddev: -1\n  min: 4\n  max: 14\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Error("expected validation error for negative stddev")
	}
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
