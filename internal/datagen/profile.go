package datagen

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// NormalSpec parameterizes a normal distribution
type NormalSpec struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// ClampedNormal is a normal draw clamped into [Min, Max]
type ClampedNormal struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// PoissonSpec parameterizes a Poisson distribution
type PoissonSpec struct {
	Lambda float64 `yaml:"lambda"`
}

// BetaSpec parameterizes a beta distribution
type BetaSpec struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// RangeSpec is a uniform draw over [Min, Max)
type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Profile bundles every tunable of the synthetic workforce: the
// categorical sets and the distribution parameters of each daily
// metric. The zero value is not usable; start from DefaultProfile.
type Profile struct {
	Departments []models.Department `yaml:"departments"`
	Roles       []models.Role       `yaml:"roles"`

	ActiveHours ClampedNormal `yaml:"active_hours"`
	Meetings    PoissonSpec   `yaml:"meetings"`
	SleepHours  ClampedNormal `yaml:"sleep_hours"`
	Stress      BetaSpec      `yaml:"stress"`
	Steps       NormalSpec    `yaml:"steps"`
	TenureYears RangeSpec     `yaml:"tenure_years"`
	SkillLevel  RangeSpec     `yaml:"skill_level"`

	// FocusMeetingPenalty is the hours of focus time lost per meeting.
	// WorkdayHours is the threshold above which active time counts as
	// after-hours work.
	FocusMeetingPenalty float64 `yaml:"focus_meeting_penalty"`
	WorkdayHours        float64 `yaml:"workday_hours"`
}

// DefaultProfile returns the built-in workforce profile
func DefaultProfile() Profile {
	return Profile{
		Departments: models.Departments(),
		Roles:       models.Roles(),
		ActiveHours: ClampedNormal{Mean: 6, StdDev: 2, Min: 4, Max: 14},
		Meetings:    PoissonSpec{Lambda: 5},
		SleepHours:  ClampedNormal{Mean: 7, StdDev: 1, Min: 4, Max: 10},
		Stress:      BetaSpec{Alpha: 2, Beta: 5},
		Steps:       NormalSpec{Mean: 7000, StdDev: 2000},
		TenureYears: RangeSpec{Min: 0.5, Max: 8},
		SkillLevel:  RangeSpec{Min: 0.6, Max: 1.0},

		FocusMeetingPenalty: 0.5,
		WorkdayHours:        8,
	}
}

// LoadProfile reads a YAML profile from path. Fields absent from the
// file keep their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	slog.Info("generation profile loaded", "path", path,
		"departments", len(profile.Departments), "roles", len(profile.Roles))
	return profile, nil
}

// Validate checks that every distribution parameter is usable
func (p Profile) Validate() error {
	if len(p.Departments) == 0 {
		return fmt.Errorf("profile requires at least one department")
	}
	if len(p.Roles) == 0 {
		return fmt.Errorf("profile requires at least one role")
	}
	if p.ActiveHours.StdDev <= 0 || p.SleepHours.StdDev <= 0 || p.Steps.StdDev <= 0 {
		return fmt.Errorf("normal stddev must be positive")
	}
	if p.ActiveHours.Min >= p.ActiveHours.Max {
		return fmt.Errorf("active_hours clamp range is empty")
	}
	if p.SleepHours.Min >= p.SleepHours.Max {
		return fmt.Errorf("sleep_hours clamp range is empty")
	}
	if p.Meetings.Lambda <= 0 {
		return fmt.Errorf("meetings lambda must be positive")
	}
	if p.Stress.Alpha <= 0 || p.Stress.Beta <= 0 {
		return fmt.Errorf("stress beta parameters must be positive")
	}
	if p.TenureYears.Min >= p.TenureYears.Max {
		return fmt.Errorf("tenure_years range is empty")
	}
	if p.SkillLevel.Min >= p.SkillLevel.Max {
		return fmt.Errorf("skill_level range is empty")
	}
	if p.FocusMeetingPenalty < 0 {
		return fmt.Errorf("focus_meeting_penalty must be non-negative")
	}
	if p.WorkdayHours <= 0 {
		return fmt.Errorf("workday_hours must be positive")
	}
	return nil
}
