package datagen

import (
	"fmt"
	"math"
	"time"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// Generator produces a synthetic workforce dataset. A fixed seed and
// reference date yield a byte-identical dataset on every call.
type Generator struct {
	profile   Profile
	employees int
	days      int
	seed      int64
	now       func() time.Time
}

// Option adjusts a Generator
type Option func(*Generator)

// WithNow overrides the reference clock. Observation dates are derived
// from the clock, so tests pin it to keep output stable.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a generator for the given workforce size and history
// length. Draw counts depend on both, so changing either produces an
// entirely different dataset even under the same seed.
func New(profile Profile, employees, days int, seed int64, opts ...Option) *Generator {
	g := &Generator{
		profile:   profile,
		employees: employees,
		days:      days,
		seed:      seed,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the raw dataset: one row per employee per working day
// in the trailing window, with profile attributes joined onto every row.
// Weekend dates are skipped entirely, no draws are consumed for them.
func (g *Generator) Generate() models.Dataset {
	s := newSampler(g.seed)
	roster := g.roster(s)

	ref := g.now().UTC()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -g.days)

	rows := make(models.Dataset, 0, g.employees*g.days)
	for _, emp := range roster {
		for day := 0; day < g.days; day++ {
			date := start.AddDate(0, 0, day)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}

			base := s.Normal(g.profile.ActiveHours.Mean, g.profile.ActiveHours.StdDev)
			meetings := s.Poisson(g.profile.Meetings.Lambda)
			sleep := clamp(s.Normal(g.profile.SleepHours.Mean, g.profile.SleepHours.StdDev),
				g.profile.SleepHours.Min, g.profile.SleepHours.Max)
			stress := clamp(s.Beta(g.profile.Stress.Alpha, g.profile.Stress.Beta), 0, 1)
			steps := int(s.Normal(g.profile.Steps.Mean, g.profile.Steps.StdDev))

			rows = append(rows, models.Observation{
				EmployeeID: emp.ID,
				Date:       date,

				ActiveHours: round2(clamp(base, g.profile.ActiveHours.Min, g.profile.ActiveHours.Max)),
				Meetings:    meetings,
				FocusHours:  round2(math.Max(1, base-g.profile.FocusMeetingPenalty*float64(meetings))),
				SleepHours:  round1(sleep),
				StressScore: round2(stress),
				Steps:       steps,
				AfterHours:  round1(math.Max(0, base-g.profile.WorkdayHours)),

				Name:        emp.Name,
				Department:  emp.Department,
				Role:        emp.Role,
				TenureYears: emp.TenureYears,
				SkillLevel:  emp.SkillLevel,
			})
		}
	}
	return rows
}

// roster draws the static employee profiles. IDs and names are
// positional and stable across runs.
func (g *Generator) roster(s *sampler) []models.EmployeeProfile {
	roster := make([]models.EmployeeProfile, 0, g.employees)
	for i := 0; i < g.employees; i++ {
		roster = append(roster, models.EmployeeProfile{
			ID:          fmt.Sprintf("EMP%03d", i),
			Name:        fmt.Sprintf("Employee_%d", i),
			Department:  g.profile.Departments[s.Intn(len(g.profile.Departments))],
			Role:        g.profile.Roles[s.Intn(len(g.profile.Roles))],
			TenureYears: round1(s.Uniform(g.profile.TenureYears.Min, g.profile.TenureYears.Max)),
			SkillLevel:  round2(s.Uniform(g.profile.SkillLevel.Min, g.profile.SkillLevel.Max)),
		})
	}
	return roster
}
