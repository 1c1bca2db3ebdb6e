package models

import "time"

// BurnoutCategory buckets a burnout risk index into a coarse label
type BurnoutCategory string

const (
	CategoryLow    BurnoutCategory = "Low"
	CategoryMedium BurnoutCategory = "Medium"
	CategoryHigh   BurnoutCategory = "High"
)

// Risk thresholds for category assignment
const (
	HighRiskThreshold   = 0.70
	MediumRiskThreshold = 0.50
)

// CategoryForRisk maps a risk index to its category. Boundaries are
// inclusive: 0.70 is High and 0.50 is Medium.
func CategoryForRisk(risk float64) BurnoutCategory {
	switch {
	case risk >= HighRiskThreshold:
		return CategoryHigh
	case risk >= MediumRiskThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// IsValid checks whether the category is one of the known labels
func (c BurnoutCategory) IsValid() bool {
	switch c {
	case CategoryLow, CategoryMedium, CategoryHigh:
		return true
	default:
		return false
	}
}

// EngineeredFeatures holds the derived metrics computed from one
// observation plus its per-employee trailing window.
type EngineeredFeatures struct {
	WorkloadIndex     float64         `json:"workload_index"`
	WellnessIndex     float64         `json:"wellness_index"`
	MeetingBurden     float64         `json:"meeting_burden"`
	AvgWorkload7d     float64         `json:"avg_workload_7d"`
	AvgWellness7d     float64         `json:"avg_wellness_7d"`
	SleepVariance7d   float64         `json:"sleep_variance_7d"`
	BurnoutRisk       float64         `json:"burnout_risk_index"`
	BurnoutCategory   BurnoutCategory `json:"burnout_category"`
	ProductivityIndex float64         `json:"productivity_index"`
}

// Observation is one employee-day record. Raw activity fields come from
// generation, profile fields are joined in from the employee roster, and
// the feature and prediction blocks are filled by later stages.
// Engineered and Scored report which blocks are populated.
type Observation struct {
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`

	ActiveHours float64 `json:"total_active_hours"`
	Meetings    int     `json:"num_meetings"`
	FocusHours  float64 `json:"focus_hours"`
	SleepHours  float64 `json:"sleep_hours"`
	StressScore float64 `json:"stress_score"`
	Steps       int     `json:"steps"`
	AfterHours  float64 `json:"after_hours_work"`

	Name        string     `json:"name"`
	Department  Department `json:"department"`
	Role        Role       `json:"role"`
	TenureYears float64    `json:"tenure_years"`
	SkillLevel  float64    `json:"skill_level"`

	Engineered bool               `json:"-"`
	Features   EngineeredFeatures `json:"features"`

	Scored            bool            `json:"-"`
	PredictedCategory BurnoutCategory `json:"prediction_category,omitempty"`
	ProbaHigh         float64         `json:"prediction_proba_high"`
}
