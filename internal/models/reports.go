package models

import "time"

// Snapshot describes one generated dataset
type Snapshot struct {
	ID          string    `json:"snapshot_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Employees   int       `json:"employees"`
	Days        int       `json:"days"`
	Rows        int       `json:"rows"`
	Seed        int64     `json:"seed"`
}

// ModelInfo is the metadata of a trained classifier
type ModelInfo struct {
	ID              string    `json:"model_id"`
	TrainedAt       time.Time `json:"trained_at"`
	Classes         []string  `json:"classes"`
	FeatureColumns  []string  `json:"feature_columns"`
	HoldoutAccuracy float64   `json:"holdout_accuracy"`
	TrainingRows    int       `json:"training_rows"`
	Source          string    `json:"source"`
}

// Model metadata sources
const (
	ModelSourceTrained  = "trained"
	ModelSourceRestored = "restored"
)

// RefreshResult is returned after a dataset rebuild and retrain
type RefreshResult struct {
	Snapshot Snapshot  `json:"snapshot"`
	Model    ModelInfo `json:"model"`
}

// EmployeeMetrics is the latest-observation view of one employee
type EmployeeMetrics struct {
	EmployeeID        string          `json:"employee_id"`
	Name              string          `json:"name"`
	Department        Department      `json:"department"`
	Role              Role            `json:"role"`
	Date              time.Time       `json:"date"`
	BurnoutRisk       float64         `json:"burnout_risk_index"`
	BurnoutCategory   BurnoutCategory `json:"burnout_category"`
	ProductivityIndex float64         `json:"productivity_index"`
	WellnessIndex     float64         `json:"wellness_index"`
	WorkloadIndex     float64         `json:"workload_index"`
	Meetings          int             `json:"num_meetings"`
	SleepHours        float64         `json:"sleep_hours"`
	PredictedCategory BurnoutCategory `json:"prediction_category,omitempty"`
	ProbaHigh         float64         `json:"prediction_proba_high"`
}

// WorkforceSummary aggregates the latest observations across all employees
type WorkforceSummary struct {
	TotalEmployees  int       `json:"total_employees"`
	AvgBurnoutRisk  float64   `json:"avg_burnout_risk"`
	AvgProductivity float64   `json:"avg_productivity"`
	AvgWellness     float64   `json:"avg_wellness"`
	AvgMeetings     float64   `json:"avg_meetings"`
	HighRiskCount   int       `json:"high_risk_count"`
	SnapshotID      string    `json:"snapshot_id"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// DepartmentRollup aggregates the latest observations of one department
type DepartmentRollup struct {
	Department      Department `json:"department"`
	Employees       int        `json:"employees"`
	AvgBurnoutRisk  float64    `json:"avg_burnout_risk"`
	AvgProductivity float64    `json:"avg_productivity"`
	HighRiskCount   int        `json:"high_risk_count"`
}
