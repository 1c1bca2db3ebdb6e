package classifier

import "github.com/teamsignal/burnout-engine/internal/models"

// featureColumns is the model's input schema. Order is part of the
// fitted state: vectors, scaler statistics and tree split indices all
// refer to positions in this list.
var featureColumns = []string{
	"workload_index",
	"wellness_index",
	"meeting_burden",
	"num_meetings",
	"focus_hours",
	"sleep_hours",
	"stress_score",
	"after_hours_work",
	"avg_workload_7d",
	"avg_wellness_7d",
	"sleep_variance_7d",
	"tenure_years",
	"skill_level",
}

// FeatureColumns returns the input column names in model order
func FeatureColumns() []string {
	return append([]string(nil), featureColumns...)
}

// featureVector extracts the model inputs from an engineered row,
// in featureColumns order.
func featureVector(row models.Observation) []float64 {
	f := row.Features
	return []float64{
		f.WorkloadIndex,
		f.WellnessIndex,
		f.MeetingBurden,
		float64(row.Meetings),
		row.FocusHours,
		row.SleepHours,
		row.StressScore,
		row.AfterHours,
		f.AvgWorkload7d,
		f.AvgWellness7d,
		f.SleepVariance7d,
		row.TenureYears,
		row.SkillLevel,
	}
}
