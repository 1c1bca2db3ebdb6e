package api

import (
	"sort"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// employeeMetrics builds the latest-observation view of every employee
func employeeMetrics(ds models.Dataset) []models.EmployeeMetrics {
	latest := ds.LatestPerEmployee()

	out := make([]models.EmployeeMetrics, 0, len(latest))
	for _, row := range latest {
		out = append(out, models.EmployeeMetrics{
			EmployeeID:        row.EmployeeID,
			Name:              row.Name,
			Department:        row.Department,
			Role:              row.Role,
			Date:              row.Date,
			BurnoutRisk:       row.Features.BurnoutRisk,
			BurnoutCategory:   row.Features.BurnoutCategory,
			ProductivityIndex: row.Features.ProductivityIndex,
			WellnessIndex:     row.Features.WellnessIndex,
			WorkloadIndex:     row.Features.WorkloadIndex,
			Meetings:          row.Meetings,
			SleepHours:        row.SleepHours,
			PredictedCategory: row.PredictedCategory,
			ProbaHigh:         row.ProbaHigh,
		})
	}
	return out
}

// workforceSummary aggregates the latest observation of every employee
// into workforce-wide statistics
func workforceSummary(ds models.Dataset, snap models.Snapshot) models.WorkforceSummary {
	latest := ds.LatestPerEmployee()

	summary := models.WorkforceSummary{
		TotalEmployees: len(latest),
		SnapshotID:     snap.ID,
		GeneratedAt:    snap.GeneratedAt,
	}
	if len(latest) == 0 {
		return summary
	}

	var burnout, productivity, wellness, meetings float64
	for _, row := range latest {
		burnout += row.Features.BurnoutRisk
		productivity += row.Features.ProductivityIndex
		wellness += row.Features.WellnessIndex
		meetings += float64(row.Meetings)
		if row.Features.BurnoutRisk >= models.HighRiskThreshold {
			summary.HighRiskCount++
		}
	}

	n := float64(len(latest))
	summary.AvgBurnoutRisk = burnout / n
	summary.AvgProductivity = productivity / n
	summary.AvgWellness = wellness / n
	summary.AvgMeetings = meetings / n
	return summary
}

// departmentRollups aggregates the latest observations per department,
// ordered by department name. The high-risk count follows the derived
// category, not the model prediction.
func departmentRollups(ds models.Dataset) []models.DepartmentRollup {
	latest := ds.LatestPerEmployee()

	type deptAgg struct {
		employees    int
		burnout      float64
		productivity float64
		high         int
	}
	agg := make(map[models.Department]*deptAgg)
	for _, row := range latest {
		a := agg[row.Department]
		if a == nil {
			a = &deptAgg{}
			agg[row.Department] = a
		}
		a.employees++
		a.burnout += row.Features.BurnoutRisk
		a.productivity += row.Features.ProductivityIndex
		if row.Features.BurnoutCategory == models.CategoryHigh {
			a.high++
		}
	}

	out := make([]models.DepartmentRollup, 0, len(agg))
	for dept, a := range agg {
		n := float64(a.employees)
		out = append(out, models.DepartmentRollup{
			Department:      dept,
			Employees:       a.employees,
			AvgBurnoutRisk:  a.burnout / n,
			AvgProductivity: a.productivity / n,
			HighRiskCount:   a.high,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
