// Package pipeline turns raw employee-day observations into the
// engineered feature set the classifier trains on. Every stage is
// deterministic: the same input dataset always yields the same output.
package pipeline

import (
	"math"

	"github.com/teamsignal/burnout-engine/internal/models"
)

// Feature weights for the per-row indices
const (
	workloadActiveWeight   = 0.4
	workloadMeetingsWeight = 0.3
	workloadAfterWeight    = 0.3

	sleepTargetHours = 7.0

	productivityFocusWeight  = 0.5
	productivitySkillWeight  = 0.3
	productivityBurdenWeight = 0.2

	rollingWindow = 7
)

// Engineer computes the derived feature block for every row and returns
// a new dataset sorted by (employee, date). The input is not modified.
//
// Stages, in order: per-row indices (workload, wellness, meeting
// burden), per-employee trailing 7-observation windows, then the risk
// rule, category and productivity. Windows never cross employee
// boundaries.
func Engineer(ds models.Dataset) models.Dataset {
	out := ds.Clone()
	out.SortByEmployeeDate()

	for i := range out {
		perRowIndices(&out[i])
	}

	// Window pass runs over contiguous per-employee groups, which the
	// sort above guarantees.
	start := 0
	for start < len(out) {
		end := start
		for end < len(out) && out[end].EmployeeID == out[start].EmployeeID {
			end++
		}
		rollingFeatures(out[start:end])
		start = end
	}

	for i := range out {
		scoreRow(&out[i])
	}
	return out
}

// perRowIndices fills the indices that depend on a single observation
func perRowIndices(row *models.Observation) {
	f := &row.Features

	f.WorkloadIndex = round2(workloadActiveWeight*row.ActiveHours +
		workloadMeetingsWeight*float64(row.Meetings) +
		workloadAfterWeight*row.AfterHours)

	sleepComponent := 1.0
	if row.SleepHours < sleepTargetHours {
		sleepComponent = row.SleepHours / sleepTargetHours
	}
	f.WellnessIndex = round2(0.5*sleepComponent + 0.5*(1-row.StressScore))

	if row.ActiveHours > 0 {
		f.MeetingBurden = round2(0.5 * float64(row.Meetings) / row.ActiveHours)
	} else {
		f.MeetingBurden = 0
	}
}

// rollingFeatures fills the trailing-window aggregates for one
// employee's chronologically ordered rows. The window covers the
// current row plus up to six predecessors; means need a single sample,
// the sleep deviation needs two and reports 0 below that.
func rollingFeatures(group models.Dataset) {
	for i := range group {
		lo := i - (rollingWindow - 1)
		if lo < 0 {
			lo = 0
		}
		window := group[lo : i+1]

		var workloadSum, wellnessSum float64
		for j := range window {
			workloadSum += window[j].Features.WorkloadIndex
			wellnessSum += window[j].Features.WellnessIndex
		}
		n := float64(len(window))

		f := &group[i].Features
		f.AvgWorkload7d = round2(workloadSum / n)
		f.AvgWellness7d = round2(wellnessSum / n)
		f.SleepVariance7d = round2(sleepStd(window))
	}
}

// sleepStd is the sample standard deviation of sleep hours over a
// window, 0 when fewer than two samples are present.
func sleepStd(window models.Dataset) float64 {
	n := len(window)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := range window {
		sum += window[i].SleepHours
	}
	mean := sum / float64(n)

	var squares float64
	for i := range window {
		d := window[i].SleepHours - mean
		squares += d * d
	}
	return math.Sqrt(squares / float64(n-1))
}

// scoreRow fills the risk index, its category and the productivity
// index, then marks the row engineered.
func scoreRow(row *models.Observation) {
	f := &row.Features

	f.BurnoutRisk = round2(riskIndex(f))
	f.BurnoutCategory = models.CategoryForRisk(f.BurnoutRisk)

	focusRatio := 0.0
	if row.ActiveHours > 0 {
		focusRatio = row.FocusHours / row.ActiveHours
	}
	f.ProductivityIndex = round2(productivityFocusWeight*focusRatio +
		productivitySkillWeight*row.SkillLevel +
		productivityBurdenWeight*(1-f.MeetingBurden))

	row.Engineered = true
}

// riskIndex evaluates the burnout rule. Branches are checked in strict
// priority order and the first match wins; the fallthrough blends the
// current workload and wellness indices.
func riskIndex(f *models.EngineeredFeatures) float64 {
	switch {
	case f.WorkloadIndex > 8 && f.WellnessIndex < 0.5:
		return 0.90
	case f.WorkloadIndex > 7 && f.WellnessIndex < 0.6:
		return 0.75
	case f.AvgWorkload7d > 7:
		return 0.65
	default:
		return f.WorkloadIndex/10*0.4 + (1-f.WellnessIndex)*0.6
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
