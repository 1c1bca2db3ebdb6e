package models

import "sort"

// Dataset is an ordered collection of employee-day observations
type Dataset []Observation

// Clone returns an independent copy of the dataset. Observations are
// value types, so the copy shares nothing with the original.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// SortByEmployeeDate orders rows by employee ID, then by date. Feature
// engineering relies on this ordering for its trailing windows.
func (d Dataset) SortByEmployeeDate() {
	sort.SliceStable(d, func(i, j int) bool {
		if d[i].EmployeeID != d[j].EmployeeID {
			return d[i].EmployeeID < d[j].EmployeeID
		}
		return d[i].Date.Before(d[j].Date)
	})
}

// EmployeeIDs returns the distinct employee IDs in first-seen order
func (d Dataset) EmployeeIDs() []string {
	seen := make(map[string]bool, len(d))
	ids := make([]string, 0, len(d))
	for _, row := range d {
		if !seen[row.EmployeeID] {
			seen[row.EmployeeID] = true
			ids = append(ids, row.EmployeeID)
		}
	}
	return ids
}

// Engineered filters to rows whose feature block is populated
func (d Dataset) Engineered() Dataset {
	out := make(Dataset, 0, len(d))
	for _, row := range d {
		if row.Engineered {
			out = append(out, row)
		}
	}
	return out
}

// LatestPerEmployee returns the most recent observation for each
// employee, ordered by employee ID.
func (d Dataset) LatestPerEmployee() Dataset {
	latest := make(map[string]Observation, len(d))
	for _, row := range d {
		cur, ok := latest[row.EmployeeID]
		if !ok || row.Date.After(cur.Date) {
			latest[row.EmployeeID] = row
		}
	}
	out := make(Dataset, 0, len(latest))
	for _, row := range latest {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}
