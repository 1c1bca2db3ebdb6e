// Package export renders the engineered dataset as an xlsx workbook
// for download
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/teamsignal/burnout-engine/internal/models"
)

const sheetName = "Workforce"

// DatasetHeader lists the export columns in dataset order: raw daily
// values first, then the derived features and the prediction block.
var DatasetHeader = []string{
	"employee_id",
	"name",
	"department",
	"role",
	"date",
	"active_hours",
	"num_meetings",
	"focus_hours",
	"sleep_hours",
	"stress_score",
	"steps",
	"after_hours_work",
	"tenure_years",
	"skill_level",
	"workload_index",
	"wellness_index",
	"meeting_burden",
	"avg_workload_7d",
	"avg_wellness_7d",
	"sleep_variance_7d",
	"burnout_risk_index",
	"burnout_category",
	"productivity_index",
	"prediction_category",
	"prediction_proba_high",
}

var columnWidths = []float64{
	13, // employee_id
	15, // name
	13, // department
	10, // role
	12, // date
	12, // active_hours
	13, // num_meetings
	12, // focus_hours
	12, // sleep_hours
	12, // stress_score
	10, // steps
	16, // after_hours_work
	13, // tenure_years
	11, // skill_level
	14, // workload_index
	14, // wellness_index
	15, // meeting_burden
	16, // avg_workload_7d
	16, // avg_wellness_7d
	17, // sleep_variance_7d
	17, // burnout_risk_index
	16, // burnout_category
	17, // productivity_index
	18, // prediction_category
	20, // prediction_proba_high
}

// Workbook renders the engineered rows of a dataset into a styled
// workbook: bold frozen header, fixed column widths, one row per
// observation. Rows without a prediction leave the prediction cells
// empty.
func Workbook(ds models.Dataset) ([]byte, error) {
	rows := ds.Engineered()

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range DatasetHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i := range DatasetHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		if err := writeRow(f, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, row models.Observation) error {
	values := []any{
		row.EmployeeID,
		row.Name,
		string(row.Department),
		string(row.Role),
		row.Date.Format("2006-01-02"),
		row.ActiveHours,
		row.Meetings,
		row.FocusHours,
		row.SleepHours,
		row.StressScore,
		row.Steps,
		row.AfterHours,
		row.TenureYears,
		row.SkillLevel,
		row.Features.WorkloadIndex,
		row.Features.WellnessIndex,
		row.Features.MeetingBurden,
		row.Features.AvgWorkload7d,
		row.Features.AvgWellness7d,
		row.Features.SleepVariance7d,
		row.Features.BurnoutRisk,
		string(row.Features.BurnoutCategory),
		row.Features.ProductivityIndex,
		nil,
		nil,
	}
	if row.Scored {
		values[23] = string(row.PredictedCategory)
		values[24] = row.ProbaHigh
	}

	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
