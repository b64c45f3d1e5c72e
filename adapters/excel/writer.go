package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	statsSheet   = "Stats"
	summarySheet = "Summary"
)

var statsHeaders = []interface{}{"Rank", "ID", "Name", "Category", "Games", "Wins", "Win Rate (%)"}

// WriteStats writes export to path as a two-sheet workbook: one row per
// subject on Stats, the query parameters and win-rate summary on Summary
func WriteStats(path string, export StatsExport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(statsSheet, "A1", &statsHeaders); err != nil {
		return err
	}

	for i, rec := range export.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			i + 1,
			rec.SubjectID,
			rec.Reference.Name,
			string(rec.Reference.Category),
			rec.GamesPlayed,
			rec.Wins,
			rec.WinRatePercent,
		}
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(statsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Start Date", export.Range.Start.String()},
		{"End Date", export.Range.End.String()},
		{"Category", string(export.Category)},
		{"Games", export.Games},
		{"Subjects", export.Summary.Subjects},
		{"Mean Win Rate (%)", export.Summary.MeanWinRate},
		{"Median Win Rate (%)", export.Summary.MedianWinRate},
		{"Std Dev Win Rate", export.Summary.StdDevWinRate},
		{"Weighted Win Rate (%)", export.Summary.WeightedWinRate},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
