package excel

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"unitestats/domain/core"
	"unitestats/domain/stats"
	"unitestats/internal"

	"github.com/xuri/excelize/v2"
)

// startedAtLayouts are tried in order; layouts without an offset are JST
var startedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// DataReader reads match records from xlsx, csv or json files
type DataReader struct {
	filePath string
	fileType string // "xlsx", "csv" or "json"
	logger   *internal.Logger
}

// NewDataReader picks the format from the file extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NopLogger()
	}
	fileType := "xlsx"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		fileType = "csv"
	case ".json":
		fileType = "json"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger.With("DataReader")}
}

// ReadData reads a tabular file into header-keyed rows
func (r *DataReader) ReadData() (*ExcelData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported tabular file type: %s", r.fileType)
	}
}

// ReadMatches decodes the file into match records
func (r *DataReader) ReadMatches() ([]stats.MatchRecord, error) {
	if r.fileType == "json" {
		return r.readJSONMatches()
	}

	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	for _, col := range []string{ColumnMatchID, ColumnPokemon, ColumnWinLose, ColumnStartedAt} {
		if !hasHeader(data.Headers, col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records := make([]stats.MatchRecord, 0, len(data.Rows))
	for i, row := range data.Rows {
		rec, err := parseMatchRow(row)
		if err != nil {
			// +2: header row and 1-based numbering
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}

	r.logger.Info("read %d match records from %s", len(records), r.filePath)
	return records, nil
}

func (r *DataReader) readJSONMatches() ([]stats.MatchRecord, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	var records []stats.MatchRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode match records: %w", err)
	}
	for i, rec := range records {
		if err := checkMatchRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	r.logger.Info("read %d match records from %s", len(records), r.filePath)
	return records, nil
}

// readExcelData reads the first sheet
func (r *DataReader) readExcelData() (*ExcelData, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	r.logger.Debug("%s read (%d rows)", sheet, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		blank := true
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
				if rowData[headers[j]] != "" {
					blank = false
				}
			}
		}
		if !blank {
			dataRows = append(dataRows, rowData)
		}
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func parseMatchRow(row RawRowData) (stats.MatchRecord, error) {
	rec := stats.MatchRecord{
		MatchID: row[ColumnMatchID],
		Pokemon: row[ColumnPokemon],
	}
	if rec.MatchID == "" || rec.Pokemon == "" {
		return rec, fmt.Errorf("match_id and pokemon are required")
	}

	winLose, err := parseWinLose(row[ColumnWinLose])
	if err != nil {
		return rec, err
	}
	rec.WinLose = winLose

	startedAt, err := parseStartedAt(row[ColumnStartedAt])
	if err != nil {
		return rec, err
	}
	rec.StartedAt = startedAt

	return rec, nil
}

// checkMatchRecord applies the row rules to an already decoded record
func checkMatchRecord(rec stats.MatchRecord) error {
	if rec.MatchID == "" || rec.Pokemon == "" {
		return fmt.Errorf("match_id and pokemon are required")
	}
	if rec.WinLose != 0 && rec.WinLose != 1 {
		return fmt.Errorf("winlose must be 0 or 1, got %d", rec.WinLose)
	}
	if rec.StartedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}
	return nil
}

func parseWinLose(s string) (int, error) {
	switch strings.ToLower(s) {
	case "win", "won", "true":
		return 1, nil
	case "lose", "lost", "loss", "false":
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || (n != 0 && n != 1) {
		return 0, fmt.Errorf("winlose must be 0/1 or win/lose, got %q", s)
	}
	return n, nil
}

func parseStartedAt(s string) (time.Time, error) {
	for _, layout := range startedAtLayouts {
		if t, err := time.ParseInLocation(layout, s, core.JST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("started_at %q is not a timestamp", s)
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
