package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"unitestats/domain/stats"
)

// statRecords maps a JSONB array column onto per-subject counters
type statRecords []stats.RawStatRecord

// Value implements driver.Valuer
func (s statRecords) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]stats.RawStatRecord(s))
}

// Scan implements sql.Scanner
func (s *statRecords) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = statRecords{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("result_per_pokemon: unsupported type %T", value)
	}

	if len(raw) == 0 {
		*s = statRecords{}
		return nil
	}

	var records []stats.RawStatRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("result_per_pokemon: %w", err)
	}
	if records == nil {
		records = []stats.RawStatRecord{}
	}
	*s = records
	return nil
}
