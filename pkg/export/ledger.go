package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// penaltyColumns is the fixed column order of the ledger export. The dorm
// office spreadsheet imports depend on this ordering.
var penaltyColumns = []string{
	"penalty_code", "student_name", "student_code", "violation_type",
	"duration_days", "start_date", "end_date", "status",
}

// PenaltyRow is one line of the exported penalty ledger.
type PenaltyRow struct {
	Code          string
	StudentName   string
	StudentCode   string
	ViolationType string
	DurationDays  int
	StartDate     time.Time
	EndDate       time.Time
	Status        string
}

// LedgerWriter renders the penalty ledger as CSV.
type LedgerWriter struct{}

// NewLedgerWriter builds a ledger writer.
func NewLedgerWriter() *LedgerWriter {
	return &LedgerWriter{}
}

// RenderPenalties produces CSV bytes for the given rows, header included.
// An empty slice still yields the header line.
func (w *LedgerWriter) RenderPenalties(rows []PenaltyRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(penaltyColumns); err != nil {
		return nil, fmt.Errorf("write ledger header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Code,
			row.StudentName,
			row.StudentCode,
			row.ViolationType,
			strconv.Itoa(row.DurationDays),
			row.StartDate.Format("2006-01-02"),
			row.EndDate.Format("2006-01-02"),
			row.Status,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write ledger row %s: %w", row.Code, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush ledger: %w", err)
	}
	return buf.Bytes(), nil
}
