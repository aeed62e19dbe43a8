package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"fintrack/internal/core"
)

var csvHeader = []string{"id", "user_id", "date", "category", "amount", "description", "created_at"}

// WriteCSV writes entries as UTF-8 CSV with a header row, one row per
// entry, columns matching the entry attributes.
func WriteCSV(w io.Writer, entries []core.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			e.ID,
			e.UserID,
			e.Date.String(),
			e.Category,
			fmt.Sprintf("%.2f", e.Amount),
			e.Description,
			created,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
