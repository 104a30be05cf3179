package usertable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var ErrNoRows = errors.New("no rows to export")

// CSVHeader is the fixed header of the user usage export.
var CSVHeader = []string{
	"user_login", "user_id", "interactions", "completions", "acceptances",
	"acceptance_rate", "days_active", "top_model", "top_language", "top_feature",
}

// CSVFileName is the download name of an export produced on day now.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("copilot-user-usage-%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteCSV writes the sorted table as RFC 4180 CSV. The acceptance rate is
// written with two decimals.
func (t *Table) WriteCSV(w io.Writer) error {
	if len(t.sorted) == 0 {
		return ErrNoRows
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, u := range t.sorted {
		record := []string{
			u.Login,
			u.UserID.String(),
			u.Interactions.String(),
			u.Completions.String(),
			u.Acceptances.String(),
			u.AcceptanceRate.StringFixed(2),
			strconv.Itoa(u.DaysActive()),
			u.TopModel,
			u.TopLanguage,
			t.catalog.DisplayName(u.TopFeature),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
