package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

const dateLayout = domain.DateLayout

// timestampLayout has fixed-width fractional seconds so that timestamp
// columns sort lexically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// dateValue binds a calendar date column, or NULL.
func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

// timestampValue binds an optional timestamp column such as deleted_at.
func timestampValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// scanDate reads a nullable date column. Unparseable values read as unset.
func scanDate(v sql.Null[string]) *time.Time {
	return scanLayout(v, dateLayout)
}

func scanTimestamp(v sql.Null[string]) *time.Time {
	return scanLayout(v, timestampLayout)
}

func scanLayout(v sql.Null[string], layout string) *time.Time {
	if !v.Valid || v.V == "" {
		return nil
	}
	t, err := time.Parse(layout, v.V)
	if err != nil {
		return nil
	}
	return &t
}

// nullValue binds a pointer as its value or NULL.
func nullValue[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullValueOf[T any](v sql.Null[T]) *T {
	if !v.Valid {
		return nil
	}
	out := v.V
	return &out
}
