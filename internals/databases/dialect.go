package database

import (
	"time"

	"gorm.io/gorm"
)

// ContainsExpr returns a case-sensitive substring predicate on column with one
// placeholder for the needle. Wildcards in the needle are taken literally.
func ContainsExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == DriverSQLite {
		return "instr(" + column + ", ?) > 0"
	}
	return "strpos(" + column + ", ?) > 0"
}

// HeldLongerThan builds the "days held exceeds threshold" predicate over
// receiving_books. Held time runs up to date_of_return, or up to now while the
// book is still out.
func HeldLongerThan(db *gorm.DB, now time.Time, days int) (string, []any) {
	if db.Dialector.Name() == DriverSQLite {
		return "julianday(COALESCE(receiving_books.date_of_return, ?)) - julianday(receiving_books.date_of_issue) > ?",
			[]any{now, days}
	}
	return "COALESCE(receiving_books.date_of_return, ?) - receiving_books.date_of_issue > (? * INTERVAL '1 day')",
		[]any{now, days}
}

// MonthRange is [first instant of t's month, first instant of the next month) in t's location.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// YearRange is [Jan 1 of t's year, Jan 1 of the next year) in t's location.
func YearRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(1, 0, 0)
}
