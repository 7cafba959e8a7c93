package metrics

import (
	"strings"
	"time"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// Accepted date layouts, tried in order. Day-first layouts are not accepted
// because they are ambiguous with month-first ones.
var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// ParseDate returns the calendar day of s, or false when s is not a date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewDate(t).Time, true
		}
	}
	return time.Time{}, false
}

// Dated is implemented by records that expose named date columns.
type Dated interface {
	DateColumn(name string) *models.DateField
}

// NormalizeDates parses every named date column of rows in place and
// returns how many non-empty values could not be parsed. Unknown column
// names are ignored. Fields without a raw value keep their parsed time, so
// running it twice is the same as running it once.
func NormalizeDates[T any, PT interface {
	*T
	Dated
}](rows []T, columns ...string) int {
	bad := 0
	for i := range rows {
		rec := PT(&rows[i])
		for _, col := range columns {
			f := rec.DateColumn(col)
			if f == nil || f.Raw == "" {
				continue
			}
			t, ok := ParseDate(f.Raw)
			if !ok {
				bad++
			}
			f.Time = t
		}
	}
	return bad
}

// AdDateColumns and CrmDateColumns are the date columns normalized at load.
var (
	AdDateColumns  = []string{"date"}
	CrmDateColumns = []string{"capture_date", "last_interaction_date", "sale_date"}
)

// ResolveRange returns the span between the earliest and the latest valid
// primary date of both tables (ads.date, crm.capture_date). The range is
// empty when neither column has a valid value.
func ResolveRange(ads []models.AdRecord, crm []models.CrmRecord) models.DateRange {
	var r models.DateRange
	widen := func(d models.DateField) {
		if !d.Valid() {
			return
		}
		if r.Start.IsZero() || d.Time.Before(r.Start) {
			r.Start = d.Time
		}
		if r.End.IsZero() || d.Time.After(r.End) {
			r.End = d.Time
		}
	}
	for _, a := range ads {
		widen(a.Date)
	}
	for _, c := range crm {
		widen(c.CaptureDate)
	}
	return r
}

// DayCount is the inclusive number of days between start and end, never
// less than one.
func DayCount(start, end time.Time) int {
	s := models.NewDate(start).Time
	e := models.NewDate(end).Time
	d := int(e.Sub(s).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

func inRange(d models.DateField, start, end time.Time) bool {
	if !d.Valid() {
		return false
	}
	return !d.Time.Before(start) && !d.Time.After(end)
}
