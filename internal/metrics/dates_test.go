package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

func TestParseDate(t *testing.T) {
	cases := map[string]bool{
		"2024-03-05":           true,
		"2024-03-05 10:11:12":  true,
		"2024-03-05T10:11:12Z": true,
		"2024/03/05":           true,
		"03/05/2024":           true,
		"":                     false,
		"yesterday":            false,
		"2024-13-40":           false,
	}
	for in, ok := range cases {
		got, parsed := ParseDate(in)
		assert.Equal(t, ok, parsed, in)
		if ok {
			assert.Equal(t, march(5), got, in)
		}
	}
}

func TestNormalizeDatesIsIdempotent(t *testing.T) {
	rows := []models.AdRecord{
		{Date: models.DateField{Raw: "2024-03-05"}},
		{Date: models.DateField{Raw: "garbage"}},
		{},
	}
	bad := NormalizeDates(rows, AdDateColumns...)
	assert.Equal(t, 1, bad)
	assert.Equal(t, march(5), rows[0].Date.Time)
	assert.False(t, rows[1].Date.Valid())
	assert.False(t, rows[2].Date.Valid())

	again := append([]models.AdRecord(nil), rows...)
	NormalizeDates(again, AdDateColumns...)
	assert.Equal(t, rows, again)
}

func TestNormalizeDatesOnlyTouchesNamedColumns(t *testing.T) {
	rows := []models.CrmRecord{{
		CaptureDate: models.DateField{Raw: "2024-03-05"},
		SaleDate:    models.DateField{Raw: "2024-03-09"},
	}}
	NormalizeDates(rows, "capture_date", "no_such_column")
	assert.True(t, rows[0].CaptureDate.Valid())
	assert.False(t, rows[0].SaleDate.Valid())
	assert.Equal(t, "2024-03-09", rows[0].SaleDate.Raw)
}

func TestResolveRange(t *testing.T) {
	ads := []models.AdRecord{ad(5, "A", "", "", 0, 0, 0, 0), ad(10, "A", "", "", 0, 0, 0, 0), {}}
	crm := []models.CrmRecord{lead(2, "L1", "", "", "", ""), lead(8, "L2", "", "", "", ""), {}}

	r := ResolveRange(ads, crm)
	require.False(t, r.Empty())
	assert.Equal(t, march(2), r.Start)
	assert.Equal(t, march(10), r.End)

	assert.Equal(t, march(5), ResolveRange(ads[:1], nil).Start)
}

func TestResolveRangeWithoutDatesIsEmpty(t *testing.T) {
	assert.True(t, ResolveRange([]models.AdRecord{{}}, []models.CrmRecord{{}}).Empty())
	assert.True(t, ResolveRange(nil, nil).Empty())
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, 1, DayCount(march(4), march(4)))
	assert.Equal(t, 10, DayCount(march(1), march(10)))
	assert.Equal(t, 1, DayCount(march(10), march(1)))
	assert.Equal(t, 1, DayCount(time.Time{}, time.Time{}))
	assert.Equal(t, 2, DayCount(march(4).Add(23*time.Hour), march(5)))
}
