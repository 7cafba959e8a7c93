package metrics

import (
	"sort"
	"time"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

type dayKey struct {
	date  time.Time
	label string
}

func groupByDayAnd(rows []models.AdRecord, label func(models.AdRecord) string) ([]dayKey, map[dayKey][]models.AdRecord) {
	groups := map[dayKey][]models.AdRecord{}
	for _, a := range rows {
		if !a.Date.Valid() {
			continue
		}
		k := dayKey{date: a.Date.Time, label: label(a)}
		groups[k] = append(groups[k], a)
	}
	keys := make([]dayKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].label < keys[j].label
	})
	return keys, groups
}

// CampaignTimeline aggregates metric per day and campaign.
func CampaignTimeline(rows []models.AdRecord, s Strategy) []models.TimelineRow {
	keys, groups := groupByDayAnd(rows, func(a models.AdRecord) string { return a.Campaign })
	out := make([]models.TimelineRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.TimelineRow{Date: k.date, Campaign: k.label, Value: round2(s.Aggregate(groups[k]))})
	}
	return out
}

// AudienceBreakdown aggregates metric per gender and age bracket, highest
// value first.
func AudienceBreakdown(rows []models.AdRecord, s Strategy) []models.AudienceRow {
	type segment struct{ gender, age string }
	groups := map[segment][]models.AdRecord{}
	for _, a := range rows {
		k := segment{a.Gender, a.AgeBracket}
		groups[k] = append(groups[k], a)
	}
	out := make([]models.AudienceRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, models.AudienceRow{Gender: k.gender, AgeBracket: k.age, Value: round2(s.Aggregate(g))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		if out[i].Gender != out[j].Gender {
			return out[i].Gender < out[j].Gender
		}
		return out[i].AgeBracket < out[j].AgeBracket
	})
	return out
}

// GenderByDay aggregates metric per day and gender.
func GenderByDay(rows []models.AdRecord, s Strategy) []models.GenderDayRow {
	keys, groups := groupByDayAnd(rows, func(a models.AdRecord) string { return a.Gender })
	out := make([]models.GenderDayRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.GenderDayRow{Date: k.date, Gender: k.label, Value: round2(s.Aggregate(groups[k]))})
	}
	return out
}

// GenderShareByDay sums the per-row metric per day and gender and divides
// it by the day's total. Days whose total is not positive get 0 shares.
func GenderShareByDay(rows []models.AdRecord, s Strategy) []models.GenderDayRow {
	keys, groups := groupByDayAnd(rows, func(a models.AdRecord) string { return a.Gender })
	dayTotal := map[time.Time]float64{}
	sums := make([]float64, len(keys))
	for i, k := range keys {
		for _, a := range groups[k] {
			sums[i] += s.Row(a)
		}
		dayTotal[k.date] += sums[i]
	}
	out := make([]models.GenderDayRow, 0, len(keys))
	for i, k := range keys {
		share := 0.0
		if total := dayTotal[k.date]; total > 0 {
			share = sums[i] / total
		}
		out = append(out, models.GenderDayRow{Date: k.date, Gender: k.label, Value: share})
	}
	return out
}

// SpendByCampaign totals spend per campaign, largest first.
func SpendByCampaign(rows []models.AdRecord) []models.CampaignValue {
	grouped := GroupByCampaign(rows)
	out := make([]models.CampaignValue, 0, len(grouped))
	for _, c := range grouped {
		out = append(out, models.CampaignValue{Campaign: c.Campaign, Value: round2(c.TotalSpend)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// ActiveRowsByCampaign counts the rows naming an ad per campaign, largest
// first. Rows without a campaign are skipped. Each row is one ad-day observation.
func ActiveRowsByCampaign(rows []models.AdRecord) []models.CampaignCount {
	counts := map[string]int{}
	for _, a := range rows {
		if a.Campaign == "" {
			continue
		}
		if _, ok := counts[a.Campaign]; !ok {
			counts[a.Campaign] = 0
		}
		if a.Ad != "" {
			counts[a.Campaign]++
		}
	}
	out := make([]models.CampaignCount, 0, len(counts))
	for _, c := range sortedKeys(counts) {
		out = append(out, models.CampaignCount{Campaign: c, Count: counts[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
