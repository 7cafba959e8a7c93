package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// AverageRates returns the plain mean of the per-row CTR, CPC and CPA.
// Rows with a zero denominator contribute 0 instead of being skipped.
func AverageRates(rows []models.AdRecord) (ctr, cpc, cpa float64) {
	return strategies[CTR].Aggregate(rows), strategies[CPC].Aggregate(rows), strategies[CPA].Aggregate(rows)
}

// ConversionRateByCampaign derives conversions/clicks*100 from each
// campaign's summed counters, rounded to 2 decimals, ordered by campaign.
func ConversionRateByCampaign(rows []models.AdRecord) []models.CampaignValue {
	return campaignValues(rows, strategies[ConversionRate])
}

// OverallConversionRate is the mean of the per-campaign conversion rates.
func OverallConversionRate(rows []models.AdRecord) float64 {
	byCampaign := ConversionRateByCampaign(rows)
	return lo.Mean(lo.Map(byCampaign, func(c models.CampaignValue, _ int) float64 { return c.Value }))
}

// RankingInput aggregates metric per campaign following its strategy:
// conversion rate from summed counters, every other metric as a mean of
// row values. Values are rounded to 2 decimals.
func RankingInput(rows []models.AdRecord, metric string) ([]models.CampaignValue, error) {
	s, err := Lookup(metric)
	if err != nil {
		return nil, err
	}
	return campaignValues(rows, s), nil
}

func campaignValues(rows []models.AdRecord, s Strategy) []models.CampaignValue {
	groups := groupCampaigns(rows)
	out := make([]models.CampaignValue, 0, len(groups))
	for _, c := range sortedKeys(groups) {
		out = append(out, models.CampaignValue{Campaign: c, Value: round2(s.Aggregate(groups[c]))})
	}
	return out
}

// GroupByDay sums the counters per calendar day and derives CTR and CPC
// from the sums. CTR is NaN for a day without impressions; CPC is 0 for a
// day without clicks. Rows without a valid date are not grouped.
func GroupByDay(rows []models.AdRecord) []models.DayRow {
	byDay := map[time.Time]*models.DayRow{}
	for _, a := range rows {
		if !a.Date.Valid() {
			continue
		}
		r, ok := byDay[a.Date.Time]
		if !ok {
			r = &models.DayRow{Date: a.Date.Time}
			byDay[a.Date.Time] = r
		}
		r.Add(a)
	}
	out := make([]models.DayRow, 0, len(byDay))
	for _, r := range byDay {
		r.CTR = models.Rate(math.NaN())
		if r.Impressions > 0 {
			r.CTR = models.Rate(float64(r.Clicks) / float64(r.Impressions) * 100)
		}
		r.CPC = safeDivF(r.TotalSpend, float64(r.Clicks))
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// groupCampaigns groups rows by campaign. Rows without a campaign are dropped.
func groupCampaigns(rows []models.AdRecord) map[string][]models.AdRecord {
	named := lo.Filter(rows, func(a models.AdRecord, _ int) bool { return a.Campaign != "" })
	return lo.GroupBy(named, func(a models.AdRecord) string { return a.Campaign })
}

// GroupByCampaign sums the counters per campaign, ordered by campaign.
func GroupByCampaign(rows []models.AdRecord) []models.CampaignRow {
	groups := groupCampaigns(rows)
	out := make([]models.CampaignRow, 0, len(groups))
	for _, c := range sortedKeys(groups) {
		r := models.CampaignRow{Campaign: c}
		for _, a := range groups[c] {
			r.Add(a)
		}
		out = append(out, r)
	}
	return out
}

// DailyRunRate divides period totals by days, floored at one day. Spend is
// the mean per-campaign total; clicks and impressions sum every row; leads
// and purchases count distinct ids.
func DailyRunRate(ads []models.AdRecord, crm []models.CrmRecord, days int) models.RunRate {
	if days < 1 {
		days = 1
	}
	d := float64(days)
	campaigns := GroupByCampaign(ads)
	var clicks, impressions int
	for _, a := range ads {
		clicks += a.Clicks
		impressions += a.Impressions
	}
	spend := lo.Mean(lo.Map(campaigns, func(c models.CampaignRow, _ int) float64 { return c.TotalSpend }))
	leads := distinctCount(crm, func(c models.CrmRecord) string { return c.LeadID })
	sales := distinctCount(crm, func(c models.CrmRecord) string { return c.SaleID })
	return models.RunRate{
		Days:              days,
		SpendPerDay:       spend / d,
		ClicksPerDay:      float64(clicks) / d,
		ImpressionsPerDay: float64(impressions) / d,
		LeadsPerDay:       float64(leads) / d,
		PurchasesPerDay:   float64(sales) / d,
	}
}

func distinctCount[T any](rows []T, key func(T) string) int {
	return len(lo.Uniq(lo.Compact(lo.Map(rows, func(r T, _ int) string { return key(r) }))))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
