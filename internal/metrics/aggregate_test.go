package metrics

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

func TestAverageRatesCountZeroDenominatorsAsZero(t *testing.T) {
	rows := []models.AdRecord{
		ad(1, "A", "", "", 100, 10, 2, 50),
		ad(1, "A", "", "", 20, 0, 0, 5),
	}
	ctr, cpc, cpa := AverageRates(rows)
	assert.InDelta(t, 5.0, ctr, 1e-9)
	assert.InDelta(t, 2.5, cpc, 1e-9)
	assert.InDelta(t, 12.5, cpa, 1e-9)
}

func TestConversionRateIsRateOfSums(t *testing.T) {
	rows := []models.AdRecord{
		ad(1, "A", "", "", 0, 10, 2, 0),
		ad(2, "A", "", "", 0, 30, 3, 0),
		ad(1, "B", "", "", 0, 0, 0, 0),
	}
	got := ConversionRateByCampaign(rows)
	require.Len(t, got, 2)
	// per-row rates would average to 15
	assert.Equal(t, models.CampaignValue{Campaign: "A", Value: 12.5}, got[0])
	assert.Equal(t, models.CampaignValue{Campaign: "B", Value: 0}, got[1])
	assert.InDelta(t, 6.25, OverallConversionRate(rows), 1e-9)
}

func TestRankingInputFollowsStrategy(t *testing.T) {
	rows := []models.AdRecord{
		ad(1, "A", "", "", 100, 1, 1, 10),
		ad(2, "A", "", "", 100, 2, 0, 10),
		ad(1, "B", "", "", 0, 0, 0, 0),
	}
	conv, err := RankingInput(rows, string(ConversionRate))
	require.NoError(t, err)
	assert.Equal(t, round2(1.0/3.0*100), conv[0].Value)
	assert.Equal(t, 33.33, conv[0].Value)

	ctr, err := RankingInput(rows, "ctr")
	require.NoError(t, err)
	assert.Equal(t, 1.5, ctr[0].Value)
	assert.Equal(t, 0.0, ctr[1].Value)

	imp, err := RankingInput(rows, "impressions")
	require.NoError(t, err)
	assert.Equal(t, 100.0, imp[0].Value)
}

func TestRankingInputUnknownMetric(t *testing.T) {
	_, err := RankingInput(sampleAds(), "roas")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownMetric))
}

func TestGroupByDayDerivesFromSums(t *testing.T) {
	rows := []models.AdRecord{
		ad(2, "A", "", "", 0, 0, 0, 0),
		ad(1, "A", "", "", 100, 10, 1, 50),
		ad(1, "B", "", "", 100, 30, 2, 30),
		{Campaign: "undated", Impressions: 5, Clicks: 5},
	}
	days := GroupByDay(rows)
	require.Len(t, days, 2)

	assert.Equal(t, march(1), days[0].Date)
	assert.Equal(t, models.Totals{Clicks: 40, Impressions: 200, Conversions: 3, TotalSpend: 80}, days[0].Totals)
	assert.InDelta(t, 20.0, float64(days[0].CTR), 1e-9)
	assert.InDelta(t, 2.0, days[0].CPC, 1e-9)

	assert.Equal(t, march(2), days[1].Date)
	assert.True(t, math.IsNaN(float64(days[1].CTR)))
	assert.False(t, days[1].CTR.Valid())
	assert.Equal(t, 0.0, days[1].CPC)
}

func TestGroupByCampaign(t *testing.T) {
	got := GroupByCampaign(sampleAds())
	require.Len(t, got, 3)
	assert.Equal(t, "Bags", got[0].Campaign)
	assert.Equal(t, models.Totals{Clicks: 40, Impressions: 300, Conversions: 4, TotalSpend: 80}, got[0].Totals)
	assert.Equal(t, "Hats", got[1].Campaign)
	assert.Equal(t, "Shoes", got[2].Campaign)
}

func TestEmptyTablesGiveEmptyResults(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
	assert.Empty(t, GroupByCampaign(nil))
	assert.Empty(t, ConversionRateByCampaign(nil))
	ctr, cpc, cpa := AverageRates(nil)
	assert.Zero(t, ctr+cpc+cpa)
	assert.Zero(t, OverallConversionRate(nil))
	rr := DailyRunRate(nil, nil, 0)
	assert.Equal(t, models.RunRate{Days: 1}, rr)
}

func TestDailyRunRate(t *testing.T) {
	ads := []models.AdRecord{
		ad(1, "A", "", "", 100, 10, 0, 50),
		ad(2, "A", "", "", 300, 30, 0, 10),
		ad(1, "B", "", "", 600, 60, 0, 40),
	}
	crm := []models.CrmRecord{
		lead(1, "L1", "", "", "", "S1"),
		lead(1, "L1", "", "", "", ""),
		lead(2, "L2", "", "", "", "S2"),
		lead(2, "", "", "", "", ""),
	}
	rr := DailyRunRate(ads, crm, 10)
	assert.Equal(t, 10, rr.Days)
	assert.InDelta(t, 5.0, rr.SpendPerDay, 1e-9)
	assert.InDelta(t, 10.0, rr.ClicksPerDay, 1e-9)
	assert.InDelta(t, 100.0, rr.ImpressionsPerDay, 1e-9)
	assert.InDelta(t, 0.2, rr.LeadsPerDay, 1e-9)
	assert.InDelta(t, 0.2, rr.PurchasesPerDay, 1e-9)
}

func TestDailyRunRateSingleDayRange(t *testing.T) {
	ads := []models.AdRecord{ad(1, "A", "", "", 100, 10, 0, 50)}
	rr := DailyRunRate(ads, nil, DayCount(march(1), march(1)))
	assert.Equal(t, 1, rr.Days)
	assert.InDelta(t, 10.0, rr.ClicksPerDay, 1e-9)
	assert.InDelta(t, 50.0, rr.SpendPerDay, 1e-9)
}

func TestStrategyTable(t *testing.T) {
	for _, m := range Metrics() {
		s, err := Lookup(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, s.Metric)
		assert.NotNil(t, s.Row)
		if s.Method == RateOfSums {
			assert.NotNil(t, s.Derive, m)
		}
	}
	s, _ := Lookup("conversion_rate")
	assert.Equal(t, RateOfSums, s.Method)
	s, _ = Lookup("cpc")
	assert.Equal(t, MeanOfValues, s.Method)
	assert.False(t, s.HigherIsBetter)
}

func TestCampaignGroupingSkipsBlankCampaigns(t *testing.T) {
	rows := []models.AdRecord{
		ad(1, "A", "", "", 100, 10, 1, 30),
		ad(1, "", "", "", 100, 10, 1, 90),
	}
	grouped := GroupByCampaign(rows)
	require.Len(t, grouped, 1)
	assert.Equal(t, "A", grouped[0].Campaign)

	values, err := RankingInput(rows, "total_spend")
	require.NoError(t, err)
	assert.Equal(t, []models.CampaignValue{{Campaign: "A", Value: 30}}, values)

	rr := DailyRunRate(rows, nil, 1)
	assert.InDelta(t, 30.0, rr.SpendPerDay, 1e-9)
	assert.InDelta(t, 20.0, rr.ClicksPerDay, 1e-9)

	assert.Equal(t, []models.CampaignCount{{Campaign: "A", Count: 1}}, ActiveRowsByCampaign(rows))
}
