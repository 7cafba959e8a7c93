package metrics

import (
	"github.com/rotisserie/eris"
	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

type Metric string

const (
	Impressions    Metric = "impressions"
	Clicks         Metric = "clicks"
	Conversions    Metric = "conversions"
	TotalSpend     Metric = "total_spend"
	CTR            Metric = "ctr"
	CPC            Metric = "cpc"
	CPA            Metric = "cpa"
	ConversionRate Metric = "conversion_rate"
)

// Method says how a metric is aggregated over a group of rows.
type Method int

const (
	// MeanOfValues averages the per-row value.
	MeanOfValues Method = iota
	// RateOfSums sums the raw counters first and derives the rate once.
	RateOfSums
)

type Strategy struct {
	Metric         Metric
	Method         Method
	HigherIsBetter bool
	// Row is the per-row value; rates use 0 for a zero denominator.
	Row func(models.AdRecord) float64
	// Derive computes the metric from summed totals. Set for RateOfSums only.
	Derive func(models.Totals) float64
}

var ErrUnknownMetric = eris.New("unknown metric")

var metricOrder = []Metric{Impressions, Clicks, Conversions, TotalSpend, CTR, CPC, CPA, ConversionRate}

var strategies = map[Metric]Strategy{
	Impressions: {Metric: Impressions, HigherIsBetter: true, Row: func(a models.AdRecord) float64 { return float64(a.Impressions) }},
	Clicks:      {Metric: Clicks, HigherIsBetter: true, Row: func(a models.AdRecord) float64 { return float64(a.Clicks) }},
	Conversions: {Metric: Conversions, HigherIsBetter: true, Row: func(a models.AdRecord) float64 { return float64(a.Conversions) }},
	TotalSpend:  {Metric: TotalSpend, Row: func(a models.AdRecord) float64 { return a.TotalSpend }},
	CTR:         {Metric: CTR, HigherIsBetter: true, Row: RowCTR},
	CPC:         {Metric: CPC, Row: RowCPC},
	CPA:         {Metric: CPA, Row: RowCPA},
	ConversionRate: {
		Metric:         ConversionRate,
		Method:         RateOfSums,
		HigherIsBetter: true,
		Row:            RowConversionRate,
		Derive: func(t models.Totals) float64 {
			return safeDivF(float64(t.Conversions), float64(t.Clicks)) * 100
		},
	},
}

// Metrics returns the selectable metrics in display order.
func Metrics() []Metric { return append([]Metric(nil), metricOrder...) }

func Lookup(name string) (Strategy, error) {
	s, ok := strategies[Metric(name)]
	if !ok {
		return Strategy{}, eris.Wrapf(ErrUnknownMetric, "metric %q", name)
	}
	return s, nil
}

// Aggregate reduces rows to a single value using the strategy's method.
// An empty slice yields 0.
func (s Strategy) Aggregate(rows []models.AdRecord) float64 {
	if s.Method == RateOfSums {
		var t models.Totals
		for _, a := range rows {
			t.Add(a)
		}
		return s.Derive(t)
	}
	vals := make([]float64, len(rows))
	for i, a := range rows {
		vals[i] = s.Row(a)
	}
	return lo.Mean(vals)
}

func RowCTR(a models.AdRecord) float64 {
	return safeDivF(float64(a.Clicks), float64(a.Impressions)) * 100
}

func RowCPC(a models.AdRecord) float64 { return safeDivF(a.TotalSpend, float64(a.Clicks)) }

func RowCPA(a models.AdRecord) float64 { return safeDivF(a.TotalSpend, float64(a.Conversions)) }

func RowConversionRate(a models.AdRecord) float64 {
	return safeDivF(float64(a.Conversions), float64(a.Clicks)) * 100
}
