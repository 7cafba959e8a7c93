package metrics

import (
	"log/slog"
	"time"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// Observer receives the duration of every view recomputation.
type Observer interface {
	ObserveView(view string, d time.Duration, rows int)
}

type Settings struct {
	Ranker     *Ranker
	Funnel     Funnel
	WonStatus  string
	Thresholds Thresholds
	Observer   Observer
}

// Service recomputes dashboard views from immutable raw tables. Nothing is
// cached between calls: every view is rebuilt from the selection it gets.
type Service struct {
	ads  []models.AdRecord
	crm  []models.CrmRecord
	opts models.FilterOptions
	set  Settings
	log  *slog.Logger
}

func NewService(ads []models.AdRecord, crm []models.CrmRecord, set Settings, log *slog.Logger) *Service {
	if set.Ranker == nil {
		set.Ranker = NewRanker(DefaultLocale)
	}
	if len(set.Funnel.Stages) == 0 {
		set.Funnel = NewFunnel(nil)
	}
	if set.Thresholds == (Thresholds{}) {
		set.Thresholds = DefaultThresholds
	}
	if set.WonStatus == "" {
		set.WonStatus = DefaultWonStatus
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{ads: ads, crm: crm, opts: CollectOptions(ads, crm), set: set, log: log}
	if s.opts.Bounds.Empty() {
		log.Warn("no valid dates in either table; dashboard is empty")
	}
	return s
}

const DefaultWonStatus = "Won"

var headline = []struct {
	metric Metric
	higher bool
}{{CTR, true}, {CPC, false}, {CPA, false}, {ConversionRate, true}}

func (s *Service) Filters() models.FilterOptions { return s.opts }

// Defaults selects every option over the full date span.
func (s *Service) Defaults() models.FilterSelection { return SelectAll(s.opts) }

func (s *Service) Ranker() *Ranker { return s.set.Ranker }

func (s *Service) filter(sel models.FilterSelection) ([]models.AdRecord, []models.CrmRecord) {
	return FilterAds(s.ads, sel), FilterCRM(s.crm, sel)
}

func (s *Service) observe(view string, start time.Time, rows int) {
	d := time.Since(start)
	if s.set.Observer != nil {
		s.set.Observer.ObserveView(view, d, rows)
	}
	s.log.Debug("view computed", slog.String("view", view), slog.Int("rows", rows), slog.Duration("took", d))
}

func (s *Service) Overview(sel models.FilterSelection) models.Overview {
	start := time.Now()
	ads, crm := s.filter(sel)
	ctr, cpc, cpa := AverageRates(ads)
	ov := models.Overview{
		AdRows:         len(ads),
		CrmRows:        len(crm),
		AvgCTR:         ctr,
		AvgCPC:         cpc,
		AvgCPA:         cpa,
		ConversionRate: OverallConversionRate(ads),
		RunRate:        DailyRunRate(ads, crm, DayCount(sel.Start, sel.End)),
		Daily:          GroupByDay(ads),
		Campaigns:      GroupByCampaign(ads),
	}
	for _, h := range headline {
		input := campaignValues(ads, strategies[h.metric])
		ov.Rankings = append(ov.Rankings, models.Ranking{
			Metric:         string(h.metric),
			HigherIsBetter: h.higher,
			Rows:           s.set.Ranker.Rank(input, h.higher),
		})
	}
	s.observe("overview", start, len(ads)+len(crm))
	return ov
}

// Rankings ranks campaigns by metric. A nil order uses the metric's
// default direction.
func (s *Service) Rankings(sel models.FilterSelection, metric string, higherIsBetter *bool) (models.Ranking, error) {
	start := time.Now()
	st, err := Lookup(metric)
	if err != nil {
		return models.Ranking{}, err
	}
	higher := st.HigherIsBetter
	if higherIsBetter != nil {
		higher = *higherIsBetter
	}
	ads := FilterAds(s.ads, sel)
	rk := models.Ranking{
		Metric:         metric,
		HigherIsBetter: higher,
		Rows:           s.set.Ranker.Rank(campaignValues(ads, st), higher),
	}
	s.observe("rankings", start, len(ads))
	return rk, nil
}

func (s *Service) Campaigns(sel models.FilterSelection, metric string) (models.CampaignView, error) {
	start := time.Now()
	st, err := Lookup(metric)
	if err != nil {
		return models.CampaignView{}, err
	}
	ads, crm := s.filter(sel)
	view := models.CampaignView{
		Metric:     metric,
		Timeline:   CampaignTimeline(ads, st),
		CRM:        CRMByCampaign(crm, s.set.WonStatus),
		Spend:      SpendByCampaign(ads),
		ActiveRows: ActiveRowsByCampaign(ads),
	}
	for _, row := range s.set.Ranker.Rank(campaignValues(ads, st), true) {
		v, err := s.set.Ranker.Parse(row.Display)
		if err != nil {
			return models.CampaignView{}, err
		}
		view.Values = append(view.Values, models.CampaignValue{Campaign: row.Campaign, Value: v})
	}
	s.observe("campaigns", start, len(ads)+len(crm))
	return view, nil
}

func (s *Service) Audience(sel models.FilterSelection, metric string) (models.AudienceView, error) {
	start := time.Now()
	st, err := Lookup(metric)
	if err != nil {
		return models.AudienceView{}, err
	}
	ads := FilterAds(s.ads, sel)
	view := models.AudienceView{
		Metric:      metric,
		BySegment:   AudienceBreakdown(ads, st),
		ByDay:       GenderByDay(ads, st),
		DailyShares: GenderShareByDay(ads, st),
	}
	s.observe("audience", start, len(ads))
	return view, nil
}

// Funnel builds the stage funnel over the filtered leads of campaigns.
// The summary covers every filtered lead.
func (s *Service) Funnel(sel models.FilterSelection, campaigns []string) models.FunnelView {
	start := time.Now()
	crm := FilterCRM(s.crm, sel)
	narrowed := FilterCRM(crm, models.FilterSelection{
		Start:           sel.Start,
		End:             sel.End,
		Channels:        sel.Channels,
		OriginCampaigns: campaigns,
	})
	view := models.FunnelView{
		Stages:  s.set.Funnel.Build(StageValues(narrowed)),
		Summary: SummarizeFunnel(crm),
	}
	s.observe("funnel", start, len(crm))
	return view
}

func (s *Service) Channels(sel models.FilterSelection, metric string, campaigns []string) (models.ChannelView, error) {
	start := time.Now()
	st, err := Lookup(metric)
	if err != nil {
		return models.ChannelView{}, err
	}
	ads, crm := s.filter(sel)
	byCampaign := ChannelByCampaign(crm)
	view := models.ChannelView{
		Metric:          metric,
		Values:          ChannelMetric(ads, crm, st),
		ByCampaign:      byCampaign,
		Sales:           ChannelSalesFor(byCampaign, campaigns),
		ConversionRates: ChannelConversionRates(byCampaign),
	}
	s.observe("channels", start, len(ads)+len(crm))
	return view, nil
}

func (s *Service) Insights(sel models.FilterSelection) []models.Insight {
	start := time.Now()
	ads, crm := s.filter(sel)
	out := BuildInsights(ads, crm, s.set.Ranker, s.set.Thresholds)
	s.observe("insights", start, len(ads)+len(crm))
	return out
}
