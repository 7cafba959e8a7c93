package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateField holds a raw date cell and its parsed calendar day. A zero Time
// marks a missing date.
type DateField struct {
	Raw  string
	Time time.Time
}

func NewDate(t time.Time) DateField {
	y, m, d := t.Date()
	return DateField{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Day is shorthand for NewDate(time.Date(y, m, d, ...)).
func Day(y int, m time.Month, d int) DateField {
	return DateField{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *DateField) UnmarshalText(b []byte) error {
	d.Raw = strings.TrimSpace(string(b))
	d.Time = time.Time{}
	return nil
}

func (d DateField) Valid() bool { return !d.Time.IsZero() }

func (d DateField) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

type AdRecord struct {
	Date        DateField `json:"date"`
	Campaign    string    `json:"campaign"`
	Ad          string    `json:"ad"`
	Gender      string    `json:"gender"`
	AgeBracket  string    `json:"age_bracket"`
	Impressions int       `json:"impressions"`
	Clicks      int       `json:"clicks"`
	Conversions int       `json:"conversions"`
	TotalSpend  float64   `json:"total_spend"`
}

type CrmRecord struct {
	LeadID              string    `json:"lead_id"`
	CaptureDate         DateField `json:"capture_date"`
	LastInteractionDate DateField `json:"last_interaction_date"`
	SaleDate            DateField `json:"sale_date"`
	Channel             string    `json:"channel"`
	OriginCampaign      string    `json:"origin_campaign"`
	FunnelStage         string    `json:"funnel_stage"`
	SaleID              string    `json:"sale_id"`
	Status              string    `json:"status"`
	SaleValue           *float64  `json:"sale_value"`
	DaysToConversion    *float64  `json:"days_to_conversion"`
}

func (c CrmRecord) HasSale() bool { return c.SaleID != "" }

// DateRange is an inclusive span of calendar days. The zero value is the
// empty range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Empty() bool { return r.Start.IsZero() || r.End.IsZero() }

// FilterSelection is one dashboard filter state. Nil or empty category
// slices select nothing.
type FilterSelection struct {
	Start           time.Time
	End             time.Time
	Campaigns       []string
	Genders         []string
	AgeBrackets     []string
	Channels        []string
	OriginCampaigns []string
}

// Rate is a derived ratio that may be undefined (NaN); undefined rates
// encode as JSON null.
type Rate float64

func (r Rate) Valid() bool {
	f := float64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

type Totals struct {
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	TotalSpend  float64 `json:"total_spend"`
}

func (t *Totals) Add(a AdRecord) {
	t.Clicks += a.Clicks
	t.Impressions += a.Impressions
	t.Conversions += a.Conversions
	t.TotalSpend += a.TotalSpend
}

type DayRow struct {
	Date time.Time `json:"date"`
	Totals
	CTR Rate    `json:"ctr"`
	CPC float64 `json:"cpc"`
}

type CampaignRow struct {
	Campaign string `json:"campaign"`
	Totals
}

type CampaignValue struct {
	Campaign string  `json:"campaign"`
	Value    float64 `json:"value"`
}

type CampaignCount struct {
	Campaign string `json:"campaign"`
	Count    int    `json:"count"`
}

type RankedRow struct {
	Campaign string  `json:"campaign"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
}

type Ranking struct {
	Metric         string      `json:"metric"`
	HigherIsBetter bool        `json:"higher_is_better"`
	Rows           []RankedRow `json:"rows"`
}

type RunRate struct {
	Days              int     `json:"days"`
	SpendPerDay       float64 `json:"spend_per_day"`
	ClicksPerDay      float64 `json:"clicks_per_day"`
	ImpressionsPerDay float64 `json:"impressions_per_day"`
	LeadsPerDay       float64 `json:"leads_per_day"`
	PurchasesPerDay   float64 `json:"purchases_per_day"`
}

type FunnelRow struct {
	Stage   string  `json:"stage"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type TimelineRow struct {
	Date     time.Time `json:"date"`
	Campaign string    `json:"campaign"`
	Value    float64   `json:"value"`
}

type AudienceRow struct {
	Gender     string  `json:"gender"`
	AgeBracket string  `json:"age_bracket"`
	Value      float64 `json:"value"`
}

type GenderDayRow struct {
	Date   time.Time `json:"date"`
	Gender string    `json:"gender"`
	Value  float64   `json:"value"`
}

type CampaignCRMRow struct {
	Campaign       string  `json:"campaign"`
	Leads          int     `json:"leads"`
	WonLeads       int     `json:"won_leads"`
	Sales          int     `json:"sales"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}

type ChannelCampaignRow struct {
	Channel        string  `json:"channel"`
	Campaign       string  `json:"campaign"`
	Sales          int     `json:"sales"`
	Leads          int     `json:"leads"`
	ConversionRate float64 `json:"conversion_rate"`
}

type ChannelSales struct {
	Channel string `json:"channel"`
	Sales   int    `json:"sales"`
	Leads   int    `json:"leads"`
}

type ChannelValue struct {
	Channel string  `json:"channel"`
	Value   float64 `json:"value"`
}

type FunnelSummary struct {
	Leads               int     `json:"leads"`
	Buyers              int     `json:"buyers"`
	LeadConversionRate  float64 `json:"lead_conversion_rate"`
	AvgDaysToConversion float64 `json:"avg_days_to_conversion"`
	HasConversionData   bool    `json:"has_conversion_data"`
}

type Insight struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type FilterOptions struct {
	Campaigns       []string  `json:"campaigns"`
	Genders         []string  `json:"genders"`
	AgeBrackets     []string  `json:"age_brackets"`
	Channels        []string  `json:"channels"`
	OriginCampaigns []string  `json:"origin_campaigns"`
	Bounds          DateRange `json:"bounds"`
}

type Overview struct {
	AdRows         int           `json:"ad_rows"`
	CrmRows        int           `json:"crm_rows"`
	AvgCTR         float64       `json:"avg_ctr"`
	AvgCPC         float64       `json:"avg_cpc"`
	AvgCPA         float64       `json:"avg_cpa"`
	ConversionRate float64       `json:"conversion_rate"`
	RunRate        RunRate       `json:"run_rate"`
	Daily          []DayRow      `json:"daily"`
	Campaigns      []CampaignRow `json:"campaigns"`
	Rankings       []Ranking     `json:"rankings"`
}

type CampaignView struct {
	Metric     string           `json:"metric"`
	Values     []CampaignValue  `json:"values"`
	Timeline   []TimelineRow    `json:"timeline"`
	CRM        []CampaignCRMRow `json:"crm"`
	Spend      []CampaignValue  `json:"spend"`
	ActiveRows []CampaignCount  `json:"active_rows"`
}

type AudienceView struct {
	Metric      string         `json:"metric"`
	BySegment   []AudienceRow  `json:"by_segment"`
	ByDay       []GenderDayRow `json:"by_day"`
	DailyShares []GenderDayRow `json:"daily_shares"`
}

type FunnelView struct {
	Stages  []FunnelRow   `json:"stages"`
	Summary FunnelSummary `json:"summary"`
}

type ChannelView struct {
	Metric          string               `json:"metric"`
	Values          []ChannelValue       `json:"values"`
	ByCampaign      []ChannelCampaignRow `json:"by_campaign"`
	Sales           []ChannelSales       `json:"sales"`
	ConversionRates []ChannelValue       `json:"conversion_rates"`
}

func (a *AdRecord) DateColumn(name string) *DateField {
	if name == "date" {
		return &a.Date
	}
	return nil
}

func (c *CrmRecord) DateColumn(name string) *DateField {
	switch name {
	case "capture_date":
		return &c.CaptureDate
	case "last_interaction_date":
		return &c.LastInteractionDate
	case "sale_date":
		return &c.SaleDate
	}
	return nil
}
