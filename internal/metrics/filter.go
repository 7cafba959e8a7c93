package metrics

import (
	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

type set map[string]struct{}

func newSet(vals []string) set {
	return lo.SliceToMap(vals, func(v string) (string, struct{}) { return v, struct{}{} })
}

func (s set) has(v string) bool { return lo.HasKey(s, v) }

// FilterAds keeps ad rows dated within [start, end] whose campaign, gender
// and age bracket are all selected. An empty selection matches nothing.
func FilterAds(rows []models.AdRecord, sel models.FilterSelection) []models.AdRecord {
	start, end := models.NewDate(sel.Start).Time, models.NewDate(sel.End).Time
	campaigns, genders, ages := newSet(sel.Campaigns), newSet(sel.Genders), newSet(sel.AgeBrackets)
	return lo.Filter(rows, func(a models.AdRecord, _ int) bool {
		return inRange(a.Date, start, end) &&
			campaigns.has(a.Campaign) &&
			genders.has(a.Gender) &&
			ages.has(a.AgeBracket)
	})
}

// FilterCRM keeps leads captured within [start, end] whose channel and
// origin campaign are selected.
func FilterCRM(rows []models.CrmRecord, sel models.FilterSelection) []models.CrmRecord {
	start, end := models.NewDate(sel.Start).Time, models.NewDate(sel.End).Time
	channels, origins := newSet(sel.Channels), newSet(sel.OriginCampaigns)
	return lo.Filter(rows, func(c models.CrmRecord, _ int) bool {
		return inRange(c.CaptureDate, start, end) &&
			channels.has(c.Channel) &&
			origins.has(c.OriginCampaign)
	})
}

// CollectOptions lists the distinct non-empty values a user can select, in order
// of first appearance.
func CollectOptions(ads []models.AdRecord, crm []models.CrmRecord) models.FilterOptions {
	distinct := func(vals []string) []string {
		return lo.Uniq(lo.Compact(vals))
	}
	return models.FilterOptions{
		Campaigns:       distinct(lo.Map(ads, func(a models.AdRecord, _ int) string { return a.Campaign })),
		Genders:         distinct(lo.Map(ads, func(a models.AdRecord, _ int) string { return a.Gender })),
		AgeBrackets:     distinct(lo.Map(ads, func(a models.AdRecord, _ int) string { return a.AgeBracket })),
		Channels:        distinct(lo.Map(crm, func(c models.CrmRecord, _ int) string { return c.Channel })),
		OriginCampaigns: distinct(lo.Map(crm, func(c models.CrmRecord, _ int) string { return c.OriginCampaign })),
		Bounds:          ResolveRange(ads, crm),
	}
}

// SelectAll returns the default selection: every option over the resolved
// bounds.
func SelectAll(opts models.FilterOptions) models.FilterSelection {
	return models.FilterSelection{
		Start:           opts.Bounds.Start,
		End:             opts.Bounds.End,
		Campaigns:       opts.Campaigns,
		Genders:         opts.Genders,
		AgeBrackets:     opts.AgeBrackets,
		Channels:        opts.Channels,
		OriginCampaigns: opts.OriginCampaigns,
	}
}
