package metrics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// CRMByCampaign counts leads, won leads and sales per origin campaign and
// derives sales/leads*100. Leads without an origin campaign are not
// grouped. Ordered by sales, then campaign.
func CRMByCampaign(rows []models.CrmRecord, wonStatus string) []models.CampaignCRMRow {
	byCampaign := map[string]*models.CampaignCRMRow{}
	for _, c := range rows {
		if c.OriginCampaign == "" {
			continue
		}
		r, ok := byCampaign[c.OriginCampaign]
		if !ok {
			r = &models.CampaignCRMRow{Campaign: c.OriginCampaign}
			byCampaign[c.OriginCampaign] = r
		}
		if c.LeadID != "" {
			r.Leads++
		}
		if c.Status == wonStatus {
			r.WonLeads++
		}
		if c.HasSale() {
			r.Sales++
		}
		if c.SaleValue != nil {
			r.Revenue += *c.SaleValue
		}
	}
	out := make([]models.CampaignCRMRow, 0, len(byCampaign))
	for _, k := range sortedKeys(byCampaign) {
		r := byCampaign[k]
		r.Revenue = round2(r.Revenue)
		r.ConversionRate = round2(safeDivF(float64(r.Sales), float64(r.Leads)) * 100)
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	return out
}

// ChannelByCampaign counts sales and leads per channel and origin campaign.
func ChannelByCampaign(rows []models.CrmRecord) []models.ChannelCampaignRow {
	type key struct{ channel, campaign string }
	groups := map[key]*models.ChannelCampaignRow{}
	for _, c := range rows {
		if c.Channel == "" {
			continue
		}
		k := key{c.Channel, c.OriginCampaign}
		r, ok := groups[k]
		if !ok {
			r = &models.ChannelCampaignRow{Channel: c.Channel, Campaign: c.OriginCampaign}
			groups[k] = r
		}
		if c.LeadID != "" {
			r.Leads++
		}
		if c.HasSale() {
			r.Sales++
		}
	}
	out := make([]models.ChannelCampaignRow, 0, len(groups))
	for _, r := range groups {
		r.ConversionRate = round2(safeDivF(float64(r.Sales), float64(r.Leads)) * 100)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Channel != out[j].Channel {
			return out[i].Channel < out[j].Channel
		}
		return out[i].Campaign < out[j].Campaign
	})
	return out
}

// ChannelSalesFor sums sales and leads per channel over the given campaigns,
// most sales first.
func ChannelSalesFor(rows []models.ChannelCampaignRow, campaigns []string) []models.ChannelSales {
	selected := newSet(campaigns)
	byChannel := map[string]*models.ChannelSales{}
	for _, r := range rows {
		if !selected.has(r.Campaign) {
			continue
		}
		s, ok := byChannel[r.Channel]
		if !ok {
			s = &models.ChannelSales{Channel: r.Channel}
			byChannel[r.Channel] = s
		}
		s.Sales += r.Sales
		s.Leads += r.Leads
	}
	out := make([]models.ChannelSales, 0, len(byChannel))
	for _, k := range sortedKeys(byChannel) {
		out = append(out, *byChannel[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	return out
}

// ChannelConversionRates averages the per-campaign sales/leads rate of each
// channel, highest first.
func ChannelConversionRates(rows []models.ChannelCampaignRow) []models.ChannelValue {
	groups := lo.GroupBy(rows, func(r models.ChannelCampaignRow) string { return r.Channel })
	out := make([]models.ChannelValue, 0, len(groups))
	for _, ch := range sortedKeys(groups) {
		rates := lo.Map(groups[ch], func(r models.ChannelCampaignRow, _ int) float64 { return r.ConversionRate })
		out = append(out, models.ChannelValue{Channel: ch, Value: round2(lo.Mean(rates))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// ChannelMetric aggregates an ad metric per CRM channel over the pairing of
// every ad row with every lead whose origin campaign equals the ad's
// campaign. The pairing is weighted rather than materialised: each ad row
// counts once per matching lead. Channels without any pair are omitted.
func ChannelMetric(ads []models.AdRecord, crm []models.CrmRecord, s Strategy) []models.ChannelValue {
	type adSide struct {
		rows   int
		rowSum float64
		totals models.Totals
	}
	byCampaign := map[string]*adSide{}
	for _, a := range ads {
		side, ok := byCampaign[a.Campaign]
		if !ok {
			side = &adSide{}
			byCampaign[a.Campaign] = side
		}
		side.rows++
		side.rowSum += s.Row(a)
		side.totals.Add(a)
	}

	type channelSide struct {
		pairs  float64
		rowSum float64
		totals models.Totals
	}
	byChannel := map[string]*channelSide{}
	for _, c := range crm {
		side, ok := byCampaign[c.OriginCampaign]
		if !ok || c.Channel == "" {
			continue
		}
		ch, ok := byChannel[c.Channel]
		if !ok {
			ch = &channelSide{}
			byChannel[c.Channel] = ch
		}
		ch.pairs += float64(side.rows)
		ch.rowSum += side.rowSum
		ch.totals.Clicks += side.totals.Clicks
		ch.totals.Impressions += side.totals.Impressions
		ch.totals.Conversions += side.totals.Conversions
		ch.totals.TotalSpend += side.totals.TotalSpend
	}

	out := make([]models.ChannelValue, 0, len(byChannel))
	for _, name := range sortedKeys(byChannel) {
		ch := byChannel[name]
		v := safeDivF(ch.rowSum, ch.pairs)
		if s.Method == RateOfSums {
			v = s.Derive(ch.totals)
		}
		out = append(out, models.ChannelValue{Channel: name, Value: round2(v)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// SummarizeFunnel reports distinct leads, distinct leads with a sale, their
// ratio as a percentage and the mean days to conversion over sold leads.
func SummarizeFunnel(rows []models.CrmRecord) models.FunnelSummary {
	leads := distinctCount(rows, func(c models.CrmRecord) string { return c.LeadID })
	buyers := distinctCount(lo.Filter(rows, func(c models.CrmRecord, _ int) bool { return c.HasSale() }),
		func(c models.CrmRecord) string { return c.LeadID })
	var days []float64
	for _, c := range rows {
		if c.HasSale() && c.DaysToConversion != nil {
			days = append(days, *c.DaysToConversion)
		}
	}
	return models.FunnelSummary{
		Leads:               leads,
		Buyers:              buyers,
		LeadConversionRate:  round2(safeDivF(float64(buyers), float64(leads)) * 100),
		AvgDaysToConversion: round2(lo.Mean(days)),
		HasConversionData:   len(days) > 0,
	}
}
