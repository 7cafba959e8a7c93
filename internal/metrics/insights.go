package metrics

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Thresholds struct {
	// ConversionAlertPct raises an alert when the lead-to-purchase rate is
	// below it.
	ConversionAlertPct float64
	// SlowPurchaseDays raises a warning when the mean days to conversion
	// exceeds it.
	SlowPurchaseDays float64
}

var DefaultThresholds = Thresholds{ConversionAlertPct: 10, SlowPurchaseDays: 7}

// BuildInsights turns filtered tables into short dashboard messages.
func BuildInsights(ads []models.AdRecord, crm []models.CrmRecord, r *Ranker, th Thresholds) []models.Insight {
	var out []models.Insight

	if rates := ChannelConversionRates(ChannelByCampaign(crm)); len(rates) > 0 {
		out = append(out, models.Insight{
			Level:   LevelSuccess,
			Message: fmt.Sprintf("Channel %s has the highest conversion rate: %s%%", rates[0].Channel, r.Format(rates[0].Value)),
		})
	}

	leadCampaigns := newSet(lo.Map(crm, func(c models.CrmRecord, _ int) string { return c.OriginCampaign }))
	for _, c := range GroupByCampaign(ads) {
		if c.Clicks > 0 && !leadCampaigns.has(c.Campaign) {
			out = append(out, models.Insight{
				Level:   LevelWarning,
				Message: fmt.Sprintf("Campaign %s gets clicks (%d) but no leads", c.Campaign, c.Clicks),
			})
		}
	}

	fs := SummarizeFunnel(crm)
	if fs.Leads > 0 {
		if fs.LeadConversionRate < th.ConversionAlertPct {
			out = append(out, models.Insight{
				Level:   LevelError,
				Message: fmt.Sprintf("Lead conversion rate %s%% is below %s%%", r.Format(fs.LeadConversionRate), r.Format(th.ConversionAlertPct)),
			})
		} else {
			out = append(out, models.Insight{Level: LevelInfo, Message: "Lead conversion rate is within the expected range"})
		}
	}
	if fs.HasConversionData {
		if fs.AvgDaysToConversion > th.SlowPurchaseDays {
			out = append(out, models.Insight{
				Level:   LevelWarning,
				Message: fmt.Sprintf("Mean time to purchase is high (%s days)", r.Format(fs.AvgDaysToConversion)),
			})
		} else {
			out = append(out, models.Insight{Level: LevelInfo, Message: "Mean time to purchase is normal"})
		}
	}
	return out
}
