package metrics

import (
	"time"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

func ad(day int, campaign, gender, age string, imp, clk, conv int, spend float64) models.AdRecord {
	return models.AdRecord{
		Date:        models.Day(2024, time.March, day),
		Campaign:    campaign,
		Ad:          campaign + "-creative",
		Gender:      gender,
		AgeBracket:  age,
		Impressions: imp,
		Clicks:      clk,
		Conversions: conv,
		TotalSpend:  spend,
	}
}

func lead(day int, id, channel, campaign, stage, saleID string) models.CrmRecord {
	return models.CrmRecord{
		LeadID:         id,
		CaptureDate:    models.Day(2024, time.March, day),
		Channel:        channel,
		OriginCampaign: campaign,
		FunnelStage:    stage,
		SaleID:         saleID,
	}
}

func ptr(f float64) *float64 { return &f }

func march(day int) time.Time { return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC) }

func sampleAds() []models.AdRecord {
	return []models.AdRecord{
		ad(1, "Shoes", "Women", "18-24", 100, 10, 2, 50),
		ad(1, "Shoes", "Men", "25-34", 20, 0, 0, 5),
		ad(2, "Bags", "Women", "25-34", 200, 30, 3, 60),
		ad(3, "Bags", "Men", "18-24", 100, 10, 1, 20),
		ad(3, "Hats", "Women", "18-24", 50, 0, 0, 10),
	}
}

func sampleCRM() []models.CrmRecord {
	won := lead(1, "L1", "Email", "Shoes", "Purchased", "S1")
	won.Status = "Won"
	won.SaleValue = ptr(120)
	won.DaysToConversion = ptr(4)
	sold := lead(2, "L2", "Social", "Bags", "Purchased", "S2")
	sold.Status = "Won"
	sold.SaleValue = ptr(80.5)
	sold.DaysToConversion = ptr(6)
	return []models.CrmRecord{
		won,
		sold,
		lead(2, "L3", "Email", "Bags", "Visit", ""),
		lead(3, "L4", "Social", "Bags", "Cart", ""),
		lead(3, "L5", "Social", "Shoes", "Visit", ""),
	}
}

func selectAll() models.FilterSelection {
	return SelectAll(CollectOptions(sampleAds(), sampleCRM()))
}
