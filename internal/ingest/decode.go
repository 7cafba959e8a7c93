package ingest

import (
	"errors"
	"io"
	"math"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

type adRow struct {
	Date        models.DateField `csv:"date"`
	Campaign    string           `csv:"campaign"`
	Ad          string           `csv:"ad"`
	Gender      string           `csv:"gender"`
	AgeBracket  string           `csv:"age_bracket"`
	Impressions *float64         `csv:"impressions"`
	Clicks      *float64         `csv:"clicks"`
	Conversions *float64         `csv:"conversions"`
	TotalSpend  *float64         `csv:"total_spend"`
}

func (r adRow) record() models.AdRecord {
	return models.AdRecord{
		Date:        r.Date,
		Campaign:    strings.TrimSpace(r.Campaign),
		Ad:          strings.TrimSpace(r.Ad),
		Gender:      strings.TrimSpace(r.Gender),
		AgeBracket:  strings.TrimSpace(r.AgeBracket),
		Impressions: count(r.Impressions),
		Clicks:      count(r.Clicks),
		Conversions: count(r.Conversions),
		TotalSpend:  amount(r.TotalSpend),
	}
}

type crmRow struct {
	LeadID              string           `csv:"lead_id"`
	CaptureDate         models.DateField `csv:"capture_date"`
	LastInteractionDate models.DateField `csv:"last_interaction_date"`
	SaleDate            models.DateField `csv:"sale_date"`
	Channel             string           `csv:"channel"`
	OriginCampaign      string           `csv:"origin_campaign"`
	FunnelStage         string           `csv:"funnel_stage"`
	SaleID              string           `csv:"sale_id"`
	Status              string           `csv:"status"`
	SaleValue           *float64         `csv:"sale_value"`
	DaysToConversion    *float64         `csv:"days_to_conversion"`
}

func (r crmRow) record() models.CrmRecord {
	return models.CrmRecord{
		LeadID:              strings.TrimSpace(r.LeadID),
		CaptureDate:         r.CaptureDate,
		LastInteractionDate: r.LastInteractionDate,
		SaleDate:            r.SaleDate,
		Channel:             strings.TrimSpace(r.Channel),
		OriginCampaign:      strings.TrimSpace(r.OriginCampaign),
		FunnelStage:         strings.TrimSpace(r.FunnelStage),
		SaleID:              strings.TrimSpace(r.SaleID),
		Status:              strings.TrimSpace(r.Status),
		SaleValue:           finite(r.SaleValue),
		DaysToConversion:    finite(r.DaysToConversion),
	}
}

// decode reads a header row, normalizes it and decodes the remaining rows
// into T by column name. An input without a header is an empty table.
func decode[T any](r csvutil.Reader) ([]T, error) {
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read header")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: new decoder")
	}
	var out []T
	for {
		var row T
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, eris.Wrapf(err, "ingest: decode row %d", len(out)+1)
		}
		out = append(out, row)
	}
}

// count reads a non-negative integer cell. Missing, negative, non-finite
// and out of range values read as 0.
func count(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 || *v >= math.MaxInt64 {
		return 0
	}
	return int(math.Round(*v))
}

func amount(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0
	}
	return *v
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
