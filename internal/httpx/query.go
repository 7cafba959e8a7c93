package httpx

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type viewQuery struct {
	From   string `validate:"omitempty,datetime=2006-01-02"`
	To     string `validate:"omitempty,datetime=2006-01-02"`
	Metric string `validate:"omitempty,oneof=impressions clicks conversions total_spend ctr cpc cpa conversion_rate"`
	Order  string `validate:"omitempty,oneof=asc desc"`
}

func parseViewQuery(q url.Values) (viewQuery, error) {
	vq := viewQuery{
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
		Metric: strings.TrimSpace(q.Get("metric")),
		Order:  strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
	if err := validate.Struct(vq); err != nil {
		return viewQuery{}, eris.Wrap(err, "invalid query")
	}
	return vq, nil
}

// selection builds a filter state from query parameters. A missing list
// parameter keeps the default (every option); a present one replaces it,
// so "campaign=" selects nothing.
func selection(q url.Values, vq viewQuery, def models.FilterSelection) (models.FilterSelection, error) {
	sel := models.FilterSelection{
		Start:           def.Start,
		End:             def.End,
		Campaigns:       listParam(q, "campaign", def.Campaigns),
		Genders:         listParam(q, "gender", def.Genders),
		AgeBrackets:     listParam(q, "age", def.AgeBrackets),
		Channels:        listParam(q, "channel", def.Channels),
		OriginCampaigns: listParam(q, "origin_campaign", def.OriginCampaigns),
	}
	if vq.From != "" {
		sel.Start, _ = time.Parse(models.DateLayout, vq.From)
	}
	if vq.To != "" {
		sel.End, _ = time.Parse(models.DateLayout, vq.To)
	}
	if !sel.Start.IsZero() && !sel.End.IsZero() && sel.End.Before(sel.Start) {
		return models.FilterSelection{}, eris.New("invalid query: 'to' is before 'from'")
	}
	return sel, nil
}

func listParam(q url.Values, key string, def []string) []string {
	raw, ok := q[key]
	if !ok {
		return def
	}
	out := []string{}
	for _, v := range raw {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
