package metrics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

var DefaultStages = []string{"Visit", "Cart", "Checkout", "Purchased"}

// Funnel counts stage values and orders them by a canonical stage list.
// Stages outside the list are kept and placed after the canonical ones,
// alphabetically.
type Funnel struct {
	Stages []string
}

func NewFunnel(stages []string) Funnel {
	if len(stages) == 0 {
		stages = DefaultStages
	}
	return Funnel{Stages: stages}
}

// Build returns one row per stage present in values with its count and
// share of the total in percent (2 decimals). Empty values are ignored.
func (f Funnel) Build(values []string) []models.FunnelRow {
	counts := lo.CountValues(lo.Compact(values))
	total := 0
	for _, n := range counts {
		total += n
	}
	rank := make(map[string]int, len(f.Stages))
	for i, s := range f.Stages {
		rank[s] = i
	}
	out := make([]models.FunnelRow, 0, len(counts))
	for stage, n := range counts {
		out = append(out, models.FunnelRow{
			Stage:   stage,
			Count:   n,
			Percent: round2(safeDivF(float64(n), float64(total)) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iKnown := rank[out[i].Stage]
		rj, jKnown := rank[out[j].Stage]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		}
		return out[i].Stage < out[j].Stage
	})
	return out
}

// StageValues extracts the funnel stage of every lead.
func StageValues(rows []models.CrmRecord) []string {
	return lo.Map(rows, func(c models.CrmRecord, _ int) string { return c.FunnelStage })
}
