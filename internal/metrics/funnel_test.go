package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

func TestFunnelBuildCanonicalOrder(t *testing.T) {
	got := NewFunnel(nil).Build([]string{"Purchased", "Visit", "Checkout", "Visit"})
	assert.Equal(t, []models.FunnelRow{
		{Stage: "Visit", Count: 2, Percent: 50},
		{Stage: "Checkout", Count: 1, Percent: 25},
		{Stage: "Purchased", Count: 1, Percent: 25},
	}, got)
}

func TestFunnelBuildKeepsUnknownStages(t *testing.T) {
	got := NewFunnel(nil).Build([]string{"Visit", "Lost", "", "Cart", "Abandoned"})
	stages := make([]string, len(got))
	sum := 0.0
	for i, r := range got {
		stages[i] = r.Stage
		sum += r.Percent
	}
	assert.Equal(t, []string{"Visit", "Cart", "Abandoned", "Lost"}, stages)
	assert.InDelta(t, 100, sum, 0.05)
}

func TestFunnelBuildPercentagesSumToHundred(t *testing.T) {
	got := NewFunnel(nil).Build(StageValues(sampleCRM()))
	sum := 0.0
	for _, r := range got {
		sum += r.Percent
	}
	assert.InDelta(t, 100, sum, 0.05)
	assert.Equal(t, "Visit", got[0].Stage)
	assert.Equal(t, "Purchased", got[len(got)-1].Stage)
}

func TestFunnelCustomStages(t *testing.T) {
	got := NewFunnel([]string{"Lead", "Won"}).Build([]string{"Won", "Lead", "Lead"})
	assert.Equal(t, "Lead", got[0].Stage)
	assert.InDelta(t, 66.67, got[0].Percent, 1e-9)
	assert.Equal(t, "Won", got[1].Stage)
}

func TestFunnelBuildEmpty(t *testing.T) {
	assert.Empty(t, NewFunnel(nil).Build(nil))
	assert.Empty(t, NewFunnel(nil).Build([]string{"", ""}))
}
