package metrics

import (
	"math"
	"regexp"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

func TestRankerFormat(t *testing.T) {
	r := NewRanker(DefaultLocale)
	assert.Equal(t, "12,50", r.Format(12.5))
	assert.Equal(t, "0,00", r.Format(0))
	assert.Equal(t, "1234,57", r.Format(1234.567))

	shape := regexp.MustCompile(`^-?\d+,\d{2}$`)
	for _, v := range []float64{0.004, 3, 99.999, 100000, -7.25} {
		assert.Regexp(t, shape, r.Format(v))
	}
}

func TestRankerFormatEnglish(t *testing.T) {
	r := NewRanker(language.AmericanEnglish)
	assert.Equal(t, "12.50", r.Format(12.5))
	v, err := r.Parse("12.50")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
}

func TestRankerParseRoundTrip(t *testing.T) {
	r := NewRanker(DefaultLocale)
	for _, v := range []float64{0, 12.5, 1234.56, 0.01} {
		got, err := r.Parse(r.Format(v))
		require.NoError(t, err)
		assert.InDelta(t, v, got, 0.005)
	}
	_, err := r.Parse("abc")
	assert.Error(t, err)

	nan, err := r.Parse("NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(nan))
}

func TestRank(t *testing.T) {
	r := NewRanker(DefaultLocale)
	values := []models.CampaignValue{
		{Campaign: "A", Value: 2},
		{Campaign: "B", Value: math.NaN()},
		{Campaign: "C", Value: 12.5},
		{Campaign: "D", Value: 2},
	}

	desc := r.Rank(values, true)
	require.Len(t, desc, 4)
	assert.Equal(t, []string{"C", "A", "D", "B"}, campaignsOf(desc))
	assert.Equal(t, "12,50", desc[0].Display)

	asc := r.Rank(values, false)
	assert.Equal(t, []string{"A", "D", "C", "B"}, campaignsOf(asc))

	assert.Equal(t, "A", values[0].Campaign)
	assert.Empty(t, r.Rank(nil, true))
}

func campaignsOf(rows []models.RankedRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Campaign
	}
	return out
}

func TestRankerUsesLatinDigits(t *testing.T) {
	for _, tag := range []language.Tag{language.Arabic, language.Persian, language.MustParse("de-CH"), language.Hindi} {
		r := NewRanker(tag)
		out := r.Format(12.5)
		for _, c := range out {
			if unicode.IsDigit(c) {
				assert.True(t, c >= '0' && c <= '9', "%s: %q", tag, out)
			}
		}
		v, err := r.Parse(out)
		require.NoError(t, err, tag.String())
		assert.Equal(t, 12.5, v, tag.String())
		assert.NoError(t, CheckLocale(tag), tag.String())
	}
}
