package metrics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// DefaultLocale renders 12.5 as "12,50".
var DefaultLocale = language.BrazilianPortuguese

// Ranker orders campaign values and renders them as fixed 2-decimal
// strings in a display locale, without grouping separators.
type Ranker struct {
	printer *message.Printer
	decimal string
}

// NewRanker formats in tag's conventions with Latin digits, so every
// display string can be parsed back.
func NewRanker(tag language.Tag) *Ranker {
	if latn, err := tag.SetTypeForKey("nu", "latn"); err == nil {
		tag = latn
	}
	r := &Ranker{printer: message.NewPrinter(tag)}
	r.decimal = strings.Trim(r.Format(1.5), "0123456789")
	if r.decimal == "" {
		r.decimal = "."
	}
	return r
}

func (r *Ranker) Format(v float64) string {
	return r.printer.Sprint(number.Decimal(v, number.Scale(2), number.NoSeparator()))
}

// Parse reads back a string produced by Format.
func (r *Ranker) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	s = strings.Map(func(c rune) rune {
		switch {
		case unicode.Is(unicode.Bidi_Control, c):
			return -1
		case c == '\u2212':
			return '-'
		}
		return c
	}, s)
	s = strings.ReplaceAll(s, r.decimal, ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "metrics: parse display value %q", s)
	}
	return v, nil
}

// CheckLocale reports whether values formatted for tag parse back to the
// same number.
func CheckLocale(tag language.Tag) error {
	const sample = 1234.5
	r := NewRanker(tag)
	v, err := r.Parse(r.Format(sample))
	if err != nil {
		return err
	}
	if v != sample {
		return eris.Errorf("metrics: locale %s displays %v as %q", tag, sample, r.Format(sample))
	}
	return nil
}

// Rank sorts values descending when higherIsBetter, ascending otherwise,
// then formats them. Ties keep campaign order; NaN values go last.
func (r *Ranker) Rank(values []models.CampaignValue, higherIsBetter bool) []models.RankedRow {
	sorted := append([]models.CampaignValue(nil), values...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Value, sorted[j].Value
		if math.IsNaN(a) || math.IsNaN(b) {
			return !math.IsNaN(a) && math.IsNaN(b)
		}
		if a == b {
			return false
		}
		if higherIsBetter {
			return a > b
		}
		return a < b
	})
	out := make([]models.RankedRow, len(sorted))
	for i, v := range sorted {
		out[i] = models.RankedRow{Campaign: v.Campaign, Value: v.Value, Display: r.Format(v.Value)}
	}
	return out
}
