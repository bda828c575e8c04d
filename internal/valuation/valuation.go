// Package valuation derives a now-cast value from comparable sales and
// classifies an asking price against it.
package valuation

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/deal-cli/internal/model"
)

// DefaultBand is the ± tolerance around the now-cast inside which a price is
// considered Average.
const DefaultBand = 0.05

// DefaultMedianDaysOnMarket is used when no local median is supplied.
const DefaultMedianDaysOnMarket = 30

// ErrNoComparables is returned when a median is requested over no sales.
var ErrNoComparables = eris.New("valuation: no comparable sales")

// Verdict classifies an asking price against the now-cast value.
type Verdict string

// Price verdicts.
const (
	UnderPriced Verdict = "Under-priced"
	Average     Verdict = "Average"
	Overpriced  Verdict = "Overpriced"
	Unknown     Verdict = "Unknown"
)

// Filter narrows a comparable set before the median is taken. Zero fields
// disable the corresponding criterion.
type Filter struct {
	Since            time.Time
	SurfaceM2        float64
	SurfaceTolerance float64 // fraction, e.g. 0.3 keeps surfaces within ±30%
}

// SelectComparables returns the comparables matching f, in input order.
// Sales with a non-positive price per m² are always dropped.
func SelectComparables(comps []model.ComparableSale, f Filter) []model.ComparableSale {
	out := make([]model.ComparableSale, 0, len(comps))
	for _, c := range comps {
		if c.PricePerM2 <= 0 || math.IsNaN(c.PricePerM2) {
			continue
		}
		if !f.Since.IsZero() && c.SaleDate.Before(f.Since) {
			continue
		}
		if f.SurfaceM2 > 0 && f.SurfaceTolerance > 0 {
			lo := f.SurfaceM2 * (1 - f.SurfaceTolerance)
			hi := f.SurfaceM2 * (1 + f.SurfaceTolerance)
			if c.SurfaceM2 < lo || c.SurfaceM2 > hi {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// MedianPricePerM2 returns the median price per m² across comps.
func MedianPricePerM2(comps []model.ComparableSale) (float64, error) {
	if len(comps) == 0 {
		return 0, ErrNoComparables
	}
	prices := make([]float64, len(comps))
	for i, c := range comps {
		prices[i] = c.PricePerM2
	}
	slices.Sort(prices)

	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid], nil
	}
	return (prices[mid-1] + prices[mid]) / 2, nil
}

// NowcastValue returns median €/m² × surface × (1 + market delta) × (1 + listing delta).
func NowcastValue(medianPerM2, surfaceM2, marketDelta, listingDelta float64) float64 {
	return medianPerM2 * surfaceM2 * (1 + marketDelta) * (1 + listingDelta)
}

// PriceVerdict classifies price against nowcast using DefaultBand.
func PriceVerdict(price, nowcast float64) Verdict {
	return PriceVerdictWithBand(price, nowcast, DefaultBand)
}

// PriceVerdictWithBand classifies price against nowcast with a ± band. A
// non-positive now-cast yields Unknown.
func PriceVerdictWithBand(price, nowcast, band float64) Verdict {
	if nowcast <= 0 || math.IsNaN(nowcast) {
		return Unknown
	}
	switch {
	case price < nowcast*(1-band):
		return UnderPriced
	case price > nowcast*(1+band):
		return Overpriced
	default:
		return Average
	}
}

// Discount returns price ÷ nowcast − 1: negative when the asking price is
// below the now-cast.
func Discount(price, nowcast float64) (float64, bool) {
	if nowcast <= 0 {
		return 0, false
	}
	return price/nowcast - 1, true
}

// dpeAdjustments maps energy grades to a value adjustment.
var dpeAdjustments = map[string]float64{
	"A": 0.05,
	"B": 0.02,
	"C": 0,
	"D": -0.02,
	"E": -0.05,
	"F": -0.10,
	"G": -0.15,
}

// ListingDelta builds a listing adjustment factor from transparent listing
// signals: price cuts, stale days on market, DPE grade and condition.
func ListingDelta(adj model.ListingAdjustments, dpeGrade string) float64 {
	delta := adj.PriceCutPct

	median := adj.MedianDaysOnMarket
	if median <= 0 {
		median = DefaultMedianDaysOnMarket
	}
	dom := float64(adj.DaysOnMarket)
	switch {
	case dom > float64(median)*2:
		delta -= 0.10
	case dom > float64(median)*1.5:
		delta -= 0.05
	}

	delta += dpeAdjustments[strings.ToUpper(strings.TrimSpace(dpeGrade))]
	delta += adj.ConditionPenalty
	return delta
}

// Result is the valuation outcome attached to an evaluation report.
type Result struct {
	Comparables  int      `json:"comparables"`
	MedianPerM2  float64  `json:"median_price_per_m2"`
	MarketDelta  float64  `json:"market_delta"`
	ListingDelta float64  `json:"listing_delta"`
	Nowcast      float64  `json:"nowcast_value"`
	Discount     *float64 `json:"discount"`
	Verdict      Verdict  `json:"verdict"`
}

// Appraise runs the full comparable-sales valuation for a deal. Deals without
// comparables return (nil, ErrNoComparables).
func Appraise(d model.Deal, band float64) (*Result, error) {
	comps := SelectComparables(d.Comparables, Filter{})
	median, err := MedianPricePerM2(comps)
	if err != nil {
		return nil, err
	}

	var listing float64
	switch {
	case d.ListingDelta != nil:
		listing = *d.ListingDelta
	case d.Listing != nil:
		listing = ListingDelta(*d.Listing, d.Property.DPEGrade)
	}

	res := &Result{
		Comparables:  len(comps),
		MedianPerM2:  median,
		MarketDelta:  d.MarketDelta,
		ListingDelta: listing,
		Nowcast:      NowcastValue(median, d.Property.SurfaceM2, d.MarketDelta, listing),
	}
	res.Verdict = PriceVerdictWithBand(d.Property.Price, res.Nowcast, band)
	if disc, ok := Discount(d.Property.Price, res.Nowcast); ok {
		res.Discount = &disc
	}
	return res, nil
}
