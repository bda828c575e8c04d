package refdata

import "github.com/rotisserie/eris"

// Compliance statuses. Legal statuses apply under rent control; market
// statuses are guidance from a regional estimate.
const (
	StatusConformantLow    = "Conformant – Low"
	StatusConformantHigh   = "Conformant – High"
	StatusExceedsMaximum   = "Non-conformant (exceeds maximum)"
	StatusBelowMinimum     = "Non-conformant (below minimum)"
	StatusMarketLow        = "Within market range – Low"
	StatusMarketHigh       = "Within market range – High"
	StatusAboveMarketRange = "Above typical market range"
	StatusBelowMarketRange = "Below typical market range"
)

// Compliance places a rent within its legal or market band.
type Compliance struct {
	Band         Band    `json:"band"`
	MonthlyRent  float64 `json:"monthly_rent"`
	SurfaceM2    float64 `json:"surface_m2"`
	RentPerM2    float64 `json:"rent_per_m2"`
	IsCompliant  bool    `json:"is_compliant"`
	BandPosition float64 `json:"band_position"` // 0 at min, 1 at max
	Status       string  `json:"status"`
	IsEstimate   bool    `json:"is_estimate"` // true when no legal cap applies
}

// Legal reports whether the check was made against a legal cap.
func (c Compliance) Legal() bool {
	return !c.IsEstimate
}

// CheckCompliance checks monthlyRent for surfaceM2 against the legal band of
// postalCode, or the regional estimate when the code is not rent controlled.
func (t *Tables) CheckCompliance(postalCode string, monthlyRent, surfaceM2 float64) (*Compliance, error) {
	if surfaceM2 <= 0 {
		return nil, eris.Errorf("refdata: surface must be > 0, got %v", surfaceM2)
	}

	band, ok := t.RentBand(postalCode)
	estimate := !ok
	if estimate {
		band, ok = t.RegionalEstimate(postalCode)
		if !ok {
			return nil, eris.Errorf("refdata: invalid postal code %q", postalCode)
		}
	}

	perM2 := monthlyRent / surfaceM2
	c := &Compliance{
		Band:         band,
		MonthlyRent:  monthlyRent,
		SurfaceM2:    surfaceM2,
		RentPerM2:    perM2,
		IsCompliant:  perM2 >= band.Min && perM2 <= band.Max,
		BandPosition: 0.5,
		IsEstimate:   estimate,
	}
	if band.Max > band.Min {
		c.BandPosition = (perM2 - band.Min) / (band.Max - band.Min)
	}
	c.Status = status(c, band)
	return c, nil
}

func status(c *Compliance, b Band) string {
	r := c.RentPerM2
	if c.IsEstimate {
		switch {
		case r > b.Max:
			return StatusAboveMarketRange
		case r < b.Min:
			return StatusBelowMarketRange
		case r <= b.Median:
			return StatusMarketLow
		default:
			return StatusMarketHigh
		}
	}
	switch {
	case r > b.Max:
		return StatusExceedsMaximum
	case r < b.Min:
		return StatusBelowMinimum
	case r <= b.Median:
		return StatusConformantLow
	default:
		return StatusConformantHigh
	}
}
