package metrics

// Snapshot is the FinancialMetricsSnapshot of one evaluation. Pointer fields
// are nil when the metric is undefined or could not be computed; a nil is
// never a stand-in for zero.
type Snapshot struct {
	MonthlyPayment float64  `json:"monthly_payment"`
	NOI            float64  `json:"noi"`
	ADS            float64  `json:"ads"`
	DSCR           *float64 `json:"dscr"`
	CapRate        float64  `json:"cap_rate"`
	CoC            *float64 `json:"coc"`
	IRR            *float64 `json:"irr"`
	NPV            float64  `json:"npv"`
	LTV            float64  `json:"ltv"`
	TMC            float64  `json:"tmc"`
	PricePerM2     float64  `json:"price_per_m2"`
	PriceToRent    *float64 `json:"price_to_rent"`
	EquityMultiple *float64 `json:"equity_multiple"`
	YieldOnCost    float64  `json:"yield_on_cost"`
}

// Optional converts a (value, error) pair into a nullable metric. Only
// errors are dropped here; callers that need the reason keep the error.
func Optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

// Value dereferences a nullable metric, returning ok=false when undefined.
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
