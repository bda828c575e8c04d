package dealfile

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/deal-cli/internal/model"
)

type setter func(d *model.Deal, v string) error

func float(dst func(*model.Deal) *float64) setter {
	return func(d *model.Deal, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		*dst(d) = f
		return nil
	}
}

func optionalFloat(dst func(*model.Deal) **float64) setter {
	return func(d *model.Deal, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		*dst(d) = &f
		return nil
	}
}

func integer(dst func(*model.Deal) *int) setter {
	return func(d *model.Deal, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			// Spreadsheets store whole numbers as floats.
			f, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil || f != float64(int(f)) {
				return eris.Errorf("not an integer: %q", v)
			}
			n = int(f)
		}
		*dst(d) = n
		return nil
	}
}

func text(dst func(*model.Deal) *string) setter {
	return func(d *model.Deal, v string) error {
		*dst(d) = v
		return nil
	}
}

// parseFloat accepts a trailing percent sign ("3.5%" → 0.035).
func parseFloat(v string) (float64, error) {
	scale := 1.0
	if s, ok := strings.CutSuffix(v, "%"); ok {
		v, scale = strings.TrimSpace(s), 0.01
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, eris.Errorf("not a number: %q", v)
	}
	return f * scale, nil
}

var columns = map[string]setter{
	"name":        text(func(d *model.Deal) *string { return &d.Name }),
	"postal_code": text(func(d *model.Deal) *string { return &d.Property.PostalCode }),
	"dpe_grade":   text(func(d *model.Deal) *string { return &d.Property.DPEGrade }),
	"tax_regime":  text(func(d *model.Deal) *string { return &d.TaxRegime }),

	"price":      float(func(d *model.Deal) *float64 { return &d.Property.Price }),
	"surface_m2": float(func(d *model.Deal) *float64 { return &d.Property.SurfaceM2 }),
	"rooms":      integer(func(d *model.Deal) *int { return &d.Property.Rooms }),
	"bedrooms":   integer(func(d *model.Deal) *int { return &d.Property.Bedrooms }),

	"down_payment":     float(func(d *model.Deal) *float64 { return &d.Financing.DownPayment }),
	"loan_amount":      float(func(d *model.Deal) *float64 { return &d.Financing.LoanAmount }),
	"annual_rate":      float(func(d *model.Deal) *float64 { return &d.Financing.AnnualRate }),
	"term_years":       integer(func(d *model.Deal) *int { return &d.Financing.TermYears }),
	"closing_costs":    float(func(d *model.Deal) *float64 { return &d.Financing.ClosingCosts }),
	"renovation_costs": float(func(d *model.Deal) *float64 { return &d.Financing.RenovationCosts }),

	"monthly_rent":           float(func(d *model.Deal) *float64 { return &d.Rent.MonthlyRent }),
	"other_monthly_income":   float(func(d *model.Deal) *float64 { return &d.Rent.OtherMonthlyIncome }),
	"vacancy_rate":           float(func(d *model.Deal) *float64 { return &d.Rent.VacancyRate }),
	"operating_expense_rate": float(func(d *model.Deal) *float64 { return &d.Rent.OperatingExpenseRate }),
	"rent_escalation_rate":   float(func(d *model.Deal) *float64 { return &d.Rent.RentEscalationRate }),

	"monthly_insurance":      float(func(d *model.Deal) *float64 { return &d.Costs.MonthlyInsurance }),
	"monthly_management_fee": float(func(d *model.Deal) *float64 { return &d.Costs.MonthlyManagementFee }),

	"market_delta":      float(func(d *model.Deal) *float64 { return &d.MarketDelta }),
	"listing_delta":     optionalFloat(func(d *model.Deal) **float64 { return &d.ListingDelta }),
	"horizon_years":     integer(func(d *model.Deal) *int { return &d.HorizonYears }),
	"appreciation_rate": optionalFloat(func(d *model.Deal) **float64 { return &d.AppreciationRate }),
	"marginal_tax_rate": optionalFloat(func(d *model.Deal) **float64 { return &d.MarginalTaxRate }),
}

// Columns returns the recognized column names in sorted order.
func Columns() []string {
	names := make([]string, 0, len(columns))
	for k := range columns {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
