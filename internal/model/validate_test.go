package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat64(v float64) *float64 { return &v }

func validDeal() Deal {
	return Deal{
		Name: "rivoli",
		Property: Property{
			Price:      500_000,
			SurfaceM2:  50,
			Rooms:      2,
			Bedrooms:   1,
			PostalCode: "75001",
		},
		Financing: FinancingTerms{
			DownPayment: 100_000,
			LoanAmount:  400_000,
			AnnualRate:  0.03,
			TermYears:   20,
		},
		Rent: RentAssumptions{
			MonthlyRent:          2000,
			VacancyRate:          0.05,
			OperatingExpenseRate: 0.25,
		},
	}
}

func TestDealValidate_OK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validDeal().Validate())
}

func TestDealValidate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(d *Deal)
		field  string
	}{
		{"zero surface", func(d *Deal) { d.Property.SurfaceM2 = 0 }, "property.surface_m2"},
		{"negative price", func(d *Deal) { d.Property.Price = -1 }, "property.price"},
		{"negative rate", func(d *Deal) { d.Financing.AnnualRate = -0.01 }, "financing.annual_rate"},
		{"zero term", func(d *Deal) { d.Financing.TermYears = 0 }, "financing.term_years"},
		{"vacancy above one", func(d *Deal) { d.Rent.VacancyRate = 1.2 }, "rent.vacancy_rate"},
		{"negative opex rate", func(d *Deal) { d.Rent.OperatingExpenseRate = -0.1 }, "rent.operating_expense_rate"},
		{"negative horizon", func(d *Deal) { d.HorizonYears = -5 }, "horizon_years"},
		{"horizon too long", func(d *Deal) { d.HorizonYears = 51 }, "horizon_years"},
		{"appreciation at -100%", func(d *Deal) { d.AppreciationRate = ptrFloat64(-1) }, "appreciation_rate"},
		{"bad comparable", func(d *Deal) {
			d.Comparables = []ComparableSale{{PricePerM2: 10_000}, {PricePerM2: 0}}
		}, "comparables[1].price_per_m2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := validDeal()
			tt.mutate(&d)

			err := d.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err))

			var ie *InvalidInputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestDealValidate_CollectsAll(t *testing.T) {
	t.Parallel()

	d := validDeal()
	d.Property.SurfaceM2 = 0
	d.Financing.AnnualRate = -1

	err := d.Validate()
	require.Error(t, err)

	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve, 2)
	assert.Contains(t, err.Error(), "property.surface_m2")
	assert.Contains(t, err.Error(), "financing.annual_rate")
}

func TestValidateHorizon(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHorizon(1))
	assert.NoError(t, ValidateHorizon(50))
	assert.Error(t, ValidateHorizon(0))
	assert.Error(t, ValidateHorizon(-1))
	assert.Error(t, ValidateHorizon(51))
}

func TestInitialOutlay(t *testing.T) {
	t.Parallel()

	f := FinancingTerms{DownPayment: 100_000, ClosingCosts: 40_000, RenovationCosts: 10_000}
	assert.InDelta(t, 150_000, f.InitialOutlay(), 1e-9)
}
