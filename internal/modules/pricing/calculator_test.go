package pricing

import (
	"testing"

	"travelbooking/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func cfg(servicePct, cleaningPct, taxRate string) *domain.FeeConfig {
	return &domain.FeeConfig{
		ServiceFeePercentage:  dec(servicePct),
		CleaningFeePercentage: dec(cleaningPct),
		TaxRate:               dec(taxRate),
		Active:                true,
	}
}

func TestQuote_ThreeNightStay(t *testing.T) {
	// 100/night x 3 nights, 10% service, 5% cleaning, 8% tax:
	// 300 + 30 + 15 = 345 taxable, tax 27.60, total 372.60.
	b, err := Quote(dec("100"), 3, cfg("10", "5", "0.08"), decimal.Zero)

	assert.NoError(t, err)
	assert.True(t, b.TotalBasePrice.Equal(dec("300")))
	assert.True(t, b.ServiceFee.Equal(dec("30")))
	assert.True(t, b.CleaningFee.Equal(dec("15")))
	assert.True(t, b.TaxAmount.Equal(dec("27.60")), "tax %s", b.TaxAmount)
	assert.True(t, b.TotalPrice.Equal(dec("372.60")), "total %s", b.TotalPrice)
}

func TestQuote_ServiceFeeClampedToMinimum(t *testing.T) {
	c := cfg("10", "0", "0")
	c.ServiceFeeMinimum = decPtr("25")

	// 10% of 100 is 10, below the floor.
	b, err := Quote(dec("50"), 2, c, decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, b.ServiceFee.Equal(dec("25")))
	assert.True(t, b.TotalPrice.Equal(dec("125")))
}

func TestQuote_ServiceFeeClampedToMaximum(t *testing.T) {
	c := cfg("10", "0", "0")
	c.ServiceFeeMaximum = decPtr("40")

	// 10% of 1000 is 100, above the cap.
	b, err := Quote(dec("200"), 5, c, decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, b.ServiceFee.Equal(dec("40")))
	assert.True(t, b.TotalPrice.Equal(dec("1040")))
}

func TestQuote_FeeWithinBoundsUntouched(t *testing.T) {
	c := cfg("10", "0", "0")
	c.ServiceFeeMinimum = decPtr("10")
	c.ServiceFeeMaximum = decPtr("100")

	b, err := Quote(dec("100"), 3, c, decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, b.ServiceFee.Equal(dec("30")))
}

func TestQuote_DiscountReducesTaxable(t *testing.T) {
	// Taxable: 300 + 30 + 15 - 45 = 300; tax 24; total 324.
	b, err := Quote(dec("100"), 3, cfg("10", "5", "0.08"), dec("45"))
	assert.NoError(t, err)
	assert.True(t, b.TaxAmount.Equal(dec("24")), "tax %s", b.TaxAmount)
	assert.True(t, b.TotalPrice.Equal(dec("324")), "total %s", b.TotalPrice)
}

func TestQuote_DiscountNeverDrivesTotalNegative(t *testing.T) {
	// Discount equals the base; fees are smaller than nothing left to tax.
	c := cfg("0", "0", "0.10")
	b, err := Quote(dec("100"), 1, c, dec("100"))
	assert.NoError(t, err)
	assert.True(t, b.TotalPrice.Equal(decimal.Zero), "total %s", b.TotalPrice)
	assert.False(t, b.TotalPrice.IsNegative())
}

func TestQuote_RoundsHalfUpAtTheEnd(t *testing.T) {
	// 33.33 x 3 = 99.99; 5% tax = 4.9995; total 104.9895 -> 104.99.
	b, err := Quote(dec("33.33"), 3, cfg("0", "0", "0.05"), decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, b.TotalPrice.Equal(dec("104.99")), "total %s", b.TotalPrice)
}

func TestQuote_InvalidInputs(t *testing.T) {
	c := cfg("10", "5", "0.08")

	_, err := Quote(dec("100"), 0, c, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = Quote(dec("-1"), 3, c, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Quote(dec("100"), 3, c, dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = Quote(dec("100"), 3, c, dec("301"))
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestQuote_ZeroRates(t *testing.T) {
	b, err := Quote(dec("80"), 2, cfg("0", "0", "0"), decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, b.TotalPrice.Equal(dec("160")))
}
