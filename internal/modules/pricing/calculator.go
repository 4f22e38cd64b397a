package pricing

import (
	"github.com/shopspring/decimal"

	"travelbooking/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the itemized price snapshot stored on a booking.
// TotalPrice = TotalBasePrice + ServiceFee + CleaningFee + TaxAmount - DiscountAmount.
type Breakdown struct {
	BasePricePerNight decimal.Decimal
	Nights            int
	TotalBasePrice    decimal.Decimal
	ServiceFee        decimal.Decimal
	CleaningFee       decimal.Decimal
	TaxAmount         decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalPrice        decimal.Decimal
}

// Quote computes the full breakdown for a stay. Pure function: no clock, no
// I/O. Intermediate values keep full precision; only the final total is
// rounded to 2 decimal places, half up.
func Quote(basePricePerNight decimal.Decimal, nights int, cfg *domain.FeeConfig, discount decimal.Decimal) (*Breakdown, error) {
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}
	if basePricePerNight.IsNegative() {
		return nil, ErrInvalidPrice
	}

	totalBase := basePricePerNight.Mul(decimal.NewFromInt(int64(nights)))

	if discount.IsNegative() || discount.GreaterThan(totalBase) {
		return nil, ErrInvalidDiscount
	}

	serviceFee := totalBase.Mul(cfg.ServiceFeePercentage).Div(hundred)
	if cfg.ServiceFeeMinimum != nil && serviceFee.LessThan(*cfg.ServiceFeeMinimum) {
		serviceFee = *cfg.ServiceFeeMinimum
	}
	if cfg.ServiceFeeMaximum != nil && serviceFee.GreaterThan(*cfg.ServiceFeeMaximum) {
		serviceFee = *cfg.ServiceFeeMaximum
	}

	cleaningFee := totalBase.Mul(cfg.CleaningFeePercentage).Div(hundred)

	taxable := totalBase.Add(serviceFee).Add(cleaningFee).Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(cfg.TaxRate)

	total := taxable.Add(tax).Round(2)

	return &Breakdown{
		BasePricePerNight: basePricePerNight,
		Nights:            nights,
		TotalBasePrice:    totalBase,
		ServiceFee:        serviceFee,
		CleaningFee:       cleaningFee,
		TaxAmount:         tax,
		DiscountAmount:    discount,
		TotalPrice:        total,
	}, nil
}
