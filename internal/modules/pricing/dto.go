package pricing

import "github.com/shopspring/decimal"

type CreateFeeConfigRequest struct {
	ServiceFeePercentage  decimal.Decimal  `json:"service_fee_percentage"`
	ServiceFeeMinimum     *decimal.Decimal `json:"service_fee_minimum,omitempty"`
	ServiceFeeMaximum     *decimal.Decimal `json:"service_fee_maximum,omitempty"`
	CleaningFeePercentage decimal.Decimal  `json:"cleaning_fee_percentage"`
	TaxRate               decimal.Decimal  `json:"tax_rate"`
}
