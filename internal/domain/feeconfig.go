package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeConfig is the versioned global fee schedule. At most one config is
// active at any time; superseded configs are kept inactive for audit.
type FeeConfig struct {
	ID                    uuid.UUID        `json:"id"`
	ServiceFeePercentage  decimal.Decimal  `json:"service_fee_percentage"`
	ServiceFeeMinimum     *decimal.Decimal `json:"service_fee_minimum,omitempty"`
	ServiceFeeMaximum     *decimal.Decimal `json:"service_fee_maximum,omitempty"`
	CleaningFeePercentage decimal.Decimal  `json:"cleaning_fee_percentage"`
	TaxRate               decimal.Decimal  `json:"tax_rate"`
	Active                bool             `json:"active"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}
