package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CancellationPolicy string

const (
	PolicyFlexible    CancellationPolicy = "flexible"
	PolicyModerate    CancellationPolicy = "moderate"
	PolicyStrict      CancellationPolicy = "strict"
	PolicySuperStrict CancellationPolicy = "super_strict"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Accommodation struct {
	ID                 uuid.UUID          `json:"id"`
	SupplierID         uuid.UUID          `json:"supplier_id"`
	Title              string             `json:"title"`
	MaxGuests          int                `json:"max_guests"`
	BasePricePerNight  decimal.Decimal    `json:"base_price_per_night"`
	Currency           string             `json:"currency"`
	CancellationPolicy CancellationPolicy `json:"cancellation_policy"`
	InstantBook        bool               `json:"instant_book"`
	Status             ApprovalStatus     `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
