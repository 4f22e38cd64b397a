package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodWallet       PaymentMethod = "wallet"
)

// BookingPayment is one payment attempt tied to a booking. Retries create
// new rows; at most one row per booking may be succeeded-and-not-refunded.
type BookingPayment struct {
	ID            uuid.UUID        `json:"id"`
	BookingID     uuid.UUID        `json:"booking_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Method        PaymentMethod    `json:"method"`
	Provider      string           `json:"provider"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Status        PaymentStatus    `json:"status"`
	FailureReason string           `json:"failure_reason,omitempty"`
	RefundAmount  *decimal.Decimal `json:"refund_amount,omitempty"`
	RefundReason  string           `json:"refund_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
	RefundedAt    *time.Time       `json:"refunded_at,omitempty"`
}
