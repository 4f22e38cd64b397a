package dispute

import "github.com/google/uuid"

type CreateDisputeRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}
