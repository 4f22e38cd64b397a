package booking

import (
	"travelbooking/internal/domain"

	"github.com/google/uuid"
)

// AuthDecision is the explicit outcome of an authorization check, computed
// at the start of every lifecycle operation from the actor's role and the
// resource owners. No cross-cutting interceptors.
type AuthDecision struct {
	Allowed bool
	Reason  string
}

func allow() AuthDecision {
	return AuthDecision{Allowed: true}
}

func forbid(reason string) AuthDecision {
	return AuthDecision{Allowed: false, Reason: reason}
}

// canDecideRequest guards confirm/reject: the owning supplier or an admin.
func canDecideRequest(actorID uuid.UUID, role domain.UserRole, supplierID uuid.UUID) AuthDecision {
	if role == domain.RoleAdmin {
		return allow()
	}
	if actorID == supplierID {
		return allow()
	}
	return forbid("only the accommodation supplier or an admin may decide a booking request")
}

// canCancel guards cancellation: the guest, the owning supplier, or an admin.
func canCancel(actorID uuid.UUID, role domain.UserRole, guestID, supplierID uuid.UUID) AuthDecision {
	if role == domain.RoleAdmin {
		return allow()
	}
	if actorID == guestID || actorID == supplierID {
		return allow()
	}
	return forbid("only the guest, the supplier or an admin may cancel a booking")
}

// canView guards reads: the guest, the owning supplier, or an admin.
func canView(actorID uuid.UUID, role domain.UserRole, guestID, supplierID uuid.UUID) AuthDecision {
	return canCancel(actorID, role, guestID, supplierID)
}

// canPay guards payment recording: only the guest pays for their booking.
func canPay(actorID uuid.UUID, guestID uuid.UUID) AuthDecision {
	if actorID == guestID {
		return allow()
	}
	return forbid("only the guest may pay for a booking")
}
