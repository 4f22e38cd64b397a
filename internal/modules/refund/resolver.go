package refund

import (
	"time"

	"travelbooking/internal/domain"

	"github.com/shopspring/decimal"
)

// Decision is what the lifecycle manager executes against the payment
// gateway; the resolver itself never talks to payments.
type Decision struct {
	Amount        decimal.Decimal
	Percent       int
	PolicyApplied domain.CancellationPolicy
}

// Full reports whether the decision refunds the whole paid amount.
func (d Decision) Full() bool { return d.Percent == 100 }

// None reports whether nothing is refunded.
func (d Decision) None() bool { return d.Percent == 0 }

type tier struct {
	minDaysBefore int
	percent       int
}

// Per-policy day-thresholds mapped to refund percentages of the total price.
// Tiers are ordered strictest-first; the first satisfied tier wins.
var policyTiers = map[domain.CancellationPolicy][]tier{
	domain.PolicyFlexible: {
		{minDaysBefore: 1, percent: 100},
	},
	domain.PolicyModerate: {
		{minDaysBefore: 5, percent: 100},
		{minDaysBefore: 1, percent: 50},
	},
	domain.PolicyStrict: {
		{minDaysBefore: 14, percent: 100},
		{minDaysBefore: 7, percent: 50},
	},
	domain.PolicySuperStrict: {
		{minDaysBefore: 30, percent: 100},
		{minDaysBefore: 14, percent: 50},
	},
}

// Resolve computes the refund for cancelling a paid booking. Day math is a
// single code path: whole days between the cancellation instant and check-in
// midnight UTC, truncated.
func Resolve(totalPrice decimal.Decimal, policy domain.CancellationPolicy, checkIn time.Time, cancelledAt time.Time) Decision {
	days := DaysBeforeCheckIn(checkIn, cancelledAt)

	tiers, ok := policyTiers[policy]
	if !ok {
		tiers = policyTiers[domain.PolicyModerate]
		policy = domain.PolicyModerate
	}

	for _, t := range tiers {
		if days >= t.minDaysBefore {
			amount := totalPrice.
				Mul(decimal.NewFromInt(int64(t.percent))).
				Div(decimal.NewFromInt(100)).
				Round(2)
			return Decision{Amount: amount, Percent: t.percent, PolicyApplied: policy}
		}
	}

	return Decision{Amount: decimal.Zero, Percent: 0, PolicyApplied: policy}
}

// DaysBeforeCheckIn returns the number of whole days between cancelledAt and
// check-in midnight UTC. Cancelling after check-in yields a negative value.
func DaysBeforeCheckIn(checkIn, cancelledAt time.Time) int {
	checkInMidnight := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	diff := checkInMidnight.Sub(cancelledAt.UTC())
	days := int(diff.Hours() / 24)
	if diff < 0 && diff.Hours()/24 != float64(days) {
		days--
	}
	return days
}
