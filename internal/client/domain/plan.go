package domain

import "strings"

// PlanKey identifies a subscription plan.
type PlanKey string

const (
	PlanMonthly PlanKey = "monthly"
	PlanYearly  PlanKey = "yearly"
)

// ParsePlanKey normalizes a plan string from URL state, defaulting to
// monthly for anything unrecognized (the payment page must always have a
// plan to display).
func ParsePlanKey(s string) PlanKey {
	if PlanKey(strings.ToLower(strings.TrimSpace(s))) == PlanYearly {
		return PlanYearly
	}
	return PlanMonthly
}

// Label returns the human-facing plan name.
func (p PlanKey) Label() string {
	if p == PlanYearly {
		return "Annual"
	}
	return "Monthly"
}

// PriceUSD returns the subscription price in US dollars.
func (p PlanKey) PriceUSD() float64 {
	if p == PlanYearly {
		return 197
	}
	return 25
}
