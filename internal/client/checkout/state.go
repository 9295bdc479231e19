// Package checkout orchestrates the purchase flow across payment providers:
// starting a purchase, handling the provider's return, and verifying the
// outcome with the backend exactly once.
package checkout

import (
	"net/url"
	"strings"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
)

// Provider identifies a payment provider.
type Provider string

const (
	ProviderStripe Provider = "stripe"
	ProviderPayPal Provider = "paypal"
)

// ReturnStatus is the outcome signalled by the provider return.
type ReturnStatus string

const (
	StatusSuccess ReturnStatus = "success"
	StatusCancel  ReturnStatus = "cancel"
	StatusUnknown ReturnStatus = ""
)

// ReturnState is everything the provider return carries, derived purely
// from the callback query parameters. Exactly one of SessionID,
// PaymentIntent and SubscriptionID is set for a successful return; which
// one decides the verification path.
type ReturnState struct {
	Provider Provider
	Status   ReturnStatus
	Plan     domain.PlanKey
	Level    string

	// SessionID identifies a hosted Stripe Checkout session.
	SessionID string

	// PaymentIntent identifies an embedded Stripe card payment.
	PaymentIntent string

	// SubscriptionID identifies a PayPal subscription. Only ids with the
	// provider's I- prefix are trusted; PayPal returns several token-ish
	// parameters and picking the wrong one fails verification.
	SubscriptionID string
}

// Identifier returns the provider object this return is about, used as the
// idempotency key for verification.
func (s ReturnState) Identifier() string {
	switch {
	case s.SessionID != "":
		return s.SessionID
	case s.PaymentIntent != "":
		return s.PaymentIntent
	default:
		return s.SubscriptionID
	}
}

// DeriveState interprets the provider return query parameters. It never
// fails: missing or contradictory parameters produce a state with
// StatusUnknown which the orchestrator treats as nothing-to-verify.
func DeriveState(q url.Values) ReturnState {
	state := ReturnState{
		Plan:  domain.ParsePlanKey(q.Get("plan")),
		Level: q.Get("level"),
	}

	switch strings.ToLower(q.Get("status")) {
	case "success":
		state.Status = StatusSuccess
	case "cancel", "cancelled", "canceled":
		state.Status = StatusCancel
	}

	switch Provider(strings.ToLower(q.Get("provider"))) {
	case ProviderStripe:
		state.Provider = ProviderStripe
	case ProviderPayPal:
		state.Provider = ProviderPayPal
	}

	if id := q.Get("session_id"); id != "" {
		state.Provider = ProviderStripe
		state.SessionID = id
	}
	if id := q.Get("payment_intent"); id != "" && state.SessionID == "" {
		state.Provider = ProviderStripe
		state.PaymentIntent = id
	}

	if state.Provider != ProviderStripe {
		if id := paypalSubscriptionID(q); id != "" {
			state.Provider = ProviderPayPal
			state.SubscriptionID = id
		}
	}

	// A PayPal cancel return carries no id at all; keep the provider so
	// the orchestrator knows whose pending state to clear.
	if state.Status == StatusCancel && state.Provider == "" && q.Has("token") {
		state.Provider = ProviderPayPal
	}

	return state
}

// paypalSubscriptionID picks the PayPal subscription id out of the return
// parameters. PayPal spreads it across subscription_id, token and ba_token
// depending on flow; the first candidate carrying the I- prefix wins.
func paypalSubscriptionID(q url.Values) string {
	for _, key := range []string{"subscription_id", "token", "ba_token"} {
		if v := strings.TrimSpace(q.Get(key)); isPayPalSubscriptionID(v) {
			return v
		}
	}
	return ""
}

// isPayPalSubscriptionID reports whether v looks like a PayPal subscription
// id. PayPal is not consistent about casing, so the I- prefix is matched
// case-insensitively.
func isPayPalSubscriptionID(v string) bool {
	v = strings.TrimSpace(v)
	return len(v) > 2 && strings.EqualFold(v[:2], "I-")
}

// SuccessQuery builds the canonical query for a settled embedded card
// payment, so in-page confirmation funnels into the same verification path
// as a provider redirect.
func SuccessQuery(paymentIntent string, plan domain.PlanKey, level string) url.Values {
	q := url.Values{}
	q.Set("provider", string(ProviderStripe))
	q.Set("status", "success")
	q.Set("payment_intent", paymentIntent)
	q.Set("plan", string(plan))
	if level != "" {
		q.Set("level", level)
	}
	return q
}
