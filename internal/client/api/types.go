package api

import (
	"strings"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
)

// LoginResponse is returned by the login endpoint. The backend issues a JWT
// pair plus the authenticated user's profile in one round trip.
type LoginResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         domain.UserProfile `json:"user"`
}

// RefreshResponse is returned by the token refresh endpoint. Refresh is
// optional: the backend only includes it when it rotates the refresh token.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// SubscriptionStatusResponse reports whether the user has ever completed a
// payment. First-time buyers go through checkout sessions, returning buyers
// through subscription updates.
type SubscriptionStatusResponse struct {
	FirstTimePayment bool `json:"first_time_payment"`
}

// OnboardingRequest carries the questionnaire answers. ReasonOther is only
// meaningful when Reason is "other".
type OnboardingRequest struct {
	PlanKey          string `json:"plan_key"`
	Reason           string `json:"reason"`
	ReasonOther      string `json:"reason_other"`
	DailyGoal        string `json:"daily_goal"`
	SpanishKnowledge string `json:"spanish_knowledge"`
	StartPreference  string `json:"start_preference"`
}

// OnboardingResponse tells the client where to route next: "test" for the
// placement test, "cart" to proceed straight to payment.
type OnboardingResponse struct {
	Next string `json:"next"`
}

// PlacementAnswer is one answered placement test question.
type PlacementAnswer struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// PlacementTestRequest submits the user's placement test answers.
type PlacementTestRequest struct {
	PlanKey string            `json:"plan_key"`
	Answers []PlacementAnswer `json:"answers"`
}

// PlacementTestResponse is the graded placement test result.
type PlacementTestResponse struct {
	Score          int    `json:"score"`
	Total          int    `json:"total"`
	SuggestedLevel string `json:"suggested_level"`
}

// CheckoutSessionResponse is returned when the backend creates a hosted
// Stripe Checkout session.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// CreateSubscriptionResponse is returned when the backend creates a Stripe
// subscription for embedded card collection.
type CreateSubscriptionResponse struct {
	ClientSecret   string `json:"client_secret"`
	SubscriptionID string `json:"subscription_id"`
}

// StripeVerifyResponse reports the payment status of a Checkout session.
// A session is settled when PaymentStatus is "paid".
type StripeVerifyResponse struct {
	PaymentStatus string `json:"payment_status"`
}

// Paid reports whether the checkout session settled. Providers are not
// consistent about status casing, so the comparison is case-insensitive.
func (r *StripeVerifyResponse) Paid() bool {
	return strings.EqualFold(r.PaymentStatus, "paid")
}

// IntentVerifyResponse reports the status of a payment intent. An intent is
// settled when Status is "succeeded".
type IntentVerifyResponse struct {
	Status string `json:"status"`
}

// Paid reports whether the payment intent settled.
func (r *IntentVerifyResponse) Paid() bool {
	return strings.EqualFold(r.Status, "succeeded")
}

// PayPalCreateResponse is returned when the backend creates a PayPal
// subscription. The client sends the user to ApprovalURL and remembers
// SubscriptionID until the provider calls back.
type PayPalCreateResponse struct {
	ApprovalURL    string `json:"approval_url"`
	SubscriptionID string `json:"subscription_id"`
}

// PayPalVerifyResponse reports the state of a PayPal subscription. The
// subscription is settled when Status is "active".
type PayPalVerifyResponse struct {
	Status string `json:"status"`
}

// Active reports whether the subscription has been activated. PayPal
// reports ACTIVE uppercase.
func (r *PayPalVerifyResponse) Active() bool {
	return strings.EqualFold(r.Status, "active")
}
