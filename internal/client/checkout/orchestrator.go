package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/api"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/cart"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/session"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/pkg/idx"
)

var (
	// ErrPurchaseInFlight means a purchase submission is already running.
	// The UI disables the submit control, this backs that up.
	ErrPurchaseInFlight = errors.New("purchase_in_flight")

	// ErrNothingToVerify means the return state carries no provider object
	// to verify and no pending id was cached.
	ErrNothingToVerify = errors.New("nothing_to_verify")

	ErrUnknownProvider = errors.New("unknown_provider")
)

// StartRequest describes a purchase submission.
type StartRequest struct {
	Provider Provider
	Plan     domain.PlanKey

	// Level is the accepted placement test level, empty when none.
	Level string

	// OnboardingComplete is set once the onboarding gate has been passed,
	// so first-time payers are not bounced back into it.
	OnboardingComplete bool
}

// Start is the outcome of a purchase submission. Exactly one of
// NeedsOnboarding, RedirectURL and ClientSecret is meaningful.
type Start struct {
	AttemptID idx.ID
	Provider  Provider

	// NeedsOnboarding routes first-time payers to the onboarding gate
	// before any payment call is made.
	NeedsOnboarding bool

	// RedirectURL sends the user to a provider-hosted page (Stripe
	// Checkout or PayPal approval).
	RedirectURL string

	// ClientSecret drives embedded card collection via the CardGateway.
	ClientSecret string
}

// Outcome is the verified result of a provider return.
type Outcome struct {
	Provider   Provider
	Identifier string
	Paid       bool
	Cancelled  bool

	// InvoiceRef is the local receipt reference, assigned on payment.
	InvoiceRef string
}

// Orchestrator drives the purchase flow. Verification is idempotent per
// provider object: concurrent and repeated returns for the same id resolve
// to one verify call and one shared outcome.
type Orchestrator struct {
	api     *api.Client
	session *session.Manager
	store   *store.Dual
	cart    *cart.Cart
	gateway CardGateway
	log     *slog.Logger

	submitting atomic.Bool

	mu       sync.Mutex
	verified map[string]Outcome
	inflight map[string]*verifyCall
}

// verifyCall is an in-progress verification. Late arrivals for the same id
// wait on done and share the leader's result instead of verifying again.
type verifyCall struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// NewOrchestrator wires the checkout flow.
func NewOrchestrator(
	apiClient *api.Client,
	sess *session.Manager,
	dual *store.Dual,
	c *cart.Cart,
	gateway CardGateway,
	log *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		api:      apiClient,
		session:  sess,
		store:    dual,
		cart:     c,
		gateway:  gateway,
		log:      log,
		verified: make(map[string]Outcome),
		inflight: make(map[string]*verifyCall),
	}
}

// StartPurchase begins a purchase. First-time payers who have not passed
// the onboarding gate are routed there instead of to a provider. For
// Stripe, embedded card collection is preferred and hosted checkout is the
// fallback when the gateway is unavailable.
func (o *Orchestrator) StartPurchase(ctx context.Context, req StartRequest) (*Start, error) {
	if !o.submitting.CompareAndSwap(false, true) {
		return nil, ErrPurchaseInFlight
	}
	defer o.submitting.Store(false)

	start := &Start{
		AttemptID: idx.New(),
		Provider:  req.Provider,
	}

	if !req.OnboardingComplete {
		var status *api.SubscriptionStatusResponse
		err := o.session.Authorized(ctx, func(ctx context.Context, token string) error {
			var err error
			status, err = o.api.SubscriptionStatus(ctx, token)
			return err
		})
		if err != nil {
			return nil, err
		}
		if status.FirstTimePayment {
			start.NeedsOnboarding = true
			o.log.Info("first-time payer, routing to onboarding", "attempt_id", start.AttemptID)
			return start, nil
		}
	}

	switch req.Provider {
	case ProviderStripe:
		return o.startStripe(ctx, start, req)
	case ProviderPayPal:
		return o.startPayPal(ctx, start, req)
	default:
		return nil, ErrUnknownProvider
	}
}

func (o *Orchestrator) startStripe(ctx context.Context, start *Start, req StartRequest) (*Start, error) {
	if o.gateway != nil && o.gateway.Available() {
		var sub *api.CreateSubscriptionResponse
		err := o.session.Authorized(ctx, func(ctx context.Context, token string) error {
			var err error
			sub, err = o.api.StripeCreateSubscription(ctx, token, req.Plan, req.Level)
			return err
		})
		if err != nil {
			return nil, err
		}
		start.ClientSecret = sub.ClientSecret
		o.log.Info("embedded card flow started", "attempt_id", start.AttemptID, "plan", req.Plan)
		return start, nil
	}

	// No usable gateway, fall back to provider-hosted checkout.
	var co *api.CheckoutSessionResponse
	err := o.session.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		co, err = o.api.StripeCheckout(ctx, token, req.Plan, req.Level)
		return err
	})
	if err != nil {
		return nil, err
	}
	start.RedirectURL = co.URL
	o.log.Info("hosted checkout started", "attempt_id", start.AttemptID, "plan", req.Plan)
	return start, nil
}

func (o *Orchestrator) startPayPal(ctx context.Context, start *Start, req StartRequest) (*Start, error) {
	var sub *api.PayPalCreateResponse
	err := o.session.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		sub, err = o.api.PayPalCreateSubscription(ctx, token, req.Plan, req.Level)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Remember the subscription id before handing control to PayPal; the
	// return redirect does not always carry it back.
	if err := o.store.SetActive(ctx, store.KeyPayPalPendingSubscription, sub.SubscriptionID); err != nil {
		return nil, err
	}

	start.RedirectURL = sub.ApprovalURL
	o.log.Info("paypal flow started", "attempt_id", start.AttemptID, "subscription_id", sub.SubscriptionID)
	return start, nil
}

// ConfirmCard completes an embedded card payment and funnels the result
// into the same verification path as a provider redirect. Callers seeing
// ErrGatewayUnavailable should restart with hosted checkout.
func (o *Orchestrator) ConfirmCard(ctx context.Context, clientSecret string, card CardDetails, plan domain.PlanKey, level string) (*Outcome, error) {
	intentID, err := o.gateway.ConfirmPayment(ctx, clientSecret, card)
	if err != nil {
		return nil, err
	}
	return o.HandleReturn(ctx, DeriveState(SuccessQuery(intentID, plan, level)))
}

// HandleReturn resolves a provider return. A cancel clears pending state
// and reports an unpaid outcome without calling verify. A success verifies
// with the backend exactly once per provider object; repeats get the cached
// outcome. Verification failure leaves pending state in place for retry.
func (o *Orchestrator) HandleReturn(ctx context.Context, state ReturnState) (*Outcome, error) {
	if state.Status == StatusCancel {
		// Cleared regardless of which provider the cancel came from, so a
		// stale pending id can never leak into a later purchase.
		if err := o.store.DeleteBoth(ctx, store.KeyPayPalPendingSubscription); err != nil {
			o.log.Warn("failed to clear pending paypal id", "error", err)
		}
		o.log.Info("payment cancelled", "provider", state.Provider)
		return &Outcome{Provider: state.Provider, Cancelled: true}, nil
	}

	if state.Provider == ProviderPayPal && state.SubscriptionID == "" {
		// Fresh return parameters win; the cached pending id is only a
		// fallback for returns that dropped it, and it gets the same
		// format check as a fresh one.
		cached, err := o.store.GetEither(ctx, store.KeyPayPalPendingSubscription)
		if err == nil && isPayPalSubscriptionID(cached) {
			state.SubscriptionID = cached
		}
	}

	id := state.Identifier()
	if id == "" {
		return nil, ErrNothingToVerify
	}

	o.mu.Lock()
	if outcome, ok := o.verified[id]; ok {
		o.mu.Unlock()
		return &outcome, nil
	}
	if call, ok := o.inflight[id]; ok {
		o.mu.Unlock()
		<-call.done
		if call.err != nil {
			return nil, call.err
		}
		outcome := call.outcome
		return &outcome, nil
	}
	call := &verifyCall{done: make(chan struct{})}
	o.inflight[id] = call
	o.mu.Unlock()

	outcome, err := o.verify(ctx, state, id)

	o.mu.Lock()
	delete(o.inflight, id)
	if err != nil {
		// Failures are not cached; the next return retries.
		call.err = err
	} else {
		o.verified[id] = *outcome
		call.outcome = *outcome
	}
	o.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, err
	}
	if outcome.Paid {
		o.settle(ctx, state)
	}
	return outcome, nil
}

func (o *Orchestrator) verify(ctx context.Context, state ReturnState, id string) (*Outcome, error) {
	outcome := &Outcome{Provider: state.Provider, Identifier: id}

	err := o.session.Authorized(ctx, func(ctx context.Context, token string) error {
		switch {
		case state.SessionID != "":
			resp, err := o.api.StripeVerify(ctx, token, state.SessionID)
			if err != nil {
				return err
			}
			outcome.Paid = resp.Paid()
		case state.PaymentIntent != "":
			resp, err := o.api.StripeVerifyIntent(ctx, token, state.PaymentIntent)
			if err != nil {
				return err
			}
			outcome.Paid = resp.Paid()
		default:
			resp, err := o.api.PayPalVerify(ctx, token, state.SubscriptionID)
			if err != nil {
				return err
			}
			outcome.Paid = resp.Active()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Paid {
		outcome.InvoiceRef = "DS-" + idx.New().String()
	}

	o.log.Info("payment verified",
		"provider", state.Provider,
		"identifier", id,
		"paid", outcome.Paid,
	)
	return outcome, nil
}

// settle cleans up after a verified payment: the pending PayPal id is done
// with and the cart's contents have been bought.
func (o *Orchestrator) settle(ctx context.Context, state ReturnState) {
	if state.Provider == ProviderPayPal {
		if err := o.store.DeleteBoth(ctx, store.KeyPayPalPendingSubscription); err != nil {
			o.log.Warn("failed to clear pending paypal id", "error", err)
		}
	}
	if o.cart != nil {
		if err := o.cart.Clear(ctx); err != nil {
			o.log.Warn("failed to clear cart after payment", "error", err)
		}
	}
}
