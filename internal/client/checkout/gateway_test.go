package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStripeStub(t *testing.T, confirmStatus string) *StripeGateway {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "pk_test_1", user)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "card", r.PostForm.Get("type"))
		require.Equal(t, "4242424242424242", r.PostForm.Get("card[number]"))

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pm_1"})
	})
	mux.HandleFunc("POST /v1/payment_intents/pi_1/confirm", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "pm_1", r.PostForm.Get("payment_method"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":     "pi_1",
			"status": confirmStatus,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewStripeGateway("pk_test_1")
	g.BaseURL = srv.URL
	return g
}

func TestStripeGatewayConfirmPayment(t *testing.T) {
	ctx := context.Background()
	card := CardDetails{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "123"}

	t.Run("succeeded", func(t *testing.T) {
		g := newStripeStub(t, "succeeded")
		id, err := g.ConfirmPayment(ctx, "pi_1_secret_x", card)
		require.NoError(t, err)
		require.Equal(t, "pi_1", id)
	})

	t.Run("processing counts as settled", func(t *testing.T) {
		g := newStripeStub(t, "processing")
		id, err := g.ConfirmPayment(ctx, "pi_1_secret_x", card)
		require.NoError(t, err)
		require.Equal(t, "pi_1", id)
	})

	t.Run("requires_action is a card failure", func(t *testing.T) {
		g := newStripeStub(t, "requires_action")
		_, err := g.ConfirmPayment(ctx, "pi_1_secret_x", card)

		var cardErr *CardPaymentError
		require.ErrorAs(t, err, &cardErr)
		require.Equal(t, "requires_action", cardErr.Status)
	})

	t.Run("uppercase status is normalized", func(t *testing.T) {
		g := newStripeStub(t, "SUCCEEDED")
		id, err := g.ConfirmPayment(ctx, "pi_1_secret_x", card)
		require.NoError(t, err)
		require.Equal(t, "pi_1", id)
	})

	t.Run("no publishable key", func(t *testing.T) {
		g := NewStripeGateway("")
		_, err := g.ConfirmPayment(ctx, "pi_1_secret_x", card)
		require.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}
