package checkout

import (
	"net/url"
	"testing"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/stretchr/testify/require"
)

func TestDeriveState(t *testing.T) {
	t.Run("stripe hosted success", func(t *testing.T) {
		q := url.Values{}
		q.Set("provider", "stripe")
		q.Set("status", "success")
		q.Set("session_id", "cs_test_123")
		q.Set("plan", "yearly")

		state := DeriveState(q)
		require.Equal(t, ProviderStripe, state.Provider)
		require.Equal(t, StatusSuccess, state.Status)
		require.Equal(t, "cs_test_123", state.SessionID)
		require.Equal(t, domain.PlanYearly, state.Plan)
		require.Equal(t, "cs_test_123", state.Identifier())
	})

	t.Run("stripe embedded intent", func(t *testing.T) {
		q := url.Values{}
		q.Set("status", "success")
		q.Set("payment_intent", "pi_abc")

		state := DeriveState(q)
		require.Equal(t, ProviderStripe, state.Provider)
		require.Equal(t, "pi_abc", state.PaymentIntent)
		require.Empty(t, state.SessionID)
	})

	t.Run("session id wins over payment intent", func(t *testing.T) {
		q := url.Values{}
		q.Set("session_id", "cs_1")
		q.Set("payment_intent", "pi_1")

		state := DeriveState(q)
		require.Equal(t, "cs_1", state.SessionID)
		require.Empty(t, state.PaymentIntent)
	})

	t.Run("paypal id candidates in order", func(t *testing.T) {
		for _, key := range []string{"subscription_id", "token", "ba_token"} {
			q := url.Values{}
			q.Set("status", "success")
			q.Set(key, "I-ABC123")

			state := DeriveState(q)
			require.Equal(t, ProviderPayPal, state.Provider, key)
			require.Equal(t, "I-ABC123", state.SubscriptionID, key)
		}
	})

	t.Run("paypal id prefix is normalized", func(t *testing.T) {
		q := url.Values{}
		q.Set("status", "success")
		q.Set("token", " i-abc123 ")

		state := DeriveState(q)
		require.Equal(t, ProviderPayPal, state.Provider)
		require.Equal(t, "i-abc123", state.SubscriptionID)
	})

	t.Run("non paypal token ignored", func(t *testing.T) {
		q := url.Values{}
		q.Set("status", "success")
		q.Set("token", "EC-ORDERTOKEN")

		state := DeriveState(q)
		require.Empty(t, state.SubscriptionID)
		require.Empty(t, state.Identifier())
	})

	t.Run("paypal cancel keeps provider", func(t *testing.T) {
		q := url.Values{}
		q.Set("status", "cancelled")
		q.Set("token", "EC-ORDERTOKEN")

		state := DeriveState(q)
		require.Equal(t, StatusCancel, state.Status)
		require.Equal(t, ProviderPayPal, state.Provider)
	})

	t.Run("empty query", func(t *testing.T) {
		state := DeriveState(url.Values{})
		require.Equal(t, StatusUnknown, state.Status)
		require.Empty(t, state.Identifier())
		require.Equal(t, domain.PlanMonthly, state.Plan)
	})
}

func TestSuccessQueryRoundTrip(t *testing.T) {
	q := SuccessQuery("pi_123", domain.PlanYearly, "b1")
	state := DeriveState(q)

	require.Equal(t, ProviderStripe, state.Provider)
	require.Equal(t, StatusSuccess, state.Status)
	require.Equal(t, "pi_123", state.PaymentIntent)
	require.Equal(t, domain.PlanYearly, state.Plan)
	require.Equal(t, "b1", state.Level)
}

func TestIntentIDFromSecret(t *testing.T) {
	id, err := intentIDFromSecret("pi_3ABC_secret_XYZ")
	require.NoError(t, err)
	require.Equal(t, "pi_3ABC", id)

	_, err = intentIDFromSecret("seti_1_secret_x")
	require.Error(t, err)
	_, err = intentIDFromSecret("pi_nosuffix")
	require.Error(t, err)
}
