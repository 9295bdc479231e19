// Package callback runs the loopback HTTP listener that payment providers
// redirect back to. It turns the return query string into a checkout
// outcome and shows the user a minimal confirmation page.
package callback

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/checkout"
	"github.com/playprowess89181-creator/daily-spanish-sub000/pkg/httpx"
)

// ReturnHandler resolves a provider return into a verified outcome.
type ReturnHandler interface {
	HandleReturn(ctx context.Context, state checkout.ReturnState) (*checkout.Outcome, error)
}

// Server is the loopback listener for provider return redirects.
type Server struct {
	checkout ReturnHandler
	log      *slog.Logger
	server   *http.Server
}

// NewServer creates the listener on 127.0.0.1:port.
func NewServer(port int, handler ReturnHandler, log *slog.Logger) *Server {
	s := &Server{
		checkout: handler,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /payment", s.handlePaymentReturn)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// ListenAndServe blocks serving provider returns until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info("payment callback listener starting", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener, letting an in-progress verification finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePaymentReturn(w http.ResponseWriter, r *http.Request) {
	state := checkout.DeriveState(r.URL.Query())

	outcome, err := s.checkout.HandleReturn(r.Context(), state)
	if err != nil {
		if errors.Is(err, checkout.ErrNothingToVerify) {
			httpx.WriteHTML(w, http.StatusBadRequest, page("Nothing to verify",
				"This return link carries no payment to check. You can close this window."))
			return
		}
		s.log.Error("payment return failed", "error", err)
		httpx.WriteHTML(w, http.StatusBadGateway, page("Verification failed",
			"We could not confirm your payment right now. Your payment state is safe; please retry from the app."))
		return
	}

	switch {
	case outcome.Cancelled:
		httpx.WriteHTML(w, http.StatusOK, page("Payment cancelled",
			"No charge was made. You can close this window and try again whenever you like."))
	case outcome.Paid:
		httpx.WriteHTML(w, http.StatusOK, page("Payment confirmed",
			"Receipt "+html.EscapeString(outcome.InvoiceRef)+". Welcome to Daily Spanish! You can close this window."))
	default:
		httpx.WriteHTML(w, http.StatusOK, page("Payment pending",
			"The provider has not settled this payment yet. The app will keep checking; you can close this window."))
	}
}

func page(title, body string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>%[1]s</title></head>
<body style="font-family: sans-serif; max-width: 32rem; margin: 4rem auto;">
<h1>%[1]s</h1>
<p>%[2]s</p>
</body>
</html>`, html.EscapeString(title), body)
}
