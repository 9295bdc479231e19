// Package onboarding implements the first-purchase gate: a short
// questionnaire, an optional placement test, and the routing between them
// and payment.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/api"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/session"
)

// Next is where the flow goes after the questionnaire.
type Next string

const (
	// NextTest routes to the placement test.
	NextTest Next = "test"

	// NextPayment routes straight to the cart and payment.
	NextPayment Next = "cart"
)

var ErrIncompleteTest = errors.New("placement_test_incomplete")

// ValidationError carries field-scoped validation messages, either from
// local checks or mapped back from the server's details payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Questionnaire is the user's answers to the four onboarding questions.
type Questionnaire struct {
	Plan             domain.PlanKey
	Reason           string
	ReasonOther      string
	DailyGoal        string
	SpanishKnowledge string
	StartPreference  string
}

// Validate checks the questionnaire client-side and returns a
// *ValidationError naming every missing field, or nil.
func (q Questionnaire) Validate() error {
	fields := make(map[string]string)

	if !hasOption(Reasons, q.Reason) {
		fields["reason"] = "Please select a reason."
	} else if q.Reason == "other" && strings.TrimSpace(q.ReasonOther) == "" {
		fields["reason_other"] = "Please write your reason."
	}
	if !hasOption(DailyGoals, q.DailyGoal) {
		fields["daily_goal"] = "Please select your daily learning goal."
	}
	if !hasOption(KnowledgeLevels, q.SpanishKnowledge) {
		fields["spanish_knowledge"] = "Please select your current Spanish knowledge level."
	}
	if !hasStartOption(q.StartPreference) {
		fields["start_preference"] = "Please select where to start."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Gate drives the onboarding flow against the backend.
type Gate struct {
	api     *api.Client
	session *session.Manager
	log     *slog.Logger
}

// NewGate wires the onboarding gate.
func NewGate(apiClient *api.Client, sess *session.Manager, log *slog.Logger) *Gate {
	return &Gate{api: apiClient, session: sess, log: log}
}

// SubmitQuestionnaire validates and submits the questionnaire. The backend
// decides the next step; server-side validation failures are mapped back
// into a *ValidationError keyed by field.
func (g *Gate) SubmitQuestionnaire(ctx context.Context, q Questionnaire) (Next, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	reasonOther := ""
	if q.Reason == "other" {
		reasonOther = strings.TrimSpace(q.ReasonOther)
	}

	req := api.OnboardingRequest{
		PlanKey:          string(q.Plan),
		Reason:           q.Reason,
		ReasonOther:      reasonOther,
		DailyGoal:        q.DailyGoal,
		SpanishKnowledge: q.SpanishKnowledge,
		StartPreference:  q.StartPreference,
	}

	var resp *api.OnboardingResponse
	err := g.session.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		resp, err = g.api.SubmitOnboarding(ctx, token, req)
		return err
	})
	if err != nil {
		return "", mapServerValidation(err)
	}

	next := Next(resp.Next)
	if next != NextTest {
		next = NextPayment
	}
	g.log.Info("questionnaire saved", "plan", q.Plan, "next", next)
	return next, nil
}

// TestResult is the graded placement test outcome. The suggested level must
// be explicitly accepted before it is carried into payment.
type TestResult struct {
	Score          int
	Total          int
	SuggestedLevel string
}

// SubmitTest grades the placement test. Every question must be answered;
// answers is keyed by question id.
func (g *Gate) SubmitTest(ctx context.Context, plan domain.PlanKey, answers map[string]string) (*TestResult, error) {
	req := api.PlacementTestRequest{
		PlanKey: string(plan),
		Answers: make([]api.PlacementAnswer, 0, len(PlacementQuestions)),
	}
	for _, question := range PlacementQuestions {
		value, ok := answers[question.ID]
		if !ok || value == "" {
			return nil, ErrIncompleteTest
		}
		req.Answers = append(req.Answers, api.PlacementAnswer{ID: question.ID, Value: value})
	}

	var resp *api.PlacementTestResponse
	err := g.session.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		resp, err = g.api.SubmitPlacementTest(ctx, token, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("placement test graded",
		"score", resp.Score,
		"total", resp.Total,
		"suggested_level", resp.SuggestedLevel,
	)
	return &TestResult{
		Score:          resp.Score,
		Total:          resp.Total,
		SuggestedLevel: resp.SuggestedLevel,
	}, nil
}

// mapServerValidation converts a server validation error with per-field
// details into the same *ValidationError shape local checks produce, so
// callers render both identically.
func mapServerValidation(err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Details) == 0 {
		return err
	}

	fields := make(map[string]string, len(apiErr.Details))
	for field, msgs := range apiErr.Details {
		if len(msgs) > 0 {
			fields[field] = msgs[0]
		}
	}
	return &ValidationError{Fields: fields}
}

func hasOption(options []Option, key string) bool {
	for _, opt := range options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

func hasStartOption(key string) bool {
	for _, opt := range StartPreferences {
		if opt.Key == key {
			return true
		}
	}
	return false
}
