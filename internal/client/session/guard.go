package session

import "github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"

// Gate identifies the step a user must complete before reaching protected
// content.
type Gate string

const (
	// GateNone means the user may proceed.
	GateNone Gate = ""

	// GateLogin means the user must authenticate first.
	GateLogin Gate = "login"

	// GateReferralSurvey means the user has not answered the
	// hear-about-us survey yet.
	GateReferralSurvey Gate = "referral_survey"

	// GateLegalNotice means the user has not accepted the legal notice.
	GateLegalNotice Gate = "legal_notice"
)

// NextGate returns the first unsatisfied gate for the current session, in
// strict order: authentication, then the referral survey, then the legal
// notice. Callers must not gate while the session is still uninitialized.
func (m *Manager) NextGate() Gate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.status != StatusAuthenticated {
		return GateLogin
	}
	return gateForUser(m.user)
}

// CanAccessAdmin reports whether the current user may reach staff-only
// surfaces.
func (m *Manager) CanAccessAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status == StatusAuthenticated && m.user != nil && m.user.IsStaff
}

// gateForUser is the pure form of NextGate, used where a profile is already
// in hand.
func gateForUser(user *domain.UserProfile) Gate {
	if user == nil {
		return GateLogin
	}
	if user.ReferralSource == "" {
		return GateReferralSurvey
	}
	if !user.LegalNoticeAccepted {
		return GateLegalNotice
	}
	return GateNone
}
