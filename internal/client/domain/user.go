package domain

// UserProfile is the server-of-record user entity, cached client-side next to
// the session so a flaky network can fall back to the last-known profile.
type UserProfile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Country        string `json:"country,omitempty"`
	NativeLanguage string `json:"native_language,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Age            int    `json:"age,omitempty"`
	ProfileImage   string `json:"profile_image,omitempty"`
	DateJoined     string `json:"date_joined,omitempty"`

	// Role flags.
	IsStaff     bool `json:"is_staff,omitempty"`
	IsSuperuser bool `json:"is_superuser,omitempty"`

	// Onboarding gates. ReferralSource is set once by the hear-about-us
	// survey; LegalNoticeAccepted by the legal-notice page. Both must be set
	// before any protected page is reachable.
	ReferralSource      string `json:"referral_source,omitempty"`
	LegalNoticeAccepted bool   `json:"legal_notice_accepted,omitempty"`
}

// DisplayName returns the best human-facing name for the user.
func (u UserProfile) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Nickname
}
