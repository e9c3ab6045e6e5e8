package models

// User is the authenticated account as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Organization is the tenant the user belongs to.
type Organization struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OnboardingStatus string `json:"onboardingStatus"`
}

// Onboarding status values reported on Organization.
const (
	OnboardingStatusPending    = "pending"
	OnboardingStatusProcessing = "processing"
	OnboardingStatusCompleted  = "completed"
)

// AuthResponse is the success body of login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MeResponse is the success body of the who-am-I endpoint.
type MeResponse struct {
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
}
