package models

// UserRecord is the lightweight user record cached next to the credential.
type UserRecord struct {
	ID               int    `json:"id,omitempty"`
	Email            string `json:"email,omitempty"`
	Name             string `json:"name"`
	SubscriptionTier string `json:"subscription_tier,omitempty"`
}

// Session is what the session guard hands to the rest of the page once a
// credential has been found.
type Session struct {
	Token string
	User  UserRecord
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// AuthResponse is returned by the journal API on login and registration.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token" validate:"required"`
	User    *UserRecord `json:"user" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
