package entity

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthSignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthLogoutRequest struct {
	SessionID string `json:"session_id"`
}

type AuthForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AuthResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type AuthVerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse is returned from login, signup and refresh.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	TokenType    string      `json:"token_type"`
	User         UserSummary `json:"user"`
}

// AuthMessageResponse is a terse acknowledgement body.
type AuthMessageResponse struct {
	Message string `json:"message"`
}
