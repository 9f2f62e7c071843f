package transport

// SignInRequest is the login request body.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the access token minted on successful sign-in.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}
