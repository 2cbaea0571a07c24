package admin

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the admin session token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
