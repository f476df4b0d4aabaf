package dto

// Data Transfer Objects for signup and token issuance

// SignupRequest: payload for registration. The handler echoes it back verbatim
// on success; the confirmation code only ever travels by email.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse: identity echo returned by the signup endpoint
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a bearer token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=50"`
}

// TokenResponse: the signed bearer token
type TokenResponse struct {
	Token string `json:"token"`
}
