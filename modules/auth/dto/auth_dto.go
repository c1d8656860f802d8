package dto

// SigninRequest carries the telegram identity and the Google OAuth tokens
// obtained by the bot transport.
type SigninRequest struct {
	Tid          string `json:"tid"`
	Email        string `json:"email"`
	OAuthToken   string `json:"oauth_token"`
	RefreshToken string `json:"refresh_token"`
}

type SigninResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Tid   string `json:"tid"`
	Email string `json:"email"`
}
