package auth

type AnonymousTokenResponse struct {
	ClientID string `json:"client_id"`
	Token    string `json:"token"`
}

type MeResponse struct {
	ClientID string `json:"client_id"`
}
