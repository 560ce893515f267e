package client

import "context"

// AuthService handles credential exchange.
type AuthService struct {
	c *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair and stores the access token
// on the client for subsequent requests.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	if err := s.c.post(ctx, "/api/v1/auth/login", loginRequest{Email: email, Password: password}, &pair); err != nil {
		return nil, err
	}
	s.c.SetToken(pair.AccessToken)
	return &pair, nil
}

// Refresh exchanges a refresh token for a fresh pair and stores the new
// access token on the client.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	if err := s.c.post(ctx, "/api/v1/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, err
	}
	s.c.SetToken(pair.AccessToken)
	return &pair, nil
}
