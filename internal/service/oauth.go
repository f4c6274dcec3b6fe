package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// OAuthService completes the Discord authorization-code flow
type OAuthService struct {
	exchanger TokenExchanger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(exchanger TokenExchanger) *OAuthService {
	return &OAuthService{exchanger: exchanger}
}

// AuthorizeURL returns the Discord consent URL carrying state
func (s *OAuthService) AuthorizeURL(state string) string {
	return s.exchanger.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. It never
// returns an empty token with a nil error.
func (s *OAuthService) Exchange(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrAuthCodeRequired
	}

	token, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		slog.Warn("oauth code exchange failed", slog.String("error", err.Error()))
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUpstream)
	}

	slog.Info("oauth code exchanged", slog.String("token_fp", TokenFingerprint(token)))
	return token, nil
}
