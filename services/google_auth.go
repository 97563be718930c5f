// services/google_auth.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// GoogleAuthService verifies Google ID tokens for federated sign-in
type GoogleAuthService struct {
	client   *http.Client
	clientID string
}

// GoogleUser represents the verified Google identity
type GoogleUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	GoogleID string `json:"sub"`
	Audience string `json:"aud"`
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService() *GoogleAuthService {
	return &GoogleAuthService{
		client:   &http.Client{Timeout: 5 * time.Second},
		clientID: os.Getenv("GOOGLE_CLIENT_ID"),
	}
}

// VerifyIDToken verifies an ID token against Google's tokeninfo
// endpoint and returns the identity it asserts.
func (s *GoogleAuthService) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUser, error) {
	if idToken == "" {
		return nil, errors.New("ID token is required")
	}

	endpoint := "https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid Google ID token")
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %w", err)
	}

	if user.Email == "" || user.GoogleID == "" {
		return nil, errors.New("Google token did not include email and subject")
	}
	if s.clientID != "" && user.Audience != s.clientID {
		return nil, errors.New("Google token audience mismatch")
	}

	return &user, nil
}
