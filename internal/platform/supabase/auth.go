package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/booksaas/booksaas-api/internal/domain"
)

const authPath = "/auth/v1"

// AuthClient calls the auth API of the External Service.
type AuthClient struct {
	client *Client
}

// GetUser resolves accessToken to the identity it was issued for.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*domain.Identity, error) {
	req, err := a.client.newRequest(ctx, http.MethodGet, authPath+"/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := a.client.doJSON(req, &raw); err != nil {
		return nil, err
	}

	identity, err := domain.ParseIdentity(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return identity, nil
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers a new identity. The returned Session is nil when the provider
// requires email confirmation first.
func (a *AuthClient) SignUp(
	ctx context.Context,
	email, password string,
	metadata map[string]any,
) (*domain.SignUpResult, error) {
	body := signUpRequest{Email: email, Password: password, Data: metadata}
	req, err := a.client.newRequest(ctx, http.MethodPost, authPath+"/signup", nil, body, "")
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := a.client.doJSON(req, &raw); err != nil {
		return nil, err
	}

	// With auto-confirm the provider answers with a session; otherwise with the user.
	var probe struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode sign-up response: %w", err)
	}

	if probe.AccessToken != "" {
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode sign-up session: %w", err)
		}
		return &domain.SignUpResult{User: session.User, Session: &session}, nil
	}

	identity, err := domain.ParseIdentity(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signed-up user: %w", err)
	}
	return &domain.SignUpResult{User: identity}, nil
}

// SignOut revokes the session that accessToken belongs to.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := a.client.newRequest(ctx, http.MethodPost, authPath+"/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}
	return a.client.doJSON(req, nil)
}

// RefreshSession exchanges refreshToken for a new session.
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	req, err := a.client.newRequest(ctx, http.MethodPost, authPath+"/token", query, body, "")
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := a.client.doJSON(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResetPasswordForEmail asks the provider to email a password-reset link that
// leads to redirectTo.
func (a *AuthClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	var query url.Values
	if redirectTo != "" {
		query = url.Values{"redirect_to": {redirectTo}}
	}
	body := map[string]string{"email": email}
	req, err := a.client.newRequest(ctx, http.MethodPost, authPath+"/recover", query, body, "")
	if err != nil {
		return err
	}
	return a.client.doJSON(req, nil)
}
