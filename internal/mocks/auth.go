package mocks

import (
	"context"
	"sync"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/service/auth"
)

// MockSessionVerifier implements auth.SessionVerifier for testing
type MockSessionVerifier struct {
	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, accessToken string) (*domain.Identity, error)

	// Default values used when VerifyFn isn't defined
	Identity *domain.Identity
	Err      error

	mu    sync.Mutex
	calls []string
}

// Verify implements the auth.SessionVerifier interface
func (m *MockSessionVerifier) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	m.mu.Lock()
	m.calls = append(m.calls, accessToken)
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, accessToken)
	}
	return m.Identity, m.Err
}

// Calls returns the tokens Verify was called with.
func (m *MockSessionVerifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockAccountService implements auth.AccountService for testing
type MockAccountService struct {
	SignUpFn                func(ctx context.Context, email, password string, metadata map[string]any) (*domain.SignUpResult, error)
	SignOutFn               func(ctx context.Context, accessToken string) error
	RefreshSessionFn        func(ctx context.Context, refreshToken string) (*domain.Session, error)
	ResetPasswordForEmailFn func(ctx context.Context, email, redirectTo string) error
}

// SignUp implements the auth.AccountService interface
func (m *MockAccountService) SignUp(
	ctx context.Context,
	email, password string,
	metadata map[string]any,
) (*domain.SignUpResult, error) {
	if m.SignUpFn != nil {
		return m.SignUpFn(ctx, email, password, metadata)
	}
	return &domain.SignUpResult{User: &domain.Identity{ID: "new-user", Email: email}}, nil
}

// SignOut implements the auth.AccountService interface
func (m *MockAccountService) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFn != nil {
		return m.SignOutFn(ctx, accessToken)
	}
	return nil
}

// RefreshSession implements the auth.AccountService interface
func (m *MockAccountService) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.RefreshSessionFn != nil {
		return m.RefreshSessionFn(ctx, refreshToken)
	}
	return &domain.Session{AccessToken: "access", RefreshToken: refreshToken}, nil
}

// ResetPasswordForEmail implements the auth.AccountService interface
func (m *MockAccountService) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	if m.ResetPasswordForEmailFn != nil {
		return m.ResetPasswordForEmailFn(ctx, email, redirectTo)
	}
	return nil
}

// MockTokenRevoker implements auth.TokenRevoker for testing
type MockTokenRevoker struct {
	RevokeFn func(ctx context.Context, accessToken string) error

	mu      sync.Mutex
	revoked []string
}

// Revoke implements the auth.TokenRevoker interface
func (m *MockTokenRevoker) Revoke(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	m.revoked = append(m.revoked, accessToken)
	m.mu.Unlock()

	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, accessToken)
	}
	return nil
}

// Revoked returns the tokens Revoke was called with.
func (m *MockTokenRevoker) Revoked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.revoked...)
}

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, user *domain.LocalUser) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, user *domain.LocalUser) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, user)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(storedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(storedPassword, password string) error {
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(storedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrPasswordMismatch
}

var (
	_ auth.SessionVerifier  = (*MockSessionVerifier)(nil)
	_ auth.AccountService   = (*MockAccountService)(nil)
	_ auth.TokenRevoker     = (*MockTokenRevoker)(nil)
	_ auth.JWTService       = (*MockJWTService)(nil)
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
)
