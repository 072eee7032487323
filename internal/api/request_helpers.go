package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
)

// errNoIdentity is returned when a protected handler runs without an identity.
var errNoIdentity = domain.NewStatusError(http.StatusUnauthorized,
	"Access token required", "Please provide a valid access token")

// requireIdentity returns the identity placed in the context by the mandatory
// authenticator. Routes using it must be mounted behind Authenticator.Require.
func requireIdentity(r *http.Request) (*domain.Identity, error) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		return nil, errNoIdentity
	}
	return identity, nil
}

// positiveIntQuery reads a positive integer query parameter no greater than max,
// returning def when it is absent.
func positiveIntQuery(r *http.Request, name string, def, max int) (int, *shared.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &shared.FieldError{Field: name, Message: "must be a positive integer"}
	}
	if n > max {
		return 0, &shared.FieldError{Field: name, Message: fmt.Sprintf("must be at most %d", max)}
	}
	return n, nil
}
