package identity

import (
	"context"
	"errors"

	"dailyquest/internal/storage"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated user behind a request.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username"`
}

func (i Identity) Profile() storage.Profile {
	return storage.Profile{UserID: i.UserID, Email: i.Email, Username: i.Username}
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// UsernameFromEmail returns the part of an email address before the '@'.
func UsernameFromEmail(email string) string {
	return storage.DisplayName("", email)
}

func newIdentity(userID, email, username string) *Identity {
	if username == "" {
		username = UsernameFromEmail(email)
	}
	return &Identity{UserID: userID, Email: email, Username: username}
}

// Static accepts every token as the same identity. It serves local,
// single-user setups.
type Static struct {
	Identity Identity
}

func NewStatic(userID, email string) Static {
	return Static{Identity: *newIdentity(userID, email, "")}
}

func (s Static) Verify(context.Context, string) (*Identity, error) {
	id := s.Identity
	return &id, nil
}
