package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "ada", UsernameFromEmail("ada@example.com"))
	assert.Equal(t, "Anonymous", UsernameFromEmail(""))
}

func TestJWTIssueAndVerify(t *testing.T) {
	v, err := NewJWTVerifier("s3cret")
	require.NoError(t, err)

	token, err := v.Issue(Identity{UserID: "u1", Email: "ada@example.com"}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "u1", Email: "ada@example.com", Username: "ada"}, id)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	v, err := NewJWTVerifier("s3cret")
	require.NoError(t, err)

	other, err := NewJWTVerifier("different")
	require.NoError(t, err)
	foreign, err := other.Issue(Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := v.Issue(Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	v.now = time.Now
	_, err = v.Verify(ctx, stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@y.z"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = v.Verify(ctx, noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTVerifier("")
	assert.Error(t, err)
}

type fakeIDTokens struct {
	tok *auth.Token
	err error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.tok, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()

	v := &FirebaseVerifier{client: fakeIDTokens{tok: &auth.Token{UID: "fb-1", Claims: map[string]interface{}{"email": "grace@example.com"}}}}
	id, err := v.Verify(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id.UserID)
	assert.Equal(t, "grace", id.Username)

	_, err = v.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	v = &FirebaseVerifier{client: fakeIDTokens{err: errors.New("token expired")}}
	_, err = v.Verify(ctx, "id-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStatic(t *testing.T) {
	s := NewStatic("local", "me@example.com")
	id, err := s.Verify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "local", id.UserID)
	assert.Equal(t, "me", id.Username)
	assert.Equal(t, "local", id.Profile().UserID)
}
