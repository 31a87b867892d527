package auth

import (
	"strings"
	"testing"
	"time"

	"green-kart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("user-1", "asha@example.com", model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)
	assert.ElementsMatch(t, PermissionsFor(model.RoleAdmin), claims.Permissions)
}

func TestVerify_TamperedToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("user-1", "asha@example.com", model.RoleCustomer)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService("another-secret", time.Hour)

	token, err := issuer.Issue("user-1", "asha@example.com", model.RoleCustomer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	issuedAt := time.Now().Add(-48 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-1", "asha@example.com", model.RoleCustomer)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken, token)
	}
}

func TestIssue_DefaultTTL(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	token, err := svc.Issue("user-1", "asha@example.com", model.RoleCustomer)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, DefaultTokenTTL, lifetime)
}
