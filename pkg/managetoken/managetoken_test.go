package managetoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 72*time.Hour)

	token, err := issuer.Issue(42, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	appointmentID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), appointmentID)
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Issue(42, time.Now())
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
