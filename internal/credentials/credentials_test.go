package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewManager(t *testing.T) {
	tests := map[string]struct {
		secret string
		err    error
	}{
		"empty secret": {secret: "", err: ErrMissingSecret},
		"valid secret": {secret: "a-signing-secret", err: nil},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewManager(test.secret)
			require.ErrorIs(t, err, test.err)
		})
	}
}

func TestHash(t *testing.T) {
	manager, err := NewManager("a-signing-secret", WithCost(bcrypt.MinCost))
	require.Nil(t, err)

	const password = "1ValidPassword"

	first, err := manager.Hash(password)
	require.Nil(t, err)
	require.NotEqual(t, password, first)

	second, err := manager.Hash(password)
	require.Nil(t, err)

	// Salt is per-call; identical plaintext must not hash identically.
	require.NotEqual(t, first, second)

	require.True(t, manager.Verify(password, first))
	require.True(t, manager.Verify(password, second))
	require.False(t, manager.Verify("1OtherPassword", first))
}

func TestIssueToken(t *testing.T) {
	at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return at }

	manager, err := NewManager("a-signing-secret", WithClock(clock))
	require.Nil(t, err)

	token, err := manager.IssueToken(7, "stanley@rustpm.com", "Stanley")
	require.Nil(t, err)

	claims, err := manager.VerifyToken(token)
	require.Nil(t, err)
	require.Equal(t, int32(7), claims.ID)
	require.Equal(t, "stanley@rustpm.com", claims.Email)
	require.Equal(t, "Stanley", claims.Name)
	require.Equal(t, at.Add(time.Hour), claims.ExpiresAt.Time)
}

func TestVerifyToken(t *testing.T) {
	at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	manager, err := NewManager(
		"a-signing-secret",
		WithClock(func() time.Time { return at }),
	)
	require.Nil(t, err)

	token, err := manager.IssueToken(7, "stanley@rustpm.com", "Stanley")
	require.Nil(t, err)

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewManager(
			"a-signing-secret",
			WithClock(func() time.Time { return at.Add(2 * time.Hour) }),
		)
		require.Nil(t, err)

		_, err = expired.VerifyToken(token)
		require.Error(t, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := manager.VerifyToken(token + "x")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewManager(
			"another-signing-secret",
			WithClock(func() time.Time { return at }),
		)
		require.Nil(t, err)

		_, err = other.VerifyToken(token)
		require.Error(t, err)
	})
}
