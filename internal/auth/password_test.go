package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"simple", "Secret1"},
		{"empty", ""},
		{"unicode", "påsswörd✓"},
		{"long", "correct horse battery staple correct horse battery staple"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			salt, hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, salt)
			assert.NotEmpty(t, hash)

			assert.True(t, VerifyPassword(salt, tt.password, hash))
			assert.False(t, VerifyPassword(salt, tt.password+"x", hash))
		})
	}
}

func TestHashPasswordFreshSaltPerCall(t *testing.T) {
	t.Parallel()

	salt1, hash1, err := HashPassword("Secret1")
	require.NoError(t, err)
	salt2, hash2, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	raw, err := hex.DecodeString(salt1)
	require.NoError(t, err)
	assert.Len(t, raw, saltLength)
}

func TestVerifyPasswordRejectsCorruptInput(t *testing.T) {
	t.Parallel()

	salt, hash, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.False(t, VerifyPassword("not-hex", "Secret1", hash))
	assert.False(t, VerifyPassword(salt, "Secret1", "not-hex"))
	assert.False(t, VerifyPassword(salt, "Secret1", ""))
}
