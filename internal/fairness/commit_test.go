package fairness

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestHashIsLowercaseHex64(t *testing.T) {
	h := HashString("hello")
	assert.Regexp(t, hexPattern, h)

	// Known SHA-256 vector
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h)
}

func TestRandomSecretBytes(t *testing.T) {
	a, err := RandomSecretBytes(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := RandomSecretBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two secrets should never collide")
}

func TestNewCommitmentPublishesMatchingHash(t *testing.T) {
	c, err := NewCommitment("client-seed", "")
	require.NoError(t, err)

	assert.Regexp(t, hexPattern, c.ServerCommitHash)
	assert.True(t, VerifyReveal(c.ServerSeedB64, c.ServerCommitHash))

	raw, err := base64.StdEncoding.DecodeString(c.ServerSeedB64)
	require.NoError(t, err)
	assert.Len(t, raw, ServerSeedBytes)

	assert.Equal(t, "client-seed", c.ClientSeed)
}

func TestVerifyRevealRejectsTamperedSeed(t *testing.T) {
	c, err := NewCommitment("seed", "")
	require.NoError(t, err)

	assert.False(t, VerifyReveal(c.ServerSeedB64+"x", c.ServerCommitHash))
	assert.False(t, VerifyReveal("", c.ServerCommitHash))
}
