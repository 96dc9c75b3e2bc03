package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/tradepulse/arcade/internal/domain"
)

// ServerSeedBytes is the size of the secret generated for each commitment.
const ServerSeedBytes = 32

// Hash returns the SHA-256 digest of data as 64 lowercase hex characters.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashString is a convenience wrapper over Hash for string input.
func HashString(s string) string {
	return Hash([]byte(s))
}

// RandomSecretBytes returns n cryptographically secure random bytes. On
// entropy failure the caller must abort without persisting anything; there is
// no fallback to a weaker source.
func RandomSecretBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntropyFailure, err)
	}
	return buf, nil
}

// NewCommitment generates a server secret and its commit hash. The commit
// hash must be published before the triggering action is accepted; the seed
// is revealed only after resolution.
func NewCommitment(clientSeed, clientCommitHash string) (*domain.Commitment, error) {
	secret, err := RandomSecretBytes(ServerSeedBytes)
	if err != nil {
		return nil, err
	}

	seedB64 := base64.StdEncoding.EncodeToString(secret)
	return &domain.Commitment{
		ServerSeedB64:    seedB64,
		ServerCommitHash: HashString(seedB64),
		ClientSeed:       clientSeed,
		ClientCommitHash: clientCommitHash,
	}, nil
}

// VerifyReveal checks that a revealed seed matches a previously published
// commit hash. Any third party can run this after the reveal.
func VerifyReveal(serverSeedB64, commitHash string) bool {
	return HashString(serverSeedB64) == commitHash
}
