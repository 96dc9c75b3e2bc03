package fairness

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/tradepulse/arcade/internal/domain"
)

// DrawInput is the full tuple a resolution derives its randomness from.
// Context carries module-specific material (e.g. a week start date) in the
// order the module declares it.
type DrawInput struct {
	ActionID         string
	UserID           string
	Module           domain.Module
	Profile          string
	ServerSeedB64    string
	ClientSeed       string
	ClientCommitHash string
	Context          []string
}

// canonical returns an unambiguous byte encoding of the input. Every field
// is prefixed with its big-endian uint32 length so no two field splits can
// produce the same byte string.
func (in DrawInput) canonical() []byte {
	fields := []string{
		in.ActionID,
		in.UserID,
		string(in.Module),
		in.Profile,
		in.ServerSeedB64,
		in.ClientSeed,
		in.ClientCommitHash,
	}

	var buf []byte
	var lenPrefix [4]byte
	for _, f := range fields {
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(f)))
		buf = append(buf, lenPrefix[:]...)
		buf = append(buf, f...)
	}

	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(in.Context)))
	buf = append(buf, lenPrefix[:]...)
	for _, c := range in.Context {
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(c)))
		buf = append(buf, lenPrefix[:]...)
		buf = append(buf, c...)
	}

	return buf
}

// Digest hashes the canonical encoding. Identical inputs yield an identical
// digest on every platform, forever.
func (in DrawInput) Digest() [sha256.Size]byte {
	return sha256.Sum256(in.canonical())
}

// RandomHex returns the digest as the audit's random_hash field: 64
// lowercase hex characters.
func (in DrawInput) RandomHex() string {
	d := in.Digest()
	return hex.EncodeToString(d[:])
}

// DrawStream expands a digest into uniform draws. Successive 8-byte chunks
// of the digest are read as big-endian uint64s; once the digest is exhausted
// further chunks come from sha256(digest || counter), a plain hash chain.
// The stream is pure state over the digest: two streams built from the same
// digest yield the same draw sequence regardless of call interleaving
// elsewhere.
type DrawStream struct {
	digest  [sha256.Size]byte
	block   []byte
	offset  int
	counter uint32
}

// NewDrawStream starts a draw stream over digest.
func NewDrawStream(digest [sha256.Size]byte) *DrawStream {
	return &DrawStream{digest: digest, block: digest[:]}
}

// NewDrawStreamFor derives the digest from in and starts a stream over it.
func NewDrawStreamFor(in DrawInput) *DrawStream {
	return NewDrawStream(in.Digest())
}

func (s *DrawStream) next8() []byte {
	if s.offset+8 > len(s.block) {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], s.counter)
		next := sha256.Sum256(append(append([]byte{}, s.digest[:]...), ctr[:]...))
		s.counter++
		s.block = next[:]
		s.offset = 0
	}
	chunk := s.block[s.offset : s.offset+8]
	s.offset += 8
	return chunk
}

// Uint64 returns the next raw 64-bit draw.
func (s *DrawStream) Uint64() uint64 {
	return binary.BigEndian.Uint64(s.next8())
}

// Uint64n returns the next draw reduced to [0, n). n must be positive.
func (s *DrawStream) Uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return s.Uint64() % n
}

// Float64 returns the next draw as a float in [0, 1) using the top 53 bits.
// Selection logic uses the integer draws; this exists for display values and
// statistical tests.
func (s *DrawStream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}
