// Package randutil draws the uniform integers spec.md §5 requires from
// each node's thread-local CSPRNG: polynomial coefficients, encryption
// randomness, plaintexts, and Fiat-Shamir witnesses. It reuses kyber's
// util/random helper (as dedis-protean does for its own ephemeral secrets,
// e.g. threshold/utils/utils.go, easyneff/utils.go) rather than rolling a
// bespoke CSPRNG wrapper, even though herbbeacon's groups are plain
// arbitrary-modulus Z_p rather than one of kyber's curve suites.
package randutil

import (
	"crypto/cipher"
	"math/big"

	"go.dedis.ch/kyber/v3/util/random"
)

// Stream is a node's private CSPRNG handle. It is never shared across
// nodes and never exposed outside the owning actor.
type Stream struct {
	rand cipher.Stream
}

// New returns a fresh, independently-seeded stream.
func New() *Stream {
	return &Stream{rand: random.New()}
}

// UniformInclusive returns a uniform integer in {1, ..., max} inclusive,
// the range spec.md uses throughout (polynomial coefficients in
// {1,...,q}, r_k in {1,...,q}, m_k in {1,...,p-1}, Schnorr/DLEQ witnesses
// w in {1,...,q}).
func (s *Stream) UniformInclusive(max *big.Int) *big.Int {
	v := random.Int(max, s.rand)
	return v.Add(v, big.NewInt(1))
}
