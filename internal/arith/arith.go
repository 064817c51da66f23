// Package arith implements the modular-arithmetic and hashing primitives
// every other package in herbbeacon is built on: exponentiation and
// inversion mod p or q, a Euclidean reduction that tolerates negative
// dividends, safe-prime generator search, and the Fiat-Shamir transcript
// hash.
package arith

import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/xerrors"
)

// ModExp returns b^e mod m. e must be non-negative.
func ModExp(b, e, m *big.Int) *big.Int {
	if e.Sign() < 0 {
		panic("arith: ModExp called with negative exponent")
	}
	return new(big.Int).Exp(b, e, m)
}

// ModInv returns the multiplicative inverse of a modulo the prime m. It
// panics if a shares a nontrivial factor with m, which indicates an
// implementation bug under spec's arithmetic invariants (§7: cryptographic
// exceptions are fatal).
func ModInv(a, m *big.Int) *big.Int {
	inv := new(big.Int).ModInverse(Mod(a, m), m)
	if inv == nil {
		panic(xerrors.Errorf("arith: no inverse of %v mod %v", a, m))
	}
	return inv
}

// Mod returns the Euclidean remainder of x modulo m, always in [0, m), for
// any integer x including negatives. big.Int.Mod already implements
// Euclidean division, but callers in node/ and internal/nizk route
// signed quantities (j-i, w-x*c) through this wrapper so the
// sign-preserving requirement of spec.md §4.A/§9 is explicit at every call
// site rather than relied upon implicitly.
func Mod(x, m *big.Int) *big.Int {
	return new(big.Int).Mod(x, m)
}

// FindGenerator searches x = 2, 3, ... for the first value with x^2 != 1
// mod p and x^(p-1)/2 != 1 mod p, then returns x^2 mod p: a generator of
// the order-q subgroup of Z_p*, where q = (p-1)/2. Termination is
// guaranteed for safe primes p.
func FindGenerator(p *big.Int) *big.Int {
	q := new(big.Int).Rsh(p, 1) // (p-1)/2 for odd p
	one := big.NewInt(1)
	two := big.NewInt(2)
	x := new(big.Int).Set(two)
	for {
		xsq := ModExp(x, two, p)
		xq := ModExp(x, q, p)
		if xsq.Cmp(one) != 0 && xq.Cmp(one) != 0 {
			return xsq
		}
		x.Add(x, one)
	}
}

// IsSafePrime reports whether p is prime and (p-1)/2 is also prime, using
// big.Int's probabilistic primality test. Used at configuration time only
// (§7 Configuration errors).
func IsSafePrime(p *big.Int) bool {
	if !p.ProbablyPrime(30) {
		return false
	}
	q := new(big.Int).Rsh(p, 1)
	return q.ProbablyPrime(30)
}

// HashToScalar applies the Fiat-Shamir transform: render every transcript
// element as its base-10 decimal string, concatenate in the given order,
// hash with SHA-224 (a fixed 224-bit cryptographic hash, per spec.md
// §4.A), interpret the digest as a big-endian unsigned integer, and reduce
// modulo q. The decimal serialization is mandatory and must be bit
// identical across every node: every caller passes elements in the
// normative order documented at the call site (Schnorr: [g, Y, u]; DLEQ:
// [h1, h2, a1, a2]).
func HashToScalar(q *big.Int, transcript ...*big.Int) *big.Int {
	h := sha256.New224()
	for _, e := range transcript {
		h.Write([]byte(e.Text(10)))
	}
	digest := h.Sum(nil)
	i := new(big.Int).SetBytes(digest)
	return Mod(i, q)
}

// HashToGroup derives the SHA-256 based beacon output reduced modulo p, as
// specified by spec.md §4.D step 6: SHA-256(decimal_string(raw)) mod p.
func HashToGroup(p *big.Int, raw *big.Int) *big.Int {
	h := sha256.Sum256([]byte(raw.Text(10)))
	i := new(big.Int).SetBytes(h[:])
	return Mod(i, p)
}
