// Package vss implements the Pedersen-style verifiable secret sharing
// kernel of spec.md §4.B: random polynomial generation, the commitment
// vector, Horner-rule subshare evaluation, and subshare verification. It
// mirrors the shape of the Pedersen VSS dealing protean drives through
// go.dedis.ch/cothority/v3/dkg/pedersen and
// go.dedis.ch/kyber/v3/share/vss/pedersen (see easyrand/service.go), but
// operates on internal/arith integers instead of kyber Points/Scalars
// (see DESIGN.md OQ-1): herbbeacon's group is an arbitrary safe-prime
// subgroup chosen at configuration time, not one of kyber's built-in
// suites.
package vss

import (
	"math/big"

	"github.com/dedis/herbbeacon/internal/arith"
	"github.com/dedis/herbbeacon/internal/randutil"
)

// Polynomial is a degree t-1 polynomial over Z_q, coefficients a_0..a_{t-1}.
// a_0 is the dealer's secret contribution.
type Polynomial struct {
	Coeffs []*big.Int
}

// RandomPolynomial samples t coefficients uniformly from {1,...,q}.
func RandomPolynomial(t int, q *big.Int, rnd *randutil.Stream) *Polynomial {
	coeffs := make([]*big.Int, t)
	for i := 0; i < t; i++ {
		coeffs[i] = rnd.UniformInclusive(q)
	}
	return &Polynomial{Coeffs: coeffs}
}

// Commit returns the commitment vector (g^a_0, ..., g^a_{t-1}) mod p. The
// first element doubles as the dealer's individual public-key share; there
// is no separate broadcast of public-key shares.
func (poly *Polynomial) Commit(g, p *big.Int) []*big.Int {
	commits := make([]*big.Int, len(poly.Coeffs))
	for i, a := range poly.Coeffs {
		commits[i] = arith.ModExp(g, a, p)
	}
	return commits
}

// Eval evaluates f(i) mod q via Horner's rule.
func (poly *Polynomial) Eval(i int64, q *big.Int) *big.Int {
	idx := big.NewInt(i)
	result := big.NewInt(0)
	for k := len(poly.Coeffs) - 1; k >= 0; k-- {
		result = arith.Mod(new(big.Int).Add(new(big.Int).Mul(result, idx), poly.Coeffs[k]), q)
	}
	return result
}

// VerifySubshare reports whether g^s == product(C_l ^ (i^l)) mod p, i.e.
// that the subshare s a receiver at index i got from a dealer is
// consistent with that dealer's commitment vector C.
func VerifySubshare(s *big.Int, commits []*big.Int, g, p *big.Int, i int64) bool {
	lhs := arith.ModExp(g, s, p)

	rhs := big.NewInt(1)
	ipow := big.NewInt(1)
	idx := big.NewInt(i)
	for _, c := range commits {
		rhs = arith.Mod(new(big.Int).Mul(rhs, arith.ModExp(c, ipow, p)), p)
		ipow = new(big.Int).Mul(ipow, idx)
	}
	return lhs.Cmp(rhs) == 0
}
