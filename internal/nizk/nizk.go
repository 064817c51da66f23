// Package nizk implements the two Fiat-Shamir-transformed sigma protocols
// of spec.md §4.C: a Schnorr proof of knowledge of discrete log (used to
// prove knowledge of encryption randomness) and a Chaum-Pedersen DLEQ
// proof (used to prove a partial decryption is consistent with a node's
// public key share). Both are generalizations, over internal/arith
// integers, of the single-base Chaum-Pedersen-shaped proof protean's
// threshold/protocol/protocol.go hand-rolls in generateDecProof/
// verifyDecProof for its own ElGamal threshold decryption.
package nizk

import (
	"math/big"

	"github.com/dedis/herbbeacon/internal/arith"
	"github.com/dedis/herbbeacon/internal/randutil"
)

// SchnorrProof is a non-interactive proof of knowledge of r such that
// Y = g^r mod p.
type SchnorrProof struct {
	U *big.Int
	C *big.Int
	Z *big.Int
}

// SchnorrProve produces a proof of knowledge of r for the statement
// Y = g^r mod p. The transcript hashed for the challenge is, in order,
// [g, Y, u] (spec.md §6, normative).
func SchnorrProve(g, p, q, r, y *big.Int, rnd *randutil.Stream) *SchnorrProof {
	w := rnd.UniformInclusive(q)
	u := arith.ModExp(g, w, p)
	c := arith.HashToScalar(q, g, y, u)
	z := arith.Mod(new(big.Int).Add(w, new(big.Int).Mul(c, r)), q)
	return &SchnorrProof{U: u, C: c, Z: z}
}

// SchnorrVerify recomputes c' from [g, Y, u] and accepts iff c == c' and
// g^z == u * Y^c mod p.
func SchnorrVerify(g, p, q, y *big.Int, proof *SchnorrProof) bool {
	cPrime := arith.HashToScalar(q, g, y, proof.U)
	if cPrime.Cmp(proof.C) != 0 {
		return false
	}
	lhs := arith.ModExp(g, proof.Z, p)
	rhs := arith.Mod(new(big.Int).Mul(proof.U, arith.ModExp(y, proof.C, p)), p)
	return lhs.Cmp(rhs) == 0
}

// DLEQProof is a non-interactive proof that log_g1(h1) == log_g2(h2).
type DLEQProof struct {
	A1 *big.Int
	A2 *big.Int
	R  *big.Int
}

// DLEQProve proves that log_g1(h1) == log_g2(h2) == x, given witness x.
// The challenge transcript is, in order, [h1, h2, a1, a2] (spec.md §6,
// normative).
func DLEQProve(g1, g2, h1, h2, p, q, x *big.Int, rnd *randutil.Stream) *DLEQProof {
	w := rnd.UniformInclusive(q)
	a1 := arith.ModExp(g1, w, p)
	a2 := arith.ModExp(g2, w, p)
	c := arith.HashToScalar(q, h1, h2, a1, a2)
	r := arith.Mod(new(big.Int).Sub(w, new(big.Int).Mul(x, c)), q)
	return &DLEQProof{A1: a1, A2: a2, R: r}
}

// DLEQVerify recomputes c from [h1, h2, a1, a2] and accepts iff
// a1 == g1^r * h1^c mod p and a2 == g2^r * h2^c mod p.
func DLEQVerify(g1, g2, h1, h2, p, q *big.Int, proof *DLEQProof) bool {
	c := arith.HashToScalar(q, h1, h2, proof.A1, proof.A2)
	lhs1 := arith.Mod(new(big.Int).Mul(arith.ModExp(g1, proof.R, p), arith.ModExp(h1, c, p)), p)
	if lhs1.Cmp(proof.A1) != 0 {
		return false
	}
	lhs2 := arith.Mod(new(big.Int).Mul(arith.ModExp(g2, proof.R, p), arith.ModExp(h2, c, p)), p)
	return lhs2.Cmp(proof.A2) == 0
}
