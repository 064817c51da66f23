package nizk

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dedis/herbbeacon/internal/arith"
	"github.com/dedis/herbbeacon/internal/randutil"
)

var (
	p = big.NewInt(1019)
	g = big.NewInt(4) // generator of the order-509 subgroup, per internal/arith.FindGenerator(1019)
	q = big.NewInt(509)
)

func TestSchnorrCompleteness(t *testing.T) {
	rnd := randutil.New()
	r := big.NewInt(17)
	y := arith.ModExp(g, r, p)

	proof := SchnorrProve(g, p, q, r, y, rnd)
	require.True(t, SchnorrVerify(g, p, q, y, proof))
}

func TestSchnorrRejectsTamperedZ(t *testing.T) {
	rnd := randutil.New()
	r := big.NewInt(17)
	y := arith.ModExp(g, r, p)

	proof := SchnorrProve(g, p, q, r, y, rnd)
	proof.Z = arith.Mod(new(big.Int).Add(proof.Z, big.NewInt(1)), q)
	require.False(t, SchnorrVerify(g, p, q, y, proof))
}

func TestSchnorrRejectsWrongStatement(t *testing.T) {
	rnd := randutil.New()
	r := big.NewInt(17)
	y := arith.ModExp(g, r, p)
	proof := SchnorrProve(g, p, q, r, y, rnd)

	otherY := arith.ModExp(g, big.NewInt(18), p)
	require.False(t, SchnorrVerify(g, p, q, otherY, proof))
}

func TestDLEQCompleteness(t *testing.T) {
	rnd := randutil.New()
	x := big.NewInt(23)
	g2 := big.NewInt(5) // 5 is also in the order-509 subgroup (5^509 mod 1019 == 1)
	h1 := arith.ModExp(g, x, p)
	h2 := arith.ModExp(g2, x, p)

	proof := DLEQProve(g, g2, h1, h2, p, q, x, rnd)
	require.True(t, DLEQVerify(g, g2, h1, h2, p, q, proof))
}

func TestDLEQRejectsUnequalLogs(t *testing.T) {
	rnd := randutil.New()
	g2 := big.NewInt(5)
	h1 := arith.ModExp(g, big.NewInt(23), p)
	h2 := arith.ModExp(g2, big.NewInt(24), p) // different exponent

	proof := DLEQProve(g, g2, h1, h2, p, q, big.NewInt(23), rnd)
	require.False(t, DLEQVerify(g, g2, h1, h2, p, q, proof))
}

func TestDLEQRejectsTamperedR(t *testing.T) {
	rnd := randutil.New()
	x := big.NewInt(23)
	g2 := big.NewInt(5)
	h1 := arith.ModExp(g, x, p)
	h2 := arith.ModExp(g2, x, p)

	proof := DLEQProve(g, g2, h1, h2, p, q, x, rnd)
	proof.R = arith.Mod(new(big.Int).Add(proof.R, big.NewInt(1)), q)
	require.False(t, DLEQVerify(g, g2, h1, h2, p, q, proof))
}
