package node

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dedis/herbbeacon/group"
	"github.com/dedis/herbbeacon/internal/arith"
	"github.com/dedis/herbbeacon/internal/nizk"
	"github.com/dedis/herbbeacon/internal/randutil"
	"github.com/dedis/herbbeacon/transport"
	"github.com/dedis/herbbeacon/wire"
)

// stubNet records outbound sends and never delivers anything; the white-box
// tests below drive nodes directly via HandleOne rather than through a live
// transport.
type stubNet struct {
	sent []sentMsg
}

type sentMsg struct {
	to  group.Identity
	tag string
	buf []byte
}

func (s *stubNet) Send(to group.Identity, tag string, buf []byte) {
	s.sent = append(s.sent, sentMsg{to: to, tag: tag, buf: buf})
}

func (s *stubNet) Inbox(group.Identity) <-chan transport.Envelope { return nil }

// testParams returns the same small safe-prime group used throughout the
// other internal packages' tests: p=1019, q=509, g=4.
func testParams(t *testing.T, thresh, n int) *group.Params {
	t.Helper()
	params, err := group.NewParams(big.NewInt(1019), thresh, n)
	require.NoError(t, err)
	return params
}

// readyNode builds a Node with DKG already resolved (share/h fixed by hand),
// skipping the subshare exchange so round-level routing can be exercised in
// isolation.
func readyNode(self group.Identity, view *group.View, params *group.Params, share *big.Int) *Node {
	n := &Node{
		Self:     self,
		Params:   params,
		View:     view,
		Net:      &stubNet{},
		RoundMax: 10,
		rnd:      randutil.New(),
		rounds:   make(map[uint64]*roundState),
		share:    share,
		h:        arith.ModExp(params.G, share, params.P),
		dkgReady: true,
	}
	n.roundCurrent = 1
	return n
}

func TestOnEncShareRejectsTamperedSchnorrProof(t *testing.T) {
	params := testParams(t, 2, 3)
	view, err := group.NewView([]group.Identity{"n0", "n1", "n2"})
	require.NoError(t, err)

	n := readyNode("n0", view, params, big.NewInt(7))

	rnd := randutil.New()
	r := big.NewInt(11)
	a := arith.ModExp(params.G, r, params.P)
	proof := nizk.SchnorrProve(params.G, params.P, params.Q, r, a, rnd)
	proof.Z = arith.Mod(new(big.Int).Add(proof.Z, big.NewInt(1)), params.Q)

	msg := &wire.EncShare{
		A: wire.FromBigInt(a),
		B: wire.FromBigInt(big.NewInt(1)),
		Nizk: wire.SchnorrProof{
			U: wire.FromBigInt(proof.U),
			C: wire.FromBigInt(proof.C),
			Z: wire.FromBigInt(proof.Z),
		},
		Round: 1,
	}
	buf, err := wire.Encode(msg)
	require.NoError(t, err)
	n.HandleOne(transport.Envelope{From: "n1", Tag: tagEnc, Bytes: buf})

	rs := n.roundStateFor(1)
	_, ok := rs.ciphertexts["n1"]
	require.False(t, ok, "a tampered Schnorr proof must not be admitted into round state")
}

func TestOnDecShareRejectsTamperedDLEQProof(t *testing.T) {
	params := testParams(t, 2, 3)
	view, err := group.NewView([]group.Identity{"n0", "n1", "n2"})
	require.NoError(t, err)

	n := readyNode("n0", view, params, big.NewInt(7))

	rnd := randutil.New()
	peerShare := big.NewInt(13)
	A := arith.ModExp(params.G, big.NewInt(19), params.P)
	D := arith.ModExp(A, peerShare, params.P)
	Y := arith.ModExp(params.G, peerShare, params.P)
	proof := nizk.DLEQProve(params.G, A, Y, D, params.P, params.Q, peerShare, rnd)
	proof.R = arith.Mod(new(big.Int).Add(proof.R, big.NewInt(1)), params.Q)

	msg := &wire.DecShare{
		D: wire.FromBigInt(D),
		Nizk: wire.DLEQProof{
			A1: wire.FromBigInt(proof.A1),
			A2: wire.FromBigInt(proof.A2),
			R:  wire.FromBigInt(proof.R),
		},
		GToShare: wire.FromBigInt(Y),
		A:        wire.FromBigInt(A),
		Round:    1,
	}
	buf, err := wire.Encode(msg)
	require.NoError(t, err)
	n.HandleOne(transport.Envelope{From: "n1", Tag: tagDec, Bytes: buf})

	rs := n.roundStateFor(1)
	_, ok := rs.decryptions["n1"]
	require.False(t, ok, "a tampered DLEQ proof must not be admitted into round state")
}

func TestOnEncShareBuffersFutureRoundWithoutTriggeringCurrentRound(t *testing.T) {
	params := testParams(t, 2, 3)
	view, err := group.NewView([]group.Identity{"n0", "n1", "n2"})
	require.NoError(t, err)

	n := readyNode("n0", view, params, big.NewInt(7))
	n.roundCurrent = 1 // n0 is still on round 1

	rnd := randutil.New()
	r := big.NewInt(11)
	a := arith.ModExp(params.G, r, params.P)
	proof := nizk.SchnorrProve(params.G, params.P, params.Q, r, a, rnd)

	msg := &wire.EncShare{
		A: wire.FromBigInt(a),
		B: wire.FromBigInt(big.NewInt(42)),
		Nizk: wire.SchnorrProof{
			U: wire.FromBigInt(proof.U),
			C: wire.FromBigInt(proof.C),
			Z: wire.FromBigInt(proof.Z),
		},
		Round: 2, // n1 is already ahead, on round 2
	}
	buf, err := wire.Encode(msg)
	require.NoError(t, err)
	n.HandleOne(transport.Envelope{From: "n1", Tag: tagEnc, Bytes: buf})

	round1 := n.roundStateFor(1)
	require.Empty(t, round1.ciphertexts, "a future-round message must not leak into the current round's state")

	round2 := n.roundStateFor(2)
	_, ok := round2.ciphertexts["n1"]
	require.True(t, ok, "a future-round message must still be buffered under its own round")
	require.False(t, round2.finalized)
}

func TestOnEncShareDiscardsPastRound(t *testing.T) {
	params := testParams(t, 2, 3)
	view, err := group.NewView([]group.Identity{"n0", "n1", "n2"})
	require.NoError(t, err)

	n := readyNode("n0", view, params, big.NewInt(7))
	n.roundCurrent = 3

	rnd := randutil.New()
	r := big.NewInt(11)
	a := arith.ModExp(params.G, r, params.P)
	proof := nizk.SchnorrProve(params.G, params.P, params.Q, r, a, rnd)

	msg := &wire.EncShare{
		A: wire.FromBigInt(a),
		B: wire.FromBigInt(big.NewInt(42)),
		Nizk: wire.SchnorrProof{
			U: wire.FromBigInt(proof.U),
			C: wire.FromBigInt(proof.C),
			Z: wire.FromBigInt(proof.Z),
		},
		Round: 2,
	}
	buf, err := wire.Encode(msg)
	require.NoError(t, err)
	n.HandleOne(transport.Envelope{From: "n1", Tag: tagEnc, Bytes: buf})

	round2 := n.roundStateFor(2)
	require.Empty(t, round2.ciphertexts, "a past-round message must be discarded outright")
}

func TestLagrangeCoefficientReconstructsSecretAtZero(t *testing.T) {
	// With f(x) = 3 + 5x (t=2), the Lagrange coefficients for the two
	// shares at x=1 and x=3 must reconstruct f(0)=3.
	q := big.NewInt(509)
	f := func(x int64) *big.Int {
		// f(x) = 3 + 5x mod q
		v := big.NewInt(5 * x)
		v.Add(v, big.NewInt(3))
		return v.Mod(v, q)
	}
	set := []partialEntry{{idx: 1, d: f(1)}, {idx: 3, d: f(3)}}

	sum := big.NewInt(0)
	for _, s := range set {
		lambda := lagrangeCoefficient(s.idx, set, q)
		term := new(big.Int).Mul(lambda, s.d)
		term.Mod(term, q)
		sum.Add(sum, term)
		sum.Mod(sum, q)
	}
	require.Equal(t, big.NewInt(3), sum)
}

// TestRecomputeAMatchesProductOfSubciphertexts exercises the alternative
// design of DESIGN.md's OQ-2: instead of trusting a peer's advertised A_k,
// an honest receiver could recompute it locally as the product of every
// subciphertext's a value. recomputeA must agree with that product, and
// disagree once any single contribution is tampered with.
func TestRecomputeAMatchesProductOfSubciphertexts(t *testing.T) {
	params := testParams(t, 2, 3)

	ciphertexts := map[group.Identity]cipherEntry{
		"n0": {a: big.NewInt(3), b: big.NewInt(0)},
		"n1": {a: big.NewInt(5), b: big.NewInt(0)},
		"n2": {a: big.NewInt(7), b: big.NewInt(0)},
	}

	want := arith.Mod(big.NewInt(3*5*7), params.P)
	require.Equal(t, want, recomputeA(ciphertexts, params.P))

	tampered := map[group.Identity]cipherEntry{
		"n0": {a: big.NewInt(4), b: big.NewInt(0)},
		"n1": {a: big.NewInt(5), b: big.NewInt(0)},
		"n2": {a: big.NewInt(7), b: big.NewInt(0)},
	}
	require.NotEqual(t, want, recomputeA(tampered, params.P))
}
