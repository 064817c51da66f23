package node

import (
	"math/big"

	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"

	"github.com/dedis/herbbeacon/group"
	"github.com/dedis/herbbeacon/internal/vss"
	"github.com/dedis/herbbeacon/wire"
)

// onStart implements the DKG "On Start" transition of spec.md §4.D: pick a
// local polynomial, commit, send each peer its subshare, record the
// self-contribution, and check for completion (the self contribution
// counts as one of the n expected entries).
func (n *Node) onStart() error {
	if n.dkgReady {
		return xerrors.New("node: DKG already complete, duplicate Start")
	}
	myIdx, ok := n.View.Index(n.Self)
	if !ok {
		return xerrors.Errorf("node: %v not in view", n.Self)
	}

	n.myPoly = vss.RandomPolynomial(n.Params.T, n.Params.Q, n.rnd)
	commitment := n.myPoly.Commit(n.Params.G, n.Params.P)

	for _, peer := range n.View.Peers(n.Self) {
		peerIdx, _ := n.View.Index(peer)
		subshare := n.myPoly.Eval(peerIdx, n.Params.Q)
		msg := &wire.Subshare{
			Subshare:   wire.FromBigInt(subshare),
			Commitment: wire.FromBigInts(commitment),
		}
		buf, err := wire.Encode(msg)
		if err != nil {
			return xerrors.Errorf("node: encode subshare: %v", err)
		}
		n.Net.Send(peer, tagSubshare, buf)
	}

	mySubshare := n.myPoly.Eval(myIdx, n.Params.Q)
	n.recordDkgEntry(n.Self, mySubshare, commitment)
	log.Lvl3(n.Self, "started DKG, distributed subshares")
	return nil
}

// onSubshare implements the "On inbound subshare from j" transition: if
// the subshare does not verify against the sender's commitment vector,
// the QUAL assumption has been violated and the node aborts fatally
// (spec.md §7). Otherwise it is stored and the completion check runs.
func (n *Node) onSubshare(from group.Identity, m *wire.Subshare) {
	myIdx, ok := n.View.Index(n.Self)
	if !ok {
		log.Fatal(n.Self, "not in view")
	}
	subshare := wire.ToBigInt(m.Subshare)
	commitment := wire.ToBigInts(m.Commitment)

	if !vss.VerifySubshare(subshare, commitment, n.Params.G, n.Params.P, myIdx) {
		log.Fatal(n.Self, "invalid subshare from", from, "- QUAL assumption violated")
	}
	n.recordDkgEntry(from, subshare, commitment)
}

// recordDkgEntry stores one dealer's contribution and, once all n have
// arrived (regardless of whether the triggering event was Start or an
// inbound subshare), computes share and h and enters round 1.
func (n *Node) recordDkgEntry(from group.Identity, subshare *big.Int, commitment []*big.Int) {
	if _, dup := n.dkgEntries[from]; dup {
		return
	}
	n.dkgEntries[from] = commitEntry{subshare: subshare, commitment: commitment}
	n.dkgCount++

	if n.dkgCount < n.Params.N {
		return
	}

	share := big.NewInt(0)
	h := big.NewInt(1)
	for _, entry := range n.dkgEntries {
		share = modAdd(share, entry.subshare, n.Params.Q)
		h = modMul(h, entry.commitment[0], n.Params.P)
	}
	n.share = share
	n.h = h
	n.dkgReady = true
	log.Lvl2(n.Self, "DKG complete, share and group key h fixed")

	if n.RoundMax == 0 {
		n.done = true
		log.Lvl1(n.Self, "DKG-only configuration, terminating")
		return
	}
	n.enterRound(1)
}

func modAdd(a, b, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), m)
}

func modMul(a, b, m *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), m)
}
