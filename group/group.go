// Package group holds the immutable group parameters and participant view
// of spec.md §3: the safe prime p, the order-q subgroup generator g, the
// threshold/participant counts, and the ordered view mapping node
// identities to their 1-based evaluation-point index.
package group

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/dedis/herbbeacon/internal/arith"
)

// Identity names a participant. The transport and test harness are out of
// scope (spec.md §1); herbbeacon identifies nodes by a plain string so any
// real transport binding can supply its own addressing scheme underneath.
type Identity string

// Params are the process-wide, immutable group parameters.
type Params struct {
	P *big.Int
	Q *big.Int
	G *big.Int
	T int
	N int
}

// NewParams validates and builds Params from a safe prime p and the
// threshold/participant counts. g is derived via arith.FindGenerator, per
// spec.md §4.A. Configuration errors (non-safe prime, t > n, t < 1) are
// surfaced to the caller, per spec.md §7.
func NewParams(p *big.Int, t, n int) (*Params, error) {
	if !arith.IsSafePrime(p) {
		return nil, xerrors.Errorf("group: %v is not a safe prime", p)
	}
	if t < 1 || t > n {
		return nil, xerrors.Errorf("group: invalid threshold t=%d for n=%d", t, n)
	}
	q := new(big.Int).Rsh(p, 1)
	g := arith.FindGenerator(p)
	return &Params{P: p, Q: q, G: g, T: t, N: n}, nil
}

// View is the ordered sequence of participant identities and the
// resulting identity -> 1-based index mapping used as the evaluation
// points of every polynomial.
type View struct {
	Order []Identity
	index map[Identity]int64
}

// NewView builds a View from an ordered, non-empty, duplicate-free list of
// identities.
func NewView(order []Identity) (*View, error) {
	if len(order) == 0 {
		return nil, xerrors.New("group: empty view")
	}
	idx := make(map[Identity]int64, len(order))
	for i, id := range order {
		if _, dup := idx[id]; dup {
			return nil, xerrors.Errorf("group: duplicate identity %v in view", id)
		}
		idx[id] = int64(i + 1)
	}
	return &View{Order: order, index: idx}, nil
}

// Index returns the 1-based evaluation point for id.
func (v *View) Index(id Identity) (int64, bool) {
	i, ok := v.index[id]
	return i, ok
}

// N returns the participant count.
func (v *View) N() int { return len(v.Order) }

// Peers returns every identity in the view other than self.
func (v *View) Peers(self Identity) []Identity {
	peers := make([]Identity, 0, len(v.Order)-1)
	for _, id := range v.Order {
		if id != self {
			peers = append(peers, id)
		}
	}
	return peers
}
