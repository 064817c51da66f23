// Package wire defines the inbound/outbound protocol messages of
// spec.md §6 and the protobuf codec used to put them on the (in-memory)
// transport, the same way dedis-protean marshals its own onet protocol
// payloads directly with go.dedis.ch/protobuf (see
// libstate/protocol/rs.go, dummy/calylot.go). Big integers are carried as
// big-endian byte slices rather than *big.Int directly, since
// go.dedis.ch/protobuf's reflective encoder only understands exported
// struct fields and native types/slices, not big.Int's unexported
// internal representation.
package wire

import (
	"math/big"

	"go.dedis.ch/protobuf"
)

// Start carries no payload; its arrival is the DKG trigger of spec.md §6.
type Start struct{}

// Subshare is the DKG-phase payload: a committer's evaluation of its
// polynomial at the receiver's index, plus the committer's commitment
// vector.
type Subshare struct {
	Subshare   []byte
	Commitment [][]byte
}

// SchnorrProof mirrors internal/nizk.SchnorrProof on the wire.
type SchnorrProof struct {
	U []byte
	C []byte
	Z []byte
}

// EncShare is the beacon encryption-phase payload.
type EncShare struct {
	A     []byte
	B     []byte
	Nizk  SchnorrProof
	Round uint64
}

// DLEQProof mirrors internal/nizk.DLEQProof on the wire.
type DLEQProof struct {
	A1 []byte
	A2 []byte
	R  []byte
}

// DecShare is the beacon decryption-phase payload.
type DecShare struct {
	D        []byte
	Nizk     DLEQProof
	GToShare []byte
	A        []byte
	Round    uint64
}

// ClientOutput is what a replier node sends to the client.
type ClientOutput struct {
	Round  uint64
	Output []byte
}

// Encode marshals a message for the wire.
func Encode(msg interface{}) ([]byte, error) {
	return protobuf.Encode(msg)
}

// Decode unmarshals a message from the wire into msg.
func Decode(buf []byte, msg interface{}) error {
	return protobuf.Decode(buf, msg)
}

// FromBigInt converts a *big.Int to its wire byte representation.
func FromBigInt(i *big.Int) []byte {
	if i == nil {
		return nil
	}
	return i.Bytes()
}

// ToBigInt converts a wire byte representation back to a *big.Int.
func ToBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// FromBigInts converts a slice of *big.Int to their wire representation.
func FromBigInts(is []*big.Int) [][]byte {
	out := make([][]byte, len(is))
	for i, v := range is {
		out[i] = FromBigInt(v)
	}
	return out
}

// ToBigInts converts a slice of wire byte representations back to *big.Int.
func ToBigInts(bs [][]byte) []*big.Int {
	out := make([]*big.Int, len(bs))
	for i, b := range bs {
		out[i] = ToBigInt(b)
	}
	return out
}
