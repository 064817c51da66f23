// Package client implements the minimal client-side API of spec.md §6: it
// triggers DKG across the full view with a Start broadcast and collects
// (round, output) replies from the designated replier node. It mirrors the
// shape of dedis-protean's own client-facing API wrappers (e.g.
// easyrand/api.go), reduced from an RPC-style call to a channel receive
// since the network transport itself is out of scope (spec.md §1).
package client

import (
	"math/big"

	"github.com/dedis/herbbeacon/group"
	"github.com/dedis/herbbeacon/transport"
	"github.com/dedis/herbbeacon/wire"
)

// Output is one round's beacon value as seen by the client.
type Output struct {
	Round  uint64
	Value  *big.Int
}

// Client is bound to a transport and a view; it has no identity of its
// own beyond being the special recipient the replier node addresses.
type Client struct {
	net  transport.Network
	view *group.View
	self group.Identity
}

// New builds a Client that listens on its own identity (so the replier
// node's transport.Send(self, ...) calls reach it) within view.
func New(net transport.Network, view *group.View, self group.Identity) *Client {
	return &Client{net: net, view: view, self: self}
}

// StartAll broadcasts the Start command (spec.md §6) to every node in the
// view, kicking off DKG.
func (c *Client) StartAll() error {
	buf, err := wire.Encode(&wire.Start{})
	if err != nil {
		return err
	}
	for _, id := range c.view.Order {
		c.net.Send(id, "Start", buf)
	}
	return nil
}

// Collect blocks until it has received n (round, output) replies, then
// returns them in arrival order; replies are neither deduplicated nor
// sorted. A single replier's replies arrive in round order because the
// transport is FIFO per pair. Used by scenario S2/S3 of spec.md §8.
func (c *Client) Collect(n int) ([]Output, error) {
	inbox := c.net.Inbox(c.self)
	outs := make([]Output, 0, n)
	for len(outs) < n {
		env := <-inbox
		var m wire.ClientOutput
		if err := wire.Decode(env.Bytes, &m); err != nil {
			return nil, err
		}
		outs = append(outs, Output{Round: m.Round, Value: wire.ToBigInt(m.Output)})
	}
	return outs, nil
}
