// Command herbbeacon is a minimal local demo of the HERB++ threshold
// beacon: it wires up one in-process actor per configured node plus a
// client over the in-memory transport (transport.Fabric) and prints the
// (round, output) pairs the designated replier produces. It mirrors the
// shape of dedis-protean's client/main.go, which is itself a plain
// flag-based binary (not gopkg.in/urfave/cli.v1, which the teacher's
// go.mod lists but its own source never imports directly - see
// DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dedis/herbbeacon/client"
	"github.com/dedis/herbbeacon/config"
	"github.com/dedis/herbbeacon/group"
	"github.com/dedis/herbbeacon/node"
	"github.com/dedis/herbbeacon/transport"
)

func main() {
	cfgPath := flag.String("config", "beacon.toml", "path to the TOML configuration file")
	delayMax := flag.Duration("delay-max", 2*time.Millisecond, "maximum simulated per-message network delay")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "herbbeacon:", err)
		os.Exit(1)
	}

	const clientID = group.Identity("client")
	ids := append([]group.Identity{}, cfg.View.Order...)
	ids = append(ids, clientID)
	fabric := transport.NewFabric(ids, *delayMax)

	nodes := make([]*node.Node, 0, cfg.View.N())
	for _, id := range cfg.View.Order {
		net := transport.For{Fabric: fabric, Self: id}
		replier := cfg.Replier != "" && id == cfg.Replier
		n := node.New(id, cfg.Params, cfg.View, net, cfg.RoundMax, replier, clientID)
		nodes = append(nodes, n)
		go n.Run()
	}

	cl := client.New(transport.For{Fabric: fabric, Self: clientID}, cfg.View, clientID)
	if err := cl.StartAll(); err != nil {
		fmt.Fprintln(os.Stderr, "herbbeacon: start:", err)
		os.Exit(1)
	}

	if cfg.RoundMax == 0 || cfg.Replier == "" {
		fmt.Println("DKG-only configuration or no replier configured; nothing to collect.")
		return
	}

	outputs, err := cl.Collect(cfg.RoundMax)
	if err != nil {
		fmt.Fprintln(os.Stderr, "herbbeacon: collect:", err)
		os.Exit(1)
	}
	for _, o := range outputs {
		fmt.Printf("round %d: %s\n", o.Round, o.Value.String())
	}
}
