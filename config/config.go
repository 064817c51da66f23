// Package config loads the external configuration record of spec.md §6
// from a TOML file, the same way dedis-protean's simulation scenarios are
// configured (experiments/*/simulation.go, via github.com/BurntSushi/toml).
package config

import (
	"math/big"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"

	"github.com/dedis/herbbeacon/group"
)

// rawConfig is the TOML-decodable shape; P is a decimal string since TOML
// has no native arbitrary-precision integer type.
type rawConfig struct {
	T        int      `toml:"t"`
	N        int      `toml:"n"`
	P        string   `toml:"p"`
	View     []string `toml:"view"`
	RoundMax int      `toml:"round_max"`
	Replier  string   `toml:"replier"`
}

// Config is the validated, in-memory configuration record.
type Config struct {
	Params   *group.Params
	View     *group.View
	RoundMax int
	Replier  group.Identity // empty if none
}

// Load reads and validates a TOML configuration file, per spec.md §6/§7.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, xerrors.Errorf("config: decode %s: %v", path, err)
	}
	return fromRaw(&raw)
}

func fromRaw(raw *rawConfig) (*Config, error) {
	p, ok := new(big.Int).SetString(raw.P, 10)
	if !ok {
		return nil, xerrors.Errorf("config: p=%q is not a valid decimal integer", raw.P)
	}
	params, err := group.NewParams(p, raw.T, raw.N)
	if err != nil {
		return nil, err
	}
	if len(raw.View) != raw.N {
		return nil, xerrors.Errorf("config: view has %d entries, want n=%d", len(raw.View), raw.N)
	}
	order := make([]group.Identity, len(raw.View))
	for i, v := range raw.View {
		order[i] = group.Identity(v)
	}
	view, err := group.NewView(order)
	if err != nil {
		return nil, err
	}
	if raw.RoundMax < 0 {
		return nil, xerrors.New("config: round_max must be non-negative")
	}
	return &Config{
		Params:   params,
		View:     view,
		RoundMax: raw.RoundMax,
		Replier:  group.Identity(raw.Replier),
	}, nil
}
