package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleToml = `
t = 6
n = 10
p = "1019"
view = ["n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9"]
round_max = 100
replier = "n0"
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "beacon.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTemp(t, sampleToml)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Params.T)
	require.Equal(t, 10, cfg.Params.N)
	require.Equal(t, 100, cfg.RoundMax)
	require.Equal(t, "n0", string(cfg.Replier))
	require.Equal(t, 10, cfg.View.N())
}

func TestLoadRejectsMismatchedViewLength(t *testing.T) {
	bad := `
t = 6
n = 10
p = "1019"
view = ["n0", "n1"]
round_max = 0
`
	path := writeTemp(t, bad)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadPrime(t *testing.T) {
	bad := `
t = 1
n = 1
p = "1020"
view = ["n0"]
round_max = 0
`
	path := writeTemp(t, bad)
	_, err := Load(path)
	require.Error(t, err)
}
