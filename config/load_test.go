package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigReadsTOMLAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oracle.toml")
	const body = `
symbol = "WTI_PERP"
cfd_min_fresh = 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	require.Equal(t, "WTI_PERP", cfg.Symbol)
	require.Equal(t, 3, cfg.CfdMinFresh)
	require.Equal(t, defaultFundingCap, cfg.FundingCap)
}

func TestParseConfigErrorsOnMissingFile(t *testing.T) {
	_, err := ParseConfig("/nonexistent/oracle.toml")
	require.Error(t, err)
}

func TestDefaultConfigMatchesSetDefaults(t *testing.T) {
	var cfg OracleConfig
	cfg.setDefaults()
	require.Equal(t, cfg, DefaultConfig())
}
