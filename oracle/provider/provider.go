package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

const (
	defaultTimeout = 10 * time.Second

	NameNinjas  types.ProviderName = "ninjas"
	NameOwninja types.ProviderName = "owninja"
)

// CfdProvider is the adapter contract every commodity CFD data source must
// implement. Latest returns a single best-effort quote for symbol; it must
// not block longer than ctx allows.
type CfdProvider interface {
	Name() types.ProviderName
	Latest(ctx context.Context, symbol string) (types.Quote, error)
}

// Endpoint overrides a provider's hardcoded REST base URL and API key from
// config, the same override shape as the rest of the provider set.
type Endpoint struct {
	Name   types.ProviderName `mapstructure:"name" toml:"name"`
	Rest   string             `mapstructure:"rest" toml:"rest"`
	APIKey string             `mapstructure:"apikey" toml:"apikey"`
}

func newDefaultHTTPClient() *http.Client {
	return newHTTPClientWithTimeout(defaultTimeout)
}

func newHTTPClientWithTimeout(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
