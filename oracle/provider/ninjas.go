package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

const ninjasBaseURL = "https://api.api-ninjas.com"

// ninjasRetryBackoff is the bounded retry schedule for transient failures
// against API Ninjas: first attempt immediate, then growing backoff.
var ninjasRetryBackoff = []time.Duration{0, 250 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

// ninjasSymbolMap maps our internal symbols to API Ninjas' commodity `name`
// query parameter values. Extend as needed.
var ninjasSymbolMap = map[string]string{
	"LEAN_HOGS_PERP":     "lean_hogs",
	"LIVE_CATTLE_PERP":   "live_cattle",
	"FEEDER_CATTLE_PERP": "feeder_cattle",
	"CORN_PERP":          "corn",
	"SOYBEAN_PERP":       "soybean",
	"WHEAT_PERP":         "wheat",
	"COFFEE_PERP":        "coffee",
	"COCOA_PERP":         "cocoa",
	"SUGAR_PERP":         "sugar",
	"GOLD_PERP":          "gold",
	"SILVER_PERP":        "silver",
}

// NinjasCfd is a live CfdProvider backed by API Ninjas' /v1/commodityprice
// endpoint.
type NinjasCfd struct {
	client  *http.Client
	apiKey  string
	baseURL string
	symbols map[string]string
	logger  zerolog.Logger
}

// NewNinjasCfdFromEnv builds a NinjasCfd reading its API key from the
// environment. It accepts the legacy API_NINJAS_KEY name in addition to the
// preferred API_NINJAS_API_KEY.
func NewNinjasCfdFromEnv(logger zerolog.Logger, endpoint Endpoint) (*NinjasCfd, error) {
	apiKey := endpoint.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("API_NINJAS_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("API_NINJAS_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set API_NINJAS_API_KEY (or API_NINJAS_KEY)", types.ErrMissingAPIKey)
	}

	baseURL := endpoint.Rest
	if baseURL == "" {
		baseURL = ninjasBaseURL
	}

	return &NinjasCfd{
		client:  newDefaultHTTPClient(),
		apiKey:  apiKey,
		baseURL: baseURL,
		symbols: ninjasSymbolMap,
		logger:  logger.With().Str("provider", string(NameNinjas)).Logger(),
	}, nil
}

func (p *NinjasCfd) Name() types.ProviderName { return NameNinjas }

type ninjasResponse struct {
	Exchange string  `json:"exchange"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Updated  int64   `json:"updated"`
}

func (p *NinjasCfd) Latest(ctx context.Context, symbol string) (types.Quote, error) {
	ninjasName, ok := p.symbols[symbol]
	if !ok {
		return types.Quote{}, fmt.Errorf("%w: %s", types.ErrUnsupportedSymbol, symbol)
	}

	var lastErr error
	for attempt, backoff := range ninjasRetryBackoff {
		if backoff > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return types.Quote{}, ctx.Err()
			}
		}

		quote, retryable, err := p.fetchOnce(ctx, ninjasName)
		if err == nil {
			return quote, nil
		}
		lastErr = err
		if !retryable {
			return types.Quote{}, err
		}
		p.logger.Debug().Err(err).Int("attempt", attempt).Msg("ninjas request failed, retrying")
	}

	return types.Quote{}, fmt.Errorf("ninjas request failed after retries: %w", lastErr)
}

// fetchOnce performs a single HTTP round trip. retryable reports whether
// the caller should back off and try again (network error, 429, 5xx).
func (p *NinjasCfd) fetchOnce(ctx context.Context, ninjasName string) (types.Quote, bool, error) {
	url := fmt.Sprintf("%s/v1/commodityprice?name=%s", p.baseURL, ninjasName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Quote{}, false, err
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return types.Quote{}, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var data ninjasResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return types.Quote{}, false, fmt.Errorf("decoding ninjas JSON: %w", err)
		}
		if !isFinitePositive(data.Price) {
			return types.Quote{}, false, fmt.Errorf("api ninjas returned invalid price: %v", data.Price)
		}
		tsMs := time.Now().UnixMilli()
		if data.Updated > 0 {
			tsMs = data.Updated * 1000
		}
		return types.Quote{Source: types.SourceNinjas, Price: data.Price, TsMs: tsMs}, false, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return types.Quote{}, true, fmt.Errorf("HTTP %s", resp.Status)
	}

	return types.Quote{}, false, fmt.Errorf("api ninjas HTTP error: %s", resp.Status)
}
