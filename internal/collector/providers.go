package collector

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ProviderOptions carries the credentials and endpoints used to build fetchers.
type ProviderOptions struct {
	Proxy           string
	RESTBaseURL     string
	RESTAPIKey      string
	AlpacaAPIKey    string
	AlpacaAPISecret string
	MockPrice       float64
}

// KnownProviders lists the accepted provider names.
var KnownProviders = []string{"yahoo", "alpaca", "rest", "mock"}

// BuildFetchers creates fetchers in the given order. Providers whose
// credentials are missing are skipped with a log line rather than failing.
func BuildFetchers(names []string, opts ProviderOptions, logger *zap.Logger) ([]Fetcher, error) {
	var fetchers []Fetcher
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "yahoo":
			fetchers = append(fetchers, NewYahooFetcher(opts.Proxy))
		case "alpaca":
			if opts.AlpacaAPIKey == "" || opts.AlpacaAPISecret == "" {
				logger.Info("alpaca provider skipped: credentials not configured")
				continue
			}
			fetchers = append(fetchers, NewAlpacaFetcher(opts.AlpacaAPIKey, opts.AlpacaAPISecret))
		case "rest":
			if opts.RESTBaseURL == "" {
				logger.Info("rest provider skipped: base_url not configured")
				continue
			}
			fetchers = append(fetchers, NewRESTFetcher(opts.RESTBaseURL, opts.RESTAPIKey, opts.Proxy))
		case "mock":
			price := opts.MockPrice
			if price <= 0 {
				price = 100
			}
			fetchers = append(fetchers, &MockFetcher{Price: price})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, raw)
		}
	}
	return fetchers, nil
}
