package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"CoinSentinel/internal/model"
)

// coinGeckoBase is the public (keyless) API root.
const coinGeckoBase = "https://api.coingecko.com/api/v3"

// coinIDs maps common tickers to CoinGecko coin ids. Unknown tickers are
// passed through lowercased.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"XRP":  "ripple",
	"DOGE": "dogecoin",
	"ADA":  "cardano",
}

// CoinGeckoClient implements DominanceSource and QuoteSource against the
// CoinGecko public API. The free tier throttles hard, so every call goes
// through a shared rate limiter.
type CoinGeckoClient struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewCoinGeckoClient creates a rate-limited CoinGecko client.
func NewCoinGeckoClient(proxyURL string) *CoinGeckoClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoClient{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		// Free tier allows ~10-30 calls/min; stay well under it.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 2),
		baseURL: coinGeckoBase,
	}
}

// NewCoinGeckoClientWithBase creates a client pointed at a custom base URL,
// used by tests.
func NewCoinGeckoClientWithBase(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
		baseURL: baseURL,
	}
}

func (c *CoinGeckoClient) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("coingecko decode: %w", err)
	}
	return nil
}

// FetchBTCDominance returns bitcoin's share of total crypto market cap.
func (c *CoinGeckoClient) FetchBTCDominance(ctx context.Context) (float64, error) {
	var global struct {
		Data struct {
			MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/global", &global); err != nil {
		return 0, err
	}
	dom, ok := global.Data.MarketCapPercentage["btc"]
	if !ok {
		return 0, fmt.Errorf("coingecko: no btc dominance in response")
	}
	return dom, nil
}

// FetchQuote returns the USD spot price and 24h change for a ticker.
func (c *CoinGeckoClient) FetchQuote(ctx context.Context, ticker string) (model.Quote, error) {
	id, ok := coinIDs[strings.ToUpper(ticker)]
	if !ok {
		id = strings.ToLower(ticker)
	}

	var prices map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	path := fmt.Sprintf("/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true", url.QueryEscape(id))
	if err := c.get(ctx, path, &prices); err != nil {
		return model.Quote{}, err
	}
	p, ok := prices[id]
	if !ok {
		return model.Quote{}, fmt.Errorf("coingecko: no price for %s", ticker)
	}
	return model.Quote{
		Ticker:    strings.ToUpper(ticker),
		PriceUSD:  p.USD,
		Change24h: p.Change24h,
		FetchedAt: time.Now(),
	}, nil
}
