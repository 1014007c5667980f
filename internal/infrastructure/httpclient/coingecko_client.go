package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/infrastructure/configloader"
)

// CoinGeckoClient implements port.PriceOracle with the CoinGecko simple price API.
type CoinGeckoClient struct {
	client     *fasthttp.Client
	baseURL    string
	apiKey     string
	coinID     string
	vsCurrency string
	timeout    time.Duration
	logger     port.Logger
}

var _ port.PriceOracle = (*CoinGeckoClient)(nil)

// NewCoinGeckoClient creates a CoinGecko client from config.
func NewCoinGeckoClient(cfg configloader.CoinGeckoConfig, logger port.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:     &fasthttp.Client{Name: "inft_dashboard"},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		coinID:     cfg.CoinID,
		vsCurrency: cfg.VsCurrency,
		timeout:    time.Duration(cfg.ClientTimeoutSeconds) * time.Second,
		logger:     logger,
	}
}

// NativePriceUSD implements port.PriceOracle.
func (c *CoinGeckoClient) NativePriceUSD(ctx context.Context) (float64, error) {
	query := url.Values{}
	query.Set("ids", c.coinID)
	query.Set("vs_currencies", c.vsCurrency)
	requestURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Requesting native price from CoinGecko", "url", requestURL)
	if err := do(ctx, c.client, req, resp, c.timeout); err != nil {
		return 0, err
	}
	if !isSuccess(resp.StatusCode()) {
		return 0, statusError("coingecko", resp)
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(resp.Body(), &prices); err != nil {
		return 0, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}
	price, ok := prices[c.coinID][c.vsCurrency]
	if !ok {
		return 0, fmt.Errorf("CoinGecko response has no %s price for %s", c.vsCurrency, c.coinID)
	}
	return price, nil
}
