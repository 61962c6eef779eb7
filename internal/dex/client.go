// Package dex wraps the upstream DEX API behind a typed client. All
// real blockchain/DEX work happens upstream; this package only shapes
// requests, retries transient failures, and decodes responses.
package dex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dex-mcp-server/internal/auth"
	"dex-mcp-server/internal/config"
	apperrors "dex-mcp-server/internal/errors"
	"dex-mcp-server/internal/retry"
)

// Client is the DEX SDK contract the MCP handlers call
type Client interface {
	GetTokenInfo(ctx context.Context, chain, address string) (*TokenInfo, error)
	GetTokenSecurity(ctx context.Context, chain, address string) (*TokenSecurity, error)
	GetTrendingTokens(ctx context.Context, chain, window string, limit int) ([]TrendingToken, error)
	GetTokenCandles(ctx context.Context, chain, address, interval string, limit int) ([]Candle, error)

	GetNewPairs(ctx context.Context, chain string, limit int) ([]Pair, error)
	GetPairInfo(ctx context.Context, chain, pairAddress string) (*Pair, error)

	GetTokenTrades(ctx context.Context, chain, address string, limit int, cursor string) (*TradePage, error)
	GetWalletTrades(ctx context.Context, chain, wallet string, limit int, cursor string) (*TradePage, error)

	GetWalletBalances(ctx context.Context, chain, wallet string) (*WalletBalances, error)
	GetWalletHoldings(ctx context.Context, chain, wallet string, limit int, cursor string) (*HoldingsPage, error)

	GetSwapRoute(ctx context.Context, req *SwapRouteRequest) (*SwapRoute, error)
	SubmitSwap(ctx context.Context, req *SubmitSwapRequest) (*SwapSubmission, error)

	CreateLimitOrder(ctx context.Context, req *LimitOrderRequest) (*LimitOrder, error)
	CancelLimitOrder(ctx context.Context, chain, orderID string) (*LimitOrder, error)
	ListLimitOrders(ctx context.Context, chain, wallet string, limit int, cursor string) ([]LimitOrder, error)

	CreateRedPacket(ctx context.Context, req *RedPacketRequest) (*RedPacket, error)
	ClaimRedPacket(ctx context.Context, chain, packetID, wallet string) (*RedPacketClaim, error)
	GetRedPacketRecords(ctx context.Context, chain, wallet string, limit int) ([]RedPacketRecord, error)

	GetSmartMoneyRanking(ctx context.Context, chain, window string, limit int) ([]SmartMoneyEntry, error)
	GetWalletProfile(ctx context.Context, chain, wallet string) (*WalletProfile, error)

	Ping(ctx context.Context) error
}

// apiEnvelope is the upstream wire envelope
type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIError is a non-zero upstream response code
type APIError struct {
	Code       int
	Msg        string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dex api error %d (http %d): %s", e.Code, e.HTTPStatus, e.Msg)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	retrier *retry.Retrier
}

// NewHTTPClient creates the production client from configuration
func NewHTTPClient(cfg *config.DexAPIConfig) Client {
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		retrier: retry.New(&retry.Config{
			MaxAttempts:     cfg.RetryAttempts,
			InitialDelay:    200 * time.Millisecond,
			MaxDelay:        5 * time.Second,
			Multiplier:      2.0,
			RandomizeFactor: 0.2,
		}),
	}
}

// get performs a GET with retries and decodes the data payload into out
func (c *httpClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post performs a POST with retries and decodes the data payload into out
func (c *httpClient) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		var reader io.Reader
		if encoded != nil {
			reader = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		// The caller's bearer token wins over the server-wide API key
		if token, ok := auth.TokenFromContext(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		} else if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.Temporary(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return retry.Temporary(fmt.Errorf("failed to read response: %w", err))
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return retry.Temporary(&APIError{Code: -1, Msg: http.StatusText(resp.StatusCode), HTTPStatus: resp.StatusCode})
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(&APIError{Code: -1, Msg: string(data), HTTPStatus: resp.StatusCode})
		}

		var envelope apiEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		if envelope.Code != 0 {
			return retry.Permanent(&APIError{Code: envelope.Code, Msg: envelope.Msg, HTTPStatus: resp.StatusCode})
		}
		if out != nil && len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return retry.Permanent(fmt.Errorf("failed to decode payload: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(classify(err), fmt.Sprintf("dex api %s %s", method, path), err)
	}
	return nil
}

// classify maps transport and upstream failures to semantic codes so
// the REST surface can pick meaningful HTTP statuses
func classify(err error) apperrors.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.CodeTimeout
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatus {
		case http.StatusNotFound:
			return apperrors.CodeNotFound
		case http.StatusTooManyRequests:
			return apperrors.CodeRateLimited
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.CodeUnauthorized
		}
	}
	return apperrors.CodeUpstreamError
}

func pageQuery(limit int, cursor string) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	return q
}

func (c *httpClient) GetTokenInfo(ctx context.Context, chain, address string) (*TokenInfo, error) {
	var info TokenInfo
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/token/%s", chain, address), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *httpClient) GetTokenSecurity(ctx context.Context, chain, address string) (*TokenSecurity, error) {
	var security TokenSecurity
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/token/%s/security", chain, address), nil, &security); err != nil {
		return nil, err
	}
	return &security, nil
}

func (c *httpClient) GetTrendingTokens(ctx context.Context, chain, window string, limit int) ([]TrendingToken, error) {
	q := url.Values{}
	q.Set("window", window)
	q.Set("limit", strconv.Itoa(limit))
	var tokens []TrendingToken
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/rank/trending", chain), q, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (c *httpClient) GetTokenCandles(ctx context.Context, chain, address, interval string, limit int) ([]Candle, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	var candles []Candle
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/token/%s/candles", chain, address), q, &candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func (c *httpClient) GetNewPairs(ctx context.Context, chain string, limit int) ([]Pair, error) {
	var pairs []Pair
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/pairs/new", chain), pageQuery(limit, ""), &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (c *httpClient) GetPairInfo(ctx context.Context, chain, pairAddress string) (*Pair, error) {
	var pair Pair
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/pairs/%s", chain, pairAddress), nil, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *httpClient) GetTokenTrades(ctx context.Context, chain, address string, limit int, cursor string) (*TradePage, error) {
	var page TradePage
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/token/%s/trades", chain, address), pageQuery(limit, cursor), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *httpClient) GetWalletTrades(ctx context.Context, chain, wallet string, limit int, cursor string) (*TradePage, error) {
	var page TradePage
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/wallet/%s/trades", chain, wallet), pageQuery(limit, cursor), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *httpClient) GetWalletBalances(ctx context.Context, chain, wallet string) (*WalletBalances, error) {
	var balances WalletBalances
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/wallet/%s/balances", chain, wallet), nil, &balances); err != nil {
		return nil, err
	}
	return &balances, nil
}

func (c *httpClient) GetWalletHoldings(ctx context.Context, chain, wallet string, limit int, cursor string) (*HoldingsPage, error) {
	var page HoldingsPage
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/wallet/%s/holdings", chain, wallet), pageQuery(limit, cursor), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *httpClient) GetSwapRoute(ctx context.Context, req *SwapRouteRequest) (*SwapRoute, error) {
	var route SwapRoute
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/swap/route", req.Chain), req, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

func (c *httpClient) SubmitSwap(ctx context.Context, req *SubmitSwapRequest) (*SwapSubmission, error) {
	var submission SwapSubmission
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/swap/submit", req.Chain), req, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (c *httpClient) CreateLimitOrder(ctx context.Context, req *LimitOrderRequest) (*LimitOrder, error) {
	var order LimitOrder
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/orders", req.Chain), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *httpClient) CancelLimitOrder(ctx context.Context, chain, orderID string) (*LimitOrder, error) {
	var order LimitOrder
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/orders/%s/cancel", chain, orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *httpClient) ListLimitOrders(ctx context.Context, chain, wallet string, limit int, cursor string) ([]LimitOrder, error) {
	q := pageQuery(limit, cursor)
	q.Set("wallet", wallet)
	var orders []LimitOrder
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/orders", chain), q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *httpClient) CreateRedPacket(ctx context.Context, req *RedPacketRequest) (*RedPacket, error) {
	var packet RedPacket
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/redpacket", req.Chain), req, &packet); err != nil {
		return nil, err
	}
	return &packet, nil
}

func (c *httpClient) ClaimRedPacket(ctx context.Context, chain, packetID, wallet string) (*RedPacketClaim, error) {
	body := map[string]string{"wallet": wallet}
	var claim RedPacketClaim
	if err := c.post(ctx, fmt.Sprintf("/v1/%s/redpacket/%s/claim", chain, packetID), body, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (c *httpClient) GetRedPacketRecords(ctx context.Context, chain, wallet string, limit int) ([]RedPacketRecord, error) {
	q := pageQuery(limit, "")
	q.Set("wallet", wallet)
	var records []RedPacketRecord
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/redpacket/records", chain), q, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *httpClient) GetSmartMoneyRanking(ctx context.Context, chain, window string, limit int) ([]SmartMoneyEntry, error) {
	q := url.Values{}
	q.Set("window", window)
	q.Set("limit", strconv.Itoa(limit))
	var entries []SmartMoneyEntry
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/rank/smartmoney", chain), q, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *httpClient) GetWalletProfile(ctx context.Context, chain, wallet string) (*WalletProfile, error) {
	var profile WalletProfile
	if err := c.get(ctx, fmt.Sprintf("/v1/%s/wallet/%s/profile", chain, wallet), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *httpClient) Ping(ctx context.Context) error {
	return c.get(ctx, "/v1/health", nil, nil)
}
