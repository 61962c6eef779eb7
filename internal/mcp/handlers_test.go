package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/config"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/logging"
	"dex-mcp-server/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evmAddress    = "0x1234567890abcdef1234567890abcdef12345678"
	evmWallet     = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	solanaAddress = "So11111111111111111111111111111111111111112"
)

// fakeClient records calls and returns canned values. Setting err makes
// every method fail with it.
type fakeClient struct {
	err   error
	calls []string
}

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) GetTokenInfo(_ context.Context, chain, address string) (*dex.TokenInfo, error) {
	f.record("GetTokenInfo")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.TokenInfo{Chain: chain, Address: address, Symbol: "TEST", PriceUSD: "1.23"}, nil
}

func (f *fakeClient) GetTokenSecurity(_ context.Context, chain, address string) (*dex.TokenSecurity, error) {
	f.record("GetTokenSecurity")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.TokenSecurity{Chain: chain, Address: address, BuyTax: 0.01}, nil
}

func (f *fakeClient) GetTrendingTokens(_ context.Context, _, _ string, _ int) ([]dex.TrendingToken, error) {
	f.record("GetTrendingTokens")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.TrendingToken{{Rank: 1, Symbol: "HOT"}}, nil
}

func (f *fakeClient) GetTokenCandles(_ context.Context, _, _, _ string, _ int) ([]dex.Candle, error) {
	f.record("GetTokenCandles")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.Candle{{Open: "1", Close: "2"}}, nil
}

func (f *fakeClient) GetNewPairs(_ context.Context, chain string, _ int) ([]dex.Pair, error) {
	f.record("GetNewPairs")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.Pair{{Chain: chain, Dex: "uniswap"}}, nil
}

func (f *fakeClient) GetPairInfo(_ context.Context, chain, pairAddress string) (*dex.Pair, error) {
	f.record("GetPairInfo")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.Pair{Chain: chain, PairAddress: pairAddress}, nil
}

func (f *fakeClient) GetTokenTrades(_ context.Context, _, _ string, _ int, _ string) (*dex.TradePage, error) {
	f.record("GetTokenTrades")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.TradePage{Trades: []dex.Trade{{TxHash: "0xabc"}}, NextCursor: "next"}, nil
}

func (f *fakeClient) GetWalletTrades(_ context.Context, _, _ string, _ int, _ string) (*dex.TradePage, error) {
	f.record("GetWalletTrades")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.TradePage{}, nil
}

func (f *fakeClient) GetWalletBalances(_ context.Context, chain, wallet string) (*dex.WalletBalances, error) {
	f.record("GetWalletBalances")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.WalletBalances{Chain: chain, Wallet: wallet, TotalValueUSD: "100.00"}, nil
}

func (f *fakeClient) GetWalletHoldings(_ context.Context, _, _ string, _ int, _ string) (*dex.HoldingsPage, error) {
	f.record("GetWalletHoldings")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.HoldingsPage{}, nil
}

func (f *fakeClient) GetSwapRoute(_ context.Context, req *dex.SwapRouteRequest) (*dex.SwapRoute, error) {
	f.record("GetSwapRoute")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.SwapRoute{AmountOut: "99", PriceImpact: 0.001}, nil
}

func (f *fakeClient) SubmitSwap(_ context.Context, _ *dex.SubmitSwapRequest) (*dex.SwapSubmission, error) {
	f.record("SubmitSwap")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.SwapSubmission{TxHash: "0xdeadbeef", Status: "pending"}, nil
}

func (f *fakeClient) CreateLimitOrder(_ context.Context, req *dex.LimitOrderRequest) (*dex.LimitOrder, error) {
	f.record("CreateLimitOrder")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.LimitOrder{OrderID: "order-1", Chain: req.Chain, Status: "open"}, nil
}

func (f *fakeClient) CancelLimitOrder(_ context.Context, chain, orderID string) (*dex.LimitOrder, error) {
	f.record("CancelLimitOrder")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.LimitOrder{OrderID: orderID, Chain: chain, Status: "cancelled"}, nil
}

func (f *fakeClient) ListLimitOrders(_ context.Context, _, _ string, _ int, _ string) ([]dex.LimitOrder, error) {
	f.record("ListLimitOrders")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.LimitOrder{{OrderID: "order-1"}}, nil
}

func (f *fakeClient) CreateRedPacket(_ context.Context, req *dex.RedPacketRequest) (*dex.RedPacket, error) {
	f.record("CreateRedPacket")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.RedPacket{PacketID: "packet-1", Chain: req.Chain, Count: req.Count, ClaimURL: "https://claim.example/packet-1"}, nil
}

func (f *fakeClient) ClaimRedPacket(_ context.Context, _, packetID, _ string) (*dex.RedPacketClaim, error) {
	f.record("ClaimRedPacket")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.RedPacketClaim{PacketID: packetID, Amount: "5"}, nil
}

func (f *fakeClient) GetRedPacketRecords(_ context.Context, _, _ string, _ int) ([]dex.RedPacketRecord, error) {
	f.record("GetRedPacketRecords")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.RedPacketRecord{{PacketID: "packet-1"}}, nil
}

func (f *fakeClient) GetSmartMoneyRanking(_ context.Context, _, _ string, _ int) ([]dex.SmartMoneyEntry, error) {
	f.record("GetSmartMoneyRanking")
	if f.err != nil {
		return nil, f.err
	}
	return []dex.SmartMoneyEntry{{Rank: 1, Wallet: evmWallet}}, nil
}

func (f *fakeClient) GetWalletProfile(_ context.Context, chain, wallet string) (*dex.WalletProfile, error) {
	f.record("GetWalletProfile")
	if f.err != nil {
		return nil, f.err
	}
	return &dex.WalletProfile{Chain: chain, Wallet: wallet, WinRate: 0.6}, nil
}

func (f *fakeClient) Ping(_ context.Context) error {
	f.record("Ping")
	return f.err
}

func newTestServer(t *testing.T, client dex.Client, opts ...Option) *DexServer {
	t.Helper()
	ds, err := NewDexServer(config.DefaultConfig(), client, logging.NewNoopLogger(), opts...)
	require.NoError(t, err)
	return ds
}

func assertSuccess(t *testing.T, envelope map[string]interface{}) {
	t.Helper()
	require.Equal(t, true, envelope["success"], "envelope: %v", envelope)
	assertTimestamp(t, envelope)
}

func assertFailure(t *testing.T, envelope map[string]interface{}, label string) {
	t.Helper()
	require.Equal(t, false, envelope["success"], "envelope: %v", envelope)
	assert.Equal(t, label, envelope["error"])
	assert.NotEmpty(t, envelope["message"])
	assertTimestamp(t, envelope)
}

func assertTimestamp(t *testing.T, envelope map[string]interface{}) {
	t.Helper()
	raw, ok := envelope["timestamp"].(string)
	require.True(t, ok, "timestamp missing")
	_, err := time.Parse(time.RFC3339, raw)
	assert.NoError(t, err)
}

func TestGetTokenInfoSuccess(t *testing.T) {
	client := &fakeClient{}
	ds := newTestServer(t, client)

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "ethereum",
		"address": evmAddress,
	})

	assertSuccess(t, envelope)
	assert.Equal(t, "ethereum", envelope["chain"])
	assert.Equal(t, evmAddress, envelope["address"])
	info, ok := envelope["data"].(*dex.TokenInfo)
	require.True(t, ok)
	assert.Equal(t, "TEST", info.Symbol)
	assert.Equal(t, []string{"GetTokenInfo"}, client.calls)
}

func TestChainAliasNormalized(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "eth",
		"address": evmAddress,
	})

	assertSuccess(t, envelope)
	assert.Equal(t, "ethereum", envelope["chain"])
}

func TestInvalidChainRejectedBeforeSDK(t *testing.T) {
	client := &fakeClient{}
	ds := newTestServer(t, client)

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "dogechain",
		"address": evmAddress,
	})

	assertFailure(t, envelope, errInvalidChain)
	assert.Contains(t, envelope["message"], "supported chains")
	assert.Empty(t, client.calls, "SDK must not be called for an invalid chain")
}

func TestInvalidAddressRejected(t *testing.T) {
	client := &fakeClient{}
	ds := newTestServer(t, client)

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "ethereum",
		"address": "not-an-address",
	})

	assertFailure(t, envelope, errInvalidAddress)
	assert.Empty(t, client.calls)
}

func TestSolanaAddressAccepted(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "sol",
		"address": solanaAddress,
	})

	assertSuccess(t, envelope)
}

func TestLimitRejectedNotClamped(t *testing.T) {
	client := &fakeClient{}
	ds := newTestServer(t, client)

	for _, limit := range []int{0, -5, 101, 1000} {
		envelope := ds.handleGetTrendingTokens(context.Background(), map[string]interface{}{
			"chain": "bsc",
			"limit": limit,
		})
		assertFailure(t, envelope, errInvalidLimit)
	}
	assert.Empty(t, client.calls)
}

func TestLimitDefaultsWhenOmitted(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleGetTrendingTokens(context.Background(), map[string]interface{}{
		"chain": "bsc",
	})

	assertSuccess(t, envelope)
	assert.Equal(t, 20, envelope["limit"])
	assert.Equal(t, "24h", envelope["window"])
}

func TestInvalidWindowRejected(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleGetTrendingTokens(context.Background(), map[string]interface{}{
		"chain":  "bsc",
		"window": "2w",
	})

	assertFailure(t, envelope, errInvalidParams)
}

func TestSDKErrorBecomesEnvelope(t *testing.T) {
	ds := newTestServer(t, &fakeClient{err: errors.New("upstream exploded")})

	envelope := ds.handleGetTokenInfo(context.Background(), map[string]interface{}{
		"chain":   "ethereum",
		"address": evmAddress,
	})

	assertFailure(t, envelope, "Failed to fetch token info")
	assert.Equal(t, "upstream exploded", envelope["message"])
}

func TestCandleIntervalValidation(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleGetTokenCandles(context.Background(), map[string]interface{}{
		"chain":    "ethereum",
		"address":  evmAddress,
		"interval": "3h",
	})
	assertFailure(t, envelope, errInvalidParams)

	envelope = ds.handleGetTokenCandles(context.Background(), map[string]interface{}{
		"chain":   "ethereum",
		"address": evmAddress,
	})
	assertSuccess(t, envelope)
	assert.Equal(t, "1h", envelope["interval"])
}

func TestSwapRouteValidation(t *testing.T) {
	client := &fakeClient{}
	ds := newTestServer(t, client)

	valid := map[string]interface{}{
		"chain":        "ethereum",
		"token_in":     evmAddress,
		"token_out":    evmWallet,
		"amount_in":    "1000000",
		"from_address": evmWallet,
	}

	envelope := ds.handleGetSwapRoute(context.Background(), valid)
	assertSuccess(t, envelope)
	assert.Equal(t, 0.01, envelope["slippage"], "default slippage applied")

	bad := map[string]interface{}{
		"chain":        "ethereum",
		"token_in":     evmAddress,
		"token_out":    evmWallet,
		"amount_in":    "-5",
		"from_address": evmWallet,
	}
	envelope = ds.handleGetSwapRoute(context.Background(), bad)
	assertFailure(t, envelope, errInvalidParams)

	bad["amount_in"] = "1000000"
	bad["slippage"] = 0.9
	envelope = ds.handleGetSwapRoute(context.Background(), bad)
	assertFailure(t, envelope, errInvalidParams)
}

func TestSubmitSwapRequiresSignedTx(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleSubmitSwap(context.Background(), map[string]interface{}{
		"chain":     "ethereum",
		"signed_tx": "   ",
	})
	assertFailure(t, envelope, errInvalidParams)

	envelope = ds.handleSubmitSwap(context.Background(), map[string]interface{}{
		"chain":     "ethereum",
		"signed_tx": "0xsigned",
	})
	assertSuccess(t, envelope)
}

func TestCreateRedPacketValidation(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleCreateRedPacket(context.Background(), map[string]interface{}{
		"chain":        "bsc",
		"token":        evmAddress,
		"total_amount": "100",
		"count":        0,
	})
	assertFailure(t, envelope, errInvalidParams)

	envelope = ds.handleCreateRedPacket(context.Background(), map[string]interface{}{
		"chain":        "bsc",
		"token":        evmAddress,
		"total_amount": "100",
		"count":        10,
		"message":      "gong xi fa cai",
	})
	assertSuccess(t, envelope)
	assert.Equal(t, 10, envelope["count"])
}

func TestCreateLimitOrder(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleCreateLimitOrder(context.Background(), map[string]interface{}{
		"chain":        "arbitrum",
		"token_in":     evmAddress,
		"token_out":    evmWallet,
		"amount_in":    "50",
		"target_price": "0.002",
		"wallet":       evmWallet,
	})
	assertSuccess(t, envelope)

	order, ok := envelope["data"].(*dex.LimitOrder)
	require.True(t, ok)
	assert.Equal(t, "order-1", order.OrderID)
}

func TestListSupportedChains(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleListSupportedChains(context.Background(), nil)
	assertSuccess(t, envelope)

	all, ok := envelope["data"].([]chains.Chain)
	require.True(t, ok)
	assert.Len(t, all, 10)
	assert.Equal(t, "arbitrum", all[0].ID)
}

func TestHealthReportsUpstream(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	envelope := ds.handleHealth(context.Background(), nil)
	assertSuccess(t, envelope)

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "ok", data["upstream"])

	ds = newTestServer(t, &fakeClient{err: errors.New("connection refused")})
	envelope = ds.handleHealth(context.Background(), nil)
	assertSuccess(t, envelope)
	data = envelope["data"].(map[string]interface{})
	assert.Equal(t, "connection refused", data["upstream"])
}

func TestRateLimitedInvocation(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	ds := newTestServer(t, &fakeClient{}, WithLimiter(limiter))

	params := map[string]interface{}{"chain": "ethereum", "address": evmAddress}

	first := ds.invoke(context.Background(), "tool", "get_token_info", params, ds.handleGetTokenInfo)
	assertSuccess(t, first)

	second := ds.invoke(context.Background(), "tool", "get_token_info", params, ds.handleGetTokenInfo)
	assertFailure(t, second, errRateLimited)
}
