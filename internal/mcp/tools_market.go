package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerMarketTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_trending_tokens",
		"Get the trending token ranking for a chain over a time window",
		mcpsdk.ObjectSchema("Trending ranking parameters", map[string]interface{}{
			"chain":  chainParam(),
			"window": enumParam("Aggregation window", validation.TimeWindows, "24h"),
			"limit":  limitParam(),
		}, []string{"chain"}),
	), ds.handleGetTrendingTokens)

	ds.addTool(mcpsdk.NewTool(
		"get_token_candles",
		"Get OHLCV candles for a token",
		mcpsdk.ObjectSchema("Candle query parameters", map[string]interface{}{
			"chain":    chainParam(),
			"address":  addressParam("Token contract address"),
			"interval": enumParam("Candle interval", validation.CandleIntervals, "1h"),
			"limit":    limitParam(),
		}, []string{"chain", "address"}),
	), ds.handleGetTokenCandles)
}

type trendingQuery struct {
	Chain  string `json:"chain"`
	Window string `json:"window"`
	Limit  *int   `json:"limit"`
}

func (ds *DexServer) handleGetTrendingTokens(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q trendingQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	window, err := validation.TimeWindow(q.Window)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	limit, err := validation.Limit(q.Limit)
	if err != nil {
		return failure(errInvalidLimit, err)
	}

	tokens, err := ds.client.GetTrendingTokens(ctx, chain.ID, window, limit)
	if err != nil {
		return failure("Failed to fetch trending tokens", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"window": window,
		"limit":  limit,
	}, tokens)
}

type candleQuery struct {
	Chain    string `json:"chain"`
	Address  string `json:"address"`
	Interval string `json:"interval"`
	Limit    *int   `json:"limit"`
}

func (ds *DexServer) handleGetTokenCandles(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q candleQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.Address); err != nil {
		return failure(errInvalidAddress, err)
	}
	interval, err := validation.CandleInterval(q.Interval)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	limit, err := validation.Limit(q.Limit)
	if err != nil {
		return failure(errInvalidLimit, err)
	}

	candles, err := ds.client.GetTokenCandles(ctx, chain.ID, q.Address, interval, limit)
	if err != nil {
		return failure("Failed to fetch token candles", err)
	}

	return success(map[string]interface{}{
		"chain":    chain.ID,
		"address":  q.Address,
		"interval": interval,
		"limit":    limit,
	}, candles)
}
