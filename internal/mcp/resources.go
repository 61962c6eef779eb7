package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

const resourceScheme = "dex://"

func (ds *DexServer) registerResources() {
	resources := []protocol.Resource{
		mcpsdk.NewResource("dex://chains", "Supported Chains",
			"The fixed list of supported blockchain networks", "application/json"),
		mcpsdk.NewResource("dex://{chain}/token/{address}", "Token Info",
			"Price, liquidity, volume, and holder data for a token", "application/json"),
		mcpsdk.NewResource("dex://{chain}/token/{address}/trades", "Token Trades",
			"Recent swaps for a token", "application/json"),
		mcpsdk.NewResource("dex://{chain}/trending", "Trending Tokens",
			"Trending token ranking for a chain", "application/json"),
		mcpsdk.NewResource("dex://{chain}/pairs/new", "New Pairs",
			"Recently created trading pairs on a chain", "application/json"),
		mcpsdk.NewResource("dex://{chain}/wallet/{address}/holdings", "Wallet Holdings",
			"Wallet positions with PnL attribution", "application/json"),
		mcpsdk.NewResource("dex://{chain}/smartmoney/ranking", "Smart Money Ranking",
			"Top-performing wallet leaderboard for a chain", "application/json"),
	}

	for _, resource := range resources {
		ds.mcpServer.AddResource(resource, mcpsdk.ResourceHandlerFunc(ds.handleResourceRead))
	}
}

// handleResourceRead resolves every dex:// URI. Path segments are
// validated exactly like tool parameters; failures come back as
// envelopes with the URI echoed, not protocol errors.
func (ds *DexServer) handleResourceRead(ctx context.Context, uri string) ([]protocol.Content, error) {
	envelope := ds.invoke(ctx, "resource", uri, map[string]interface{}{"uri": uri},
		func(ctx context.Context, _ map[string]interface{}) map[string]interface{} {
			return ds.readResource(ctx, uri)
		})

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource response: %w", err)
	}
	return []protocol.Content{{Type: "text", Text: string(data)}}, nil
}

func (ds *DexServer) readResource(ctx context.Context, uri string) map[string]interface{} {
	if !strings.HasPrefix(uri, resourceScheme) {
		return failureWithURI(errInvalidParams, uri, fmt.Errorf("unsupported URI scheme, expected %s", resourceScheme))
	}

	path := strings.TrimPrefix(uri, resourceScheme)
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) == 1 && segments[0] == "chains" {
		return success(map[string]interface{}{"uri": uri}, chains.All())
	}

	chain, err := chains.Validate(segments[0])
	if err != nil {
		return failureWithURI(errInvalidChain, uri, err)
	}

	rest := segments[1:]
	switch {
	case len(rest) == 2 && rest[0] == "token":
		return ds.readTokenResource(ctx, uri, chain, rest[1])
	case len(rest) == 3 && rest[0] == "token" && rest[2] == "trades":
		return ds.readTokenTradesResource(ctx, uri, chain, rest[1])
	case len(rest) == 1 && rest[0] == "trending":
		tokens, err := ds.client.GetTrendingTokens(ctx, chain.ID, "24h", validation.DefaultLimit)
		if err != nil {
			return failureWithURI("Failed to fetch trending tokens", uri, err)
		}
		return success(map[string]interface{}{"uri": uri, "chain": chain.ID}, tokens)
	case len(rest) == 2 && rest[0] == "pairs" && rest[1] == "new":
		pairs, err := ds.client.GetNewPairs(ctx, chain.ID, validation.DefaultLimit)
		if err != nil {
			return failureWithURI("Failed to fetch new pairs", uri, err)
		}
		return success(map[string]interface{}{"uri": uri, "chain": chain.ID}, pairs)
	case len(rest) == 3 && rest[0] == "wallet" && rest[2] == "holdings":
		return ds.readWalletHoldingsResource(ctx, uri, chain, rest[1])
	case len(rest) == 2 && rest[0] == "smartmoney" && rest[1] == "ranking":
		entries, err := ds.client.GetSmartMoneyRanking(ctx, chain.ID, "24h", validation.DefaultLimit)
		if err != nil {
			return failureWithURI("Failed to fetch smart money ranking", uri, err)
		}
		return success(map[string]interface{}{"uri": uri, "chain": chain.ID}, entries)
	default:
		return failureWithURI(errInvalidParams, uri, fmt.Errorf("unknown resource path %q", path))
	}
}

func (ds *DexServer) readTokenResource(ctx context.Context, uri string, chain chains.Chain, address string) map[string]interface{} {
	if err := chains.ValidateAddress(chain, address); err != nil {
		return failureWithURI(errInvalidAddress, uri, err)
	}
	info, err := ds.client.GetTokenInfo(ctx, chain.ID, address)
	if err != nil {
		return failureWithURI("Failed to fetch token info", uri, err)
	}
	return success(map[string]interface{}{"uri": uri, "chain": chain.ID, "address": address}, info)
}

func (ds *DexServer) readTokenTradesResource(ctx context.Context, uri string, chain chains.Chain, address string) map[string]interface{} {
	if err := chains.ValidateAddress(chain, address); err != nil {
		return failureWithURI(errInvalidAddress, uri, err)
	}
	page, err := ds.client.GetTokenTrades(ctx, chain.ID, address, validation.DefaultLimit, "")
	if err != nil {
		return failureWithURI("Failed to fetch token trades", uri, err)
	}
	return success(map[string]interface{}{"uri": uri, "chain": chain.ID, "address": address}, page)
}

func (ds *DexServer) readWalletHoldingsResource(ctx context.Context, uri string, chain chains.Chain, wallet string) map[string]interface{} {
	if err := chains.ValidateAddress(chain, wallet); err != nil {
		return failureWithURI(errInvalidAddress, uri, err)
	}
	page, err := ds.client.GetWalletHoldings(ctx, chain.ID, wallet, validation.DefaultLimit, "")
	if err != nil {
		return failureWithURI("Failed to fetch wallet holdings", uri, err)
	}
	return success(map[string]interface{}{"uri": uri, "chain": chain.ID, "wallet": wallet}, page)
}
