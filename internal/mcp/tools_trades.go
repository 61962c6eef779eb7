package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerTradeTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_token_trades",
		"Get recent swaps for a token, cursor-paginated",
		mcpsdk.ObjectSchema("Token trade query parameters", map[string]interface{}{
			"chain":   chainParam(),
			"address": addressParam("Token contract address"),
			"limit":   limitParam(),
			"cursor":  cursorParam(),
		}, []string{"chain", "address"}),
	), ds.handleGetTokenTrades)

	ds.addTool(mcpsdk.NewTool(
		"get_wallet_trades",
		"Get recent swaps made by a wallet, cursor-paginated",
		mcpsdk.ObjectSchema("Wallet trade query parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Wallet address"),
			"limit":  limitParam(),
			"cursor": cursorParam(),
		}, []string{"chain", "wallet"}),
	), ds.handleGetWalletTrades)
}

type tokenTradesQuery struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Limit   *int   `json:"limit"`
	Cursor  string `json:"cursor"`
}

func (ds *DexServer) handleGetTokenTrades(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q tokenTradesQuery
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
	limit, err := validation.Limit(q.Limit)
	if err != nil {
		return failure(errInvalidLimit, err)
	}
	cursor, err := validation.Cursor(q.Cursor)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	page, err := ds.client.GetTokenTrades(ctx, chain.ID, q.Address, limit, cursor)
	if err != nil {
		return failure("Failed to fetch token trades", err)
	}

	return success(map[string]interface{}{
		"chain":   chain.ID,
		"address": q.Address,
		"limit":   limit,
	}, page)
}

type walletTradesQuery struct {
	Chain  string `json:"chain"`
	Wallet string `json:"wallet"`
	Limit  *int   `json:"limit"`
	Cursor string `json:"cursor"`
}

func (ds *DexServer) handleGetWalletTrades(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q walletTradesQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.Wallet); err != nil {
		return failure(errInvalidAddress, err)
	}
	limit, err := validation.Limit(q.Limit)
	if err != nil {
		return failure(errInvalidLimit, err)
	}
	cursor, err := validation.Cursor(q.Cursor)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	page, err := ds.client.GetWalletTrades(ctx, chain.ID, q.Wallet, limit, cursor)
	if err != nil {
		return failure("Failed to fetch wallet trades", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"wallet": q.Wallet,
		"limit":  limit,
	}, page)
}
