package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerWalletTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_wallet_balances",
		"Get native and token balances for a wallet",
		mcpsdk.ObjectSchema("Wallet balance parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Wallet address"),
		}, []string{"chain", "wallet"}),
	), ds.handleGetWalletBalances)

	ds.addTool(mcpsdk.NewTool(
		"get_wallet_holdings",
		"Get wallet positions with PnL attribution, cursor-paginated",
		mcpsdk.ObjectSchema("Wallet holdings parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Wallet address"),
			"limit":  limitParam(),
			"cursor": cursorParam(),
		}, []string{"chain", "wallet"}),
	), ds.handleGetWalletHoldings)
}

type walletQuery struct {
	Chain  string `json:"chain"`
	Wallet string `json:"wallet"`
}

// validateWalletQuery runs the chain and wallet checks shared by every
// wallet-addressed endpoint
func validateWalletQuery(params map[string]interface{}) (*walletQuery, map[string]interface{}) {
	var q walletQuery
	if err := decode(params, &q); err != nil {
		return nil, failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return nil, failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.Wallet); err != nil {
		return nil, failure(errInvalidAddress, err)
	}
	q.Chain = chain.ID
	return &q, nil
}

func (ds *DexServer) handleGetWalletBalances(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	q, errEnvelope := validateWalletQuery(params)
	if errEnvelope != nil {
		return errEnvelope
	}

	balances, err := ds.client.GetWalletBalances(ctx, q.Chain, q.Wallet)
	if err != nil {
		return failure("Failed to fetch wallet balances", err)
	}

	return success(map[string]interface{}{
		"chain":  q.Chain,
		"wallet": q.Wallet,
	}, balances)
}

type holdingsQuery struct {
	Chain  string `json:"chain"`
	Wallet string `json:"wallet"`
	Limit  *int   `json:"limit"`
	Cursor string `json:"cursor"`
}

func (ds *DexServer) handleGetWalletHoldings(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q holdingsQuery
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

	page, err := ds.client.GetWalletHoldings(ctx, chain.ID, q.Wallet, limit, cursor)
	if err != nil {
		return failure("Failed to fetch wallet holdings", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"wallet": q.Wallet,
		"limit":  limit,
	}, page)
}
