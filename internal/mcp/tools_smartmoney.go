package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerSmartMoneyTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_smart_money_ranking",
		"Get the top-performing wallet leaderboard for a chain",
		mcpsdk.ObjectSchema("Smart money ranking parameters", map[string]interface{}{
			"chain":  chainParam(),
			"window": enumParam("Aggregation window", validation.TimeWindows, "24h"),
			"limit":  limitParam(),
		}, []string{"chain"}),
	), ds.handleGetSmartMoneyRanking)

	ds.addTool(mcpsdk.NewTool(
		"get_wallet_profile",
		"Get aggregate trading stats and tags for a wallet",
		mcpsdk.ObjectSchema("Wallet profile parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Wallet address"),
		}, []string{"chain", "wallet"}),
	), ds.handleGetWalletProfile)
}

type smartMoneyQuery struct {
	Chain  string `json:"chain"`
	Window string `json:"window"`
	Limit  *int   `json:"limit"`
}

func (ds *DexServer) handleGetSmartMoneyRanking(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q smartMoneyQuery
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

	entries, err := ds.client.GetSmartMoneyRanking(ctx, chain.ID, window, limit)
	if err != nil {
		return failure("Failed to fetch smart money ranking", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"window": window,
		"limit":  limit,
	}, entries)
}

func (ds *DexServer) handleGetWalletProfile(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	q, errEnvelope := validateWalletQuery(params)
	if errEnvelope != nil {
		return errEnvelope
	}

	profile, err := ds.client.GetWalletProfile(ctx, q.Chain, q.Wallet)
	if err != nil {
		return failure("Failed to fetch wallet profile", err)
	}

	return success(map[string]interface{}{
		"chain":  q.Chain,
		"wallet": q.Wallet,
	}, profile)
}
