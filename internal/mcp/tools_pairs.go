package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerPairTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_new_pairs",
		"Get recently created trading pairs on a chain",
		mcpsdk.ObjectSchema("New pair query parameters", map[string]interface{}{
			"chain": chainParam(),
			"limit": limitParam(),
		}, []string{"chain"}),
	), ds.handleGetNewPairs)

	ds.addTool(mcpsdk.NewTool(
		"get_pair_info",
		"Get liquidity and volume details for a trading pair",
		mcpsdk.ObjectSchema("Pair lookup parameters", map[string]interface{}{
			"chain":        chainParam(),
			"pair_address": addressParam("Pair or pool contract address"),
		}, []string{"chain", "pair_address"}),
	), ds.handleGetPairInfo)
}

type newPairsQuery struct {
	Chain string `json:"chain"`
	Limit *int   `json:"limit"`
}

func (ds *DexServer) handleGetNewPairs(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q newPairsQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	limit, err := validation.Limit(q.Limit)
	if err != nil {
		return failure(errInvalidLimit, err)
	}

	pairs, err := ds.client.GetNewPairs(ctx, chain.ID, limit)
	if err != nil {
		return failure("Failed to fetch new pairs", err)
	}

	return success(map[string]interface{}{
		"chain": chain.ID,
		"limit": limit,
	}, pairs)
}

type pairQuery struct {
	Chain       string `json:"chain"`
	PairAddress string `json:"pair_address"`
}

func (ds *DexServer) handleGetPairInfo(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q pairQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.PairAddress); err != nil {
		return failure(errInvalidAddress, err)
	}

	pair, err := ds.client.GetPairInfo(ctx, chain.ID, q.PairAddress)
	if err != nil {
		return failure("Failed to fetch pair info", err)
	}

	return success(map[string]interface{}{
		"chain":        chain.ID,
		"pair_address": q.PairAddress,
	}, pair)
}
