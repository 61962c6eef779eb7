package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

type tokenQuery struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

func (ds *DexServer) registerTokenTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_token_info",
		"Get price, liquidity, volume, and holder data for a token",
		mcpsdk.ObjectSchema("Token lookup parameters", map[string]interface{}{
			"chain":   chainParam(),
			"address": addressParam("Token contract address"),
		}, []string{"chain", "address"}),
	), ds.handleGetTokenInfo)

	ds.addTool(mcpsdk.NewTool(
		"get_token_security",
		"Get contract-level risk flags for a token (honeypot, taxes, ownership)",
		mcpsdk.ObjectSchema("Token security parameters", map[string]interface{}{
			"chain":   chainParam(),
			"address": addressParam("Token contract address"),
		}, []string{"chain", "address"}),
	), ds.handleGetTokenSecurity)
}

// validateTokenQuery runs the chain and address checks shared by every
// token-addressed endpoint
func validateTokenQuery(params map[string]interface{}) (*tokenQuery, map[string]interface{}) {
	var q tokenQuery
	if err := decode(params, &q); err != nil {
		return nil, failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return nil, failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.Address); err != nil {
		return nil, failure(errInvalidAddress, err)
	}
	q.Chain = chain.ID
	return &q, nil
}

func (ds *DexServer) handleGetTokenInfo(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	q, errEnvelope := validateTokenQuery(params)
	if errEnvelope != nil {
		return errEnvelope
	}

	info, err := ds.client.GetTokenInfo(ctx, q.Chain, q.Address)
	if err != nil {
		return failure("Failed to fetch token info", err)
	}

	return success(map[string]interface{}{
		"chain":   q.Chain,
		"address": q.Address,
	}, info)
}

func (ds *DexServer) handleGetTokenSecurity(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	q, errEnvelope := validateTokenQuery(params)
	if errEnvelope != nil {
		return errEnvelope
	}

	security, err := ds.client.GetTokenSecurity(ctx, q.Chain, q.Address)
	if err != nil {
		return failure("Failed to fetch token security", err)
	}

	return success(map[string]interface{}{
		"chain":   q.Chain,
		"address": q.Address,
	}, security)
}
