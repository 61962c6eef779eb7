package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerSwapTools() {
	ds.addTool(mcpsdk.NewTool(
		"get_swap_route",
		"Quote a swap route with price impact, gas estimate, and an unsigned transaction",
		mcpsdk.ObjectSchema("Swap route parameters", map[string]interface{}{
			"chain":        chainParam(),
			"token_in":     addressParam("Input token contract address"),
			"token_out":    addressParam("Output token contract address"),
			"amount_in":    mcpsdk.StringParam("Input amount as a decimal string in base units", true),
			"from_address": addressParam("Wallet that will sign and send the swap"),
			"slippage":     mcpsdk.NumberParam("Max slippage fraction, 0-0.5 (default 0.01)", false),
		}, []string{"chain", "token_in", "token_out", "amount_in", "from_address"}),
	), ds.handleGetSwapRoute)

	ds.addTool(mcpsdk.NewTool(
		"submit_swap",
		"Broadcast a signed swap transaction",
		mcpsdk.ObjectSchema("Swap submission parameters", map[string]interface{}{
			"chain":     chainParam(),
			"signed_tx": mcpsdk.StringParam("Signed transaction payload", true),
		}, []string{"chain", "signed_tx"}),
	), ds.handleSubmitSwap)
}

type swapRouteQuery struct {
	Chain       string  `json:"chain"`
	TokenIn     string  `json:"token_in"`
	TokenOut    string  `json:"token_out"`
	AmountIn    string  `json:"amount_in"`
	FromAddress string  `json:"from_address"`
	Slippage    float64 `json:"slippage"`
}

func (ds *DexServer) handleGetSwapRoute(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q swapRouteQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.TokenIn); err != nil {
		return failure(errInvalidAddress, err)
	}
	if err := chains.ValidateAddress(chain, q.TokenOut); err != nil {
		return failure(errInvalidAddress, err)
	}
	if err := chains.ValidateAddress(chain, q.FromAddress); err != nil {
		return failure(errInvalidAddress, err)
	}
	amountIn, err := validation.PositiveDecimal("amount_in", q.AmountIn)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	slippage, err := validation.Slippage(q.Slippage)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	route, err := ds.client.GetSwapRoute(ctx, &dex.SwapRouteRequest{
		Chain:       chain.ID,
		TokenIn:     q.TokenIn,
		TokenOut:    q.TokenOut,
		AmountIn:    amountIn,
		FromAddress: q.FromAddress,
		Slippage:    slippage,
	})
	if err != nil {
		return failure("Failed to quote swap route", err)
	}

	return success(map[string]interface{}{
		"chain":     chain.ID,
		"token_in":  q.TokenIn,
		"token_out": q.TokenOut,
		"amount_in": amountIn,
		"slippage":  slippage,
	}, route)
}

type submitSwapQuery struct {
	Chain    string `json:"chain"`
	SignedTx string `json:"signed_tx"`
}

func (ds *DexServer) handleSubmitSwap(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q submitSwapQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	signedTx, err := validation.RequiredString("signed_tx", q.SignedTx)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	submission, err := ds.client.SubmitSwap(ctx, &dex.SubmitSwapRequest{
		Chain:    chain.ID,
		SignedTx: signedTx,
	})
	if err != nil {
		return failure("Failed to submit swap", err)
	}

	return success(map[string]interface{}{
		"chain": chain.ID,
	}, submission)
}
