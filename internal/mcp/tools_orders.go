package mcp

import (
	"context"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerOrderTools() {
	ds.addTool(mcpsdk.NewTool(
		"create_limit_order",
		"Create a resting limit order that executes at a target price",
		mcpsdk.ObjectSchema("Limit order parameters", map[string]interface{}{
			"chain":        chainParam(),
			"token_in":     addressParam("Input token contract address"),
			"token_out":    addressParam("Output token contract address"),
			"amount_in":    mcpsdk.StringParam("Input amount as a decimal string in base units", true),
			"target_price": mcpsdk.StringParam("Target execution price as a decimal string", true),
			"wallet":       addressParam("Order owner wallet address"),
		}, []string{"chain", "token_in", "token_out", "amount_in", "target_price", "wallet"}),
	), ds.handleCreateLimitOrder)

	ds.addTool(mcpsdk.NewTool(
		"cancel_limit_order",
		"Cancel a resting limit order by ID",
		mcpsdk.ObjectSchema("Order cancellation parameters", map[string]interface{}{
			"chain":    chainParam(),
			"order_id": mcpsdk.StringParam("Order identifier returned at creation", true),
		}, []string{"chain", "order_id"}),
	), ds.handleCancelLimitOrder)

	ds.addTool(mcpsdk.NewTool(
		"list_limit_orders",
		"List resting limit orders for a wallet, cursor-paginated",
		mcpsdk.ObjectSchema("Order listing parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Order owner wallet address"),
			"limit":  limitParam(),
			"cursor": cursorParam(),
		}, []string{"chain", "wallet"}),
	), ds.handleListLimitOrders)
}

type createOrderQuery struct {
	Chain       string `json:"chain"`
	TokenIn     string `json:"token_in"`
	TokenOut    string `json:"token_out"`
	AmountIn    string `json:"amount_in"`
	TargetPrice string `json:"target_price"`
	Wallet      string `json:"wallet"`
}

func (ds *DexServer) handleCreateLimitOrder(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q createOrderQuery
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
	if err := chains.ValidateAddress(chain, q.Wallet); err != nil {
		return failure(errInvalidAddress, err)
	}
	amountIn, err := validation.PositiveDecimal("amount_in", q.AmountIn)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	targetPrice, err := validation.PositiveDecimal("target_price", q.TargetPrice)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	order, err := ds.client.CreateLimitOrder(ctx, &dex.LimitOrderRequest{
		Chain:       chain.ID,
		TokenIn:     q.TokenIn,
		TokenOut:    q.TokenOut,
		AmountIn:    amountIn,
		TargetPrice: targetPrice,
		Wallet:      q.Wallet,
	})
	if err != nil {
		return failure("Failed to create limit order", err)
	}

	return success(map[string]interface{}{
		"chain":        chain.ID,
		"token_in":     q.TokenIn,
		"token_out":    q.TokenOut,
		"amount_in":    amountIn,
		"target_price": targetPrice,
		"wallet":       q.Wallet,
	}, order)
}

type cancelOrderQuery struct {
	Chain   string `json:"chain"`
	OrderID string `json:"order_id"`
}

func (ds *DexServer) handleCancelLimitOrder(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q cancelOrderQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	orderID, err := validation.RequiredString("order_id", q.OrderID)
	if err != nil {
		return failure(errInvalidParams, err)
	}

	order, err := ds.client.CancelLimitOrder(ctx, chain.ID, orderID)
	if err != nil {
		return failure("Failed to cancel limit order", err)
	}

	return success(map[string]interface{}{
		"chain":    chain.ID,
		"order_id": orderID,
	}, order)
}

type listOrdersQuery struct {
	Chain  string `json:"chain"`
	Wallet string `json:"wallet"`
	Limit  *int   `json:"limit"`
	Cursor string `json:"cursor"`
}

func (ds *DexServer) handleListLimitOrders(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q listOrdersQuery
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

	orders, err := ds.client.ListLimitOrders(ctx, chain.ID, q.Wallet, limit, cursor)
	if err != nil {
		return failure("Failed to list limit orders", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"wallet": q.Wallet,
		"limit":  limit,
	}, orders)
}
