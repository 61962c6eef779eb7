package mcp

import (
	"context"
	"fmt"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

const maxRedPacketCount = 1000

func (ds *DexServer) registerRedPacketTools() {
	ds.addTool(mcpsdk.NewTool(
		"create_red_packet",
		"Create a token red packet claimable by multiple recipients",
		mcpsdk.ObjectSchema("Red packet creation parameters", map[string]interface{}{
			"chain":        chainParam(),
			"token":        addressParam("Token contract address to fund the packet with"),
			"total_amount": mcpsdk.StringParam("Total amount as a decimal string in base units", true),
			"count": map[string]interface{}{
				"type":        "integer",
				"description": fmt.Sprintf("Number of claimable shares (1-%d)", maxRedPacketCount),
				"minimum":     1,
				"maximum":     maxRedPacketCount,
			},
			"message": mcpsdk.StringParam("Optional greeting shown to claimers", false),
		}, []string{"chain", "token", "total_amount", "count"}),
	), ds.handleCreateRedPacket)

	ds.addTool(mcpsdk.NewTool(
		"claim_red_packet",
		"Claim a share of a red packet",
		mcpsdk.ObjectSchema("Red packet claim parameters", map[string]interface{}{
			"chain":     chainParam(),
			"packet_id": mcpsdk.StringParam("Red packet identifier", true),
			"wallet":    addressParam("Claiming wallet address"),
		}, []string{"chain", "packet_id", "wallet"}),
	), ds.handleClaimRedPacket)

	ds.addTool(mcpsdk.NewTool(
		"get_red_packet_records",
		"List red packets created or claimed by a wallet",
		mcpsdk.ObjectSchema("Red packet history parameters", map[string]interface{}{
			"chain":  chainParam(),
			"wallet": addressParam("Wallet address"),
			"limit":  limitParam(),
		}, []string{"chain", "wallet"}),
	), ds.handleGetRedPacketRecords)
}

type createRedPacketQuery struct {
	Chain       string `json:"chain"`
	Token       string `json:"token"`
	TotalAmount string `json:"total_amount"`
	Count       int    `json:"count"`
	Message     string `json:"message"`
}

func (ds *DexServer) handleCreateRedPacket(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q createRedPacketQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	if err := chains.ValidateAddress(chain, q.Token); err != nil {
		return failure(errInvalidAddress, err)
	}
	totalAmount, err := validation.PositiveDecimal("total_amount", q.TotalAmount)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	if q.Count < 1 || q.Count > maxRedPacketCount {
		return failure(errInvalidParams, fmt.Errorf("count must be between 1 and %d, got %d", maxRedPacketCount, q.Count))
	}

	packet, err := ds.client.CreateRedPacket(ctx, &dex.RedPacketRequest{
		Chain:       chain.ID,
		Token:       q.Token,
		TotalAmount: totalAmount,
		Count:       q.Count,
		Message:     q.Message,
	})
	if err != nil {
		return failure("Failed to create red packet", err)
	}

	return success(map[string]interface{}{
		"chain":        chain.ID,
		"token":        q.Token,
		"total_amount": totalAmount,
		"count":        q.Count,
	}, packet)
}

type claimRedPacketQuery struct {
	Chain    string `json:"chain"`
	PacketID string `json:"packet_id"`
	Wallet   string `json:"wallet"`
}

func (ds *DexServer) handleClaimRedPacket(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q claimRedPacketQuery
	if err := decode(params, &q); err != nil {
		return failure(errInvalidParams, err)
	}
	chain, err := chains.Validate(q.Chain)
	if err != nil {
		return failure(errInvalidChain, err)
	}
	packetID, err := validation.RequiredString("packet_id", q.PacketID)
	if err != nil {
		return failure(errInvalidParams, err)
	}
	if err := chains.ValidateAddress(chain, q.Wallet); err != nil {
		return failure(errInvalidAddress, err)
	}

	claim, err := ds.client.ClaimRedPacket(ctx, chain.ID, packetID, q.Wallet)
	if err != nil {
		return failure("Failed to claim red packet", err)
	}

	return success(map[string]interface{}{
		"chain":     chain.ID,
		"packet_id": packetID,
		"wallet":    q.Wallet,
	}, claim)
}

type redPacketRecordsQuery struct {
	Chain  string `json:"chain"`
	Wallet string `json:"wallet"`
	Limit  *int   `json:"limit"`
}

func (ds *DexServer) handleGetRedPacketRecords(ctx context.Context, params map[string]interface{}) map[string]interface{} {
	var q redPacketRecordsQuery
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

	records, err := ds.client.GetRedPacketRecords(ctx, chain.ID, q.Wallet, limit)
	if err != nil {
		return failure("Failed to fetch red packet records", err)
	}

	return success(map[string]interface{}{
		"chain":  chain.ID,
		"wallet": q.Wallet,
		"limit":  limit,
	}, records)
}
