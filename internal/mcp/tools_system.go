package mcp

import (
	"context"
	"time"

	"dex-mcp-server/internal/chains"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

func (ds *DexServer) registerSystemTools() {
	ds.addTool(mcpsdk.NewTool(
		"list_supported_chains",
		"List the supported blockchain networks with display names and native tokens",
		mcpsdk.ObjectSchema("No parameters", map[string]interface{}{}, nil),
	), ds.handleListSupportedChains)

	ds.addTool(mcpsdk.NewTool(
		"health",
		"Report server health and upstream DEX API reachability",
		mcpsdk.ObjectSchema("No parameters", map[string]interface{}{}, nil),
	), ds.handleHealth)
}

func (ds *DexServer) handleListSupportedChains(_ context.Context, _ map[string]interface{}) map[string]interface{} {
	return success(nil, chains.All())
}

func (ds *DexServer) handleHealth(ctx context.Context, _ map[string]interface{}) map[string]interface{} {
	upstream := "ok"
	if err := ds.client.Ping(ctx); err != nil {
		upstream = err.Error()
	}

	return success(nil, map[string]interface{}{
		"status":         "ok",
		"upstream":       upstream,
		"uptime_seconds": int64(time.Since(ds.started).Seconds()),
		"version":        serverVersion,
	})
}
