// Package mcp wires the DEX SDK into the Model Context Protocol:
// tools, resources, and prompts, each following the same shape of
// parameter extraction, validation, SDK call, response envelope.
package mcp

import (
	"context"
	"fmt"
	"time"

	"dex-mcp-server/internal/audit"
	"dex-mcp-server/internal/auth"
	"dex-mcp-server/internal/config"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/logging"
	"dex-mcp-server/internal/ratelimit"
	"dex-mcp-server/internal/websocket"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/fredcamaral/gomcp-sdk/server"
	"github.com/fredcamaral/gomcp-sdk/transport"
)

const (
	serverName    = "dex-mcp-server"
	serverVersion = "1.0.0"
)

// DexServer exposes the DEX client over MCP
type DexServer struct {
	cfg       *config.Config
	client    dex.Client
	logger    logging.Logger
	recorder  audit.Recorder
	hub       *websocket.Hub
	limiter   ratelimit.Limiter
	mcpServer *server.Server
	started   time.Time
}

// Option customizes optional collaborators
type Option func(*DexServer)

// WithRecorder attaches an audit recorder
func WithRecorder(recorder audit.Recorder) Option {
	return func(ds *DexServer) { ds.recorder = recorder }
}

// WithHub attaches an activity broadcast hub
func WithHub(hub *websocket.Hub) Option {
	return func(ds *DexServer) { ds.hub = hub }
}

// WithLimiter attaches a per-caller rate limiter
func WithLimiter(limiter ratelimit.Limiter) Option {
	return func(ds *DexServer) { ds.limiter = limiter }
}

// NewDexServer builds the MCP server and registers all tools,
// resources, and prompts
func NewDexServer(cfg *config.Config, client dex.Client, logger logging.Logger, opts ...Option) (*DexServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if client == nil {
		return nil, fmt.Errorf("dex client is required")
	}

	ds := &DexServer{
		cfg:      cfg,
		client:   client,
		logger:   logger.WithComponent("mcp-server"),
		recorder: audit.NopRecorder{},
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(ds)
	}

	ds.mcpServer = mcpsdk.NewServer(serverName, serverVersion)

	ds.registerTokenTools()
	ds.registerMarketTools()
	ds.registerPairTools()
	ds.registerTradeTools()
	ds.registerWalletTools()
	ds.registerSwapTools()
	ds.registerOrderTools()
	ds.registerRedPacketTools()
	ds.registerSmartMoneyTools()
	ds.registerSystemTools()
	ds.registerResources()
	ds.registerPrompts()

	return ds, nil
}

// GetMCPServer exposes the underlying server for HTTP dispatch
func (ds *DexServer) GetMCPServer() *server.Server {
	return ds.mcpServer
}

// Start serves MCP over stdio until the context is canceled
func (ds *DexServer) Start(ctx context.Context) error {
	ds.mcpServer.SetTransport(transport.NewStdioTransport())
	ds.logger.Info("starting MCP server on stdio", "name", serverName, "version", serverVersion)
	return ds.mcpServer.Start(ctx)
}

// HandleRequest dispatches one JSON-RPC request. The HTTP surface uses
// this directly.
func (ds *DexServer) HandleRequest(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	return ds.mcpServer.HandleRequest(ctx, req)
}

// toolHandler is the internal handler shape: params in, envelope out.
// Domain failures come back as envelopes, never as Go errors.
type toolHandler func(ctx context.Context, params map[string]interface{}) map[string]interface{}

// addTool registers a tool behind the shared instrumentation wrapper
func (ds *DexServer) addTool(tool protocol.Tool, handler toolHandler) {
	ds.mcpServer.AddTool(tool, mcpsdk.ToolHandlerFunc(func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return ds.invoke(ctx, "tool", tool.Name, params, handler), nil
	}))
}

// invoke runs one handler with tracing, rate limiting, auditing, and
// activity broadcast around it
func (ds *DexServer) invoke(ctx context.Context, kind, name string, params map[string]interface{}, handler toolHandler) map[string]interface{} {
	start := time.Now()

	traceID := logging.GetTraceID(ctx)
	if traceID == "" {
		traceID = logging.GenerateTraceID()
		ctx = logging.WithTraceID(ctx, traceID)
	}

	tokenFP := ""
	if token, ok := auth.TokenFromContext(ctx); ok {
		tokenFP = auth.Fingerprint(token)
	}

	var envelope map[string]interface{}
	if ds.limiter != nil {
		key := tokenFP
		if key == "" {
			key = "anonymous"
		}
		result, err := ds.limiter.Allow(ctx, key)
		switch {
		case err != nil:
			// A broken limiter must not take the API down
			ds.logger.WarnContext(ctx, "rate limit check failed, allowing request", "error", err.Error())
		case !result.Allowed:
			envelope = failure(errRateLimited, fmt.Errorf("retry after %s", result.RetryAfter.Round(time.Second)))
		}
	}

	if envelope == nil {
		envelope = handler(ctx, params)
	}

	succeeded, _ := envelope["success"].(bool)
	errorLabel, _ := envelope["error"].(string)
	chain := chainOf(params, envelope)
	duration := time.Since(start)

	ds.recorder.Record(&audit.Record{
		Kind:       kind,
		Name:       name,
		Chain:      chain,
		TokenFP:    tokenFP,
		Success:    succeeded,
		ErrorCode:  errorLabel,
		DurationMs: duration.Milliseconds(),
		TraceID:    traceID,
	})

	if ds.hub != nil {
		ds.hub.Broadcast(websocket.ActivityEvent{
			Type:       kind,
			Name:       name,
			Chain:      chain,
			Success:    succeeded,
			ErrorCode:  errorLabel,
			DurationMs: duration.Milliseconds(),
		})
	}

	if succeeded {
		ds.logger.InfoContext(ctx, "handled "+kind, "name", name, "chain", chain, "duration_ms", duration.Milliseconds())
	} else {
		ds.logger.WarnContext(ctx, kind+" failed", "name", name, "chain", chain, "error", errorLabel, "duration_ms", duration.Milliseconds())
	}

	return envelope
}

// chainOf pulls the chain for observability. The validated echo in the
// envelope wins over the raw parameter.
func chainOf(params, envelope map[string]interface{}) string {
	if chain, ok := envelope["chain"].(string); ok {
		return chain
	}
	if chain, ok := params["chain"].(string); ok {
		return chain
	}
	return ""
}
