// server is the DEX MCP Server binary: it exposes the DEX API as MCP
// tools, resources, and prompts over stdio or HTTP, with a REST
// sidecar, SSE heartbeat stream, and WebSocket activity feed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dex-mcp-server/internal/api"
	"dex-mcp-server/internal/audit"
	"dex-mcp-server/internal/auth"
	"dex-mcp-server/internal/config"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/logging"
	"dex-mcp-server/internal/mcp"
	"dex-mcp-server/internal/ratelimit"
	dexwebsocket "dex-mcp-server/internal/websocket"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/redis/go-redis/v9"
)

const methodOptions = "OPTIONS"

func main() {
	var (
		mode = flag.String("mode", "stdio", "Server mode: stdio or http")
		addr = flag.String("addr", "", "HTTP listen address (overrides config when mode=http)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	defer app.close()

	switch *mode {
	case "stdio":
		if err := app.dexServer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("MCP server failed", "error", err.Error())
		}

	case "http":
		listen := *addr
		if listen == "" {
			listen = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		}
		if err := runHTTPServer(ctx, cfg, app, listen); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("HTTP server failed", "error", err.Error())
		}

	default:
		log.Fatalf("Invalid mode: %s. Use 'stdio' or 'http'", *mode)
	}
}

// application holds the wired components and owns their shutdown
type application struct {
	cfg       *config.Config
	logger    logging.Logger
	dexServer *mcp.DexServer
	client    dex.Client
	store     *audit.Store
	hub       *dexwebsocket.Hub
	limiter   ratelimit.Limiter
	redis     *redis.Client
}

func buildApplication(ctx context.Context, cfg *config.Config, logger logging.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: logger}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		app.redis = rdb
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
	}

	app.client = dex.NewHTTPClient(&cfg.DexAPI)
	if cfg.Cache.Enabled && rdb != nil {
		app.client = dex.NewCachedClient(app.client, rdb,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)
	}

	var opts []mcp.Option

	if cfg.RateLimit.Enabled {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if rdb != nil {
			limiter, err := ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, window)
			if err != nil {
				return nil, fmt.Errorf("failed to create rate limiter: %w", err)
			}
			app.limiter = limiter
		} else {
			app.limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, window)
		}
		opts = append(opts, mcp.WithLimiter(app.limiter))
	}

	if cfg.Audit.Enabled {
		auditCfg := audit.DefaultConfig()
		auditCfg.DatabasePath = cfg.Audit.DatabasePath
		store, err := audit.NewStore(auditCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit store: %w", err)
		}
		app.store = store
		opts = append(opts, mcp.WithRecorder(store))
	}

	app.hub = dexwebsocket.NewHub(logger)
	go app.hub.Run(ctx)
	opts = append(opts, mcp.WithHub(app.hub))

	dexServer, err := mcp.NewDexServer(cfg, app.client, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	app.dexServer = dexServer

	return app, nil
}

func (app *application) close() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Warn("error closing audit store", "error", err.Error())
		}
	}
	if app.limiter != nil {
		_ = app.limiter.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("error closing redis", "error", err.Error())
		}
	}
}

func runHTTPServer(ctx context.Context, cfg *config.Config, app *application, addr string) error {
	mux := http.NewServeMux()

	requireToken := auth.Middleware(cfg.Auth.RequireToken)

	mux.Handle("/mcp", requireToken(http.HandlerFunc(app.handleMCP)))
	mux.Handle("/sse", requireToken(http.HandlerFunc(app.handleSSE)))
	mux.Handle("/ws", app.hub)
	mux.HandleFunc("/health", app.handleHealth)
	mux.Handle("/api/v1/", api.NewRouter(app.client, app.store, app.dispatchList, app.logger).Handler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		app.logger.Info("HTTP server listening", "addr", addr,
			"mcp", "/mcp", "sse", "/sse", "ws", "/ws", "api", "/api/v1", "health", "/health")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server error", "error", err.Error())
		}
	}()

	<-ctx.Done()

	// Fresh context: the parent is already canceled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// handleMCP serves MCP-over-HTTP: one JSON-RPC request per POST
func (app *application) handleMCP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, "+methodOptions)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == methodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req protocol.JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	resp := app.dexServer.HandleRequest(r.Context(), &req)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		app.logger.Warn("error encoding response", "error", err.Error())
	}
}

// handleSSE serves JSON-RPC over POST and a heartbeat stream over GET
func (app *application) handleSSE(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case methodOptions:
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, "+methodOptions)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Cache-Control, Authorization")
		w.WriteHeader(http.StatusOK)

	case http.MethodPost:
		app.handleMCP(w, r)

	case http.MethodGet:
		app.handleSSEStream(w, r)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (app *application) handleSSEStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: {\"type\":\"connected\",\"server\":\"dex-mcp-server\",\"protocols\":[\"json-rpc\",\"sse\"]}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = fmt.Fprintf(w, "data: {\"type\":\"heartbeat\",\"timestamp\":%q}\n\n", time.Now().UTC().Format(time.RFC3339))
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]interface{}{
		"status":    "healthy",
		"server":    "dex-mcp-server",
		"observers": app.hub.ClientCount(),
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		app.logger.Warn("error encoding health response", "error", err.Error())
	}
}

// dispatchList forwards an MCP list method for the REST sidecar
func (app *application) dispatchList(r *http.Request, method string) *protocol.JSONRPCResponse {
	return app.dexServer.HandleRequest(r.Context(), &protocol.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
	})
}
