// Package api is the REST sidecar next to the MCP surface: chain
// metadata, tool discovery, and the audit log for operators and
// dashboards.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dex-mcp-server/internal/audit"
	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/dex"
	"dex-mcp-server/internal/logging"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router serves the REST sidecar
type Router struct {
	client dex.Client
	store  *audit.Store
	list   func(r *http.Request, method string) *protocol.JSONRPCResponse
	logger logging.Logger
}

// NewRouter builds the sidecar. store may be nil when auditing is
// disabled; dispatch forwards MCP list methods.
func NewRouter(client dex.Client, store *audit.Store, dispatch func(r *http.Request, method string) *protocol.JSONRPCResponse, logger logging.Logger) *Router {
	return &Router{
		client: client,
		store:  store,
		list:   dispatch,
		logger: logger.WithComponent("api"),
	}
}

// Handler returns the chi handler tree
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/chains", rt.handleChains)
		r.Get("/chains/{chain}", rt.handleChain)
		r.Get("/tools", rt.handleList("tools/list"))
		r.Get("/resources", rt.handleList("resources/list"))
		r.Get("/prompts", rt.handleList("prompts/list"))
		r.Get("/audit", rt.handleAudit)
		r.Get("/health", rt.handleHealth)
	})

	return r
}

func (rt *Router) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rt.logger.Warn("failed to encode response", "error", err.Error())
	}
}

func (rt *Router) writeError(w http.ResponseWriter, status int, message string) {
	rt.writeJSON(w, status, map[string]string{"error": message})
}

func (rt *Router) handleChains(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, http.StatusOK, chains.All())
}

func (rt *Router) handleChain(w http.ResponseWriter, r *http.Request) {
	chain, err := chains.Validate(chi.URLParam(r, "chain"))
	if err != nil {
		rt.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	rt.writeJSON(w, http.StatusOK, chain)
}

// handleList proxies MCP list methods so dashboards see exactly what
// MCP clients see
func (rt *Router) handleList(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := rt.list(r, method)
		if resp.Error != nil {
			rt.writeError(w, http.StatusInternalServerError, resp.Error.Message)
			return
		}
		rt.writeJSON(w, http.StatusOK, resp.Result)
	}
}

func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	if rt.store == nil {
		rt.writeError(w, http.StatusNotFound, "audit log is disabled")
		return
	}

	query := &audit.Query{
		Kind:  r.URL.Query().Get("kind"),
		Name:  r.URL.Query().Get("name"),
		Chain: r.URL.Query().Get("chain"),
	}
	if raw := r.URL.Query().Get("success"); raw != "" {
		success, err := strconv.ParseBool(raw)
		if err != nil {
			rt.writeError(w, http.StatusBadRequest, "success must be true or false")
			return
		}
		query.Success = &success
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			rt.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		query.Limit = limit
	}

	records, err := rt.store.List(r.Context(), query)
	if err != nil {
		rt.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*audit.Record{}
	}
	rt.writeJSON(w, http.StatusOK, records)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	upstream := "ok"
	status := http.StatusOK
	if err := rt.client.Ping(r.Context()); err != nil {
		upstream = err.Error()
		status = http.StatusServiceUnavailable
	}
	rt.writeJSON(w, status, map[string]interface{}{
		"status":    "ok",
		"upstream":  upstream,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
