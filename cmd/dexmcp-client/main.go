// dexmcp-client is a small probe for a running DEX MCP server in HTTP
// mode: it sends one JSON-RPC request to /mcp and pretty-prints the
// response.
//
// Examples:
//
//	dexmcp-client -method tools/list
//	dexmcp-client -tool get_token_info -params '{"chain":"sol","address":"..."}' -token $DEX_API_KEY
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:9090", "Server base URL")
		token   = flag.String("token", os.Getenv("DEX_API_KEY"), "Bearer token")
		method  = flag.String("method", "", "JSON-RPC method (e.g. tools/list, resources/list)")
		tool    = flag.String("tool", "", "Tool name to call (shorthand for tools/call)")
		uri     = flag.String("uri", "", "Resource URI to read (shorthand for resources/read)")
		rawArgs = flag.String("params", "{}", "Tool arguments as a JSON object")
	)
	flag.Parse()

	req, err := buildRequest(*method, *tool, *uri, *rawArgs)
	if err != nil {
		log.Fatalf("Invalid request: %v", err)
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	okColor := color.New(color.FgGreen)
	errColor := color.New(color.FgRed, color.Bold)

	_, _ = titleColor.Printf("→ %s\n", req["method"])

	resp, err := send(*addr, *token, req)
	if err != nil {
		_, _ = errColor.Printf("✗ %v\n", err)
		os.Exit(1)
	}

	if rpcErr, ok := resp["error"]; ok && rpcErr != nil {
		pretty, _ := json.MarshalIndent(rpcErr, "", "  ")
		_, _ = errColor.Printf("✗ JSON-RPC error:\n%s\n", pretty)
		os.Exit(1)
	}

	pretty, err := json.MarshalIndent(resp["result"], "", "  ")
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}
	_, _ = okColor.Println("✓ result")
	fmt.Println(string(pretty))
}

func buildRequest(method, tool, uri, rawArgs string) (map[string]interface{}, error) {
	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
	}

	switch {
	case tool != "":
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return nil, fmt.Errorf("params must be a JSON object: %w", err)
		}
		req["method"] = "tools/call"
		req["params"] = map[string]interface{}{"name": tool, "arguments": args}
	case uri != "":
		req["method"] = "resources/read"
		req["params"] = map[string]interface{}{"uri": uri}
	case method != "":
		req["method"] = method
	default:
		return nil, fmt.Errorf("one of -method, -tool, or -uri is required")
	}

	return req, nil
}

func send(addr, token string, req map[string]interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, addr+"/mcp", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", httpResp.StatusCode, data)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return resp, nil
}
