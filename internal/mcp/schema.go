package mcp

import (
	"fmt"
	"strings"

	"dex-mcp-server/internal/chains"
	"dex-mcp-server/internal/validation"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
)

// Shared schema fragments for the parameters every endpoint family
// repeats.

func chainParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Blockchain network identifier",
		"enum":        chains.IDs(),
	}
}

func limitParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("Maximum number of results (1-%d, default %d)", validation.MaxLimit, validation.DefaultLimit),
		"minimum":     1,
		"maximum":     validation.MaxLimit,
		"default":     validation.DefaultLimit,
	}
}

func enumParam(description string, allowed []string, defaultValue string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": fmt.Sprintf("%s (one of: %s)", description, strings.Join(allowed, ", ")),
		"enum":        allowed,
		"default":     defaultValue,
	}
}

func addressParam(description string) map[string]interface{} {
	return mcpsdk.StringParam(description, true)
}

func cursorParam() map[string]interface{} {
	return mcpsdk.StringParam("Opaque pagination cursor from a previous response", false)
}
