package mcp

import (
	"time"
)

// Static error labels shared by tool and resource handlers. The label
// goes into the envelope's error field; detail rides in message.
const (
	errInvalidParams  = "Invalid parameters"
	errInvalidChain   = "Invalid chain"
	errInvalidAddress = "Invalid address"
	errInvalidLimit   = "Invalid limit"
	errRateLimited    = "Rate limit exceeded"
)

// success builds the resolved envelope: success flag, echoed inputs,
// data payload, RFC3339 UTC timestamp.
func success(inputs map[string]interface{}, data interface{}) map[string]interface{} {
	envelope := make(map[string]interface{}, len(inputs)+3)
	envelope["success"] = true
	for key, value := range inputs {
		envelope[key] = value
	}
	envelope["data"] = data
	envelope["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return envelope
}

// failure builds the rejected envelope. The label stays static per
// failure class; err carries the human-readable detail.
func failure(label string, err error) map[string]interface{} {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return map[string]interface{}{
		"success":   false,
		"error":     label,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// failureWithURI is the resource variant; the requested URI is echoed
// so callers can correlate.
func failureWithURI(label, uri string, err error) map[string]interface{} {
	envelope := failure(label, err)
	envelope["uri"] = uri
	return envelope
}
