package mcp

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decode maps raw JSON-RPC params onto a typed request struct. Weak
// typing is on because JSON numbers arrive as float64 and clients are
// loose about quoting.
func decode(params map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
