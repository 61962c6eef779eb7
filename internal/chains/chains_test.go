package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		chain   string
		wantID  string
		wantErr bool
	}{
		{name: "canonical solana", chain: "sol", wantID: "sol"},
		{name: "canonical ethereum", chain: "ethereum", wantID: "ethereum"},
		{name: "alias eth", chain: "eth", wantID: "ethereum"},
		{name: "alias solana", chain: "solana", wantID: "sol"},
		{name: "uppercase accepted", chain: "BSC", wantID: "bsc"},
		{name: "whitespace trimmed", chain: " base ", wantID: "base"},
		{name: "empty rejected", chain: "", wantErr: true},
		{name: "unlisted rejected", chain: "dogechain", wantErr: true},
		{name: "near miss rejected", chain: "etherium", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Validate(tt.chain)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "supported chains")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestIDsStableAndComplete(t *testing.T) {
	ids := IDs()
	assert.Len(t, ids, 10)
	assert.Equal(t, ids, IDs(), "IDs must be deterministic")
	assert.Contains(t, ids, "sol")
	assert.Contains(t, ids, "tron")
}

func TestDisplayNames(t *testing.T) {
	eth, err := Validate("ethereum")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", eth.DisplayName)

	bsc, err := Validate("bsc")
	require.NoError(t, err)
	assert.Equal(t, "BNB Smart Chain", bsc.DisplayName)
}

func TestValidateAddress(t *testing.T) {
	eth := registry["ethereum"]
	sol := registry["sol"]
	tron := registry["tron"]

	tests := []struct {
		name    string
		chain   Chain
		address string
		wantErr bool
	}{
		{name: "valid evm", chain: eth, address: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"},
		{name: "evm missing prefix", chain: eth, address: "7a250d5630B4cF539739dF2C5dAcb4c659F2488D", wantErr: true},
		{name: "evm too short", chain: eth, address: "0x7a250d", wantErr: true},
		{name: "evm non-hex", chain: eth, address: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488Z", wantErr: true},
		{name: "valid solana", chain: sol, address: "So11111111111111111111111111111111111111112"},
		{name: "solana too short", chain: sol, address: "So111", wantErr: true},
		{name: "solana invalid base58", chain: sol, address: "0OIl111111111111111111111111111111111111111", wantErr: true},
		{name: "valid tron", chain: tron, address: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"},
		{name: "tron wrong prefix", chain: tron, address: "XR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", wantErr: true},
		{name: "empty address", chain: eth, address: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.chain, tt.address)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
