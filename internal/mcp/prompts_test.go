package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenResearchPrompt(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	text, err := ds.promptTokenResearch(map[string]interface{}{
		"chain":   "ethereum",
		"address": evmAddress,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "get_token_info")
	assert.Contains(t, text, "get_token_security")
	assert.Contains(t, text, "get_token_candles")
	assert.Contains(t, text, "get_token_trades")
	assert.Contains(t, text, evmAddress)
	assert.Contains(t, text, "Ethereum")
}

func TestTokenResearchPromptRejectsBadArgs(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	_, err := ds.promptTokenResearch(map[string]interface{}{
		"chain":   "dogechain",
		"address": evmAddress,
	})
	assert.Error(t, err)

	_, err = ds.promptTokenResearch(map[string]interface{}{
		"chain":   "ethereum",
		"address": "bogus",
	})
	assert.Error(t, err)
}

func TestWalletAnalysisPrompt(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	text, err := ds.promptWalletAnalysis(map[string]interface{}{
		"chain":  "sol",
		"wallet": solanaAddress,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "get_wallet_balances")
	assert.Contains(t, text, "get_wallet_holdings")
	assert.Contains(t, text, "get_wallet_trades")
	assert.Contains(t, text, "get_wallet_profile")
	assert.Contains(t, text, "Solana")
}

func TestSwapGuidePrompt(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	text, err := ds.promptSwapGuide(map[string]interface{}{
		"chain":     "base",
		"token_out": evmAddress,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "get_swap_route")
	assert.Contains(t, text, "submit_swap")
	assert.Contains(t, text, evmAddress)

	_, err = ds.promptSwapGuide(map[string]interface{}{"chain": "nope"})
	assert.Error(t, err)
}

func TestRedPacketGuidePrompt(t *testing.T) {
	ds := newTestServer(t, &fakeClient{})

	text, err := ds.promptRedPacketGuide(map[string]interface{}{"chain": "bsc"})
	require.NoError(t, err)
	assert.Contains(t, text, "create_red_packet")
	assert.Contains(t, text, "claim_red_packet")
	assert.Contains(t, text, "get_red_packet_records")
	assert.Contains(t, text, "BNB Smart Chain")
}
