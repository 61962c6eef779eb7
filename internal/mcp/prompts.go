package mcp

import (
	"context"
	"fmt"
	"strings"

	"dex-mcp-server/internal/chains"

	mcpsdk "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

func (ds *DexServer) registerPrompts() {
	ds.addPrompt(mcpsdk.NewPrompt(
		"token_research",
		"Research a token end to end: fundamentals, security, price action, and trade flow",
		[]protocol.PromptArgument{
			mcpsdk.NewPromptArgument("chain", "Blockchain network identifier", true),
			mcpsdk.NewPromptArgument("address", "Token contract address", true),
		},
	), ds.promptTokenResearch)

	ds.addPrompt(mcpsdk.NewPrompt(
		"wallet_analysis",
		"Analyze a wallet's balances, holdings, trade history, and performance profile",
		[]protocol.PromptArgument{
			mcpsdk.NewPromptArgument("chain", "Blockchain network identifier", true),
			mcpsdk.NewPromptArgument("wallet", "Wallet address", true),
		},
	), ds.promptWalletAnalysis)

	ds.addPrompt(mcpsdk.NewPrompt(
		"swap_guide",
		"Walk through quoting and submitting a token swap safely",
		[]protocol.PromptArgument{
			mcpsdk.NewPromptArgument("chain", "Blockchain network identifier", true),
			mcpsdk.NewPromptArgument("token_in", "Input token contract address", false),
			mcpsdk.NewPromptArgument("token_out", "Output token contract address", false),
		},
	), ds.promptSwapGuide)

	ds.addPrompt(mcpsdk.NewPrompt(
		"red_packet_guide",
		"Walk through creating and sharing a token red packet",
		[]protocol.PromptArgument{
			mcpsdk.NewPromptArgument("chain", "Blockchain network identifier", true),
		},
	), ds.promptRedPacketGuide)
}

// addPrompt registers a prompt behind the shared instrumentation
// wrapper; prompt text rides in the envelope's data field
func (ds *DexServer) addPrompt(prompt protocol.Prompt, build func(args map[string]interface{}) (string, error)) {
	ds.mcpServer.AddPrompt(prompt, mcpsdk.PromptHandlerFunc(func(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
		envelope := ds.invoke(ctx, "prompt", prompt.Name, args,
			func(_ context.Context, args map[string]interface{}) map[string]interface{} {
				text, err := build(args)
				if err != nil {
					return failure(errInvalidParams, err)
				}
				return success(echoArgs(args), text)
			})

		text, _ := envelope["data"].(string)
		if succeeded, _ := envelope["success"].(bool); !succeeded {
			message, _ := envelope["message"].(string)
			text = fmt.Sprintf("Cannot build %s prompt: %s", prompt.Name, message)
		}
		return []protocol.Content{{Type: "text", Text: text}}, nil
	}))
}

func echoArgs(args map[string]interface{}) map[string]interface{} {
	echoed := make(map[string]interface{}, len(args))
	for key, value := range args {
		echoed[key] = value
	}
	return echoed
}

func promptChain(args map[string]interface{}) (chains.Chain, error) {
	raw, _ := args["chain"].(string)
	return chains.Validate(raw)
}

func (ds *DexServer) promptTokenResearch(args map[string]interface{}) (string, error) {
	chain, err := promptChain(args)
	if err != nil {
		return "", err
	}
	address, _ := args["address"].(string)
	if err := chains.ValidateAddress(chain, address); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research the token %s on %s step by step:\n\n", address, chain.DisplayName)
	fmt.Fprintf(&b, "1. Call get_token_info with chain=%q address=%q for price, liquidity, volume, and holder count.\n", chain.ID, address)
	fmt.Fprintf(&b, "2. Call get_token_security with the same parameters and flag honeypot risk, mint authority, taxes, and holder concentration.\n")
	fmt.Fprintf(&b, "3. Call get_token_candles with interval=\"1h\" to describe recent price action.\n")
	fmt.Fprintf(&b, "4. Call get_token_trades to characterize recent buy/sell flow and large trades.\n\n")
	b.WriteString("Summarize findings as: fundamentals, risks, momentum. Cite numbers from the tool responses.")
	return b.String(), nil
}

func (ds *DexServer) promptWalletAnalysis(args map[string]interface{}) (string, error) {
	chain, err := promptChain(args)
	if err != nil {
		return "", err
	}
	wallet, _ := args["wallet"].(string)
	if err := chains.ValidateAddress(chain, wallet); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the wallet %s on %s:\n\n", wallet, chain.DisplayName)
	fmt.Fprintf(&b, "1. Call get_wallet_balances with chain=%q wallet=%q for the current portfolio snapshot.\n", chain.ID, wallet)
	fmt.Fprintf(&b, "2. Call get_wallet_holdings to break down positions with realized and unrealized PnL.\n")
	fmt.Fprintf(&b, "3. Call get_wallet_trades for recent activity and position changes.\n")
	fmt.Fprintf(&b, "4. Call get_wallet_profile for win rate, total PnL, and behavioral tags.\n\n")
	b.WriteString("Conclude with the wallet's strategy profile and notable positions.")
	return b.String(), nil
}

func (ds *DexServer) promptSwapGuide(args map[string]interface{}) (string, error) {
	chain, err := promptChain(args)
	if err != nil {
		return "", err
	}
	tokenIn, _ := args["token_in"].(string)
	tokenOut, _ := args["token_out"].(string)

	var b strings.Builder
	fmt.Fprintf(&b, "Guide the user through a swap on %s:\n\n", chain.DisplayName)
	fmt.Fprintf(&b, "1. Call get_token_security on the output token before anything else; stop if it looks like a honeypot.\n")
	fmt.Fprintf(&b, "2. Call get_swap_route with chain=%q", chain.ID)
	if tokenIn != "" {
		fmt.Fprintf(&b, " token_in=%q", tokenIn)
	}
	if tokenOut != "" {
		fmt.Fprintf(&b, " token_out=%q", tokenOut)
	}
	b.WriteString(" and review amount_out, min_received, and price_impact with the user.\n")
	b.WriteString("3. Warn if price impact exceeds 1% or the route expires soon.\n")
	b.WriteString("4. Only after the user signs the returned raw_tx, call submit_swap with the signed_tx payload.\n\n")
	b.WriteString("Never submit without an explicit user confirmation of the quote.")
	return b.String(), nil
}

func (ds *DexServer) promptRedPacketGuide(args map[string]interface{}) (string, error) {
	chain, err := promptChain(args)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Guide the user through creating a red packet on %s:\n\n", chain.DisplayName)
	fmt.Fprintf(&b, "1. Confirm the funding token, total_amount (decimal string in base units), and share count.\n")
	fmt.Fprintf(&b, "2. Call create_red_packet with chain=%q and those values; relay the claim_url from the response.\n", chain.ID)
	b.WriteString("3. Recipients claim with claim_red_packet using the packet_id and their wallet address.\n")
	b.WriteString("4. Track progress with get_red_packet_records for the creator's wallet.\n")
	return b.String(), nil
}
