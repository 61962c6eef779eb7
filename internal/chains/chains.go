// Package chains provides the supported-chain registry and validation
// used by every tool, resource, and prompt handler.
package chains

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Family groups chains that share an address format
type Family string

const (
	FamilyEVM    Family = "evm"
	FamilySolana Family = "solana"
	FamilyTron   Family = "tron"
)

// Chain describes one supported blockchain network
type Chain struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Family      Family `json:"family"`
	NativeToken string `json:"native_token"`
}

// registry is the fixed allow-list. Requests naming any other chain are
// rejected before the SDK is called.
var registry = map[string]Chain{
	"sol":       {ID: "sol", DisplayName: "Solana", Family: FamilySolana, NativeToken: "SOL"},
	"ethereum":  {ID: "ethereum", Family: FamilyEVM, NativeToken: "ETH"},
	"bsc":       {ID: "bsc", DisplayName: "BNB Smart Chain", Family: FamilyEVM, NativeToken: "BNB"},
	"base":      {ID: "base", Family: FamilyEVM, NativeToken: "ETH"},
	"arbitrum":  {ID: "arbitrum", Family: FamilyEVM, NativeToken: "ETH"},
	"polygon":   {ID: "polygon", Family: FamilyEVM, NativeToken: "POL"},
	"avalanche": {ID: "avalanche", Family: FamilyEVM, NativeToken: "AVAX"},
	"optimism":  {ID: "optimism", Family: FamilyEVM, NativeToken: "ETH"},
	"tron":      {ID: "tron", Family: FamilyTron, NativeToken: "TRX"},
	"blast":     {ID: "blast", Family: FamilyEVM, NativeToken: "ETH"},
}

// aliases maps common alternative spellings to registry IDs
var aliases = map[string]string{
	"solana": "sol",
	"eth":    "ethereum",
	"bnb":    "bsc",
	"arb":    "arbitrum",
	"matic":  "polygon",
	"avax":   "avalanche",
	"op":     "optimism",
	"trx":    "tron",
}

var (
	evmAddressPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	base58Pattern      = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]+$`)
	tronAddressPattern = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
)

var titleCaser = cases.Title(language.English)

func init() {
	for id, chain := range registry {
		if chain.DisplayName == "" {
			chain.DisplayName = titleCaser.String(id)
			registry[id] = chain
		}
	}
}

// Normalize lowercases the chain identifier and resolves known aliases.
// It does not validate; use Validate for that.
func Normalize(chain string) string {
	chain = strings.ToLower(strings.TrimSpace(chain))
	if canonical, ok := aliases[chain]; ok {
		return canonical
	}
	return chain
}

// Validate checks a chain identifier against the allow-list and returns
// the canonical chain. The error message includes the full list so
// clients can self-correct.
func Validate(chain string) (Chain, error) {
	if chain == "" {
		return Chain{}, fmt.Errorf("chain is required, supported chains: %s", strings.Join(IDs(), ", "))
	}
	c, ok := registry[Normalize(chain)]
	if !ok {
		return Chain{}, fmt.Errorf("unsupported chain %q, supported chains: %s", chain, strings.Join(IDs(), ", "))
	}
	return c, nil
}

// IsSupported reports whether the chain (or a known alias) is in the allow-list
func IsSupported(chain string) bool {
	_, ok := registry[Normalize(chain)]
	return ok
}

// IDs returns the canonical chain identifiers in sorted order
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the chain descriptors in sorted ID order
func All() []Chain {
	all := make([]Chain, 0, len(registry))
	for _, id := range IDs() {
		all = append(all, registry[id])
	}
	return all
}

// ValidateAddress checks that an address matches the shape expected by
// the chain's family. It is a format check only; existence on chain is
// the SDK's concern.
func ValidateAddress(chain Chain, address string) error {
	if address == "" {
		return fmt.Errorf("address is required for chain %s", chain.ID)
	}

	switch chain.Family {
	case FamilyEVM:
		if !evmAddressPattern.MatchString(address) {
			return fmt.Errorf("invalid %s address %q: expected 0x-prefixed 40 hex characters", chain.ID, address)
		}
	case FamilySolana:
		if len(address) < 32 || len(address) > 44 || !base58Pattern.MatchString(address) {
			return fmt.Errorf("invalid %s address %q: expected base58 string of 32-44 characters", chain.ID, address)
		}
	case FamilyTron:
		if !tronAddressPattern.MatchString(address) {
			return fmt.Errorf("invalid %s address %q: expected T-prefixed base58 string of 34 characters", chain.ID, address)
		}
	default:
		return fmt.Errorf("unknown chain family %q", chain.Family)
	}

	return nil
}
