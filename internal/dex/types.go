package dex

// Request and response shapes for the upstream DEX API. Amounts and
// prices ride as decimal strings end to end; the server never does
// arithmetic on them.

// TokenInfo describes one token on one chain
type TokenInfo struct {
	Chain        string  `json:"chain"`
	Address      string  `json:"address"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Decimals     int     `json:"decimals"`
	PriceUSD     string  `json:"price_usd"`
	MarketCap    string  `json:"market_cap"`
	LiquidityUSD string  `json:"liquidity_usd"`
	Volume24h    string  `json:"volume_24h"`
	Change24h    float64 `json:"change_24h"`
	HolderCount  int     `json:"holder_count"`
	CreatedAt    int64   `json:"created_at"`
}

// TokenSecurity summarizes contract-level risk flags
type TokenSecurity struct {
	Chain           string  `json:"chain"`
	Address         string  `json:"address"`
	IsHoneypot      bool    `json:"is_honeypot"`
	IsMintable      bool    `json:"is_mintable"`
	IsProxy         bool    `json:"is_proxy"`
	OwnerRenounced  bool    `json:"owner_renounced"`
	BuyTax          float64 `json:"buy_tax"`
	SellTax         float64 `json:"sell_tax"`
	Top10HolderRate float64 `json:"top10_holder_rate"`
}

// TrendingToken is one row in a trending ranking
type TrendingToken struct {
	Rank      int     `json:"rank"`
	Address   string  `json:"address"`
	Symbol    string  `json:"symbol"`
	PriceUSD  string  `json:"price_usd"`
	Change    float64 `json:"change"`
	Volume    string  `json:"volume"`
	SwapCount int     `json:"swap_count"`
}

// Candle is one OHLCV bar
type Candle struct {
	Timestamp int64  `json:"timestamp"`
	Open      string `json:"open"`
	High      string `json:"high"`
	Low       string `json:"low"`
	Close     string `json:"close"`
	Volume    string `json:"volume"`
}

// Pair describes a trading pair / liquidity pool
type Pair struct {
	Chain        string `json:"chain"`
	PairAddress  string `json:"pair_address"`
	BaseToken    string `json:"base_token"`
	BaseSymbol   string `json:"base_symbol"`
	QuoteToken   string `json:"quote_token"`
	QuoteSymbol  string `json:"quote_symbol"`
	Dex          string `json:"dex"`
	LiquidityUSD string `json:"liquidity_usd"`
	Volume24h    string `json:"volume_24h"`
	CreatedAt    int64  `json:"created_at"`
}

// Trade is one executed swap
type Trade struct {
	TxHash    string `json:"tx_hash"`
	Timestamp int64  `json:"timestamp"`
	Side      string `json:"side"`
	Wallet    string `json:"wallet"`
	Token     string `json:"token"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	PriceUSD  string `json:"price_usd"`
	ValueUSD  string `json:"value_usd"`
}

// TradePage is a cursor-paginated slice of trades
type TradePage struct {
	Trades     []Trade `json:"trades"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// TokenBalance is one asset position in a wallet
type TokenBalance struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
	ValueUSD string `json:"value_usd"`
}

// WalletBalances is the full balance snapshot for a wallet
type WalletBalances struct {
	Chain         string         `json:"chain"`
	Wallet        string         `json:"wallet"`
	NativeBalance string         `json:"native_balance"`
	TotalValueUSD string         `json:"total_value_usd"`
	Tokens        []TokenBalance `json:"tokens"`
}

// Holding is one position with PnL attribution
type Holding struct {
	Token        string  `json:"token"`
	Symbol       string  `json:"symbol"`
	Amount       string  `json:"amount"`
	ValueUSD     string  `json:"value_usd"`
	CostUSD      string  `json:"cost_usd"`
	RealizedPnl  string  `json:"realized_pnl"`
	UnrealizedPnl string `json:"unrealized_pnl"`
	PnlPercent   float64 `json:"pnl_percent"`
}

// HoldingsPage is a cursor-paginated slice of holdings
type HoldingsPage struct {
	Holdings   []Holding `json:"holdings"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// SwapRouteRequest asks for a swap quote
type SwapRouteRequest struct {
	Chain        string  `json:"chain"`
	TokenIn      string  `json:"token_in"`
	TokenOut     string  `json:"token_out"`
	AmountIn     string  `json:"amount_in"`
	FromAddress  string  `json:"from_address"`
	Slippage     float64 `json:"slippage"`
}

// SwapRoute is a quoted route ready for signing
type SwapRoute struct {
	Quote       string `json:"quote"`
	AmountOut   string `json:"amount_out"`
	MinReceived string `json:"min_received"`
	PriceImpact float64 `json:"price_impact"`
	GasEstimate string `json:"gas_estimate"`
	RawTx       string `json:"raw_tx"`
	ExpireAt    int64  `json:"expire_at"`
}

// SubmitSwapRequest submits a signed swap transaction
type SubmitSwapRequest struct {
	Chain    string `json:"chain"`
	SignedTx string `json:"signed_tx"`
}

// SwapSubmission is the broadcast acknowledgment
type SwapSubmission struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"`
}

// LimitOrderRequest creates a resting limit order
type LimitOrderRequest struct {
	Chain       string `json:"chain"`
	TokenIn     string `json:"token_in"`
	TokenOut    string `json:"token_out"`
	AmountIn    string `json:"amount_in"`
	TargetPrice string `json:"target_price"`
	Wallet      string `json:"wallet"`
}

// LimitOrder is one resting order
type LimitOrder struct {
	OrderID     string `json:"order_id"`
	Chain       string `json:"chain"`
	TokenIn     string `json:"token_in"`
	TokenOut    string `json:"token_out"`
	AmountIn    string `json:"amount_in"`
	TargetPrice string `json:"target_price"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

// RedPacketRequest creates a token red packet
type RedPacketRequest struct {
	Chain       string `json:"chain"`
	Token       string `json:"token"`
	TotalAmount string `json:"total_amount"`
	Count       int    `json:"count"`
	Message     string `json:"message,omitempty"`
}

// RedPacket is one created red packet
type RedPacket struct {
	PacketID    string `json:"packet_id"`
	Chain       string `json:"chain"`
	Token       string `json:"token"`
	TotalAmount string `json:"total_amount"`
	Count       int    `json:"count"`
	Claimed     int    `json:"claimed"`
	Status      string `json:"status"`
	ClaimURL    string `json:"claim_url"`
	CreatedAt   int64  `json:"created_at"`
}

// RedPacketClaim acknowledges a claim
type RedPacketClaim struct {
	PacketID string `json:"packet_id"`
	Amount   string `json:"amount"`
	TxHash   string `json:"tx_hash"`
}

// RedPacketRecord is one historical packet with claim detail
type RedPacketRecord struct {
	PacketID    string `json:"packet_id"`
	Token       string `json:"token"`
	TotalAmount string `json:"total_amount"`
	Count       int    `json:"count"`
	Claimed     int    `json:"claimed"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

// SmartMoneyEntry is one row of the smart-money leaderboard
type SmartMoneyEntry struct {
	Rank       int     `json:"rank"`
	Wallet     string  `json:"wallet"`
	Tag        string  `json:"tag,omitempty"`
	Pnl        string  `json:"pnl"`
	WinRate    float64 `json:"win_rate"`
	TradeCount int     `json:"trade_count"`
}

// WalletProfile aggregates trading stats for one wallet
type WalletProfile struct {
	Chain       string  `json:"chain"`
	Wallet      string  `json:"wallet"`
	Tags        []string `json:"tags,omitempty"`
	TotalPnl    string  `json:"total_pnl"`
	WinRate     float64 `json:"win_rate"`
	TradeCount  int     `json:"trade_count"`
	AvgHoldTime int64   `json:"avg_hold_time_seconds"`
	LastActive  int64   `json:"last_active"`
}
