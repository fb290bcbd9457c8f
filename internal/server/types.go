package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// PoolResponse represents one pool's decoded on-chain state
type PoolResponse struct {
	Address     string `json:"address"`
	MintA       string `json:"mint_a"`
	MintB       string `json:"mint_b"`
	ReserveA    uint64 `json:"reserve_a"`
	ReserveB    uint64 `json:"reserve_b"`
	TotalShares uint64 `json:"total_shares"`
	Cached      bool   `json:"cached"` // true when served from the snapshot cache
}

// SwapQuoteResponse represents a constant-product swap quote
type SwapQuoteResponse struct {
	Pool      string `json:"pool"`
	InputMint string `json:"input_mint"`
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
}

// AddQuoteResponse represents an add-liquidity quote
type AddQuoteResponse struct {
	Pool    string `json:"pool"`
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
	Shares  uint64 `json:"shares"`
}

// RemoveQuoteResponse represents a remove-liquidity quote
type RemoveQuoteResponse struct {
	Pool    string `json:"pool"`
	Shares  uint64 `json:"shares"`
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
}
