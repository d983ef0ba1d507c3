package model

// Position is the raw on-chain position record held by the NFT position
// manager, keyed by token id. Accrued-fee counters are carried verbatim.
type Position struct {
	TokenID                  string `json:"token_id"`
	Token0                   string `json:"token0"`
	Token1                   string `json:"token1"`
	Fee                      uint32 `json:"fee"`
	TickLower                int32  `json:"tick_lower"`
	TickUpper                int32  `json:"tick_upper"`
	Liquidity                string `json:"liquidity"`
	FeeGrowthInside0LastX128 string `json:"fee_growth_inside0_last_x128"`
	FeeGrowthInside1LastX128 string `json:"fee_growth_inside1_last_x128"`
	TokensOwed0              string `json:"tokens_owed0"`
	TokensOwed1              string `json:"tokens_owed1"`
}

// PriceRange expresses a position's tick bounds and the pool's current
// tick as token1-per-token0 prices.
type PriceRange struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Current float64 `json:"current"`
}

// PositionWithValues enriches a raw position with its pool's state and
// display-ready derived values.
type PositionWithValues struct {
	Position

	Pool       PoolInfo   `json:"pool"`
	PriceRange PriceRange `json:"price_range"`
	Amount0    float64    `json:"amount0"`
	Amount1    float64    `json:"amount1"`
	InRange    bool       `json:"in_range"`
}
