package model

// Slot0 mirrors a V3 pool's packed current-state fields.
type Slot0 struct {
	SqrtPriceX96               string `json:"sqrt_price_x96"`
	Tick                       int32  `json:"tick"`
	ObservationIndex           uint16 `json:"observation_index"`
	ObservationCardinality     uint16 `json:"observation_cardinality"`
	ObservationCardinalityNext uint16 `json:"observation_cardinality_next"`
	FeeProtocol                uint8  `json:"fee_protocol"`
	Unlocked                   bool   `json:"unlocked"`
}

// PoolInfo is the assembled view of one pool: address, both tokens'
// metadata, fee tier, and live state. Liquidity and SqrtPriceX96 are
// decimal strings since they do not fit in 64 bits.
type PoolInfo struct {
	Address      string `json:"address"`
	Token0       Token  `json:"token0"`
	Token1       Token  `json:"token1"`
	Fee          uint32 `json:"fee"`
	Liquidity    string `json:"liquidity"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Tick         int32  `json:"tick"`
}
