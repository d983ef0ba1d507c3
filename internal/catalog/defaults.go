package catalog

import "dexray/internal/model"

// defaultTokens is the hand-curated default list per chain. Chains
// without an entry fall back to chain 1's list.
var defaultTokens = map[uint64][]model.Token{
	1: {
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18, PriceFeedID: "ethereum"},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, PriceFeedID: "usd-coin"},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6, PriceFeedID: "tether"},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18, PriceFeedID: "dai"},
		{Symbol: "WBTC", Name: "Wrapped BTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8, PriceFeedID: "wrapped-bitcoin"},
	},
	137: {
		{Symbol: "WMATIC", Name: "Wrapped Matic", Address: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", Decimals: 18, PriceFeedID: "matic-network"},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Decimals: 6, PriceFeedID: "usd-coin"},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Decimals: 18, PriceFeedID: "ethereum"},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6, PriceFeedID: "tether"},
	},
	8453: {
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, PriceFeedID: "ethereum"},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, PriceFeedID: "usd-coin"},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Decimals: 18, PriceFeedID: "dai"},
	},
	42161: {
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18, PriceFeedID: "ethereum"},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6, PriceFeedID: "usd-coin"},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Decimals: 6, PriceFeedID: "tether"},
		{Symbol: "ARB", Name: "Arbitrum", Address: "0x912CE59144191C1204E64559FE8253a0e49E6548", Decimals: 18, PriceFeedID: "arbitrum"},
	},
}

// DefaultTokens returns a copy of the default list for a chain, falling
// back to chain 1 when the chain has no curated list.
func DefaultTokens(chainID uint64) []model.Token {
	list, ok := defaultTokens[chainID]
	if !ok {
		list = defaultTokens[1]
	}
	out := make([]model.Token, len(list))
	copy(out, list)
	return out
}
