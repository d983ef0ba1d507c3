package aggregate

import (
	"fmt"
	"math"
	"math/big"
)

var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// CalculatePrice converts a pool's sqrtPriceX96 into a token1-per-token0
// price adjusted for decimals. The squaring happens in exact integer
// arithmetic; only the final decimal-scaled quotient goes through
// floating point.
func CalculatePrice(sqrtPriceX96 string, decimals0, decimals1 uint8) (float64, error) {
	sqrtPrice, ok := new(big.Int).SetString(sqrtPriceX96, 10)
	if !ok {
		return 0, fmt.Errorf("invalid sqrt price: %q", sqrtPriceX96)
	}
	if sqrtPrice.Sign() <= 0 {
		return 0, fmt.Errorf("sqrt price must be positive: %q", sqrtPriceX96)
	}

	ratio := new(big.Int).Mul(sqrtPrice, sqrtPrice)
	price := new(big.Float).Quo(new(big.Float).SetInt(ratio), new(big.Float).SetInt(q192))

	result, _ := price.Float64()
	return result * decimalScale(decimals0, decimals1), nil
}

// TickPrice converts a tick into a token1-per-token0 price adjusted for
// decimals: 1.0001^tick scaled by the decimal difference.
func TickPrice(tick int32, decimals0, decimals1 uint8) float64 {
	return math.Pow(1.0001, float64(tick)) * decimalScale(decimals0, decimals1)
}

func decimalScale(decimals0, decimals1 uint8) float64 {
	return math.Pow(10, float64(decimals0)-float64(decimals1))
}

// positionAmounts derives the token amounts backing a position from its
// liquidity, the pool's current sqrt price, and the tick bounds. The
// current price clamps to the bounds: out-of-range positions hold one
// asset only. Amounts come back in human units for each token.
func positionAmounts(liquidity string, sqrtPriceX96 string, tickLower, tickUpper int32, decimals0, decimals1 uint8) (float64, float64, error) {
	liq, ok := new(big.Int).SetString(liquidity, 10)
	if !ok {
		return 0, 0, fmt.Errorf("invalid liquidity: %q", liquidity)
	}
	sqrtPriceInt, ok := new(big.Int).SetString(sqrtPriceX96, 10)
	if !ok {
		return 0, 0, fmt.Errorf("invalid sqrt price: %q", sqrtPriceX96)
	}

	liquidityF, _ := new(big.Float).SetInt(liq).Float64()
	sqrtPrice, _ := new(big.Float).Quo(
		new(big.Float).SetInt(sqrtPriceInt),
		new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96)),
	).Float64()

	sqrtLower := math.Pow(1.0001, float64(tickLower)/2)
	sqrtUpper := math.Pow(1.0001, float64(tickUpper)/2)

	clamped := math.Min(math.Max(sqrtPrice, sqrtLower), sqrtUpper)

	var amount0, amount1 float64
	if clamped < sqrtUpper {
		amount0 = liquidityF * (sqrtUpper - clamped) / (clamped * sqrtUpper)
	}
	if clamped > sqrtLower {
		amount1 = liquidityF * (clamped - sqrtLower)
	}

	amount0 /= math.Pow(10, float64(decimals0))
	amount1 /= math.Pow(10, float64(decimals1))
	return amount0, amount1, nil
}
