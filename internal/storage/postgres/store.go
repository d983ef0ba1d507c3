package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dexray/internal/model"
)

// Store persists position snapshots to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPositionSnapshots records the computed state of positions at one
// point in time, keyed by (chain, token id, snapshot time).
func (s *Store) UpsertPositionSnapshots(ctx context.Context, chainID uint64, takenAt time.Time, positions []model.PositionWithValues) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO position_snapshots (
				chain_id, token_id, pool_address, token0, token1, fee,
				tick_lower, tick_upper, tick_current, liquidity,
				price_lower, price_upper, price_current,
				amount0, amount1, tokens_owed0, tokens_owed1, in_range,
				taken_at, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,now())
			ON CONFLICT (chain_id, token_id, taken_at)
			DO UPDATE SET
				pool_address = EXCLUDED.pool_address,
				tick_current = EXCLUDED.tick_current,
				liquidity = EXCLUDED.liquidity,
				price_current = EXCLUDED.price_current,
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				tokens_owed0 = EXCLUDED.tokens_owed0,
				tokens_owed1 = EXCLUDED.tokens_owed1,
				in_range = EXCLUDED.in_range
		`,
			int64(chainID),
			p.TokenID,
			p.Pool.Address,
			p.Token0,
			p.Token1,
			int64(p.Fee),
			p.TickLower,
			p.TickUpper,
			p.Pool.Tick,
			p.Liquidity,
			p.PriceRange.Lower,
			p.PriceRange.Upper,
			p.PriceRange.Current,
			p.Amount0,
			p.Amount1,
			p.TokensOwed0,
			p.TokensOwed1,
			p.InRange,
			takenAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
