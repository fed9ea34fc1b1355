// Package postgres persists liquidation outcomes alongside the JSONL trail
// for operators who want the audit history queryable.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"liquidationScope/internal/model"
)

// Store provides Postgres persistence for liquidation outcomes.
//
// Expected schema:
//
//	CREATE TABLE liquidation_outcomes (
//	    id                 BIGSERIAL PRIMARY KEY,
//	    occurred_at        TEXT NOT NULL,
//	    token_id           TEXT NOT NULL,
//	    percent            INT NOT NULL,
//	    before_eth_balance TEXT NOT NULL,
//	    after_eth_balance  TEXT NOT NULL,
//	    symbol0            TEXT NOT NULL,
//	    symbol1            TEXT NOT NULL,
//	    fee0               TEXT NOT NULL,
//	    fee1               TEXT NOT NULL,
//	    transaction_hash   TEXT NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
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

// Append inserts one liquidation outcome. Rows are never updated or
// deleted; the table is an append-only mirror of the JSONL trail.
func (s *Store) Append(ctx context.Context, outcome model.LiquidationOutcome) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidation_outcomes (
			occurred_at, token_id, percent, before_eth_balance, after_eth_balance,
			symbol0, symbol1, fee0, fee1, transaction_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		outcome.CurrentDate,
		outcome.TokenID,
		outcome.Percent,
		outcome.BeforeEthBalance,
		outcome.AfterEthBalance,
		outcome.Symbol0,
		outcome.Symbol1,
		outcome.Fee0,
		outcome.Fee1,
		outcome.TransactionHash,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}
