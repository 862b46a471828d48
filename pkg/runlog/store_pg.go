package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists run logs and their epochs in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL and creates the schema if needed.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Save stores the log document and one row per epoch in a single
// transaction. Saving the same run again replaces it.
func (s *PGStore) Save(ctx context.Context, l *Log) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM training_runs WHERE id = $1`, l.ID); err != nil {
			return fmt.Errorf("failed to replace run: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO training_runs (id, created_at, log) VALUES ($1, $2, $3)`,
			l.ID, l.Created, doc,
		); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		batch := &pgx.Batch{}
		for _, k := range l.Keys() {
			r, _ := l.Record(k)
			for epoch := 0; epoch < r.Epochs(); epoch++ {
				batch.Queue(`
					INSERT INTO training_epochs (run_id, drug, period, model, epoch, loss, auc, ap)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					l.ID, k.Drug, k.Period, k.Model, epoch,
					r.Train.Loss[epoch], r.Test.AUC[epoch], r.Test.AP[epoch],
				)
			}
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert epochs: %w", err)
		}
		return nil
	})
}

// BestAUC returns the highest test AUC recorded for k across all runs.
func (s *PGStore) BestAUC(ctx context.Context, k Key) (float64, error) {
	var best *float64
	err := s.pool.QueryRow(ctx, `
		SELECT MAX(auc) FROM training_epochs
		WHERE drug = $1 AND period = $2 AND model = $3`,
		k.Drug, k.Period, k.Model,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("failed to query best AUC: %w", err)
	}
	if best == nil {
		return 0, fmt.Errorf("no epochs recorded for %s/%s/%s", k.Drug, k.Period, k.Model)
	}
	return *best, nil
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
