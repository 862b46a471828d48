package runlog

import "context"

// migrate creates the run log tables
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS training_runs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		log JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS training_epochs (
		run_id UUID NOT NULL REFERENCES training_runs(id) ON DELETE CASCADE,
		drug TEXT NOT NULL,
		period TEXT NOT NULL,
		model TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		loss DOUBLE PRECISION NOT NULL,
		auc DOUBLE PRECISION NOT NULL,
		ap DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, drug, period, model, epoch)
	);

	CREATE INDEX IF NOT EXISTS idx_training_epochs_key ON training_epochs(drug, period, model);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}
