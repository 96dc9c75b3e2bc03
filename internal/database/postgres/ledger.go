package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/repository"
)

type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new Postgres-backed consumption ledger
func NewLedgerRepository(pool *pgxpool.Pool) repository.Ledger {
	return &ledgerRepository{pool: pool}
}

// querier covers both pool and transaction execution.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func appendConsumption(ctx context.Context, q querier, record *domain.ConsumptionRecord) error {
	record.NormalizeQuantity()

	var metadataJSON []byte
	if len(record.Metadata) > 0 {
		var err error
		if metadataJSON, err = json.Marshal(record.Metadata); err != nil {
			return fmt.Errorf("failed to encode ledger metadata: %w", err)
		}
	}

	_, err := q.Exec(ctx, `
		INSERT INTO consumption_ledger (user_id, kind, code, rarity, quantity, context_type, context_id, module, metadata)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)`,
		record.UserID, record.Kind, record.Code, record.Rarity, record.Quantity,
		record.ContextType, record.ContextID, string(record.Module), metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to append consumption record: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Append(ctx context.Context, record *domain.ConsumptionRecord) error {
	return appendConsumption(ctx, r.pool, record)
}

const selectLedger = `
SELECT id, user_id, kind, code, COALESCE(rarity, ''), quantity, context_type,
       COALESCE(context_id, ''), COALESCE(module, ''), metadata, created_at
FROM consumption_ledger`

func scanLedgerRows(rows pgx.Rows) ([]domain.ConsumptionRecord, error) {
	defer rows.Close()

	var out []domain.ConsumptionRecord
	for rows.Next() {
		var (
			record       domain.ConsumptionRecord
			module       string
			metadataJSON []byte
		)
		if err := rows.Scan(&record.ID, &record.UserID, &record.Kind, &record.Code,
			&record.Rarity, &record.Quantity, &record.ContextType,
			&record.ContextID, &module, &metadataJSON, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		record.Module = domain.Module(module)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode ledger metadata: %w", err)
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (r *ledgerRepository) GetByUser(ctx context.Context, userID string, limit int) ([]domain.ConsumptionRecord, error) {
	rows, err := r.pool.Query(ctx,
		selectLedger+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger by user: %w", err)
	}
	return scanLedgerRows(rows)
}

func (r *ledgerRepository) GetByModule(ctx context.Context, module domain.Module, since, until time.Time, limit int) ([]domain.ConsumptionRecord, error) {
	rows, err := r.pool.Query(ctx,
		selectLedger+` WHERE module = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC LIMIT $4`,
		string(module), since, until, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger by module: %w", err)
	}
	return scanLedgerRows(rows)
}
