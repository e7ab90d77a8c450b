package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

type ledgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL unlock ledger repository
func NewLedgerRepository(db *pgxpool.Pool) repository.Ledger {
	return &ledgerRepository{db: db}
}

// insertPendingSQL creates a pending row if the key is absent, or revives a
// failed row in place. A conflicting pending or completed row is left
// untouched (the WHERE clause filters the upsert), in which case no row is
// returned and the caller inspects the existing record.
const insertPendingSQL = `
	INSERT INTO unlock_records (user_id, recipe_id, amount_paid, status)
	VALUES ($1, $2, $3, 'pending')
	ON CONFLICT (user_id, recipe_id) DO UPDATE
	SET amount_paid = EXCLUDED.amount_paid,
	    platform_fee = 0,
	    creator_payout = 0,
	    status = 'pending',
	    fail_reason = '',
	    external_authorization_id = '',
	    created_at = NOW(),
	    completed_at = NULL
	WHERE unlock_records.status = 'failed'
	RETURNING user_id
`

func (r *ledgerRepository) InsertPending(ctx context.Context, key domain.UnlockKey, amountMinor int64) (repository.InsertOutcome, *domain.UnlockRecord, error) {
	// Two attempts: the only way the first attempt is inconclusive is a row
	// that turned failed between the upsert and the read, and the second
	// upsert then succeeds against the failed row.
	for attempt := 0; attempt < 2; attempt++ {
		var inserted uuid.UUID
		err := r.db.QueryRow(ctx, insertPendingSQL, key.UserID, key.RecipeID, amountMinor).Scan(&inserted)
		if err == nil {
			return repository.InsertedPending, nil, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("failed to insert pending unlock: %w", err)
		}

		record, err := r.Get(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrUnlockNotFound) {
				// Row vanished between statements; records are never deleted,
				// so this only happens in tests against a truncated table.
				continue
			}
			return 0, nil, err
		}

		switch record.Status {
		case domain.UnlockStatusCompleted:
			return repository.AlreadyCompleted, record, nil
		case domain.UnlockStatusPending:
			return repository.AlreadyPending, record, nil
		case domain.UnlockStatusFailed:
			// Raced into failed after our upsert; retry the upsert.
			continue
		}
	}
	// Give the caller the safe answer: treat as in-flight and let it retry.
	return repository.AlreadyPending, nil, nil
}

const completePendingSQL = `
	UPDATE unlock_records
	SET status = 'completed',
	    amount_paid = $3,
	    platform_fee = $4,
	    creator_payout = $5,
	    external_authorization_id = $6,
	    completed_at = NOW()
	WHERE user_id = $1 AND recipe_id = $2 AND status = 'pending'
`

func (r *ledgerRepository) CompletePending(ctx context.Context, key domain.UnlockKey, split domain.RevenueSplit, externalAuthorizationID string) (bool, error) {
	tag, err := r.db.Exec(ctx, completePendingSQL,
		key.UserID, key.RecipeID,
		split.AmountPaid, split.PlatformFee, split.CreatorPayout,
		externalAuthorizationID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete pending unlock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const failPendingSQL = `
	UPDATE unlock_records
	SET status = 'failed',
	    fail_reason = $3,
	    completed_at = NOW()
	WHERE user_id = $1 AND recipe_id = $2 AND status = 'pending'
`

func (r *ledgerRepository) FailPending(ctx context.Context, key domain.UnlockKey, reason string) (bool, error) {
	tag, err := r.db.Exec(ctx, failPendingSQL, key.UserID, key.RecipeID, reason)
	if err != nil {
		return false, fmt.Errorf("failed to fail pending unlock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const getUnlockSQL = `
	SELECT user_id, recipe_id, amount_paid, platform_fee, creator_payout,
	       status, fail_reason, external_authorization_id, created_at, completed_at
	FROM unlock_records
	WHERE user_id = $1 AND recipe_id = $2
`

func (r *ledgerRepository) Get(ctx context.Context, key domain.UnlockKey) (*domain.UnlockRecord, error) {
	record, err := scanUnlockRecord(r.db.QueryRow(ctx, getUnlockSQL, key.UserID, key.RecipeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnlockNotFound
		}
		return nil, fmt.Errorf("failed to get unlock record: %w", err)
	}
	return record, nil
}

const listStalePendingSQL = `
	SELECT user_id, recipe_id
	FROM unlock_records
	WHERE status = 'pending' AND created_at < $1
	ORDER BY created_at
	LIMIT $2
`

func (r *ledgerRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.UnlockKey, error) {
	rows, err := r.db.Query(ctx, listStalePendingSQL, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending unlocks: %w", err)
	}
	defer rows.Close()

	var keys []domain.UnlockKey
	for rows.Next() {
		var key domain.UnlockKey
		if err := rows.Scan(&key.UserID, &key.RecipeID); err != nil {
			return nil, fmt.Errorf("failed to scan stale pending key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

const countCompletedSQL = `
	SELECT COUNT(*) FROM unlock_records WHERE user_id = $1 AND status = 'completed'
`

const listCompletedSQL = `
	SELECT user_id, recipe_id, amount_paid, platform_fee, creator_payout,
	       status, fail_reason, external_authorization_id, created_at, completed_at
	FROM unlock_records
	WHERE user_id = $1 AND status = 'completed'
	ORDER BY completed_at DESC
	OFFSET $2 LIMIT $3
`

func (r *ledgerRepository) ListCompletedByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UnlockRecord, int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countCompletedSQL, userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count completed unlocks: %w", err)
	}

	rows, err := r.db.Query(ctx, listCompletedSQL, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list completed unlocks: %w", err)
	}
	defer rows.Close()

	var records []domain.UnlockRecord
	for rows.Next() {
		record, err := scanUnlockRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan unlock record: %w", err)
		}
		records = append(records, *record)
	}
	return records, count, rows.Err()
}

func scanUnlockRecord(row pgx.Row) (*domain.UnlockRecord, error) {
	var record domain.UnlockRecord
	err := row.Scan(
		&record.UserID, &record.RecipeID,
		&record.AmountPaid, &record.PlatformFee, &record.CreatorPayout,
		&record.Status, &record.FailReason, &record.ExternalAuthorizationID,
		&record.CreatedAt, &record.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
