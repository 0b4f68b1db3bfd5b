package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/repository"
)

type priceRepository struct {
	db *pgxpool.Pool
}

// NewPriceRepository creates a new PostgreSQL price snapshot repository
func NewPriceRepository(db *pgxpool.Pool) repository.Prices {
	return &priceRepository{db: db}
}

// InsertSnapshot appends a batch of observations under one timestamp.
// The snapshots row acts as the idempotency guard: recording the same
// timestamp twice fails before any observation is written.
func (r *priceRepository) InsertSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`INSERT INTO snapshots (recorded_at) VALUES ($1) ON CONFLICT DO NOTHING`, at)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSnapshotExists, at.UTC().Format(time.RFC3339))
	}

	rows := make([][]interface{}, len(observations))
	for i, obs := range observations {
		rows[i] = []interface{}{obs.ItemID, obs.Price, obs.Quantity, at}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"auctions"},
		[]string{"item_id", "price", "quantity", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert observations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// LatestSnapshotTime returns the timestamp of the most recent snapshot
func (r *priceRepository) LatestSnapshotTime(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := r.db.QueryRow(ctx,
		`SELECT recorded_at FROM snapshots ORDER BY recorded_at DESC LIMIT 1`).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, domain.ErrSnapshotMissing
		}
		return time.Time{}, fmt.Errorf("failed to get latest snapshot time: %w", err)
	}

	return at, nil
}

// PriceAt returns an item's observed price at a specific snapshot timestamp
func (r *priceRepository) PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error) {
	var price int64
	err := r.db.QueryRow(ctx,
		`SELECT price FROM auctions WHERE item_id = $1 AND recorded_at = $2`,
		itemID, at).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, itemID)
		}
		return 0, fmt.Errorf("failed to get price: %w", err)
	}

	return price, nil
}

// PriceHistory returns the recorded observations of an item, oldest first
func (r *priceRepository) PriceHistory(ctx context.Context, itemID string, since time.Time) ([]domain.PricePoint, error) {
	rows, err := r.db.Query(ctx,
		`SELECT price, quantity, recorded_at
		 FROM auctions
		 WHERE item_id = $1 AND recorded_at >= $2
		 ORDER BY recorded_at ASC`,
		itemID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Price, &p.Quantity, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price history: %w", err)
	}

	return points, nil
}
