package repository

import (
	"context"
	"time"

	"github.com/emberforge/craftcost/internal/domain"
)

// Prices defines the interface for price snapshot persistence.
// Snapshots are an append-only time series: one batch of observations per
// sync, all tagged with a shared timestamp.
type Prices interface {
	// InsertSnapshot appends all observations tagged with at. Returns
	// domain.ErrSnapshotExists when a snapshot with the same timestamp
	// was already recorded: repeated recording must never duplicate.
	InsertSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error

	// LatestSnapshotTime returns the timestamp of the most recent
	// snapshot, or domain.ErrSnapshotMissing when none exists.
	LatestSnapshotTime(ctx context.Context) (time.Time, error)

	// PriceAt returns the observed price of an item at the given snapshot
	// timestamp, or domain.ErrPriceUnavailable when the snapshot has no
	// observation for the item.
	PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error)

	// PriceHistory returns the recorded observations for an item since
	// the given time, oldest first.
	PriceHistory(ctx context.Context, itemID string, since time.Time) ([]domain.PricePoint, error)
}
