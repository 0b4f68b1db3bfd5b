package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/logger"
)

// Repository defines the interface for data access required by the pricing service
type Repository interface {
	InsertSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error
	LatestSnapshotTime(ctx context.Context) (time.Time, error)
	PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error)
	PriceHistory(ctx context.Context, itemID string, since time.Time) ([]domain.PricePoint, error)
}

// Service defines the interface for price snapshot operations.
// Snapshots are immutable observations; only the latest feeds cost
// resolution, while history stays queryable for trends.
type Service interface {
	RecordSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error
	LatestSnapshotTime(ctx context.Context) (time.Time, error)
	PriceAtLatest(ctx context.Context, itemID string) (int64, error)
	PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error)
	PriceHistory(ctx context.Context, itemID string, since time.Time) ([]domain.PricePoint, error)
	ShouldResync(ctx context.Context, now time.Time, minInterval time.Duration) (bool, error)
}

type service struct {
	repo Repository
}

// NewService creates a new pricing service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RecordSnapshot appends a batch of observations tagged with at.
// Recording the same timestamp twice is a no-op: the repository rejects
// the duplicate and the service logs it, so observations never silently
// duplicate.
func (s *service) RecordSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error {
	log := logger.FromContext(ctx)
	log.Info("RecordSnapshot called", "observations", len(observations), "at", at)

	if err := s.repo.InsertSnapshot(ctx, observations, at); err != nil {
		if errors.Is(err, domain.ErrSnapshotExists) {
			log.Warn("Snapshot already recorded, skipping", "at", at)
			return nil
		}
		log.Error("Failed to record snapshot", "error", err, "at", at)
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	log.Info("Snapshot recorded", "observations", len(observations), "at", at)
	return nil
}

// LatestSnapshotTime returns the timestamp of the most recent snapshot
func (s *service) LatestSnapshotTime(ctx context.Context) (time.Time, error) {
	return s.repo.LatestSnapshotTime(ctx)
}

// PriceAtLatest returns an item's price in the most recent snapshot
func (s *service) PriceAtLatest(ctx context.Context, itemID string) (int64, error) {
	at, err := s.repo.LatestSnapshotTime(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.PriceAt(ctx, itemID, at)
}

// PriceAt returns an item's price at a specific snapshot timestamp.
// Resolution passes pin one timestamp and read every sibling price at it;
// mixing snapshots within one pass is a consistency violation.
func (s *service) PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error) {
	return s.repo.PriceAt(ctx, itemID, at)
}

// PriceHistory returns the recorded observations for an item, oldest first
func (s *service) PriceHistory(ctx context.Context, itemID string, since time.Time) ([]domain.PricePoint, error) {
	return s.repo.PriceHistory(ctx, itemID, since)
}

// ShouldResync reports whether a new snapshot download is due: true when
// no snapshot exists or the latest is at least minInterval old. Advisory
// only; it never affects the correctness of cost math.
func (s *service) ShouldResync(ctx context.Context, now time.Time, minInterval time.Duration) (bool, error) {
	latest, err := s.repo.LatestSnapshotTime(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotMissing) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check snapshot age: %w", err)
	}

	return !latest.Add(minInterval).After(now), nil
}
