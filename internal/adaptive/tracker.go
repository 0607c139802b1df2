package adaptive

import (
	"context"
	"fmt"
	"time"
)

// ReviewDelay is how long after a failure a weak concept becomes due
// for review.
const ReviewDelay = 24 * time.Hour

// Outcome actions reported by RecordOutcome, for logging only.
const (
	OutcomeCreated     = "created"
	OutcomeIncremented = "incremented"
	OutcomeRemoved     = "removed"
	OutcomeNoop        = "noop"
)

// Tracker records and clears per-user struggling concepts.
type Tracker struct {
	store WeakConceptStore
}

func NewTracker(store WeakConceptStore) *Tracker {
	return &Tracker{store: store}
}

// RecordOutcome updates the weak-concept row for (user, concept) after
// a graded answer. A correct answer deletes the row outright; an
// incorrect answer creates it or increments its failure count and
// pushes the review time out by ReviewDelay. The returned action and
// count are for observability, not control flow.
func (t *Tracker) RecordOutcome(ctx context.Context, userID int64, conceptID string, isCorrect bool) (action string, count int, err error) {
	if isCorrect {
		removed, err := t.store.Remove(ctx, userID, conceptID)
		if err != nil {
			return "", 0, fmt.Errorf("remove weak concept: %w", err)
		}
		if !removed {
			return OutcomeNoop, 0, nil
		}
		return OutcomeRemoved, 0, nil
	}

	now := time.Now().UTC()
	count, err = t.store.RecordFailure(ctx, userID, conceptID, now, now.Add(ReviewDelay))
	if err != nil {
		return "", 0, fmt.Errorf("record weak concept failure: %w", err)
	}
	if count == 1 {
		return OutcomeCreated, count, nil
	}
	return OutcomeIncremented, count, nil
}

// DueForReview returns up to limit concept ids whose review time has
// passed, worst first.
func (t *Tracker) DueForReview(ctx context.Context, userID int64, limit int) ([]string, error) {
	rows, err := t.store.DueForReview(ctx, userID, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("due for review: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, wc := range rows {
		ids = append(ids, wc.ConceptID)
	}
	return ids, nil
}
