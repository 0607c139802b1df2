package adaptive

import (
	"context"
	"fmt"
	"time"

	"github.com/codequest/backend/internal/models"
)

const (
	// RecentWindow is how far back the selector looks when excluding
	// questions the user has already seen.
	RecentWindow = 24 * time.Hour

	// maxDueConcepts caps how many weak concepts are considered per pick.
	maxDueConcepts = 3
)

// Selector picks the next question for a user. Remediation of due weak
// concepts always wins over generic difficulty targeting, but only
// among questions that also sit in the user's challenge window.
type Selector struct {
	questions QuestionStore
	ratings   RatingStore
	attempts  AttemptStore
	tracker   *Tracker
}

func NewSelector(questions QuestionStore, ratings RatingStore, attempts AttemptStore, tracker *Tracker) *Selector {
	return &Selector{
		questions: questions,
		ratings:   ratings,
		attempts:  attempts,
		tracker:   tracker,
	}
}

// PickNext returns the next question for the user, or
// ErrNoEligibleQuestion when the pool is exhausted.
func (s *Selector) PickNext(ctx context.Context, userID int64) (*models.Question, error) {
	rating, ok, err := s.ratings.AverageRating(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load rating: %w", err)
	}
	if !ok {
		rating = BaseRating
	}
	window := TargetRange(rating, DefaultVariance)

	exclude, err := s.attempts.RecentQuestionIDs(ctx, userID, time.Now().UTC().Add(-RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}

	concepts, err := s.tracker.DueForReview(ctx, userID, maxDueConcepts)
	if err != nil {
		return nil, fmt.Errorf("load due concepts: %w", err)
	}

	if len(concepts) > 0 {
		picked, err := s.questions.PickConceptQuestion(ctx, concepts, exclude, window)
		if err != nil {
			return nil, fmt.Errorf("pick concept question: %w", err)
		}
		if picked != nil {
			return picked, nil
		}
	}

	picked, err := s.questions.PickGenericQuestion(ctx, exclude, window)
	if err != nil {
		return nil, fmt.Errorf("pick generic question: %w", err)
	}
	if picked == nil {
		return nil, ErrNoEligibleQuestion
	}
	return picked, nil
}
