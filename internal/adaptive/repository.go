package adaptive

import (
	"context"
	"errors"
	"time"

	"github.com/codequest/backend/internal/models"
)

var (
	// ErrQuestionNotFound is returned when a question id does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrNoEligibleQuestion is returned by the selector when the pool is
	// exhausted for the user's current window.
	ErrNoEligibleQuestion = errors.New("no eligible question")

	// ErrConflict is returned when the storage layer reports a
	// serialization failure; callers should retry the whole submission.
	ErrConflict = errors.New("storage conflict")
)

// RatingStore reads and lists per-user skill ratings.
type RatingStore interface {
	// AverageRating returns the mean rating across the user's skill
	// rows. ok is false when the user has no rows yet.
	AverageRating(ctx context.Context, userID int64) (rating float64, ok bool, err error)
	ListRatings(ctx context.Context, userID int64) ([]models.SkillRating, error)
}

// WeakConceptStore persists per-user struggling-concept rows keyed by
// (user, concept).
type WeakConceptStore interface {
	// RecordFailure upserts the row, incrementing the failure count if
	// it already exists, and returns the resulting count.
	RecordFailure(ctx context.Context, userID int64, conceptID string, failedAt, reviewAt time.Time) (int, error)
	// Remove deletes the row and reports whether one existed.
	Remove(ctx context.Context, userID int64, conceptID string) (bool, error)
	// DueForReview returns concepts with recommended_review_at <= now,
	// worst first (failure count descending), capped at limit.
	DueForReview(ctx context.Context, userID int64, now time.Time, limit int) ([]models.WeakConcept, error)
}

// QuestionStore reads questions and runs the two selection queries.
// Both picks exclude the given question ids, require the question's
// difficulty band to intersect the window, and order by times_answered
// ascending, then band midpoint ascending, then id ascending — the id
// column is the documented tie-break.
type QuestionStore interface {
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	// PickConceptQuestion restricts the pick to questions whose tags
	// intersect the given concept ids.
	PickConceptQuestion(ctx context.Context, concepts []string, exclude []int64, window Range) (*models.Question, error)
	PickGenericQuestion(ctx context.Context, exclude []int64, window Range) (*models.Question, error)
}

// AttemptStore reads the append-only answer log.
type AttemptStore interface {
	// RecentQuestionIDs returns the ids of questions the user attempted
	// since the given time.
	RecentQuestionIDs(ctx context.Context, userID int64, since time.Time) ([]int64, error)
}

// ApplyAnswerParams describes one graded answer to persist.
type ApplyAnswerParams struct {
	UserID     int64
	QuestionID int64
	SkillID    string
	Correct    bool
	TimeSpent  *float64
	XPEarned   int
}

// AnswerOutcome reports what the atomic submission write changed.
type AnswerOutcome struct {
	OldRating   float64
	NewRating   float64
	OldMidpoint float64
	NewMidpoint float64
}

// AnswerStore applies a full answer submission. Implementations must
// make the whole write atomic: counter increments are expressed as
// SQL-side deltas, and the rating and band recomputation happens inside
// a single transaction holding locks on the (skill rating, question)
// rows so concurrent submissions cannot lose updates.
type AnswerStore interface {
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	ApplyAnswer(ctx context.Context, p ApplyAnswerParams) (*AnswerOutcome, error)
}
