package adaptive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/codequest/backend/internal/models"
)

// Store is the Postgres implementation of every repository interface in
// this package.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const questionColumns = `id, type, primary_skill, tags, prompt, target_min, target_max,
	       times_answered, times_correct, created_at`

func scanQuestion(row *sql.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.Type, &q.PrimarySkill, pq.Array(&q.Tags), &q.Prompt,
		&q.TargetMin, &q.TargetMax, &q.TimesAnswered, &q.TimesCorrect, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ── Questions ───────────────────────────────────────────

func (s *Store) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *Store) PickConceptQuestion(ctx context.Context, concepts []string, exclude []int64, window Range) (*models.Question, error) {
	if exclude == nil {
		exclude = []int64{} // nil encodes as SQL NULL and ANY(NULL) matches nothing
	}
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE tags && $1
		   AND NOT (id = ANY($2))
		   AND target_min <= $3 AND target_max >= $4
		 ORDER BY times_answered ASC, (target_min + target_max) / 2 ASC, id ASC
		 LIMIT 1`,
		pq.Array(concepts), pq.Array(exclude), window.Max, window.Min))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick concept question: %w", err)
	}
	return q, nil
}

func (s *Store) PickGenericQuestion(ctx context.Context, exclude []int64, window Range) (*models.Question, error) {
	if exclude == nil {
		exclude = []int64{}
	}
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE NOT (id = ANY($1))
		   AND target_min <= $2 AND target_max >= $3
		 ORDER BY times_answered ASC, (target_min + target_max) / 2 ASC, id ASC
		 LIMIT 1`,
		pq.Array(exclude), window.Max, window.Min))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick generic question: %w", err)
	}
	return q, nil
}

// ── Skill ratings ───────────────────────────────────────

func (s *Store) AverageRating(ctx context.Context, userID int64) (float64, bool, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM skill_ratings WHERE user_id = $1`, userID).Scan(&avg)
	if err != nil {
		return 0, false, fmt.Errorf("average rating: %w", err)
	}
	return avg.Float64, avg.Valid, nil
}

func (s *Store) ListRatings(ctx context.Context, userID int64) ([]models.SkillRating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, skill_id, rating, total_attempts, correct_answers, last_practiced_at
		 FROM skill_ratings
		 WHERE user_id = $1
		 ORDER BY skill_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.SkillRating
	for rows.Next() {
		var r models.SkillRating
		if err := rows.Scan(&r.ID, &r.UserID, &r.SkillID, &r.Rating,
			&r.TotalAttempts, &r.CorrectAnswers, &r.LastPracticedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// ── Weak concepts ───────────────────────────────────────

func (s *Store) RecordFailure(ctx context.Context, userID int64, conceptID string, failedAt, reviewAt time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO weak_concepts (user_id, concept_id, failure_count, last_failed_at, recommended_review_at)
		 VALUES ($1, $2, 1, $3, $4)
		 ON CONFLICT (user_id, concept_id) DO UPDATE
		 SET failure_count = weak_concepts.failure_count + 1,
		     last_failed_at = $3,
		     recommended_review_at = $4
		 RETURNING failure_count`,
		userID, conceptID, failedAt, reviewAt,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("upsert weak concept: %w", err)
	}
	return count, nil
}

func (s *Store) Remove(ctx context.Context, userID int64, conceptID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM weak_concepts WHERE user_id = $1 AND concept_id = $2`,
		userID, conceptID)
	if err != nil {
		return false, fmt.Errorf("delete weak concept: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DueForReview(ctx context.Context, userID int64, now time.Time, limit int) ([]models.WeakConcept, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, concept_id, failure_count, last_failed_at, recommended_review_at
		 FROM weak_concepts
		 WHERE user_id = $1 AND recommended_review_at <= $2
		 ORDER BY failure_count DESC, concept_id ASC
		 LIMIT $3`,
		userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("due for review: %w", err)
	}
	defer rows.Close()

	var concepts []models.WeakConcept
	for rows.Next() {
		var wc models.WeakConcept
		if err := rows.Scan(&wc.ID, &wc.UserID, &wc.ConceptID,
			&wc.FailureCount, &wc.LastFailedAt, &wc.RecommendedReviewAt); err != nil {
			return nil, fmt.Errorf("scan weak concept: %w", err)
		}
		concepts = append(concepts, wc)
	}
	return concepts, rows.Err()
}

// ── Attempt log ─────────────────────────────────────────

func (s *Store) RecentQuestionIDs(ctx context.Context, userID int64, since time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT question_id FROM question_attempts
		 WHERE user_id = $1 AND created_at >= $2`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("recent question ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ── Atomic answer submission ────────────────────────────

// ApplyAnswer runs the whole per-answer write in one transaction. The
// skill-rating and question rows are locked with FOR UPDATE before the
// new rating and band are computed, so two concurrent submissions for
// the same rows serialize instead of losing an update. Pure counter
// bumps stay as SQL-side increments.
func (s *Store) ApplyAnswer(ctx context.Context, p ApplyAnswerParams) (*AnswerOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lazily create the (user, skill) rating row on first answer.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO skill_ratings (user_id, skill_id, rating)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		p.UserID, p.SkillID, BaseRating); err != nil {
		return nil, fmt.Errorf("seed skill rating: %w", err)
	}

	var oldRating float64
	if err := tx.QueryRowContext(ctx,
		`SELECT rating FROM skill_ratings
		 WHERE user_id = $1 AND skill_id = $2
		 FOR UPDATE`,
		p.UserID, p.SkillID).Scan(&oldRating); err != nil {
		return nil, fmt.Errorf("lock skill rating: %w", err)
	}

	var targetMin, targetMax float64
	var timesAnswered, timesCorrect int
	err = tx.QueryRowContext(ctx,
		`SELECT target_min, target_max, times_answered, times_correct
		 FROM questions WHERE id = $1
		 FOR UPDATE`,
		p.QuestionID).Scan(&targetMin, &targetMax, &timesAnswered, &timesCorrect)
	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock question: %w", err)
	}

	result := 0.0
	correctInc := 0
	if p.Correct {
		result = 1.0
		correctInc = 1
	}

	oldMid := (targetMin + targetMax) / 2
	if targetMin == 0 && targetMax == 0 {
		oldMid = BaseRating
	}

	newRating := UpdateRating(oldRating, oldMid, result)
	newMid := Retarget(timesCorrect+correctInc, timesAnswered+1, oldMid)

	if _, err := tx.ExecContext(ctx,
		`UPDATE skill_ratings
		 SET rating = $3,
		     total_attempts = total_attempts + 1,
		     correct_answers = correct_answers + $4,
		     last_practiced_at = NOW()
		 WHERE user_id = $1 AND skill_id = $2`,
		p.UserID, p.SkillID, newRating, correctInc); err != nil {
		return nil, fmt.Errorf("update skill rating: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE questions
		 SET times_answered = times_answered + 1,
		     times_correct = times_correct + $2,
		     target_min = $3,
		     target_max = $4
		 WHERE id = $1`,
		p.QuestionID, correctInc, newMid-BandHalfWidth, newMid+BandHalfWidth); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO question_attempts (user_id, question_id, correct, time_spent_seconds)
		 VALUES ($1, $2, $3, $4)`,
		p.UserID, p.QuestionID, p.Correct, p.TimeSpent); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if p.XPEarned > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_profiles (user_id) VALUES ($1)
			 ON CONFLICT (user_id) DO NOTHING`,
			p.UserID); err != nil {
			return nil, fmt.Errorf("seed profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_profiles SET total_xp = total_xp + $2, updated_at = NOW()
			 WHERE user_id = $1`,
			p.UserID, p.XPEarned); err != nil {
			return nil, fmt.Errorf("add xp: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO xp_events (user_id, event_type, xp_amount)
			 VALUES ($1, 'question_correct', $2)`,
			p.UserID, p.XPEarned); err != nil {
			return nil, fmt.Errorf("log xp event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "40001" {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("commit submission: %w", err)
	}

	return &AnswerOutcome{
		OldRating:   oldRating,
		NewRating:   newRating,
		OldMidpoint: oldMid,
		NewMidpoint: newMid,
	}, nil
}
