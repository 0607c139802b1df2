package adaptive

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/codequest/backend/internal/models"
)

// memStore is an in-memory stand-in for Store, usable as every
// repository interface in the package.
type memStore struct {
	questions map[int64]*models.Question
	ratings   map[string]*models.SkillRating
	concepts  map[string]*models.WeakConcept
	recent    map[int64][]int64
	xp        map[int64]int
}

func newMemStore() *memStore {
	return &memStore{
		questions: make(map[int64]*models.Question),
		ratings:   make(map[string]*models.SkillRating),
		concepts:  make(map[string]*models.WeakConcept),
		recent:    make(map[int64][]int64),
		xp:        make(map[int64]int),
	}
}

func key(userID int64, id string) string {
	return fmt.Sprintf("%d:%s", userID, id)
}

func (m *memStore) addQuestion(q models.Question) {
	cp := q
	m.questions[q.ID] = &cp
}

// ── QuestionStore ───────────────────────────────────────

func (m *memStore) GetQuestion(_ context.Context, id int64) (*models.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *memStore) pick(concepts []string, exclude []int64, window Range) *models.Question {
	excluded := make(map[int64]bool)
	for _, id := range exclude {
		excluded[id] = true
	}

	var pool []*models.Question
	for _, q := range m.questions {
		if excluded[q.ID] {
			continue
		}
		if !window.Overlaps(q.TargetMin, q.TargetMax) {
			continue
		}
		if concepts != nil && !tagsIntersect(q.Tags, concepts) {
			continue
		}
		pool = append(pool, q)
	}
	if len(pool) == 0 {
		return nil
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].TimesAnswered != pool[j].TimesAnswered {
			return pool[i].TimesAnswered < pool[j].TimesAnswered
		}
		if pool[i].Midpoint() != pool[j].Midpoint() {
			return pool[i].Midpoint() < pool[j].Midpoint()
		}
		return pool[i].ID < pool[j].ID
	})
	cp := *pool[0]
	return &cp
}

func tagsIntersect(tags, concepts []string) bool {
	for _, t := range tags {
		for _, c := range concepts {
			if t == c {
				return true
			}
		}
	}
	return false
}

func (m *memStore) PickConceptQuestion(_ context.Context, concepts []string, exclude []int64, window Range) (*models.Question, error) {
	if concepts == nil {
		concepts = []string{}
	}
	return m.pick(concepts, exclude, window), nil
}

func (m *memStore) PickGenericQuestion(_ context.Context, exclude []int64, window Range) (*models.Question, error) {
	return m.pick(nil, exclude, window), nil
}

// ── RatingStore ─────────────────────────────────────────

func (m *memStore) AverageRating(_ context.Context, userID int64) (float64, bool, error) {
	var sum float64
	var n int
	for _, r := range m.ratings {
		if r.UserID == userID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

func (m *memStore) ListRatings(_ context.Context, userID int64) ([]models.SkillRating, error) {
	var out []models.SkillRating
	for _, r := range m.ratings {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out, nil
}

// ── WeakConceptStore ────────────────────────────────────

func (m *memStore) RecordFailure(_ context.Context, userID int64, conceptID string, failedAt, reviewAt time.Time) (int, error) {
	k := key(userID, conceptID)
	if wc, ok := m.concepts[k]; ok {
		wc.FailureCount++
		wc.LastFailedAt = failedAt
		wc.RecommendedReviewAt = reviewAt
		return wc.FailureCount, nil
	}
	m.concepts[k] = &models.WeakConcept{
		UserID:              userID,
		ConceptID:           conceptID,
		FailureCount:        1,
		LastFailedAt:        failedAt,
		RecommendedReviewAt: reviewAt,
	}
	return 1, nil
}

func (m *memStore) Remove(_ context.Context, userID int64, conceptID string) (bool, error) {
	k := key(userID, conceptID)
	if _, ok := m.concepts[k]; !ok {
		return false, nil
	}
	delete(m.concepts, k)
	return true, nil
}

func (m *memStore) DueForReview(_ context.Context, userID int64, now time.Time, limit int) ([]models.WeakConcept, error) {
	var due []models.WeakConcept
	for _, wc := range m.concepts {
		if wc.UserID == userID && !wc.RecommendedReviewAt.After(now) {
			due = append(due, *wc)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].FailureCount != due[j].FailureCount {
			return due[i].FailureCount > due[j].FailureCount
		}
		return due[i].ConceptID < due[j].ConceptID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// ── AttemptStore ────────────────────────────────────────

func (m *memStore) RecentQuestionIDs(_ context.Context, userID int64, _ time.Time) ([]int64, error) {
	return m.recent[userID], nil
}

// ── AnswerStore ─────────────────────────────────────────

func (m *memStore) ApplyAnswer(_ context.Context, p ApplyAnswerParams) (*AnswerOutcome, error) {
	q, ok := m.questions[p.QuestionID]
	if !ok {
		return nil, ErrQuestionNotFound
	}

	k := key(p.UserID, p.SkillID)
	r, ok := m.ratings[k]
	if !ok {
		r = &models.SkillRating{UserID: p.UserID, SkillID: p.SkillID, Rating: BaseRating}
		m.ratings[k] = r
	}

	result := 0.0
	correctInc := 0
	if p.Correct {
		result = 1.0
		correctInc = 1
	}

	oldMid := q.Midpoint()
	oldRating := r.Rating

	r.Rating = UpdateRating(oldRating, oldMid, result)
	r.TotalAttempts++
	r.CorrectAnswers += correctInc
	r.LastPracticedAt = time.Now().UTC()

	q.TimesAnswered++
	q.TimesCorrect += correctInc
	newMid := Retarget(q.TimesCorrect, q.TimesAnswered, oldMid)
	q.TargetMin = newMid - BandHalfWidth
	q.TargetMax = newMid + BandHalfWidth

	m.recent[p.UserID] = append(m.recent[p.UserID], p.QuestionID)
	m.xp[p.UserID] += p.XPEarned

	return &AnswerOutcome{
		OldRating:   oldRating,
		NewRating:   r.Rating,
		OldMidpoint: oldMid,
		NewMidpoint: newMid,
	}, nil
}
