package models

import "time"

// SkillRating is one (user, skill) Elo-style rating row. Accuracy is
// derived from the two counters on read and never stored.
type SkillRating struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	SkillID         string    `json:"skill_id"`
	Rating          float64   `json:"rating"`
	TotalAttempts   int       `json:"total_attempts"`
	CorrectAnswers  int       `json:"correct_answers"`
	LastPracticedAt time.Time `json:"last_practiced_at"`
}

// Accuracy returns the percentage of correct answers, 0 when the user
// has not attempted the skill yet.
func (r *SkillRating) Accuracy() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalAttempts) * 100
}

type SkillRatingView struct {
	SkillID         string    `json:"skill_id"`
	Rating          float64   `json:"rating"`
	TotalAttempts   int       `json:"total_attempts"`
	CorrectAnswers  int       `json:"correct_answers"`
	Accuracy        float64   `json:"accuracy"`
	LastPracticedAt time.Time `json:"last_practiced_at"`
}

// WeakConcept flags a concept the user recently answered incorrectly.
// The row is deleted outright on the next correct answer.
type WeakConcept struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	ConceptID           string    `json:"concept_id"`
	FailureCount        int       `json:"failure_count"`
	LastFailedAt        time.Time `json:"last_failed_at"`
	RecommendedReviewAt time.Time `json:"recommended_review_at"`
}
