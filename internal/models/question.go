package models

import "time"

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeCodeCompletion QuestionType = "code_completion"
	TypeDebugHunt      QuestionType = "debug_hunt"
	TypeOutputPredict  QuestionType = "output_predict"
)

var ValidQuestionTypes = map[QuestionType]bool{
	TypeMultipleChoice: true,
	TypeCodeCompletion: true,
	TypeDebugHunt:      true,
	TypeOutputPredict:  true,
}

// GeneralSkill is the fallback skill id for questions that carry no
// explicit primary skill.
const GeneralSkill = "general"

// Question is a lesson item plus the adaptive metadata the engine owns.
// Content fields (prompt, choices, explanation) belong to the authoring
// subsystem and are read-only here.
type Question struct {
	ID            int64        `json:"id"`
	Type          QuestionType `json:"type"`
	PrimarySkill  string       `json:"primary_skill"`
	Tags          []string     `json:"tags"`
	Prompt        string       `json:"prompt"`
	TargetMin     float64      `json:"target_min"`
	TargetMax     float64      `json:"target_max"`
	TimesAnswered int          `json:"times_answered"`
	TimesCorrect  int          `json:"times_correct"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Skill returns the question's primary skill id, falling back to
// GeneralSkill when the authoring side left it empty.
func (q *Question) Skill() string {
	if q.PrimarySkill != "" {
		return q.PrimarySkill
	}
	return GeneralSkill
}

// Midpoint returns the center of the question's difficulty band,
// defaulting to the base rating when the band was never set.
func (q *Question) Midpoint() float64 {
	if q.TargetMin == 0 && q.TargetMax == 0 {
		return 1200
	}
	return (q.TargetMin + q.TargetMax) / 2
}

// QuestionAttempt is one row of the append-only answer log, used to
// exclude recently seen questions from selection.
type QuestionAttempt struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	Correct    bool      `json:"correct"`
	TimeSpent  *float64  `json:"time_spent_seconds,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SubmitAnswerRequest struct {
	IsCorrect        bool     `json:"is_correct"`
	TimeSpentSeconds *float64 `json:"time_spent_seconds,omitempty"`
}

type SubmitAnswerResponse struct {
	Correct         bool    `json:"correct"`
	RatingDelta     float64 `json:"rating_delta"`
	NewRating       float64 `json:"new_rating"`
	DifficultyDelta float64 `json:"difficulty_delta"`
	XPEarned        int     `json:"xp_earned"`
}
