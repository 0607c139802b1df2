package adaptive

import (
	"context"
	"log"

	"github.com/codequest/backend/internal/models"
)

// CorrectAnswerXP is the flat award for a correct answer. Variable XP
// and streak bonuses belong to the lesson-completion flow.
const CorrectAnswerXP = 10

// Processor orchestrates a full answer submission: rating update,
// difficulty retarget, weak-concept bookkeeping, and the atomic
// persistence of all of it.
type Processor struct {
	store   AnswerStore
	tracker *Tracker
}

func NewProcessor(store AnswerStore, tracker *Tracker) *Processor {
	return &Processor{store: store, tracker: tracker}
}

// Submit grades one answer. Returns ErrQuestionNotFound if the question
// id does not exist.
func (p *Processor) Submit(ctx context.Context, userID, questionID int64, isCorrect bool, timeSpent *float64) (*models.SubmitAnswerResponse, error) {
	question, err := p.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	xp := 0
	if isCorrect {
		xp = CorrectAnswerXP
	}

	outcome, err := p.store.ApplyAnswer(ctx, ApplyAnswerParams{
		UserID:     userID,
		QuestionID: questionID,
		SkillID:    question.Skill(),
		Correct:    isCorrect,
		TimeSpent:  timeSpent,
		XPEarned:   xp,
	})
	if err != nil {
		return nil, err
	}

	action, count, err := p.tracker.RecordOutcome(ctx, userID, question.Skill(), isCorrect)
	if err != nil {
		log.Printf("WARN: failed to record weak concept outcome: %v", err)
	} else if action != OutcomeNoop {
		log.Printf("[adaptive] weak concept %s for user %d: %s (count=%d)", question.Skill(), userID, action, count)
	}

	return &models.SubmitAnswerResponse{
		Correct:         isCorrect,
		RatingDelta:     outcome.NewRating - outcome.OldRating,
		NewRating:       outcome.NewRating,
		DifficultyDelta: outcome.NewMidpoint - outcome.OldMidpoint,
		XPEarned:        xp,
	}, nil
}
