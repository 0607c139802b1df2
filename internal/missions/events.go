package missions

import "github.com/codequest/backend/internal/models"

// eventCategories is the static event → category table. Adding a
// mission category means adding a row here, nothing else.
var eventCategories = map[models.EventKind][]models.MissionCategory{
	models.EventXPGained:         {models.CategoryXP},
	models.EventLessonCompleted:  {models.CategoryLessons},
	models.EventQuestionAnswered: {models.CategoryQuestions, models.CategoryCorrectAnswers, models.CategoryBugFix},
	models.EventStreakExtended:   {models.CategoryStreak},
}

// Increments maps a domain event onto the mission categories it
// advances and by how much. Categories whose qualifier the event does
// not meet are omitted; an unknown event kind yields an empty map.
func Increments(ev models.ProgressEvent) map[models.MissionCategory]int {
	incs := make(map[models.MissionCategory]int)
	for _, cat := range eventCategories[ev.Kind] {
		switch cat {
		case models.CategoryXP:
			if ev.Amount > 0 {
				incs[cat] = ev.Amount
			}
		case models.CategoryCorrectAnswers:
			if ev.IsCorrect {
				incs[cat] = 1
			}
		case models.CategoryBugFix:
			if ev.IsCorrect && ev.QuestionType == models.TypeDebugHunt {
				incs[cat] = 1
			}
		default:
			incs[cat] = 1
		}
	}
	return incs
}
