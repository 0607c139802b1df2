package missions

import "github.com/codequest/backend/internal/models"

// Template describes one mission in a generated batch. The version
// constants bump whenever a set changes so already-issued batches are
// distinguishable from rows created by a newer template set.
type Template struct {
	Category     models.MissionCategory
	Title        string
	TargetCount  int
	RewardXP     int
	RewardGems   int
	RewardHearts int
}

const (
	DailyTemplateVersion  = 1
	WeeklyTemplateVersion = 1
)

var dailyTemplates = []Template{
	{Category: models.CategoryQuestions, Title: "Answer 10 questions", TargetCount: 10, RewardXP: 20, RewardGems: 5},
	{Category: models.CategoryCorrectAnswers, Title: "Get 5 answers right", TargetCount: 5, RewardXP: 30, RewardGems: 5},
	{Category: models.CategoryXP, Title: "Earn 50 XP", TargetCount: 50, RewardXP: 0, RewardGems: 10},
	{Category: models.CategoryLessons, Title: "Finish 2 lessons", TargetCount: 2, RewardXP: 25, RewardHearts: 1},
}

var weeklyTemplates = []Template{
	{Category: models.CategoryQuestions, Title: "Answer 60 questions this week", TargetCount: 60, RewardXP: 100, RewardGems: 25},
	{Category: models.CategoryBugFix, Title: "Squash 10 bugs", TargetCount: 10, RewardXP: 120, RewardGems: 30},
	{Category: models.CategoryStreak, Title: "Practice 5 days in a row", TargetCount: 5, RewardXP: 80, RewardGems: 20, RewardHearts: 2},
	{Category: models.CategoryXP, Title: "Earn 400 XP this week", TargetCount: 400, RewardXP: 0, RewardGems: 50},
}
