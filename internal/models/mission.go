package models

import "time"

type MissionType string

const (
	MissionDaily  MissionType = "daily"
	MissionWeekly MissionType = "weekly"
	MissionEvent  MissionType = "event"
)

type MissionStatus string

const (
	MissionPending   MissionStatus = "pending"
	MissionCompleted MissionStatus = "completed"
	MissionClaimed   MissionStatus = "claimed"
	MissionExpired   MissionStatus = "expired"
)

type MissionCategory string

const (
	CategoryXP             MissionCategory = "xp"
	CategoryLessons        MissionCategory = "lessons"
	CategoryQuestions      MissionCategory = "questions"
	CategoryCorrectAnswers MissionCategory = "correct_answers"
	CategoryBugFix         MissionCategory = "bug_fix"
	CategoryStreak         MissionCategory = "streak"
)

type Mission struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Type            MissionType     `json:"type"`
	Category        MissionCategory `json:"category"`
	Title           string          `json:"title"`
	TargetCount     int             `json:"target_count"`
	CurrentCount    int             `json:"current_count"`
	Status          MissionStatus   `json:"status"`
	RewardXP        int             `json:"reward_xp"`
	RewardGems      int             `json:"reward_gems"`
	RewardHearts    int             `json:"reward_hearts"`
	TemplateVersion int             `json:"template_version"`
	PeriodStart     time.Time       `json:"period_start"`
	ExpiresAt       time.Time       `json:"expires_at"`
	ClaimedAt       *time.Time      `json:"claimed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EventKind identifies a domain event fed to the mission progress engine.
type EventKind string

const (
	EventXPGained         EventKind = "xp_gained"
	EventLessonCompleted  EventKind = "lesson_completed"
	EventQuestionAnswered EventKind = "question_answered"
	EventStreakExtended   EventKind = "streak_extended"
)

// ProgressEvent is the payload of POST /missions/progress. Amount only
// matters for xp_gained; IsCorrect and QuestionType only for
// question_answered.
type ProgressEvent struct {
	Kind         EventKind    `json:"kind"`
	Amount       int          `json:"amount,omitempty"`
	IsCorrect    bool         `json:"is_correct,omitempty"`
	QuestionType QuestionType `json:"question_type,omitempty"`
}

type ClaimResponse struct {
	MissionID     int64 `json:"mission_id"`
	XPGranted     int   `json:"xp_granted"`
	GemsGranted   int   `json:"gems_granted"`
	HeartsGranted int   `json:"hearts_granted"`
}

// UserProfile holds the balances the reward engine and answer processor
// increment.
type UserProfile struct {
	UserID    int64     `json:"user_id"`
	TotalXP   int64     `json:"total_xp"`
	Gems      int       `json:"gems"`
	Hearts    int       `json:"hearts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	XPAmount  int       `json:"xp_amount"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
