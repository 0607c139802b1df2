package missions

import (
	"context"
	"testing"
	"time"

	"github.com/codequest/backend/internal/models"
)

func pendingMission(userID int64, cat models.MissionCategory, target int) models.Mission {
	now := time.Now().UTC()
	return models.Mission{
		UserID:      userID,
		Type:        models.MissionDaily,
		Category:    cat,
		TargetCount: target,
		Status:      models.MissionPending,
		PeriodStart: dayStart(now),
		ExpiresAt:   now.Add(time.Hour),
	}
}

func TestUpdateProgressAdvancesMatchingMissions(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	questionsID := store.add(pendingMission(1, models.CategoryQuestions, 10))
	correctID := store.add(pendingMission(1, models.CategoryCorrectAnswers, 5))
	lessonsID := store.add(pendingMission(1, models.CategoryLessons, 2))

	ev := models.ProgressEvent{Kind: models.EventQuestionAnswered, IsCorrect: true}
	if err := engine.UpdateProgress(ctx, 1, ev); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	if got := store.missions[questionsID].CurrentCount; got != 1 {
		t.Errorf("questions count = %d, want 1", got)
	}
	if got := store.missions[correctID].CurrentCount; got != 1 {
		t.Errorf("correct answers count = %d, want 1", got)
	}
	if got := store.missions[lessonsID].CurrentCount; got != 0 {
		t.Errorf("lessons count = %d, want 0 (event does not match)", got)
	}
}

func TestUpdateProgressCompletesAtTarget(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	m := pendingMission(1, models.CategoryCorrectAnswers, 3)
	m.CurrentCount = 2
	id := store.add(m)

	ev := models.ProgressEvent{Kind: models.EventQuestionAnswered, IsCorrect: true}
	if err := engine.UpdateProgress(ctx, 1, ev); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	got := store.missions[id]
	if got.Status != models.MissionCompleted {
		t.Errorf("status = %s, want %s", got.Status, models.MissionCompleted)
	}
	if got.CurrentCount != 3 {
		t.Errorf("count = %d, want 3", got.CurrentCount)
	}

	// A completed mission is no longer advanced and never overshoots.
	if err := engine.UpdateProgress(ctx, 1, ev); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if got.CurrentCount != 3 {
		t.Errorf("count after extra event = %d, want 3", got.CurrentCount)
	}
}

func TestUpdateProgressCapsXPOvershoot(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	m := pendingMission(1, models.CategoryXP, 50)
	m.CurrentCount = 45
	id := store.add(m)

	ev := models.ProgressEvent{Kind: models.EventXPGained, Amount: 25}
	if err := engine.UpdateProgress(ctx, 1, ev); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	got := store.missions[id]
	if got.CurrentCount != 50 {
		t.Errorf("count = %d, want 50 (capped at target)", got.CurrentCount)
	}
	if got.Status != models.MissionCompleted {
		t.Errorf("status = %s, want %s", got.Status, models.MissionCompleted)
	}
}

func TestUpdateProgressIgnoresOtherUsers(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	id := store.add(pendingMission(2, models.CategoryQuestions, 10))

	ev := models.ProgressEvent{Kind: models.EventQuestionAnswered}
	if err := engine.UpdateProgress(context.Background(), 1, ev); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if got := store.missions[id].CurrentCount; got != 0 {
		t.Errorf("count = %d, want 0 (mission belongs to another user)", got)
	}
}

func TestGenerateDailyIdempotent(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	if err := engine.GenerateDaily(ctx, 1); err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	if len(store.missions) != len(dailyTemplates) {
		t.Fatalf("missions = %d, want %d", len(store.missions), len(dailyTemplates))
	}

	if err := engine.GenerateDaily(ctx, 1); err != nil {
		t.Fatalf("GenerateDaily (repeat): %v", err)
	}
	if len(store.missions) != len(dailyTemplates) {
		t.Errorf("missions after repeat = %d, want %d", len(store.missions), len(dailyTemplates))
	}

	for _, m := range store.missions {
		if m.Status != models.MissionPending {
			t.Errorf("mission %q status = %s, want pending", m.Title, m.Status)
		}
		if m.TemplateVersion != DailyTemplateVersion {
			t.Errorf("mission %q template version = %d, want %d", m.Title, m.TemplateVersion, DailyTemplateVersion)
		}
		if !m.ExpiresAt.Equal(m.PeriodStart.Add(24 * time.Hour)) {
			t.Errorf("mission %q expires at %v, want period start + 24h", m.Title, m.ExpiresAt)
		}
	}
}

func TestGenerateWeeklyPeriod(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	if err := engine.GenerateWeekly(context.Background(), 1); err != nil {
		t.Fatalf("GenerateWeekly: %v", err)
	}
	if len(store.missions) != len(weeklyTemplates) {
		t.Fatalf("missions = %d, want %d", len(store.missions), len(weeklyTemplates))
	}
	for _, m := range store.missions {
		if m.PeriodStart.Weekday() != time.Monday {
			t.Errorf("period start %v is a %s, want Monday", m.PeriodStart, m.PeriodStart.Weekday())
		}
		if !m.ExpiresAt.Equal(m.PeriodStart.AddDate(0, 0, 7)) {
			t.Errorf("mission %q expires at %v, want period start + 7d", m.Title, m.ExpiresAt)
		}
	}
}

func TestExpireMissions(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	past := pendingMission(1, models.CategoryQuestions, 10)
	past.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	expiredID := store.add(past)

	liveID := store.add(pendingMission(1, models.CategoryLessons, 2))

	done := pendingMission(1, models.CategoryXP, 50)
	done.Status = models.MissionCompleted
	done.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	doneID := store.add(done)

	n, err := engine.ExpireMissions(ctx)
	if err != nil {
		t.Fatalf("ExpireMissions: %v", err)
	}
	if n != 1 {
		t.Errorf("expired = %d, want 1", n)
	}
	if got := store.missions[expiredID].Status; got != models.MissionExpired {
		t.Errorf("stale pending mission status = %s, want expired", got)
	}
	if got := store.missions[liveID].Status; got != models.MissionPending {
		t.Errorf("live mission status = %s, want pending", got)
	}
	if got := store.missions[doneID].Status; got != models.MissionCompleted {
		t.Errorf("completed mission status = %s, want completed (only pending expires)", got)
	}

	active, err := engine.ActiveMissions(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveMissions: %v", err)
	}
	if len(active) != 1 || active[0].ID != liveID {
		t.Errorf("active = %v, want just mission %d", active, liveID)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-08-31T10:30:00Z", "2026-08-31T00:00:00Z"}, // a Monday
		{"2026-09-06T23:59:59Z", "2026-08-31T00:00:00Z"}, // following Sunday
		{"2026-09-07T00:00:00Z", "2026-09-07T00:00:00Z"}, // next Monday
	}
	for _, tt := range tests {
		in, _ := time.Parse(time.RFC3339, tt.in)
		want, _ := time.Parse(time.RFC3339, tt.want)
		if got := weekStart(in); !got.Equal(want) {
			t.Errorf("weekStart(%s) = %v, want %v", tt.in, got, want)
		}
	}
}
