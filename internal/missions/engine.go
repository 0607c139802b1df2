package missions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codequest/backend/internal/models"
)

// Engine advances mission counters from domain events and issues and
// expires mission batches. It never grants rewards; that is the
// RewardEngine's claim path.
type Engine struct {
	store ProgressStore
}

func NewEngine(store ProgressStore) *Engine {
	return &Engine{store: store}
}

// UpdateProgress applies one domain event to the user's pending
// missions. Best effort: missions the event does not match are skipped,
// and a failed row update is logged rather than failing the call. The
// caller is responsible for at-most-once event emission; events are not
// deduplicated here.
func (e *Engine) UpdateProgress(ctx context.Context, userID int64, ev models.ProgressEvent) error {
	incs := Increments(ev)
	if len(incs) == 0 {
		return nil
	}

	pending, err := e.store.PendingMissions(ctx, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("load pending missions: %w", err)
	}

	for _, m := range pending {
		inc, ok := incs[m.Category]
		if !ok {
			continue
		}
		if err := e.store.Advance(ctx, m.ID, inc); err != nil {
			log.Printf("WARN: failed to advance mission %d: %v", m.ID, err)
		}
	}
	return nil
}

// ActiveMissions returns the user's displayable mission set.
func (e *Engine) ActiveMissions(ctx context.Context, userID int64) ([]models.Mission, error) {
	return e.store.ActiveMissions(ctx, userID, time.Now().UTC())
}

// GenerateDaily issues the daily mission batch for the current UTC day.
// Idempotent: a second call inside the same day does nothing.
func (e *Engine) GenerateDaily(ctx context.Context, userID int64) error {
	start := dayStart(time.Now().UTC())
	return e.generate(ctx, userID, models.MissionDaily, dailyTemplates, DailyTemplateVersion, start, start.Add(24*time.Hour))
}

// GenerateWeekly issues the weekly batch for the current UTC week
// (Monday start). Idempotent per week.
func (e *Engine) GenerateWeekly(ctx context.Context, userID int64) error {
	start := weekStart(time.Now().UTC())
	return e.generate(ctx, userID, models.MissionWeekly, weeklyTemplates, WeeklyTemplateVersion, start, start.AddDate(0, 0, 7))
}

func (e *Engine) generate(ctx context.Context, userID int64, mtype models.MissionType, templates []Template, version int, periodStart, expiresAt time.Time) error {
	exists, err := e.store.HasBatch(ctx, userID, mtype, periodStart)
	if err != nil {
		return fmt.Errorf("check existing batch: %w", err)
	}
	if exists {
		return nil
	}

	batch := make([]models.Mission, 0, len(templates))
	for _, t := range templates {
		batch = append(batch, models.Mission{
			UserID:          userID,
			Type:            mtype,
			Category:        t.Category,
			Title:           t.Title,
			TargetCount:     t.TargetCount,
			Status:          models.MissionPending,
			RewardXP:        t.RewardXP,
			RewardGems:      t.RewardGems,
			RewardHearts:    t.RewardHearts,
			TemplateVersion: version,
			PeriodStart:     periodStart,
			ExpiresAt:       expiresAt,
		})
	}

	if err := e.store.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("insert %s batch: %w", mtype, err)
	}
	return nil
}

// ExpireMissions sweeps every pending mission past its expiry into the
// terminal EXPIRED state and returns the number swept. Expired missions
// are never claimable and never reopened.
func (e *Engine) ExpireMissions(ctx context.Context) (int, error) {
	n, err := e.store.ExpirePending(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire missions: %w", err)
	}
	return n, nil
}

// StartExpirySweeper runs the expiry sweep on an interval until the
// context is cancelled. An external cron hitting the expire endpoint
// works too; this keeps a single-process deploy self-contained.
func (e *Engine) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	log.Printf("[missions] expiry sweeper started (every %s)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[missions] expiry sweeper stopped")
			return
		case <-ticker.C:
			n, err := e.ExpireMissions(ctx)
			if err != nil {
				log.Printf("WARN: expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[missions] expired %d missions", n)
			}
		}
	}
}

// dayStart truncates to UTC midnight.
func dayStart(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// weekStart returns the Monday 00:00 UTC opening the week containing t.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
