package missions

import (
	"context"
	"errors"
	"time"

	"github.com/codequest/backend/internal/models"
)

var (
	// ErrMissionNotFound is returned when a mission id does not exist.
	ErrMissionNotFound = errors.New("mission not found")

	// ErrUnauthorized is returned when a mission belongs to a different
	// user than the caller.
	ErrUnauthorized = errors.New("mission belongs to a different user")

	// ErrNotCompleted is returned when a claim targets a mission that is
	// still pending or already expired.
	ErrNotCompleted = errors.New("mission not completed")

	// ErrAlreadyClaimed is returned on a second claim of the same mission.
	ErrAlreadyClaimed = errors.New("mission already claimed")
)

// ProgressStore is what the progress engine needs from storage.
type ProgressStore interface {
	// PendingMissions returns the user's PENDING missions whose expiry
	// is still in the future.
	PendingMissions(ctx context.Context, userID int64, now time.Time) ([]models.Mission, error)
	// ActiveMissions returns PENDING and COMPLETED missions that have
	// not expired, for display.
	ActiveMissions(ctx context.Context, userID int64, now time.Time) ([]models.Mission, error)
	// Advance bumps a pending mission's counter by inc, capped at the
	// target, flipping status to COMPLETED in the same update when the
	// cap is reached.
	Advance(ctx context.Context, missionID int64, inc int) error
	// HasBatch reports whether missions of the given type already exist
	// for the period starting at periodStart.
	HasBatch(ctx context.Context, userID int64, mtype models.MissionType, periodStart time.Time) (bool, error)
	InsertBatch(ctx context.Context, batch []models.Mission) error
	// ExpirePending flips every PENDING mission past its expiry to
	// EXPIRED and returns how many rows changed.
	ExpirePending(ctx context.Context, now time.Time) (int, error)
}

// ClaimStore is what the reward engine needs from storage.
type ClaimStore interface {
	GetMission(ctx context.Context, missionID int64) (*models.Mission, error)
	// MarkClaimed atomically transitions COMPLETED → CLAIMED and grants
	// the reward (balance increments plus an XP ledger row) in the same
	// transaction. Returns false when the conditional update matched no
	// row, i.e. the mission was not claimable.
	MarkClaimed(ctx context.Context, missionID int64, userID int64, xp, gems, hearts int) (bool, error)
}
