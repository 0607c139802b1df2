package missions

import (
	"context"
	"fmt"

	"github.com/codequest/backend/internal/models"
)

// RewardEngine realizes a completed mission's reward exactly once.
type RewardEngine struct {
	store ClaimStore
}

func NewRewardEngine(store ClaimStore) *RewardEngine {
	return &RewardEngine{store: store}
}

// Claim transitions a COMPLETED mission to CLAIMED and grants its
// reward. A second claim returns ErrAlreadyClaimed; claiming a pending
// or expired mission returns ErrNotCompleted.
func (r *RewardEngine) Claim(ctx context.Context, userID, missionID int64) (*models.ClaimResponse, error) {
	m, err := r.store.GetMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrUnauthorized
	}

	claimed, err := r.store.MarkClaimed(ctx, missionID, userID, m.RewardXP, m.RewardGems, m.RewardHearts)
	if err != nil {
		return nil, fmt.Errorf("claim mission: %w", err)
	}
	if !claimed {
		// The conditional update matched nothing: either someone beat us
		// to the claim or the mission was never claimable.
		current, err := r.store.GetMission(ctx, missionID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.MissionClaimed || current.ClaimedAt != nil {
			return nil, ErrAlreadyClaimed
		}
		return nil, ErrNotCompleted
	}

	return &models.ClaimResponse{
		MissionID:     missionID,
		XPGranted:     m.RewardXP,
		GemsGranted:   m.RewardGems,
		HeartsGranted: m.RewardHearts,
	}, nil
}
