package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/codequest/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetProfile returns the user's balances, creating the default row on
// first read so new accounts always have one.
func (s *Store) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, total_xp, gems, hearts, created_at, updated_at`,
		userID,
	).Scan(&p.UserID, &p.TotalXP, &p.Gems, &p.Hearts, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// RecentXPEvents returns the newest ledger rows for the user.
func (s *Store) RecentXPEvents(ctx context.Context, userID int64, limit int) ([]models.XPEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_type, xp_amount, COALESCE(metadata::text, ''), created_at
		FROM xp_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query xp events: %w", err)
	}
	defer rows.Close()

	events := []models.XPEvent{}
	for rows.Next() {
		var ev models.XPEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.EventType, &ev.XPAmount, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan xp event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
