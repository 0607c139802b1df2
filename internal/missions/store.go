package missions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codequest/backend/internal/models"
)

// Store is the Postgres implementation of ProgressStore and ClaimStore.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const missionColumns = `id, user_id, type, category, title, target_count, current_count,
	       status, reward_xp, reward_gems, reward_hearts, template_version,
	       period_start, expires_at, claimed_at, created_at`

func scanMissions(rows *sql.Rows) ([]models.Mission, error) {
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.UserID, &m.Type, &m.Category, &m.Title,
			&m.TargetCount, &m.CurrentCount, &m.Status,
			&m.RewardXP, &m.RewardGems, &m.RewardHearts, &m.TemplateVersion,
			&m.PeriodStart, &m.ExpiresAt, &m.ClaimedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

func (s *Store) PendingMissions(ctx context.Context, userID int64, now time.Time) ([]models.Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+missionColumns+`
		 FROM missions
		 WHERE user_id = $1 AND status = 'pending' AND expires_at > $2
		 ORDER BY id`,
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("pending missions: %w", err)
	}
	return scanMissions(rows)
}

func (s *Store) ActiveMissions(ctx context.Context, userID int64, now time.Time) ([]models.Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+missionColumns+`
		 FROM missions
		 WHERE user_id = $1
		   AND status IN ('pending', 'completed')
		   AND expires_at > $2
		 ORDER BY type, id`,
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("active missions: %w", err)
	}
	return scanMissions(rows)
}

// Advance caps the counter at the target and completes the mission in
// the same statement, so a counter can never pass its target and the
// flip cannot race the increment.
func (s *Store) Advance(ctx context.Context, missionID int64, inc int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE missions
		 SET current_count = LEAST(current_count + $2, target_count),
		     status = CASE WHEN current_count + $2 >= target_count THEN 'completed' ELSE status END
		 WHERE id = $1 AND status = 'pending'`,
		missionID, inc)
	if err != nil {
		return fmt.Errorf("advance mission: %w", err)
	}
	return nil
}

func (s *Store) HasBatch(ctx context.Context, userID int64, mtype models.MissionType, periodStart time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM missions
		 WHERE user_id = $1 AND type = $2 AND period_start = $3`,
		userID, mtype, periodStart).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count batch: %w", err)
	}
	return count > 0, nil
}

func (s *Store) InsertBatch(ctx context.Context, batch []models.Mission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, m := range batch {
		// The unique (user, type, period, title) index makes a racing
		// duplicate generation a no-op instead of a double batch.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO missions
			 (user_id, type, category, title, target_count, status,
			  reward_xp, reward_gems, reward_hearts, template_version,
			  period_start, expires_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (user_id, type, period_start, title) DO NOTHING`,
			m.UserID, m.Type, m.Category, m.Title, m.TargetCount, m.Status,
			m.RewardXP, m.RewardGems, m.RewardHearts, m.TemplateVersion,
			m.PeriodStart, m.ExpiresAt); err != nil {
			return fmt.Errorf("insert mission: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE missions SET status = 'expired'
		 WHERE status = 'pending' AND expires_at <= $1`,
		now)
	if err != nil {
		return 0, fmt.Errorf("expire pending: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) GetMission(ctx context.Context, missionID int64) (*models.Mission, error) {
	var m models.Mission
	err := s.db.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = $1`,
		missionID,
	).Scan(&m.ID, &m.UserID, &m.Type, &m.Category, &m.Title,
		&m.TargetCount, &m.CurrentCount, &m.Status,
		&m.RewardXP, &m.RewardGems, &m.RewardHearts, &m.TemplateVersion,
		&m.PeriodStart, &m.ExpiresAt, &m.ClaimedAt, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrMissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return &m, nil
}

// MarkClaimed performs the claim transition and the reward grant in one
// transaction. The WHERE clause is the double-claim guard: only a
// COMPLETED, never-claimed row matches.
func (s *Store) MarkClaimed(ctx context.Context, missionID int64, userID int64, xp, gems, hearts int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE missions SET status = 'claimed', claimed_at = NOW()
		 WHERE id = $1 AND status = 'completed' AND claimed_at IS NULL`,
		missionID)
	if err != nil {
		return false, fmt.Errorf("mark claimed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID); err != nil {
		return false, fmt.Errorf("seed profile: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE user_profiles
		 SET total_xp = total_xp + $2, gems = gems + $3, hearts = hearts + $4, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, xp, gems, hearts); err != nil {
		return false, fmt.Errorf("grant reward: %w", err)
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"mission_id": missionID,
		"gems":       gems,
		"hearts":     hearts,
	})
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, 'mission_reward', $2, $3)`,
		userID, xp, string(meta)); err != nil {
		return false, fmt.Errorf("log reward event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit claim: %w", err)
	}
	return true, nil
}
