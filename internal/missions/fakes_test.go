package missions

import (
	"context"
	"sort"
	"time"

	"github.com/codequest/backend/internal/models"
)

// memStore is an in-memory ProgressStore and ClaimStore for tests.
type memStore struct {
	missions map[int64]*models.Mission
	nextID   int64
	grants   []grant
}

type grant struct {
	userID           int64
	xp, gems, hearts int
}

func newMemStore() *memStore {
	return &memStore{missions: make(map[int64]*models.Mission), nextID: 1}
}

func (m *memStore) add(mission models.Mission) int64 {
	mission.ID = m.nextID
	m.nextID++
	m.missions[mission.ID] = &mission
	return mission.ID
}

func (m *memStore) list(userID int64, now time.Time, statuses ...models.MissionStatus) []models.Mission {
	allowed := make(map[models.MissionStatus]bool)
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.Mission
	for _, mi := range m.missions {
		if mi.UserID == userID && allowed[mi.Status] && mi.ExpiresAt.After(now) {
			out = append(out, *mi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) PendingMissions(_ context.Context, userID int64, now time.Time) ([]models.Mission, error) {
	return m.list(userID, now, models.MissionPending), nil
}

func (m *memStore) ActiveMissions(_ context.Context, userID int64, now time.Time) ([]models.Mission, error) {
	return m.list(userID, now, models.MissionPending, models.MissionCompleted), nil
}

func (m *memStore) Advance(_ context.Context, missionID int64, inc int) error {
	mi, ok := m.missions[missionID]
	if !ok || mi.Status != models.MissionPending {
		return nil
	}
	mi.CurrentCount += inc
	if mi.CurrentCount >= mi.TargetCount {
		mi.CurrentCount = mi.TargetCount
		mi.Status = models.MissionCompleted
	}
	return nil
}

func (m *memStore) HasBatch(_ context.Context, userID int64, mtype models.MissionType, periodStart time.Time) (bool, error) {
	for _, mi := range m.missions {
		if mi.UserID == userID && mi.Type == mtype && mi.PeriodStart.Equal(periodStart) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertBatch(_ context.Context, batch []models.Mission) error {
	for _, mi := range batch {
		m.add(mi)
	}
	return nil
}

func (m *memStore) ExpirePending(_ context.Context, now time.Time) (int, error) {
	n := 0
	for _, mi := range m.missions {
		if mi.Status == models.MissionPending && !mi.ExpiresAt.After(now) {
			mi.Status = models.MissionExpired
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetMission(_ context.Context, missionID int64) (*models.Mission, error) {
	mi, ok := m.missions[missionID]
	if !ok {
		return nil, ErrMissionNotFound
	}
	cp := *mi
	return &cp, nil
}

func (m *memStore) MarkClaimed(_ context.Context, missionID int64, userID int64, xp, gems, hearts int) (bool, error) {
	mi, ok := m.missions[missionID]
	if !ok || mi.Status != models.MissionCompleted || mi.ClaimedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	mi.Status = models.MissionClaimed
	mi.ClaimedAt = &now
	m.grants = append(m.grants, grant{userID: userID, xp: xp, gems: gems, hearts: hearts})
	return true, nil
}
