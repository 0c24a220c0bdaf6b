package sqlite

import (
	"cognitive-encounter/internal/domain"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "encounters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestStore_Snapshots(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := domain.Snapshot{
		EncounterID: "enc-1",
		Round:       1,
		State:       "awaiting_action",
		Active:      3,
		Outcomes:    2,
		Entities: []domain.EntitySnapshot{
			{ID: 3, Name: "Hero", HP: 30, MaxHP: 30},
		},
	}
	second := first
	second.Round = 2
	second.Outcomes = 5
	second.Entities = []domain.EntitySnapshot{{ID: 3, Name: "Hero", HP: 14, MaxHP: 30}}

	require.NoError(t, s.SaveSnapshot(ctx, first))
	require.NoError(t, s.SaveSnapshot(ctx, second))

	latest, err := s.LatestSnapshot(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Round)
	require.Len(t, latest.Entities, 1)
	assert.Equal(t, 14, latest.Entities[0].HP)

	// Тот же момент перезаписывается
	second.State = "encounter_over"
	require.NoError(t, s.SaveSnapshot(ctx, second))

	list, err := s.ListSnapshots(ctx, "enc-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Outcomes)
	assert.Equal(t, "encounter_over", list[1].State)

	_, err = s.LatestSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.SaveSnapshot(ctx, domain.Snapshot{}))
}

func TestStore_Replays(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	session := &domain.ReplaySession{EncounterID: "enc-2", Scenario: "crypt", Seed: 7}
	session.Record(1, domain.Command{Action: domain.ActionAttack, Token: 5, Payload: json.RawMessage(`{"targetIds":["6"]}`)})

	require.NoError(t, s.SaveReplay(ctx, session))

	loaded, err := s.LoadReplay(ctx, "enc-2")
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.Seed)
	require.Len(t, loaded.Actions, 1)
	assert.Equal(t, domain.EntityID(5), loaded.Actions[0].Token)

	_, err = s.LoadReplay(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
