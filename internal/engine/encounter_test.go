package engine

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/api"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := *defaults()
	cfg.Seed = 42
	return cfg
}

func startArena(t *testing.T, mutate ...func(*Scenario)) (*Encounter, *domain.Entity, *domain.Entity, *domain.Entity) {
	t.Helper()
	enc, err := NewEncounter(parseArena(t, mutate...), loadLibrary(t), testConfig(), 42)
	require.NoError(t, err)
	all := enc.Turns.Entities()
	require.Len(t, all, 3)
	return enc, all[0], all[1], all[2]
}

func TestEncounter_AIRunsToCompletion(t *testing.T) {
	enc, hero, orc, trap := startArena(t)

	require.NoError(t, enc.RunAI(context.Background()))
	require.True(t, enc.Turns.IsOver())

	// Герой наступил на шипы по пути к орку и проиграл размен ударами
	assert.False(t, hero.IsAlive())
	assert.Equal(t, 2, orc.Stats.HP)
	assert.False(t, trap.Trap.Armed)
	assert.Equal(t, domain.Faction("monsters"), enc.Turns.Winner())

	var trapFired int
	for _, o := range enc.Turns.Log().All() {
		trapFired += len(o.Triggered)
	}
	assert.Equal(t, 1, trapFired)

	assert.NotEmpty(t, enc.Replay.Actions)
	assert.Equal(t, enc.ID.String(), enc.Replay.EncounterID)
	assert.Equal(t, int64(42), enc.Replay.Seed)
}

// Две комнаты без прохода: никто никого не видит
const walledScenario = `
name = "walled"
map = [
  "#########",
  "#S..#...#",
  "#...#...#",
  "#########",
]

[[spawn]]
template = "hero"
x = 1
y = 1

[[spawn]]
template = "goblin"
x = 6
y = 1
`

func TestEncounter_RoundLimitEndsStalemate(t *testing.T) {
	sc, err := ParseScenario([]byte(walledScenario))
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Combat.MaxRounds = 5

	enc, err := NewEncounter(sc, loadLibrary(t), cfg, 42)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, enc.RunAI(ctx))

	require.True(t, enc.Turns.IsOver())
	assert.Equal(t, "round limit", enc.Turns.OverReason())
	assert.Equal(t, 5, enc.Turns.Round())
	assert.Empty(t, enc.Turns.Winner())
	assert.Len(t, enc.Replay.Actions, 10)
	for _, o := range enc.Turns.Log().All() {
		assert.Equal(t, domain.ActionWait, o.Action)
	}
}

func TestEncounter_ReplayIsDeterministic(t *testing.T) {
	lib := loadLibrary(t)
	enc, _, _, _ := startArena(t)
	require.NoError(t, enc.RunAI(context.Background()))

	replayed, err := ReplayEncounter(parseArena(t), lib, testConfig(), enc.Replay)
	require.NoError(t, err)
	assert.True(t, replayed.Turns.IsOver())

	want, err := json.Marshal(enc.Turns.Log().All())
	require.NoError(t, err)
	got, err := json.Marshal(replayed.Turns.Log().All())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestEncounter_ReplayDetectsDivergence(t *testing.T) {
	lib := loadLibrary(t)
	enc, _, _, _ := startArena(t)
	require.NoError(t, enc.RunAI(context.Background()))

	tampered := *enc.Replay
	tampered.Actions = append([]domain.ReplayAction(nil), enc.Replay.Actions...)
	tampered.Actions[0].Round = 5

	_, err := ReplayEncounter(parseArena(t), lib, testConfig(), &tampered)
	assert.Error(t, err)
}

func TestEncounter_HumanTurns(t *testing.T) {
	enc, hero, orc, _ := startArena(t, func(sc *Scenario) { sc.Spawns[0].Human = true })

	// Первым ходит человек: ИИ ничего не делает
	require.NoError(t, enc.RunAI(context.Background()))
	assert.Equal(t, 0, enc.Turns.Log().Len())

	res := enc.Submit(api.ClientCommand{
		Token:   hero.ID.Token(),
		Action:  "move",
		Payload: json.RawMessage(`{"x":2,"y":2}`),
	})
	require.True(t, res.OK, res.Error)
	assert.Equal(t, orc.ID.Token(), res.ActiveEntityID)
	assert.Equal(t, domain.Position{X: 2, Y: 2}, *hero.Pos)

	var out domain.CombatOutcome
	require.NoError(t, json.Unmarshal(res.Outcome, &out))
	assert.Equal(t, domain.ActionMove, out.Action)

	// Орк сходил, ход снова у человека
	require.NoError(t, enc.RunAI(context.Background()))
	cur, err := enc.Turns.CurrentActor()
	require.NoError(t, err)
	assert.Equal(t, hero.ID, cur.ID)
	assert.Equal(t, 2, enc.Turns.Round())
	assert.Len(t, enc.Replay.Actions, 2)
}

func TestEncounter_SubmitErrors(t *testing.T) {
	enc, hero, orc, _ := startArena(t, func(sc *Scenario) { sc.Spawns[0].Human = true })

	tests := []struct {
		name string
		cmd  api.ClientCommand
		kind string
	}{
		{"wrong actor", api.ClientCommand{Token: orc.ID.Token(), Action: "WAIT"}, "NOT_YOUR_TURN"},
		{"unknown action", api.ClientCommand{Token: hero.ID.Token(), Action: "DANCE"}, "INVALID_ACTION"},
		{"bad token", api.ClientCommand{Token: "abc", Action: "WAIT"}, "UNKNOWN_ENTITY"},
		{"missing targets", api.ClientCommand{Token: hero.ID.Token(), Action: "ATTACK", Payload: json.RawMessage(`{}`)}, "INVALID_ACTION"},
		{"broken payload", api.ClientCommand{Token: hero.ID.Token(), Action: "MOVE", Payload: json.RawMessage(`{"x":`)}, "INVALID_ACTION"},
		{"out of reach", api.ClientCommand{Token: hero.ID.Token(), Action: "ATTACK", Payload: json.RawMessage(fmt.Sprintf(`{"targetIds":["%s"]}`, orc.ID.Token()))}, "INVALID_TARGET"},
		{"unknown spell", api.ClientCommand{Token: hero.ID.Token(), Action: "CAST", Payload: json.RawMessage(`{"spell":"Meteor"}`)}, "INVALID_ACTION"},
		{"wall", api.ClientCommand{Token: hero.ID.Token(), Action: "MOVE", Payload: json.RawMessage(`{"x":0,"y":2}`)}, "TILE_BLOCKED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := enc.Submit(tt.cmd)
			assert.False(t, res.OK)
			assert.Equal(t, tt.kind, res.ErrorKind, res.Error)
			assert.Equal(t, hero.ID.Token(), res.ActiveEntityID)
		})
	}
	assert.Equal(t, 0, enc.Turns.Log().Len())
	assert.Empty(t, enc.Replay.Actions)
}

func TestEncounter_CastThroughHandler(t *testing.T) {
	enc, hero, orc, _ := startArena(t, func(sc *Scenario) { sc.Spawns[0].Human = true })

	payload := fmt.Sprintf(`{"spell":"Firebolt","targetIds":["%s"]}`, orc.ID.Token())
	res := enc.Submit(api.ClientCommand{Token: hero.ID.Token(), Action: "CAST", Payload: json.RawMessage(payload)})
	require.True(t, res.OK, res.Error)

	assert.Equal(t, 8, hero.Stats.Resource)
	assert.Less(t, orc.Stats.HP, 20)
}

func TestEncounter_RunAIHonoursCancellation(t *testing.T) {
	enc, _, _, _ := startArena(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, enc.RunAI(ctx), context.Canceled)
	assert.Equal(t, 0, enc.Turns.Log().Len())
}

func TestEncounter_View(t *testing.T) {
	enc, hero, orc, trap := startArena(t)

	view, err := enc.Turns.BuildViewFor(hero.ID)
	require.NoError(t, err)
	assert.Equal(t, hero.ID.Token(), view.MyEntityID)
	require.NotNil(t, view.Grid)
	assert.Equal(t, 7, view.Grid.Width)
	assert.NotEmpty(t, view.Map)

	byID := map[string]api.EntityView{}
	for _, e := range view.Entities {
		byID[e.ID] = e
	}
	require.Contains(t, byID, orc.ID.Token())
	require.Contains(t, byID, trap.ID.Token())

	// Ресурс видят только союзники
	assert.NotNil(t, byID[hero.ID.Token()].Stats.Resource)
	assert.Nil(t, byID[orc.ID.Token()].Stats.Resource)

	_, err = enc.Turns.BuildViewFor(domain.NewEntityID(9, enums.EntityKindEnemy, 9))
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}
