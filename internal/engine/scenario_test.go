package engine

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/roster"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaScenario = `
name = "arena"
description = "A sandy pit under a broken dome."
time_of_day = "dusk"
weather = "dust"
map = [
  "#######",
  "#.....#",
  "#S.x..#",
  "#.....#",
  "#######",
]

[[lore]]
ref = "dome"
text = "Sunlight falls through the cracked dome."

[[tiles]]
x = 3
y = 1
lore_ref = "dome"

[[spawn]]
template = "hero"
x = 1
y = 2

[[spawn]]
template = "orc"
x = 5
y = 2

[[spawn]]
template = "spike_trap"
x = 3
y = 2
`

func loadLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := LoadLibrary("../../data")
	require.NoError(t, err)
	return lib
}

func parseArena(t *testing.T, mutate ...func(*Scenario)) *Scenario {
	t.Helper()
	sc, err := ParseScenario([]byte(arenaScenario))
	require.NoError(t, err)
	for _, m := range mutate {
		m(sc)
	}
	return sc
}

func TestScenario_BuildWorld(t *testing.T) {
	sc := parseArena(t)
	w, err := sc.BuildWorld()
	require.NoError(t, err)

	assert.Equal(t, 7, w.Width)
	assert.Equal(t, 5, w.Height)
	assert.False(t, w.IsPassable(domain.Position{X: 0, Y: 0}))
	assert.True(t, w.HasTag(domain.Position{X: 1, Y: 2}, enums.TagStartZone))
	assert.True(t, w.HasTag(domain.Position{X: 3, Y: 2}, enums.TagTrapZone))
	assert.Equal(t, "Sunlight falls through the cracked dome.", w.LoreAt(domain.Position{X: 3, Y: 1}))
	assert.Contains(t, w.Lore.Describe(), "sandy pit")
}

func TestScenario_Populate(t *testing.T) {
	lib := loadLibrary(t)
	sc := parseArena(t)
	w, err := sc.BuildWorld()
	require.NoError(t, err)

	spawner := roster.NewSpawner(lib.Bestiary, lib.Spells, sc.Region)
	participants, err := sc.Populate(spawner, w, 4)
	require.NoError(t, err)
	require.Len(t, participants, 3)

	hero, orc, trap := participants[0], participants[1], participants[2]
	id, ok := w.OccupantAt(domain.Position{X: 1, Y: 2})
	assert.True(t, ok)
	assert.Equal(t, hero.ID, id)
	id, _ = w.OccupantAt(domain.Position{X: 5, Y: 2})
	assert.Equal(t, orc.ID, id)

	// Ловушка тайл не занимает
	_, ok = w.OccupantAt(domain.Position{X: 3, Y: 2})
	assert.False(t, ok)
	assert.Equal(t, 4, trap.Trap.ResetAfter)
}

func TestScenario_Errors(t *testing.T) {
	lib := loadLibrary(t)

	_, err := ParseScenario([]byte(`name = "empty"`))
	assert.Error(t, err)

	_, err = ParseScenario([]byte(`name = [`))
	assert.Error(t, err)

	bad := parseArena(t, func(sc *Scenario) { sc.Map[1] = "#..?..#" })
	_, err = bad.BuildWorld()
	assert.Error(t, err)

	noPos := parseArena(t, func(sc *Scenario) { sc.Spawns[0].X = nil })
	w, err := noPos.BuildWorld()
	require.NoError(t, err)
	_, err = noPos.Populate(roster.NewSpawner(lib.Bestiary, lib.Spells, 0), w, 0)
	assert.Error(t, err)

	wall := parseArena(t)
	x, y := 0, 0
	wall.Spawns[1].X, wall.Spawns[1].Y = &x, &y
	w, err = wall.BuildWorld()
	require.NoError(t, err)
	_, err = wall.Populate(roster.NewSpawner(lib.Bestiary, lib.Spells, 0), w, 0)
	assert.ErrorIs(t, err, domain.ErrTileBlocked)
}

func TestScenario_PopulateRespectsZones(t *testing.T) {
	lib := loadLibrary(t)
	spawner := func() *roster.Spawner { return roster.NewSpawner(lib.Bestiary, lib.Spells, 0) }
	at := func(i, x, y int) func(*Scenario) {
		return func(sc *Scenario) { sc.Spawns[i].X, sc.Spawns[i].Y = &x, &y }
	}

	tests := []struct {
		name   string
		mutate func(*Scenario)
		errMsg string
	}{
		{"hero outside start zone", at(0, 2, 2), "start zone"},
		{"trap outside trap zone", at(2, 4, 3), "trap zone"},
		// Враги ставятся где угодно
		{"orc anywhere", at(1, 2, 1), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := parseArena(t, tt.mutate)
			w, err := sc.BuildWorld()
			require.NoError(t, err)
			_, err = sc.Populate(spawner(), w, 0)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
			assert.ErrorIs(t, err, domain.ErrInvalidTarget)
		})
	}

	// Без разметки зон ограничений нет
	free := parseArena(t, func(sc *Scenario) {
		sc.Map[2] = "#.....#"
	}, at(0, 2, 3), at(2, 4, 1))
	w, err := free.BuildWorld()
	require.NoError(t, err)
	_, err = free.Populate(spawner(), w, 0)
	assert.NoError(t, err)
}

func TestScenario_Mapless(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name = "duel"
[[spawn]]
template = "hero"
[[spawn]]
template = "goblin"
`))
	require.NoError(t, err)
	w, err := sc.BuildWorld()
	require.NoError(t, err)
	assert.Nil(t, w)
}
