package roster

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadData(t *testing.T) (*SpellTable, *Bestiary) {
	t.Helper()
	spells, err := LoadSpellTable("../../data/spells.yaml")
	require.NoError(t, err)
	bestiary, err := LoadBestiary("../../data/bestiary.yaml")
	require.NoError(t, err)
	return spells, bestiary
}

func TestLoadShippedData(t *testing.T) {
	spells, bestiary := loadData(t)

	assert.Equal(t, 8, spells.Count())
	fire := spells.Get("Firebolt")
	require.NotNil(t, fire)
	assert.Equal(t, enums.SpellTargetSingle, fire.Target)
	assert.Equal(t, enums.EffectDamage, fire.Effect)
	assert.Equal(t, "2d6", fire.Dice)

	skin := spells.Get("Stone Skin")
	require.NotNil(t, skin)
	assert.Equal(t, enums.SpellTargetSelf, skin.Target)
	assert.Equal(t, enums.StatusShielded, skin.Status)

	assert.Equal(t, 11, bestiary.Count())
	assert.Equal(t, enums.EntityKindNamedEnemy, bestiary.Get("bonelord").Kind)
	assert.Nil(t, bestiary.Get("dragon"))
}

func TestParseSpellTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing effect", "spells:\n  - name: Fizzle\n    cost: 1\n"},
		{"bad dice", "spells:\n  - name: Oops\n    effect: damage\n    dice: 2x6\n"},
		{"duplicate", "spells:\n  - name: A\n    effect: heal\n  - name: A\n    effect: heal\n"},
		{"status without kind", "spells:\n  - name: Curse\n    effect: status\n"},
		{"malformed", "spells: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpellTable([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSpawner_SharedSpellsAndIDs(t *testing.T) {
	spells, bestiary := loadData(t)
	sp := NewSpawner(bestiary, spells, domain.DefaultRegion)

	hero, err := sp.Spawn("hero", SpawnOptions{Human: true, Pos: &domain.Position{X: 1, Y: 1}})
	require.NoError(t, err)
	goblin, err := sp.Spawn("goblin", SpawnOptions{Name: "Snik"})
	require.NoError(t, err)

	assert.Equal(t, uint32(1), hero.ID.Index())
	assert.Equal(t, 2, hero.SaveModifier())
	assert.Equal(t, enums.EntityKindPlayer, hero.ID.Kind())
	assert.Equal(t, uint32(2), goblin.ID.Index())
	assert.Equal(t, "Snik", goblin.Name)
	assert.True(t, hero.IsHuman())

	// Книга хранит ссылку на ту же запись таблицы
	assert.Same(t, spells.Get("Firebolt"), hero.FindSpell("Firebolt"))
	assert.Equal(t, 30, hero.Stats.HP)
	assert.Equal(t, domain.Position{X: 1, Y: 1}, *hero.Pos)

	_, err = sp.Spawn("goblin", SpawnOptions{Human: true})
	assert.Error(t, err, "monsters cannot be human-controlled")
	_, err = sp.Spawn("dragon", SpawnOptions{})
	assert.Error(t, err)

	next, err := sp.Spawn("orc", SpawnOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), next.ID.Index(), "failed spawns do not consume indices")
}

func TestTemplateBuild_Variants(t *testing.T) {
	spells, bestiary := loadData(t)
	sp := NewSpawner(bestiary, spells, domain.DefaultRegion)

	boss, err := sp.Spawn("bonelord", SpawnOptions{})
	require.NoError(t, err)
	require.NotNil(t, boss.Named)
	assert.Equal(t, "the Bonelord", boss.Named.Title)
	assert.Equal(t, 9, boss.AttackPower())
	require.NotNil(t, boss.Character)
	assert.NotNil(t, boss.FindSpell("Frost Nova"))

	hermit, err := sp.Spawn("hermit", SpawnOptions{})
	require.NoError(t, err)
	assert.False(t, hermit.TakesTurns())

	trap, err := sp.Spawn("spike_trap", SpawnOptions{Pos: &domain.Position{X: 3, Y: 2}})
	require.NoError(t, err)
	assert.Nil(t, trap.Stats, "indestructible trap has no vitality")
	assert.Equal(t, domain.FactionHazard, trap.Faction)
	assert.Equal(t, domain.Position{X: 3, Y: 2}, trap.Trap.Trigger)
	assert.True(t, trap.Trap.Armed)

	vent, err := sp.Spawn("gas_vent", SpawnOptions{})
	require.NoError(t, err)
	assert.Equal(t, 12, vent.Trap.SaveDC)

	ward, err := sp.Spawn("rune_ward", SpawnOptions{})
	require.NoError(t, err)
	require.NotNil(t, ward.Stats)
	assert.Equal(t, 8, ward.Stats.HP)
}
