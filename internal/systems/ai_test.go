package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/api"
	"encoding/json"
	"testing"
)

func TestChooseAction(t *testing.T) {
	// Helper to reset state for each test
	setup := func() (*domain.World, *domain.Entity, *domain.Entity) {
		w := createTestWorld(10, 10)
		npc := newFighter(1, enums.EntityKindEnemy, "Goblin", 10, 3, 0)
		player := newFighter(2, enums.EntityKindPlayer, "Player", 30, 8, 0)
		place(t, w, npc, 1, 1)
		place(t, w, player, 5, 5)
		return w, npc, player
	}

	t.Run("Dead NPC should Wait", func(t *testing.T) {
		w, npc, player := setup()
		npc.ApplyDamage(100)

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionWait {
			t.Errorf("Dead NPC should WAIT, got %v", cmd.Action)
		}
	})

	t.Run("Adjacent target should be attacked", func(t *testing.T) {
		w, npc, player := setup()
		w.Remove(player.ID, *player.Pos)
		place(t, w, player, 2, 2)

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionAttack || cmd.Token != npc.ID {
			t.Fatalf("expected ATTACK, got %v", cmd.Action)
		}
		var p api.AttackPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			t.Fatal(err)
		}
		if len(p.TargetIDs) != 1 || p.TargetIDs[0] != player.ID.Token() {
			t.Errorf("unexpected targets %v", p.TargetIDs)
		}
	})

	t.Run("Visible target should be chased", func(t *testing.T) {
		w, npc, player := setup()

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionMove {
			t.Fatalf("expected MOVE, got %v", cmd.Action)
		}
		var p api.MovePayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			t.Fatal(err)
		}
		to := domain.Position{X: p.X, Y: p.Y}
		if to.DistanceSquaredTo(*player.Pos) >= npc.Pos.DistanceSquaredTo(*player.Pos) {
			t.Errorf("step %v does not approach the target", to)
		}
	})

	t.Run("Hidden target should be ignored", func(t *testing.T) {
		w, npc, player := setup()
		// Заложим игрока стенами со всех сторон
		for _, p := range []domain.Position{{X: 4, Y: 4}, {X: 5, Y: 4}, {X: 6, Y: 4}, {X: 4, Y: 5}, {X: 6, Y: 5}, {X: 4, Y: 6}, {X: 5, Y: 6}, {X: 6, Y: 6}} {
			if err := w.SetTile(p, enums.TerrainWall, 0, ""); err != nil {
				t.Fatal(err)
			}
		}

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionWait {
			t.Errorf("expected WAIT, got %v", cmd.Action)
		}
	})

	t.Run("Allies are not targets", func(t *testing.T) {
		w, npc, _ := setup()
		ally := newFighter(3, enums.EntityKindEnemy, "Orc", 10, 3, 0)
		place(t, w, ally, 1, 2)

		cmd := ChooseAction(npc, []*domain.Entity{npc, ally}, w, DefaultRules())
		if cmd.Action != domain.ActionWait {
			t.Errorf("expected WAIT, got %v", cmd.Action)
		}
	})

	t.Run("Cowardly flees when wounded", func(t *testing.T) {
		w, npc, player := setup()
		w.Remove(player.ID, *player.Pos)
		place(t, w, player, 2, 1)
		npc.AI.Policy = enums.AIPolicyCowardly
		npc.AI.FleeBelow = 50
		npc.ApplyDamage(7)

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionMove {
			t.Fatalf("expected MOVE, got %v", cmd.Action)
		}
		var p api.MovePayload
		_ = json.Unmarshal(cmd.Payload, &p)
		if w.Distance(domain.Position{X: p.X, Y: p.Y}, *player.Pos) <= 1 {
			t.Error("coward should move away")
		}
	})

	t.Run("Caster prefers spells", func(t *testing.T) {
		w, npc, player := setup()
		spit := &domain.Spell{Name: "Venom Spit", Cost: 3, Target: enums.SpellTargetSingle, Range: 8, Magnitude: 2, Effect: enums.EffectStatus, Status: enums.StatusPoisoned, Duration: 3}
		withSpells(npc, 6, spit)
		npc.AI.Policy = enums.AIPolicyCaster

		cmd := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action != domain.ActionCast {
			t.Fatalf("expected CAST, got %v", cmd.Action)
		}
		var p api.CastPayload
		_ = json.Unmarshal(cmd.Payload, &p)
		if p.Spell != "Venom Spit" || len(p.TargetIDs) != 1 {
			t.Errorf("unexpected cast payload %+v", p)
		}

		// Уже отравленного не травим повторно
		player.AddStatus(domain.Status{Kind: enums.StatusPoisoned, Magnitude: 2, Remaining: 2})
		cmd = ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		if cmd.Action == domain.ActionCast {
			t.Error("status should not be re-applied")
		}
	})

	t.Run("Hostile trap triggers on victims", func(t *testing.T) {
		w, _, player := setup()
		trap := newTrap(7, *player.Pos, domain.Effect{Kind: enums.EffectDamage, Magnitude: 4})
		trap.Trap.Hostile = true

		cmd := ChooseAction(trap, []*domain.Entity{trap, player}, w, DefaultRules())
		if cmd.Action != domain.ActionTrigger {
			t.Errorf("expected TRIGGER, got %v", cmd.Action)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		w, npc, player := setup()
		first := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
		for i := 0; i < 10; i++ {
			got := ChooseAction(npc, []*domain.Entity{npc, player}, w, DefaultRules())
			if got.Action != first.Action || string(got.Payload) != string(first.Payload) {
				t.Fatal("AI decision is not deterministic")
			}
		}
	})
}
