package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"errors"
	"testing"
)

func TestMove(t *testing.T) {
	w := createTestWorld(10, 10, domain.Position{X: 5, Y: 5})
	cs := NewCombatSystem(DefaultRules(), nil)

	hero := newFighter(1, enums.EntityKindPlayer, "Hero", 30, 8, 0)
	orc := newFighter(2, enums.EntityKindEnemy, "Orc", 20, 5, 2)
	place(t, w, hero, 4, 5)
	place(t, w, orc, 4, 3)

	tests := []struct {
		name    string
		to      domain.Position
		wantErr error
	}{
		{"Move into wall", domain.Position{X: 5, Y: 5}, domain.ErrTileBlocked},
		{"Move off the map", domain.Position{X: -1, Y: 5}, domain.ErrOutOfBounds},
		{"Move two tiles", domain.Position{X: 4, Y: 7}, domain.ErrInvalidTarget},
		{"Move diagonally", domain.Position{X: 3, Y: 4}, domain.ErrInvalidTarget},
		{"Move into empty space", domain.Position{X: 4, Y: 4}, nil},
		{"Move into occupied tile", domain.Position{X: 4, Y: 3}, domain.ErrTileOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *hero.Pos
			out, err := cs.Move(hero, tt.to, w, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				if *hero.Pos != before {
					t.Errorf("rejected move changed position to %v", *hero.Pos)
				}
				return
			}
			if *hero.Pos != tt.to || *out.From != before || *out.To != tt.to {
				t.Errorf("unexpected move result pos=%v outcome=%+v", *hero.Pos, out)
			}
			if id, _ := w.OccupantAt(tt.to); id != hero.ID {
				t.Error("world occupancy not updated")
			}
			if _, taken := w.OccupantAt(before); taken {
				t.Error("old tile still occupied")
			}
		})
	}
}

func TestMove_CorpseBlocksTile(t *testing.T) {
	w := createTestWorld(5, 5)
	cs := NewCombatSystem(DefaultRules(), nil)
	hero := newFighter(1, enums.EntityKindPlayer, "Hero", 30, 8, 0)
	corpse := newFighter(2, enums.EntityKindEnemy, "Orc", 5, 0, 0)
	place(t, w, hero, 0, 0)
	place(t, w, corpse, 1, 0)
	corpse.ApplyDamage(5)

	if _, err := cs.Move(hero, domain.Position{X: 1, Y: 0}, w, nil); !errors.Is(err, domain.ErrTileOccupied) {
		t.Errorf("expected ErrTileOccupied, got %v", err)
	}
}

func TestMove_TrapFiresExactlyOnce(t *testing.T) {
	w := createTestWorld(8, 5)
	cs := NewCombatSystem(DefaultRules(), nil)

	hero := newFighter(1, enums.EntityKindPlayer, "Hero", 30, 8, 0)
	place(t, w, hero, 2, 2)
	trap := newTrap(2, domain.Position{X: 3, Y: 2}, domain.Effect{Kind: enums.EffectDamage, Magnitude: 10})
	traps := []*domain.Entity{trap}

	out, err := cs.Move(hero, domain.Position{X: 3, Y: 2}, w, traps)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Triggered) != 1 {
		t.Fatalf("expected trap to fire once, got %d", len(out.Triggered))
	}
	sub := out.Triggered[0]
	if sub.ActorID != trap.ID || sub.Action != domain.ActionTrigger || sub.Targets[0].Delta != 10 {
		t.Errorf("unexpected trap outcome %+v", sub)
	}
	if hero.Stats.HP != 20 {
		t.Errorf("Expected HP 20, got %d", hero.Stats.HP)
	}
	if trap.Trap.Armed || !trap.Trap.Fired {
		t.Error("trap should be disarmed after firing")
	}

	// Выходим и заходим снова - ловушка уже разряжена
	if _, err := cs.Move(hero, domain.Position{X: 4, Y: 2}, w, traps); err != nil {
		t.Fatal(err)
	}
	out, err = cs.Move(hero, domain.Position{X: 3, Y: 2}, w, traps)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Triggered) != 0 || hero.Stats.HP != 20 {
		t.Errorf("trap fired twice: HP=%d", hero.Stats.HP)
	}
}

func TestMove_TrapIgnoresOwnFaction(t *testing.T) {
	w := createTestWorld(5, 5)
	cs := NewCombatSystem(DefaultRules(), nil)

	orc := newFighter(1, enums.EntityKindEnemy, "Orc", 20, 5, 0)
	place(t, w, orc, 0, 0)
	trap := newTrap(2, domain.Position{X: 1, Y: 0}, domain.Effect{Kind: enums.EffectDamage, Magnitude: 10})
	trap.Faction = "monsters"

	out, err := cs.Move(orc, domain.Position{X: 1, Y: 0}, w, []*domain.Entity{trap})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Triggered) != 0 || !trap.Trap.Armed {
		t.Error("trap must not fire on its own faction")
	}
}

func TestMove_HexTrapRadius(t *testing.T) {
	w := domain.NewWorld(8, 6, enums.TopologyHex)
	cs := NewCombatSystem(DefaultRules(), nil)

	trap := newTrap(9, domain.Position{X: 3, Y: 2}, domain.Effect{Kind: enums.EffectDamage, Magnitude: 10})
	trap.Trap.Radius = 1
	traps := []*domain.Entity{trap}

	tests := []struct {
		name   string
		from   domain.Position
		to     domain.Position
		wantHP int
	}{
		// (4,3) соседний по Чебышеву, но в двух гексах от ловушки
		{"Two hexes away", domain.Position{X: 4, Y: 2}, domain.Position{X: 4, Y: 3}, 30},
		{"Adjacent hex", domain.Position{X: 4, Y: 2}, domain.Position{X: 3, Y: 3}, 20},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trap.Trap.Armed = true
			hero := newFighter(uint32(i+1), enums.EntityKindPlayer, "Hero", 30, 8, 0)
			place(t, w, hero, tt.from.X, tt.from.Y)
			defer func() { w.Remove(hero.ID, *hero.Pos) }()

			if got := w.Distance(trap.Trap.Trigger, tt.to); (got <= 1) != (tt.wantHP == 20) {
				t.Fatalf("hex distance %d does not match the case", got)
			}
			if _, err := cs.Move(hero, tt.to, w, traps); err != nil {
				t.Fatal(err)
			}
			if hero.Stats.HP != tt.wantHP {
				t.Errorf("HP = %d, want %d", hero.Stats.HP, tt.wantHP)
			}
		})
	}
}

func TestResetTraps(t *testing.T) {
	w := createTestWorld(5, 5)
	cs := NewCombatSystem(DefaultRules(), nil)
	cs.SetRound(2)

	hero := newFighter(1, enums.EntityKindPlayer, "Hero", 30, 8, 0)
	place(t, w, hero, 0, 0)
	vent := newTrap(2, domain.Position{X: 1, Y: 0}, domain.Effect{Kind: enums.EffectStatus, Status: enums.StatusPoisoned, Magnitude: 2, Duration: 2})
	vent.Trap.Radius = 1
	vent.Trap.ResetAfter = 3

	// Радиус 1: срабатывает уже на соседнем тайле
	out, err := cs.Move(hero, domain.Position{X: 0, Y: 1}, w, []*domain.Entity{vent})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Triggered) != 1 || !hero.HasStatus(enums.StatusPoisoned) {
		t.Fatal("vent should poison the hero")
	}

	if got := ResetTraps([]*domain.Entity{vent}, 4); len(got) != 0 {
		t.Error("vent re-armed too early")
	}
	if got := ResetTraps([]*domain.Entity{vent}, 5); len(got) != 1 || !vent.Trap.Armed {
		t.Error("vent should re-arm after 3 rounds")
	}
}

func TestWait(t *testing.T) {
	cs := NewCombatSystem(DefaultRules(), nil)
	hero := newFighter(1, enums.EntityKindPlayer, "Hero", 30, 8, 0)
	hero.AddStatus(domain.Status{Kind: enums.StatusStunned, Remaining: 1})

	out, err := cs.Wait(hero)
	if err != nil || out.Action != domain.ActionWait {
		t.Errorf("stunned actor can still pass: %v", err)
	}

	hero.ApplyDamage(100)
	if _, err := cs.Wait(hero); !errors.Is(err, domain.ErrActorIncapacitated) {
		t.Errorf("expected ErrActorIncapacitated, got %v", err)
	}
}
