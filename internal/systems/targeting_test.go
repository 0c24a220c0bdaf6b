package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"errors"
	"testing"
)

type mapProvider map[domain.EntityID]*domain.Entity

func (m mapProvider) GetEntity(id domain.EntityID) *domain.Entity { return m[id] }

func TestResolveTargets(t *testing.T) {
	a := newFighter(1, enums.EntityKindPlayer, "A", 10, 1, 0)
	b := newFighter(2, enums.EntityKindEnemy, "B", 10, 1, 0)
	finder := mapProvider{a.ID: a, b.ID: b}

	got, err := ResolveTargets([]domain.EntityID{b.ID, a.ID}, finder)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Error("targets must keep declaration order")
	}

	if _, err := ResolveTargets([]domain.EntityID{a.ID, a.ID}, finder); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget for duplicate, got %v", err)
	}
	missing := domain.NewEntityID(domain.DefaultRegion, enums.EntityKindEnemy, 99)
	if _, err := ResolveTargets([]domain.EntityID{missing}, finder); !errors.Is(err, domain.ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestValidateInteraction(t *testing.T) {
	w := createTestWorld(10, 10, domain.Position{X: 2, Y: 0})
	actor := newFighter(1, enums.EntityKindPlayer, "A", 10, 1, 0)
	actor.Pos = &domain.Position{X: 0, Y: 0}

	tests := []struct {
		name   string
		pos    *domain.Position
		dead   bool
		rng    int
		los    bool
		wantOK bool
	}{
		{"adjacent diagonal", &domain.Position{X: 1, Y: 1}, false, 1, false, true},
		{"too far", &domain.Position{X: 2, Y: 2}, false, 1, false, false},
		{"dead target", &domain.Position{X: 1, Y: 0}, true, 1, false, false},
		{"behind wall without LOS check", &domain.Position{X: 3, Y: 0}, false, 5, false, true},
		{"behind wall with LOS check", &domain.Position{X: 3, Y: 0}, false, 5, true, false},
		{"no position", nil, false, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newFighter(2, enums.EntityKindEnemy, "B", 10, 1, 0)
			target.Pos = tt.pos
			if tt.dead {
				target.ApplyDamage(10)
			}
			err := ValidateInteraction(actor, target, tt.rng, tt.los, w)
			if (err == nil) != tt.wantOK {
				t.Errorf("ValidateInteraction() = %v, wantOK %v", err, tt.wantOK)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidTarget) {
				t.Errorf("expected ErrInvalidTarget, got %v", err)
			}
		})
	}
}
