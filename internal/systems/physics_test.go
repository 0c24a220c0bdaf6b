package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"testing"
)

// Helper для создания пустой карты со стенами в нужных местах
func createTestWorld(w, h int, walls ...domain.Position) *domain.World {
	world := domain.NewWorld(w, h, enums.TopologySquare)
	for _, p := range walls {
		if err := world.SetTile(p, enums.TerrainWall, 0, ""); err != nil {
			panic(err)
		}
	}
	return world
}

func TestHasLineOfSight(t *testing.T) {
	// Карта 5x5
	// . . . . .
	// . . # . .  (2,1) - стена
	// . # # # .  (1,2), (2,2), (3,2) - стена
	// . . # . .  (2,3) - стена
	// . . . . .

	w := createTestWorld(5, 5,
		domain.Position{X: 2, Y: 1},
		domain.Position{X: 1, Y: 2},
		domain.Position{X: 2, Y: 2},
		domain.Position{X: 3, Y: 2},
		domain.Position{X: 2, Y: 3},
	)

	tests := []struct {
		name string
		p1   domain.Position
		p2   domain.Position
		want bool
	}{
		{"Clear horizontal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0}, true},
		{"Blocked horizontal", domain.Position{X: 0, Y: 2}, domain.Position{X: 4, Y: 2}, false},
		{"Clear diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 1, Y: 1}, true},
		{"Blocked diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 4}, false}, // через (2,2)
		{"Adjacent wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 2}, true},     // Стоим рядом со стеной и смотрим на неё
		{"Behind wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 3}, false},      // Стена (2,2) мешает
		{"Same point", domain.Position{X: 2, Y: 2}, domain.Position{X: 2, Y: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(w, tt.p1, tt.p2); got != tt.want {
				t.Errorf("HasLineOfSight(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestHasLineOfSight_WaterDoesNotBlock(t *testing.T) {
	w := createTestWorld(5, 1)
	if err := w.SetTile(domain.Position{X: 2, Y: 0}, enums.TerrainWater, 0, ""); err != nil {
		t.Fatal(err)
	}
	// Вода мешает идти, но не смотреть
	if !HasLineOfSight(w, domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0}) {
		t.Error("water should not block vision")
	}
}
