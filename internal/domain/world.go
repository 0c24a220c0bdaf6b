package domain

import (
	"cognitive-encounter/internal/core/types/enums"
	"fmt"
	"sync"
)

// Tile - одна адресуемая клетка мира. Занимающая сущность хранится по ID:
// мир не владеет временем жизни сущностей, только их положением.
type Tile struct {
	Pos      Position      `json:"pos"`
	Terrain  enums.Terrain `json:"terrain"`
	Tags     enums.TileTag `json:"tags"`
	LoreRef  string        `json:"loreRef,omitempty"`
	Occupant EntityID      `json:"occupant,omitempty"`
}

// World - сетка тайлов (арена: все тайлы в одном срезе, индекс y*W+x).
//
// mu защищает занятость тайлов: MoveEntity эксклюзивен, наблюдатели читают
// под RLock. Все остальные мутации сериализуются замком энкаунтера.
type World struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Topology enums.Topology `json:"topology"`
	Lore     *WorldLore     `json:"lore,omitempty"`

	mu    sync.RWMutex
	tiles []Tile
}

// NewWorld создает мир, заполненный полом
func NewWorld(width, height int, topology enums.Topology) *World {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	w := &World{
		Width:    width,
		Height:   height,
		Topology: topology,
		Lore:     NewWorldLore("", "", ""),
		tiles:    make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w.tiles[w.index(Position{X: x, Y: y})] = Tile{Pos: Position{X: x, Y: y}, Terrain: enums.TerrainFloor}
		}
	}
	return w
}

func (w *World) index(p Position) int {
	return p.Y*w.Width + p.X
}

// InBounds - координата внутри сетки
func (w *World) InBounds(p Position) bool {
	return p.X >= 0 && p.X < w.Width && p.Y >= 0 && p.Y < w.Height
}

// SetTile задает рельеф, дополнительные теги и ссылку на лор (построение карты)
func (w *World) SetTile(p Position, terrain enums.Terrain, tags enums.TileTag, loreRef string) error {
	if !w.InBounds(p) {
		return fmt.Errorf("set tile %s: %w", p, ErrOutOfBounds)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	t := &w.tiles[w.index(p)]
	t.Terrain = terrain
	t.Tags = terrain.DefaultTags() | tags
	t.LoreRef = loreRef
	return nil
}

// TileAt возвращает копию тайла
func (w *World) TileAt(p Position) (Tile, error) {
	if !w.InBounds(p) {
		return Tile{}, fmt.Errorf("tile at %s: %w", p, ErrOutOfBounds)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tiles[w.index(p)], nil
}

// IsPassable - можно ли встать на тайл (без учета занятости)
func (w *World) IsPassable(p Position) bool {
	if !w.InBounds(p) {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.tiles[w.index(p)].Tags.Has(enums.TagBlocksMovement)
}

// BlocksVision - тайл непрозрачен. За пределами карты ничего не видно.
func (w *World) BlocksVision(p Position) bool {
	if !w.InBounds(p) {
		return true
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tiles[w.index(p)].Tags.Has(enums.TagBlocksVision)
}

// HasTag проверяет тег тайла
func (w *World) HasTag(p Position, tag enums.TileTag) bool {
	if !w.InBounds(p) {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tiles[w.index(p)].Tags.Has(tag)
}

// Neighbors - соседние тайлы в пределах карты.
// SQUARE: 4 соседа, HEX: 6 соседей в осевых координатах.
func (w *World) Neighbors(p Position) []Position {
	var deltas [][2]int
	if w.Topology == enums.TopologyHex {
		deltas = [][2]int{{1, 0}, {-1, 0}, {0, -1}, {0, 1}, {-1, 1}, {1, -1}}
	} else {
		deltas = [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	}

	result := make([]Position, 0, len(deltas))
	for _, d := range deltas {
		n := p.Shift(d[0], d[1])
		if w.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}

// Distance - дистанция для дальности атак и заклинаний.
// SQUARE: Чебышев, HEX: шаги по гексам.
func (w *World) Distance(a, b Position) int {
	if w.Topology == enums.TopologyHex {
		return a.HexDistanceTo(b)
	}
	return a.ChebyshevTo(b)
}

// Tiles возвращает копию всех тайлов (для снапшотов и наблюдателей)
func (w *World) Tiles() []Tile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Tile, len(w.tiles))
	copy(out, w.tiles)
	return out
}

// TilesWithTag - координаты тайлов с тегом, в порядке индекса
func (w *World) TilesWithTag(tag enums.TileTag) []Position {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Position
	for _, t := range w.tiles {
		if t.Tags.Has(tag) {
			out = append(out, t.Pos)
		}
	}
	return out
}
