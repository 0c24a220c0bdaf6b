package domain

import (
	"cognitive-encounter/internal/core/types/enums"
	"fmt"
	"sort"
)

// EntitySnapshot - минимальное состояние сущности для слоя хранения
type EntitySnapshot struct {
	ID       EntityID         `json:"id"`
	Name     string           `json:"name"`
	Kind     enums.EntityKind `json:"kind"`
	Faction  Faction          `json:"faction"`
	HP       int              `json:"hp"`
	MaxHP    int              `json:"maxHp"`
	Resource int              `json:"resource"`
	Pos      *Position        `json:"pos,omitempty"`
	Dead     bool             `json:"dead"`
	Statuses []Status         `json:"statuses,omitempty"`
	// TrapArmed - только для ловушек
	TrapArmed *bool `json:"trapArmed,omitempty"`
}

// OccupancyRecord - кто стоит на тайле
type OccupancyRecord struct {
	Pos Position `json:"pos"`
	ID  EntityID `json:"id"`
}

// WorldSnapshot - занятость тайлов и ссылки на лор
type WorldSnapshot struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Occupancy []OccupancyRecord `json:"occupancy"`
	LoreRefs  map[string]string `json:"loreRefs,omitempty"` // "x,y" -> ref
}

// Snapshot - сериализуемый снимок энкаунтера для слоя хранения
type Snapshot struct {
	EncounterID string           `json:"encounterId"`
	Round       int              `json:"round"`
	State       string           `json:"state"`
	Active      EntityID         `json:"active,omitempty"`
	Outcomes    int              `json:"outcomes"`
	Entities    []EntitySnapshot `json:"entities"`
	World       *WorldSnapshot   `json:"world,omitempty"`
}

// SnapshotEntity снимает состояние одной сущности
func SnapshotEntity(e *Entity) EntitySnapshot {
	s := EntitySnapshot{
		ID:       e.ID,
		Name:     e.Name,
		Kind:     e.Kind,
		Faction:  e.Faction,
		Dead:     !e.IsAlive(),
		Statuses: e.CloneStatuses(),
	}
	if e.Stats != nil {
		s.HP = e.Stats.HP
		s.MaxHP = e.Stats.MaxHP
		s.Resource = e.Stats.Resource
	}
	if e.Pos != nil {
		p := *e.Pos
		s.Pos = &p
	}
	if e.Trap != nil {
		armed := e.Trap.Armed
		s.TrapArmed = &armed
	}
	return s
}

// SnapshotWorld снимает занятость и лор-ссылки в порядке индекса тайлов
func SnapshotWorld(w *World) *WorldSnapshot {
	if w == nil {
		return nil
	}
	ws := &WorldSnapshot{
		Width:     w.Width,
		Height:    w.Height,
		Occupancy: make([]OccupancyRecord, 0),
		LoreRefs:  make(map[string]string),
	}
	for _, t := range w.Tiles() {
		if !t.Occupant.IsNil() {
			ws.Occupancy = append(ws.Occupancy, OccupancyRecord{Pos: t.Pos, ID: t.Occupant})
		}
		if t.LoreRef != "" {
			ws.LoreRefs[fmt.Sprintf("%d,%d", t.Pos.X, t.Pos.Y)] = t.LoreRef
		}
	}
	return ws
}

// SortEntities - стабильный порядок по ID для сравнения снапшотов
func (s *Snapshot) SortEntities() {
	sort.Slice(s.Entities, func(i, j int) bool {
		return s.Entities[i].ID < s.Entities[j].ID
	})
}
