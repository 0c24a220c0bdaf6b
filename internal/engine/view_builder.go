package engine

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/systems"
	"cognitive-encounter/pkg/api"
	"fmt"
)

// BuildViewFor создает персональный "снимок" энкаунтера для наблюдателя.
// Наблюдатель видит только то, что попадает в его поле зрения.
func (ts *TurnSystem) BuildViewFor(observerID domain.EntityID) (*api.EncounterView, error) {
	ts.state.RLock()
	defer ts.state.RUnlock()

	observer := ts.byID[observerID]
	if observer == nil {
		return nil, fmt.Errorf("observer %s: %w", observerID, domain.ErrUnknownEntity)
	}

	view := &api.EncounterView{
		Round:      ts.Round(),
		Over:       ts.IsOver(),
		MyEntityID: observer.ID.Token(),
		Entities:   make([]api.EntityView, 0, len(ts.roster)),
	}
	if cur, err := ts.CurrentActor(); err == nil {
		view.ActiveEntityID = cur.ID.Token()
	}

	// 1. Поле зрения. Без карты (или без позиции) видно всех.
	var visible map[domain.Position]bool
	isGod := ts.world == nil || observer.Pos == nil
	if !isGod {
		visible = systems.ComputeVisibleTiles(ts.world, *observer.Pos, domain.VisionRadius)
		view.Grid = &api.GridMeta{
			Width:    ts.world.Width,
			Height:   ts.world.Height,
			Topology: ts.world.Topology.String(),
		}
		if ts.world.Lore != nil {
			view.Lore = ts.world.Lore.Describe()
		}
	}

	// 2. Карта
	if !isGod {
		for _, t := range ts.world.Tiles() {
			if !visible[t.Pos] {
				continue
			}
			tv := api.TileView{X: t.Pos.X, Y: t.Pos.Y, Terrain: t.Terrain.String(), Tags: t.Tags.String()}
			if t.LoreRef != "" {
				tv.Lore = ts.world.Lore.Text(t.LoreRef)
			}
			view.Map = append(view.Map, tv)
		}
	}

	// 3. Сущности
	for _, e := range ts.roster {
		if e.ID != observer.ID && !isGod && (e.Pos == nil || !visible[*e.Pos]) {
			continue
		}
		view.Entities = append(view.Entities, toEntityView(e, observer))
	}
	return view, nil
}

// toEntityView конвертирует доменную сущность в DTO с учетом прав доступа (observer)
func toEntityView(target, observer *domain.Entity) api.EntityView {
	view := api.EntityView{
		ID:      target.ID.Token(),
		Kind:    target.Kind.String(),
		Name:    target.Name,
		Faction: string(target.Faction),
	}
	if target.Pos != nil {
		view.Pos = &api.PosView{X: target.Pos.X, Y: target.Pos.Y}
	}
	for _, s := range target.Statuses {
		view.Statuses = append(view.Statuses, s.Kind.String())
	}

	if target.Stats != nil {
		view.Stats = &api.StatsView{
			HP:     target.Stats.HP,
			MaxHP:  target.Stats.MaxHP,
			IsDead: target.Stats.IsDead,
		}
		// Союзники видят ресурс, чужаки - только здоровье
		if target.ID == observer.ID || target.Faction == observer.Faction {
			res, maxRes := target.Stats.Resource, target.Stats.MaxResource
			view.Stats.Resource = &res
			view.Stats.MaxResource = &maxRes
		}
	}
	return view
}
