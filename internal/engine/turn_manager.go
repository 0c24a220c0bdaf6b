package engine

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"
	"container/heap"
	"sort"
)

// TurnManager manages the priority queue of entity turns.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.EntityID]*TurnItem
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.EntityID]*TurnItem),
	}
}

// AddEntity registers an entity that acts in the given round.
func (tm *TurnManager) AddEntity(e *domain.Entity, round, rank int) {
	if _, exists := tm.itemMap[e.ID]; exists {
		return
	}

	item := &TurnItem{
		Value:      e,
		Priority:   round,
		Initiative: e.Initiative(),
		Rank:       rank,
	}

	heap.Push(&tm.queue, item)
	tm.itemMap[e.ID] = item

	logger.Log.WithField("entity_id", e.ID).Debug("Entity added to TurnManager")
}

// UpdatePriority moves an entity to the round it acts next (e.g. after they acted).
func (tm *TurnManager) UpdatePriority(entityID domain.EntityID, round int) {
	if item, ok := tm.itemMap[entityID]; ok {
		tm.queue.Update(item, round)
	}
}

// PeekNext returns the entity whose turn is next, without removing them.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// RemoveEntity removes an entity from the turn system (e.g. death).
func (tm *TurnManager) RemoveEntity(entityID domain.EntityID) {
	if item, ok := tm.itemMap[entityID]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, entityID)
	}
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// Order возвращает очередь в порядке ходов (копия, куча не меняется)
func (tm *TurnManager) Order() []*TurnItem {
	items := make([]*TurnItem, len(tm.queue))
	copy(items, tm.queue)
	sort.Slice(items, func(i, j int) bool { return items[i].before(items[j]) })
	return items
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]interface{} {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0)

	for _, item := range tm.Order() {
		result = append(result, map[string]interface{}{
			"id":         item.Value.ID,
			"name":       item.Value.Name,
			"round":      item.Priority,
			"initiative": item.Initiative,
			"rank":       item.Rank,
		})
	}
	return result
}
