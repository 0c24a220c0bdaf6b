package api

import (
	"encoding/json"
)

// --- КОНТРОЛЛЕР -> ЯДРО ---

// ClientCommand это корневой объект для всех команд контроллеров (UI или AI).
type ClientCommand struct {
	// Token ID сущности, от имени которой выполняется действие (десятичная строка).
	Token string `json:"token"`

	// Action название действия: ATTACK, CAST, TRIGGER, MOVE, WAIT.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// AttackPayload используется для ATTACK и TRIGGER.
type AttackPayload struct {
	TargetIDs []string `json:"targetIds"`
}

// CastPayload используется для CAST. Для SELF-заклинаний TargetIDs можно не передавать.
type CastPayload struct {
	Spell     string   `json:"spell"`
	TargetIDs []string `json:"targetIds,omitempty"`
}

// MovePayload - соседний тайл, в который нужно шагнуть.
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// --- ЯДРО -> КОНТРОЛЛЕР ---

// CommandResult - ответ на команду.
type CommandResult struct {
	// OK false, если команда отклонена; состояние энкаунтера при этом не изменилось.
	OK bool `json:"ok"`

	// ErrorKind стабильное имя ошибки (NOT_YOUR_TURN, INVALID_TARGET, ...).
	ErrorKind string `json:"errorKind,omitempty"`
	Error     string `json:"error,omitempty"`

	// Outcome сериализованный CombatOutcome.
	Outcome json.RawMessage `json:"outcome,omitempty"`

	// Round и ActiveEntityID после разрешения.
	Round          int    `json:"round"`
	ActiveEntityID string `json:"activeEntityId,omitempty"`
	Over           bool   `json:"over"`
}

// EncounterView - персональный снимок энкаунтера для наблюдателя.
// Карта и сущности отфильтрованы полем зрения наблюдателя.
type EncounterView struct {
	Round          int    `json:"round"`
	Over           bool   `json:"over"`
	MyEntityID     string `json:"myEntityId"`
	ActiveEntityID string `json:"activeEntityId,omitempty"`

	// Grid нет для боя без карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map видимые тайлы.
	Map []TileView `json:"map,omitempty"`

	// Entities видимые участники (себя наблюдатель видит всегда).
	Entities []EntityView `json:"entities"`

	// Lore описание места и погоды.
	Lore string `json:"lore,omitempty"`
}

// GridMeta содержит общие размеры карты.
type GridMeta struct {
	Width    int    `json:"w"`
	Height   int    `json:"h"`
	Topology string `json:"topology"`
}

// TileView - DTO для одного тайла карты.
type TileView struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Terrain string `json:"terrain"`
	Tags    string `json:"tags,omitempty"`
	Lore    string `json:"lore,omitempty"`
}

// EntityView - DTO для участника.
type EntityView struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // PLAYER, NPC, ENEMY, NAMED_ENEMY, TRAP
	Name    string `json:"name"`
	Faction string `json:"faction"`

	Pos *PosView `json:"pos,omitempty"`

	Stats    *StatsView `json:"stats,omitempty"`
	Statuses []string   `json:"statuses,omitempty"`
}

// StatsView - видимая часть характеристик. Ресурс видят только союзники.
type StatsView struct {
	HP          int  `json:"hp"`
	MaxHP       int  `json:"maxHp"`
	Resource    *int `json:"resource,omitempty"`
	MaxResource *int `json:"maxResource,omitempty"`
	IsDead      bool `json:"isDead"`
}

type PosView struct {
	X int `json:"x"`
	Y int `json:"y"`
}
