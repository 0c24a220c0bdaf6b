package domain

import "encoding/json"

// ReplayAction - это запись одной принятой команды
type ReplayAction struct {
	Round   int             `json:"round"`
	Token   EntityID        `json:"token"`   // Кто сделал
	Action  ActionType      `json:"action"`  // Что сделал
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// ReplaySession - полная запись энкаунтера: сценарий + сид + команды.
// Тот же сценарий с тем же сидом и теми же командами дает те же исходы.
type ReplaySession struct {
	EncounterID string         `json:"encounterId"`
	Scenario    string         `json:"scenario"` // путь или имя сценария
	Seed        int64          `json:"seed"`
	Timestamp   int64          `json:"timestamp"`
	Actions     []ReplayAction `json:"actions"`
}

// Record добавляет команду в ленту
func (s *ReplaySession) Record(round int, cmd Command) {
	payload := make(json.RawMessage, len(cmd.Payload))
	copy(payload, cmd.Payload)
	s.Actions = append(s.Actions, ReplayAction{
		Round:   round,
		Token:   cmd.Token,
		Action:  cmd.Action,
		Payload: payload,
	})
}
