package domain

import (
	"encoding/json"
	"strings"
)

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionAttack             // BasicAttack
	ActionCast               // CastSpell(spell)
	ActionTrigger            // TriggerTrap
	ActionMove
	ActionWait
	ActionTick // служебное: тик статусов в начале раунда, клиентам недоступно
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"ATTACK":  ActionAttack,
	"CAST":    ActionCast,
	"TRIGGER": ActionTrigger,
	"MOVE":    ActionMove,
	"WAIT":    ActionWait,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionAttack:  "ATTACK",
	ActionCast:    "CAST",
	ActionTrigger: "TRIGGER",
	ActionMove:    "MOVE",
	ActionWait:    "WAIT",
	ActionTick:    "TICK",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActionType) UnmarshalText(b []byte) error {
	s := strings.ToUpper(string(b))
	if s == "TICK" {
		*a = ActionTick
		return nil
	}
	*a = ParseAction(s)
	return nil
}

// Action - намерение актора, еще не проверенное
type Action struct {
	Type  ActionType
	Spell *Spell   // для ActionCast
	To    Position // для ActionMove
}

func BasicAttack() Action { return Action{Type: ActionAttack} }

func CastSpell(s *Spell) Action { return Action{Type: ActionCast, Spell: s} }

func TriggerTrap() Action { return Action{Type: ActionTrigger} }

func MoveTo(p Position) Action { return Action{Type: ActionMove, To: p} }

func Wait() Action { return Action{Type: ActionWait} }

// Command - оптимизированная команда для движка.
// Использует ActionType вместо string.
type Command struct {
	Action  ActionType      // Число! Быстро и безопасно.
	Token   EntityID        // ID сущности (Actor)
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
