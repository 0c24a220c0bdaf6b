package enums

import "strings"

// EntityKind - тег варианта сущности (tagged variant)
type EntityKind uint8

const (
	EntityKindUnknown EntityKind = iota
	EntityKindPlayer
	EntityKindNPC
	EntityKindEnemy
	EntityKindNamedEnemy
	EntityKindTrap
)

var entityKindToString = map[EntityKind]string{
	EntityKindPlayer:     "PLAYER",
	EntityKindNPC:        "NPC",
	EntityKindEnemy:      "ENEMY",
	EntityKindNamedEnemy: "NAMED_ENEMY",
	EntityKindTrap:       "TRAP",
}

var entityKindStringToType = map[string]EntityKind{
	"PLAYER":      EntityKindPlayer,
	"NPC":         EntityKindNPC,
	"ENEMY":       EntityKindEnemy,
	"NAMED_ENEMY": EntityKindNamedEnemy,
	"TRAP":        EntityKindTrap,
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityKind) String() string {
	if val, ok := entityKindToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityKind конвертирует строку в Enum (нужно для загрузки шаблонов/сценариев)
func ParseEntityKind(s string) EntityKind {
	upper := strings.ToUpper(s)
	if val, ok := entityKindStringToType[upper]; ok {
		return val
	}
	return EntityKindUnknown
}

// MarshalText позволяет писать kind строкой в JSON/YAML/TOML
func (e EntityKind) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EntityKind) UnmarshalText(b []byte) error {
	*e = ParseEntityKind(string(b))
	return nil
}
