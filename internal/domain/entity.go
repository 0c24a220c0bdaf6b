package domain

import "cognitive-encounter/internal/core/types/enums"

// Faction - сторона конфликта. Энкаунтер заканчивается, когда живых
// участников с ходом осталось меньше чем у двух фракций.
type Faction string

// --- КОМПОНЕНТЫ ---

// StatsComponent - Живучесть и Ресурсы
type StatsComponent struct {
	HP          int  `json:"hp"`
	MaxHP       int  `json:"maxHp"`
	Resource    int  `json:"resource"` // мана / выносливость, тратится на заклинания
	MaxResource int  `json:"maxResource"`
	IsDead      bool `json:"isDead"`
}

// CombatComponent - базовые боевые параметры
type CombatComponent struct {
	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
	Initiative int `json:"initiative"`
	// Save - модификатор спасброска (d20 + Save против SaveDC ловушки)
	Save int `json:"save,omitempty"`
}

// CharacterComponent - Игрок / Персонаж
type CharacterComponent struct {
	XP         int              `json:"xp"`
	Level      int              `json:"level"`
	Spells     []*Spell         `json:"spells,omitempty"` // книга заклинаний, ссылки а не копии
	Controller enums.Controller `json:"controller"`
}

// NPCComponent - мирный или не очень персонаж
type NPCComponent struct {
	Dialogue string         `json:"dialogue,omitempty"`
	Behavior enums.Behavior `json:"behavior"`
}

// AIComponent - политика выбора действия врага
type AIComponent struct {
	Policy enums.AIPolicy `json:"policy"`
	// FleeBelow - порог HP в процентах, ниже которого COWARDLY отступает
	FleeBelow int `json:"fleeBelow,omitempty"`
}

// NamedComponent - уникальный враг (босс)
type NamedComponent struct {
	Title        string   `json:"title"`
	Backstory    string   `json:"backstory,omitempty"`
	AttackBonus  int      `json:"attackBonus"`
	DefenseBonus int      `json:"defenseBonus"`
	Loot         []string `json:"loot,omitempty"`
}

// TrapComponent - не-агентная сущность: условие срабатывания и одноразовый эффект
type TrapComponent struct {
	Trigger Position `json:"trigger"`
	Radius  int      `json:"radius"` // 0 = только сам тайл
	Effect  Effect   `json:"effect"`

	Armed bool `json:"armed"`
	Fired bool `json:"fired"`
	// FiredRound - раунд последнего срабатывания (для перезарядки)
	FiredRound int `json:"firedRound,omitempty"`
	// ResetAfter - через сколько раундов ловушка взводится снова. 0 = никогда.
	ResetAfter int `json:"resetAfter,omitempty"`

	Destructible bool `json:"destructible"`
	// SaveDC - сложность спасброска жертвы, 0 = без броска.
	// Успех: урон и лечение вдвое, статус не накладывается.
	SaveDC int `json:"saveDc,omitempty"`
	// Hostile - ловушка явно заскриптована как враждебный участник и получает ход
	Hostile bool `json:"hostile,omitempty"`
}

// NarrativeComponent - Данные для осмотра
type NarrativeComponent struct {
	Description string `json:"description"`
}

// --- СУЩНОСТЬ ---

// Entity - общий набор возможностей + компоненты варианта.
// Kind - тег варианта, поведение диспетчеризуется по нему.
type Entity struct {
	// Идентификация
	ID      EntityID         `json:"id"`
	Kind    enums.EntityKind `json:"kind"`
	Name    string           `json:"name"`
	Faction Faction          `json:"faction"`

	// Pos - nil для энкаунтеров без карты
	Pos *Position `json:"pos,omitempty"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Stats     *StatsComponent     `json:"stats,omitempty"`
	Combat    *CombatComponent    `json:"combat,omitempty"`
	Character *CharacterComponent `json:"character,omitempty"`
	NPC       *NPCComponent       `json:"npc,omitempty"`
	AI        *AIComponent        `json:"ai,omitempty"`
	Named     *NamedComponent     `json:"named,omitempty"`
	Trap      *TrapComponent      `json:"trap,omitempty"`
	Narrative *NarrativeComponent `json:"narrative,omitempty"`

	Statuses []Status `json:"statuses,omitempty"`
}

// IsHuman - решения принимает человек (ждем команду извне)
func (e *Entity) IsHuman() bool {
	return e.Character != nil && e.Character.Controller == enums.ControllerHuman
}

// FindSpell ищет заклинание в книге по имени
func (e *Entity) FindSpell(name string) *Spell {
	if e.Character == nil {
		return nil
	}
	for _, s := range e.Character.Spells {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Spells возвращает книгу заклинаний (nil, если ее нет)
func (e *Entity) Spells() []*Spell {
	if e.Character == nil {
		return nil
	}
	return e.Character.Spells
}
