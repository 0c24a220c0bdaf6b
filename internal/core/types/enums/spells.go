package enums

import "strings"

// SpellTarget - правило выбора целей
type SpellTarget uint8

const (
	SpellTargetSingle SpellTarget = iota
	SpellTargetArea
	SpellTargetSelf
)

var spellTargetToString = map[SpellTarget]string{
	SpellTargetSingle: "SINGLE",
	SpellTargetArea:   "AREA",
	SpellTargetSelf:   "SELF",
}

func (t SpellTarget) String() string {
	if val, ok := spellTargetToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseSpellTarget(s string) SpellTarget {
	upper := strings.ToUpper(s)
	for k, v := range spellTargetToString {
		if v == upper {
			return k
		}
	}
	return SpellTargetSingle
}

// EffectKind - что делает эффект с целью
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectDamage
	EffectHeal
	EffectStatus
)

var effectKindToString = map[EffectKind]string{
	EffectNone:   "NONE",
	EffectDamage: "DAMAGE",
	EffectHeal:   "HEAL",
	EffectStatus: "STATUS",
}

func (k EffectKind) String() string {
	if val, ok := effectKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseEffectKind(s string) EffectKind {
	upper := strings.ToUpper(s)
	for k, v := range effectKindToString {
		if v == upper {
			return k
		}
	}
	return EffectNone
}

func (k EffectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EffectKind) UnmarshalText(b []byte) error {
	*k = ParseEffectKind(string(b))
	return nil
}

// StatusKind - длительные эффекты на сущности
type StatusKind uint8

const (
	StatusNone StatusKind = iota
	StatusPoisoned
	StatusWeakened
	StatusShielded
	StatusStunned
	StatusRegenerating
)

var statusKindToString = map[StatusKind]string{
	StatusNone:         "NONE",
	StatusPoisoned:     "POISONED",
	StatusWeakened:     "WEAKENED",
	StatusShielded:     "SHIELDED",
	StatusStunned:      "STUNNED",
	StatusRegenerating: "REGENERATING",
}

func (s StatusKind) String() string {
	if val, ok := statusKindToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseStatusKind(s string) StatusKind {
	upper := strings.ToUpper(s)
	for k, v := range statusKindToString {
		if v == upper {
			return k
		}
	}
	return StatusNone
}

func (s StatusKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StatusKind) UnmarshalText(b []byte) error {
	*s = ParseStatusKind(string(b))
	return nil
}
