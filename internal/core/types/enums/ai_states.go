package enums

import "strings"

// AIPolicy - политика выбора действия у врагов
type AIPolicy uint8

const (
	AIPolicyUnknown AIPolicy = iota
	AIPolicyAggressive
	AIPolicyCaster
	AIPolicyCowardly
)

var aiPolicyToString = map[AIPolicy]string{
	AIPolicyAggressive: "AGGRESSIVE",
	AIPolicyCaster:     "CASTER",
	AIPolicyCowardly:   "COWARDLY",
}

func (p AIPolicy) String() string {
	if val, ok := aiPolicyToString[p]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseAIPolicy - неизвестные строки трактуем как AGGRESSIVE
func ParseAIPolicy(s string) AIPolicy {
	upper := strings.ToUpper(s)
	for k, v := range aiPolicyToString {
		if v == upper {
			return k
		}
	}
	return AIPolicyAggressive
}

// Behavior - тег поведения NPC
type Behavior uint8

const (
	BehaviorNeutral Behavior = iota
	BehaviorFriendly
	BehaviorHostile
)

var behaviorToString = map[Behavior]string{
	BehaviorNeutral:  "NEUTRAL",
	BehaviorFriendly: "FRIENDLY",
	BehaviorHostile:  "HOSTILE",
}

func (b Behavior) String() string {
	if val, ok := behaviorToString[b]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseBehavior(s string) Behavior {
	upper := strings.ToUpper(s)
	for k, v := range behaviorToString {
		if v == upper {
			return k
		}
	}
	return BehaviorNeutral
}

// Controller - источник решений персонажа
type Controller uint8

const (
	ControllerScripted Controller = iota
	ControllerHuman
)

func (c Controller) String() string {
	if c == ControllerHuman {
		return "HUMAN"
	}
	return "SCRIPTED"
}

func ParseController(s string) Controller {
	if strings.ToUpper(s) == "HUMAN" {
		return ControllerHuman
	}
	return ControllerScripted
}
