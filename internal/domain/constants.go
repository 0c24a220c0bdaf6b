package domain

// Значения по умолчанию для правил боя (переопределяются конфигом)
const (
	DefaultMeleeRange = 1
	DefaultRegion     = 1
)

// Параметры восприятия
const (
	VisionRadius = 8
	AggroRadius  = 10
)

// FactionHazard - фракция ловушек по умолчанию: не считается стороной конфликта
const FactionHazard Faction = "hazard"
