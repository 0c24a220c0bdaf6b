package domain

import "cognitive-encounter/internal/core/types/enums"

// Effect - вычисленный, но еще не примененный результат действия
type Effect struct {
	Kind      enums.EffectKind `json:"kind"`
	Magnitude int              `json:"magnitude"`
	Status    enums.StatusKind `json:"status,omitempty"`
	Duration  int              `json:"duration,omitempty"`
	// Physical - защита цели вычитается из magnitude
	Physical bool `json:"physical,omitempty"`
}

// IsZero - пустой эффект
func (e Effect) IsZero() bool {
	return e.Kind == enums.EffectNone
}
