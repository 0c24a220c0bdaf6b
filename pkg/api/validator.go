package api

import (
	"errors"
	"fmt"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// MaxTargets - ограничение на размер списка целей в одной команде
const MaxTargets = 16

func validateTargets(ids []string) error {
	if len(ids) > MaxTargets {
		return fmt.Errorf("too many targets: %d > %d", len(ids), MaxTargets)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return errors.New("empty target id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate target %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if len(p.TargetIDs) == 0 {
		return errors.New("targetIds is required")
	}
	return validateTargets(p.TargetIDs)
}

func (p CastPayload) Validate() error {
	if p.Spell == "" {
		return errors.New("spell is required")
	}
	return validateTargets(p.TargetIDs)
}

func (p MovePayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("coordinates must be non-negative")
	}
	return nil
}
