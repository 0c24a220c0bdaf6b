package domain

import (
	"cognitive-encounter/internal/core/types"
	"cognitive-encounter/internal/core/types/enums"
)

// EntityID - стабильный идентификатор участника (см. types.EntityID)
type EntityID = types.EntityID

const NilEntityID = types.NilEntityID

// NewEntityID создает ID участника ростера. Поколение всегда 0: внутри энкаунтера
// слоты не переиспользуются.
func NewEntityID(region uint8, kind enums.EntityKind, index uint32) EntityID {
	return types.PackEntityID(region, kind, 0, index)
}

// ParseEntityID разбирает токен участника (десятичная строка)
func ParseEntityID(s string) (EntityID, error) {
	return types.ParseEntityID(s)
}
