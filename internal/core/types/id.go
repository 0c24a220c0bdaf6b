package types

import (
	"cognitive-encounter/internal/core/types/enums"
	"fmt"
	"strconv"
)

// EntityID - 64-битный стабильный идентификатор участника энкаунтера.
//
// EntityID является value-type: очередь ходов, тайлы мира и лог исходов
// хранят именно его, а не указатель на сущность. Сущность разрешается
// через таблицу живых сущностей энкаунтера.
//
// Формат битов (от старших к младшим):
//
//	[ Region (8) | Kind (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Region - регион мира, в котором создан участник
//   - Kind - вариант сущности (enums.EntityKind)
//   - Generation - версия слота (повторный спавн по тому же индексу)
//   - Index - порядковый номер в ростере
type EntityID uint64

// NilEntityID - нулевой идентификатор. Пустой тайл хранит именно его.
const NilEntityID EntityID = 0

// Конфигурация битов EntityID.
const (
	bitsIndex  = 32
	bitsGen    = 16
	bitsKind   = 8
	bitsRegion = 8

	// Сдвиги битов
	shiftGen    = bitsIndex
	shiftKind   = bitsIndex + bitsGen
	shiftRegion = bitsIndex + bitsGen + bitsKind

	// Маски для извлечения значений
	maskIndex  = (1 << bitsIndex) - 1
	maskGen    = (1 << bitsGen) - 1
	maskKind   = (1 << bitsKind) - 1
	maskRegion = (1 << bitsRegion) - 1
)

// PackEntityID собирает EntityID из составных частей.
//
// Функция не выполняет проверок диапазонов значений.
func PackEntityID(
	region uint8,
	kind enums.EntityKind,
	gen uint16,
	index uint32,
) EntityID {
	return EntityID(
		(uint64(region) << shiftRegion) |
			(uint64(kind) << shiftKind) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает порядковый номер в ростере.
func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

// Generation возвращает поколение слота.
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Kind возвращает вариант сущности, зашитый в ID.
func (id EntityID) Kind() enums.EntityKind {
	return enums.EntityKind((id >> shiftKind) & maskKind)
}

// Region возвращает регион мира.
func (id EntityID) Region() uint8 {
	return uint8((id >> shiftRegion) & maskRegion)
}

// IsNil проверяет, является ли идентификатор нулевым.
func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// InRegion проверяет, принадлежит ли сущность региону.
func (id EntityID) InRegion(region uint8) bool {
	return id.Region() == region
}

// String возвращает человекочитаемое представление для логов.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}

	return fmt.Sprintf(
		"[region=%d kind=%s gen=%d idx=%d]",
		id.Region(),
		id.Kind(),
		id.Generation(),
		id.Index(),
	)
}

// Token возвращает десятичную строку ID (формат токена в командах и реплеях).
func (id EntityID) Token() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseEntityID разбирает десятичный токен.
func ParseEntityID(s string) (EntityID, error) {
	if s == "" {
		return NilEntityID, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilEntityID, fmt.Errorf("parse entity id %q: %w", s, err)
	}
	return EntityID(v), nil
}

// MarshalJSON сериализует EntityID в JSON как строку.
//
// Это необходимо для предотвращения потери точности при работе с
// JavaScript и другими средами, не поддерживающими uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.Token() + `"`), nil
}

// UnmarshalJSON десериализует EntityID из JSON.
//
// Поддерживаются как строковое, так и числовое представление.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := ParseEntityID(s)
	if err != nil {
		return err
	}

	*id = v
	return nil
}
