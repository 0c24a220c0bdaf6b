package domain

// TakeDamage наносит урон и возвращает итоговое HP.
// Мертвых не добиваем: повторный урон - no-op.
func (s *StatsComponent) TakeDamage(amount int) int {
	if s.IsDead {
		return s.HP
	}

	if amount < 0 {
		amount = 0
	}

	s.HP -= amount

	if s.HP <= 0 {
		s.HP = 0
		s.IsDead = true
	}
	return s.HP
}

// Heal лечит сущность и возвращает итоговое HP
func (s *StatsComponent) Heal(amount int) int {
	if s.IsDead {
		return s.HP // Не лечим трупы! Нет некромантии!
	}
	if amount < 0 {
		amount = 0
	}
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	return s.HP
}

// HasResource проверяет, хватает ли ресурса
func (s *StatsComponent) HasResource(cost int) bool {
	return s.Resource >= cost
}

// SpendResource тратит ресурс. Возвращает false, если не хватило.
func (s *StatsComponent) SpendResource(cost int) bool {
	if s.Resource < cost {
		return false
	}
	s.Resource -= cost
	return true
}

// RestoreResource восстанавливает ресурс (реген)
func (s *StatsComponent) RestoreResource(amount int) {
	s.Resource += amount
	if s.Resource > s.MaxResource {
		s.Resource = s.MaxResource
	}
}
