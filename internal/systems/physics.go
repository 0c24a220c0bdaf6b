package systems

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Использует алгоритм Брезенхэма (только целочисленная арифметика).
// Тайлы с тегом BLOCKS_VISION и выход за границы карты закрывают обзор.
// Стартовая и конечная точки не проверяются: стоящий в стене все равно видит соседа.
func HasLineOfSight(w *domain.World, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	losLogger.Debug("--- Line of Sight Check Start ---")

	if p1 == p2 {
		losLogger.Debug("Check finished: Points are identical. Result: true")
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := p1.DirectionTo(p2)

	err := dx - dy

	for {
		cur := domain.Position{X: x0, Y: y0}

		if cur != p1 && cur != p2 && w.BlocksVision(cur) {
			losLogger.WithField("blocking_point", cur).
				Debug("Check finished: Line is blocked. Result: false")
			return false
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}

	losLogger.Debug("Check finished: No obstructions found. Result: true")
	return true
}
