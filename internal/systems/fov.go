package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeVisibleTiles возвращает множество видимых тайлов (recursive shadowcasting).
// На гексах октанты не работают: там видимость = дистанция + HasLineOfSight.
func ComputeVisibleTiles(w *domain.World, pos domain.Position, radius int) map[domain.Position]bool {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": pos,
		"radius":       radius,
	})

	visible := make(map[domain.Position]bool)
	if radius <= 0 || !w.InBounds(pos) {
		fovLogger.Debug("FOV calculation skipped for blind observer.")
		return visible // Слепой
	}

	// Центр всегда виден
	visible[pos] = true

	if w.Topology == enums.TopologyHex {
		for _, t := range w.Tiles() {
			if w.Distance(pos, t.Pos) <= radius && HasLineOfSight(w, pos, t.Pos) {
				visible[t.Pos] = true
			}
		}
		return visible
	}

	// Рекурсивный Shadowcasting для 8 октантов
	for i := 0; i < 8; i++ {
		castLight(w, pos.X, pos.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visible)
	}

	fovLogger.WithField("visible_tiles", len(visible)).Debug("FOV calculation complete.")

	return visible
}

func castLight(w *domain.World, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visible map[domain.Position]bool) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			// Расчет наклонов (Slopes)
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			// Трансформация координат в глобальные
			p := domain.Position{X: cx + dx*xx + dy*xy, Y: cy + dx*yx + dy*yy}

			if w.InBounds(p) && float64(dx*dx+dy*dy) < radiusSq {
				visible[p] = true
			}

			// Логика теней
			if blocked {
				// Мы идем вдоль стены...
				if w.BlocksVision(p) {
					newStart = rSlope
					continue
				}
				// Стена кончилась, началась пустота
				blocked = false
				start = newStart
			} else if w.BlocksVision(p) && j < radius {
				// Мы шли по пустоте и наткнулись на стену
				blocked = true
				castLight(w, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visible)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
