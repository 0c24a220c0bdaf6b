package domain

import (
	"fmt"
	"sync"
)

// WorldLore - описание мира и тексты регионов/тайлов.
// Во время боя только читается.
type WorldLore struct {
	mu          sync.RWMutex
	description string
	timeOfDay   string
	weather     string
	regions     map[string]string
}

func NewWorldLore(description, timeOfDay, weather string) *WorldLore {
	return &WorldLore{
		description: description,
		timeOfDay:   timeOfDay,
		weather:     weather,
		regions:     make(map[string]string),
	}
}

// SetRegion задает текст для ссылки ref (тайл или регион)
func (l *WorldLore) SetRegion(ref, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.regions[ref] = text
}

// Text - текст по ссылке, "" если нет
func (l *WorldLore) Text(ref string) string {
	if ref == "" {
		return ""
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.regions[ref]
}

// Regions - копия всех текстов
func (l *WorldLore) Regions() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.regions))
	for k, v := range l.regions {
		out[k] = v
	}
	return out
}

func (l *WorldLore) UpdateWeather(weather string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.weather = weather
}

func (l *WorldLore) UpdateTimeOfDay(timeOfDay string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeOfDay = timeOfDay
}

func (l *WorldLore) Weather() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.weather
}

func (l *WorldLore) TimeOfDay() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.timeOfDay
}

// Describe - сводка мира: описание, время суток, погода
func (l *WorldLore) Describe() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fmt.Sprintf("%s Time: %s, Weather: %s", l.description, l.timeOfDay, l.weather)
}
