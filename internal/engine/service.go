package engine

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/api"
	"cognitive-encounter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrEncounterNotFound - нет энкаунтера с таким ID
var ErrEncounterNotFound = errors.New("encounter not found")

// SnapshotStore - слой хранения снимков (sqlite в проде, map в тестах)
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// EncounterService владеет множеством независимых энкаунтеров.
// Энкаунтеры не делят изменяемого состояния и идут параллельно.
type EncounterService struct {
	cfg   Config
	lib   *Library
	store SnapshotStore // nil = без сохранения

	mu         sync.RWMutex
	encounters map[string]*Encounter

	logger *logrus.Entry
}

func NewEncounterService(cfg Config, lib *Library, store SnapshotStore) *EncounterService {
	return &EncounterService{
		cfg:        cfg,
		lib:        lib,
		store:      store,
		encounters: make(map[string]*Encounter),
		logger:     logger.Log.WithField("component", "encounter_service"),
	}
}

// Start создает энкаунтер по сценарию. seed=0 - зерно из конфига.
func (s *EncounterService) Start(sc *Scenario, seed int64) (*Encounter, error) {
	if seed == 0 {
		seed = s.cfg.EffectiveSeed()
	}
	enc, err := NewEncounter(sc, s.lib, s.cfg, seed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.encounters[enc.ID.String()] = enc
	total := len(s.encounters)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"encounter_id": enc.ID.String(),
		"active":       total,
	}).Info("Encounter registered.")
	return enc, nil
}

func (s *EncounterService) Get(id string) (*Encounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enc, ok := s.encounters[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrEncounterNotFound)
	}
	return enc, nil
}

// List - ID всех энкаунтеров по порядку создания (ULID сортируется по времени)
func (s *EncounterService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.encounters))
	for id := range s.encounters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove забывает энкаунтер
func (s *EncounterService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.encounters, id)
}

// Submit принимает команду контроллера
func (s *EncounterService) Submit(id string, cmd api.ClientCommand) (api.CommandResult, error) {
	enc, err := s.Get(id)
	if err != nil {
		return api.CommandResult{}, err
	}
	return enc.Submit(cmd), nil
}

// RunAI ведет ходы ИИ до человека или конца боя
func (s *EncounterService) RunAI(ctx context.Context, id string) error {
	enc, err := s.Get(id)
	if err != nil {
		return err
	}
	return enc.RunAI(ctx)
}

// Abort принудительно завершает энкаунтер
func (s *EncounterService) Abort(id, reason string) error {
	enc, err := s.Get(id)
	if err != nil {
		return err
	}
	return enc.Turns.Abort(reason)
}

func (s *EncounterService) Snapshot(id string) (domain.Snapshot, error) {
	enc, err := s.Get(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return enc.Snapshot(), nil
}

// View - персональный вид наблюдателя
func (s *EncounterService) View(id string, observer domain.EntityID) (*api.EncounterView, error) {
	enc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return enc.Turns.BuildViewFor(observer)
}

// Save пишет снимок в хранилище
func (s *EncounterService) Save(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New("save: no snapshot store configured")
	}
	snap, err := s.Snapshot(id)
	if err != nil {
		return err
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	s.logger.WithFields(logrus.Fields{
		"encounter_id": id,
		"round":        snap.Round,
		"state":        snap.State,
	}).Info("Snapshot saved.")
	return nil
}
