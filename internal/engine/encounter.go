package engine

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine/handlers"
	"cognitive-encounter/internal/engine/handlers/actions"
	"cognitive-encounter/internal/systems"
	"cognitive-encounter/pkg/api"
	"cognitive-encounter/pkg/dice"
	"cognitive-encounter/pkg/logger"
	"cognitive-encounter/pkg/roster"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Library - справочники: заклинания и бестиарий
type Library struct {
	Spells   *roster.SpellTable
	Bestiary *roster.Bestiary
}

// LoadLibrary читает spells.yaml и bestiary.yaml из dir
func LoadLibrary(dir string) (*Library, error) {
	spells, err := roster.LoadSpellTable(filepath.Join(dir, "spells.yaml"))
	if err != nil {
		return nil, err
	}
	bestiary, err := roster.LoadBestiary(filepath.Join(dir, "bestiary.yaml"))
	if err != nil {
		return nil, err
	}
	return &Library{Spells: spells, Bestiary: bestiary}, nil
}

var actionHandlers = map[domain.ActionType]handlers.HandlerFunc{
	domain.ActionAttack:  handlers.WithPayload(actions.HandleAttack),
	domain.ActionTrigger: handlers.WithPayload(actions.HandleTrigger),
	domain.ActionCast:    handlers.WithPayload(actions.HandleCast),
	domain.ActionMove:    handlers.WithPayload(actions.HandleMove),
	domain.ActionWait:    handlers.WithEmptyPayload(actions.HandleWait),
}

// Encounter - один изолированный бой: свой генератор, своя очередь ходов,
// своя лента реплея. Энкаунтеры не делят изменяемое состояние.
type Encounter struct {
	ID       ulid.ULID
	Scenario string
	Seed     int64

	Turns  *TurnSystem
	Replay *domain.ReplaySession

	mu     sync.Mutex // сериализует Execute, чтобы лента шла в порядке разрешения
	logger *logrus.Entry
}

// NewEncounter строит карту и ростер сценария и начинает бой
func NewEncounter(sc *Scenario, lib *Library, cfg Config, seed int64) (*Encounter, error) {
	world, err := sc.BuildWorld()
	if err != nil {
		return nil, err
	}
	spawner := roster.NewSpawner(lib.Bestiary, lib.Spells, sc.Region)
	participants, err := sc.Populate(spawner, world, cfg.Combat.TrapResetRounds)
	if err != nil {
		return nil, err
	}
	tieBreak, err := ParseTieBreak(cfg.Combat.TieBreak)
	if err != nil {
		return nil, err
	}

	// Локальный генератор: один сид - одна и та же последовательность бросков
	rng := rand.New(rand.NewSource(seed))
	turns, err := BeginEncounter(participants, Options{
		TieBreak: tieBreak,
		Rules: systems.Rules{
			MeleeRange:        cfg.Combat.MeleeRange,
			DestructibleTraps: cfg.Combat.DestructibleTraps,
		},
		Roller:        dice.NewRoller(rng),
		World:         world,
		MaxRounds:     cfg.Combat.MaxRounds,
		ResourceRegen: cfg.Combat.ResourceRegen,
	})
	if err != nil {
		return nil, err
	}

	id := ulid.Make()
	e := &Encounter{
		ID:       id,
		Scenario: sc.Name,
		Seed:     seed,
		Turns:    turns,
		Replay: &domain.ReplaySession{
			EncounterID: id.String(),
			Scenario:    sc.Name,
			Seed:        seed,
			Timestamp:   time.Now().Unix(),
			Actions:     make([]domain.ReplayAction, 0),
		},
		logger: logger.Log.WithFields(logrus.Fields{
			"component":    "encounter",
			"encounter_id": id.String(),
		}),
	}
	e.logger.WithFields(logrus.Fields{
		"scenario":     sc.Name,
		"seed":         seed,
		"participants": len(participants),
	}).Info("Encounter created.")
	return e, nil
}

// Execute прогоняет команду через хендлер. Принятая команда пишется в реплей.
func (e *Encounter) Execute(cmd domain.Command) (domain.CombatOutcome, error) {
	if !e.mu.TryLock() {
		return domain.CombatOutcome{}, domain.ErrEncounterBusy
	}
	defer e.mu.Unlock()
	return e.execute(cmd)
}

func (e *Encounter) execute(cmd domain.Command) (domain.CombatOutcome, error) {
	handler, ok := actionHandlers[cmd.Action]
	if !ok {
		return domain.CombatOutcome{}, fmt.Errorf("action %s: %w", cmd.Action, domain.ErrInvalidAction)
	}
	actor := e.Turns.GetEntity(cmd.Token)
	if actor == nil {
		return domain.CombatOutcome{}, fmt.Errorf("actor %s: %w", cmd.Token, domain.ErrUnknownEntity)
	}

	round := e.Turns.Round()
	res, err := handler(handlers.Context{Turns: e.Turns, Actor: actor}, cmd.Payload)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"actor_id": actor.ID,
			"action":   cmd.Action,
			"kind":     domain.ErrorKind(err),
		}).WithError(err).Debug("Command rejected.")
		return domain.CombatOutcome{}, err
	}

	e.Replay.Record(round, cmd)
	return res.Outcome, nil
}

// Submit - вход для внешних контроллеров: строковый токен и имя действия
func (e *Encounter) Submit(cc api.ClientCommand) api.CommandResult {
	cmd, err := toCommand(cc)
	if err == nil {
		var outcome domain.CombatOutcome
		outcome, err = e.Execute(cmd)
		if err == nil {
			return e.result(outcome)
		}
	}
	res := e.result(domain.CombatOutcome{})
	res.OK = false
	res.Outcome = nil
	res.ErrorKind = domain.ErrorKind(err)
	res.Error = err.Error()
	return res
}

func toCommand(cc api.ClientCommand) (domain.Command, error) {
	action := domain.ParseAction(cc.Action)
	if action == domain.ActionUnknown {
		return domain.Command{}, fmt.Errorf("unknown action %q: %w", cc.Action, domain.ErrInvalidAction)
	}
	token, err := domain.ParseEntityID(cc.Token)
	if err != nil || token.IsNil() {
		return domain.Command{}, fmt.Errorf("token %q: %w", cc.Token, domain.ErrUnknownEntity)
	}
	return domain.Command{Action: action, Token: token, Payload: cc.Payload}, nil
}

func (e *Encounter) result(outcome domain.CombatOutcome) api.CommandResult {
	res := api.CommandResult{
		OK:    true,
		Round: e.Turns.Round(),
		Over:  e.Turns.IsOver(),
	}
	if raw, err := json.Marshal(outcome); err == nil {
		res.Outcome = raw
	}
	if cur, err := e.Turns.CurrentActor(); err == nil {
		res.ActiveEntityID = cur.ID.Token()
	}
	return res
}

// StepAI делает один ход за участника без человека.
// acted=false, если ходит человек или бой окончен.
func (e *Encounter) StepAI() (acted bool, err error) {
	if !e.mu.TryLock() {
		return false, domain.ErrEncounterBusy
	}
	defer e.mu.Unlock()

	actor, err := e.Turns.CurrentActor()
	if err != nil {
		return false, err
	}
	if actor.IsHuman() {
		return false, nil
	}

	cmd := systems.ChooseAction(actor, e.Turns.Entities(), e.Turns.World(), e.Turns.Rules())
	if _, err := e.execute(cmd); err != nil {
		// Скрипт не должен выдавать невалидных действий, но ход терять нельзя
		e.logger.WithFields(logrus.Fields{
			"actor_id": actor.ID,
			"action":   cmd.Action,
		}).WithError(err).Warn("AI action rejected, waiting instead.")
		if _, err := e.execute(domain.Command{Action: domain.ActionWait, Token: actor.ID}); err != nil {
			return false, err
		}
	}
	return true, nil
}

// RunAI крутит ходы ИИ, пока не дойдет до человека или конца боя.
// Отмена контекста проверяется между разрешениями.
func (e *Encounter) RunAI(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		acted, err := e.StepAI()
		if errors.Is(err, domain.ErrEncounterNotActive) {
			return nil
		}
		if err != nil {
			return err
		}
		if !acted {
			return nil
		}
	}
}

// Snapshot - снимок для слоя хранения
func (e *Encounter) Snapshot() domain.Snapshot {
	return e.Turns.Snapshot(e.ID.String())
}

// ReplayEncounter заново проигрывает записанную ленту на том же сценарии.
// Любая отклоненная команда или расхождение раунда - ошибка детерминизма.
func ReplayEncounter(sc *Scenario, lib *Library, cfg Config, session *domain.ReplaySession) (*Encounter, error) {
	e, err := NewEncounter(sc, lib, cfg, session.Seed)
	if err != nil {
		return nil, err
	}
	for i, act := range session.Actions {
		if r := e.Turns.Round(); r != act.Round {
			return e, fmt.Errorf("replay step %d: round %d, recorded %d", i, r, act.Round)
		}
		cmd := domain.Command{Action: act.Action, Token: act.Token, Payload: act.Payload}
		if _, err := e.Execute(cmd); err != nil {
			return e, fmt.Errorf("replay step %d (%s by %s): %w", i, act.Action, act.Token, err)
		}
	}
	return e, nil
}
