package engine

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/systems"
	"cognitive-encounter/pkg/dice"
	"cognitive-encounter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Состояния энкаунтера
const (
	StateAwaitingAction = "awaiting_action"
	StateResolving      = "resolving"
	StateEncounterOver  = "encounter_over"
)

// События автомата
const (
	eventSubmit  = "submit"
	eventAdvance = "advance"
	eventCancel  = "cancel"
	eventFinish  = "finish"
)

// TieBreak - политика порядка при равной инициативе
type TieBreak string

const (
	TieBreakRoster  TieBreak = "roster"  // порядок в ростере
	TieBreakDefense TieBreak = "defense" // выше защита - раньше ход
	TieBreakName    TieBreak = "name"    // по алфавиту
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch tb := TieBreak(strings.ToLower(strings.TrimSpace(s))); tb {
	case "", TieBreakRoster:
		return TieBreakRoster, nil
	case TieBreakDefense, TieBreakName:
		return tb, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy %q", s)
	}
}

// Options - параметры BeginEncounter
type Options struct {
	TieBreak TieBreak
	Rules    systems.Rules
	Roller   *dice.Roller
	World    *domain.World      // nil для боя без карты
	Log      *domain.OutcomeLog // nil = создать новый
	// MaxRounds - лимит раундов, после него бой заканчивается ничьей (0 = без лимита)
	MaxRounds int
	// ResourceRegen - прирост ресурса в начале каждого раунда, кроме первого
	ResourceRegen int
}

type scheduledCall struct {
	round int
	fn    func(round int)
}

// TurnSystem ведет очередь ходов одного энкаунтера.
//
// Заявки сериализуются через submit (TryLock: вторая одновременная заявка
// получает ErrEncounterBusy). state держится на запись все разрешение,
// снимки и виды наблюдателей берут его на чтение. view защищает курсор и раунд.
type TurnSystem struct {
	submit sync.Mutex
	state  sync.RWMutex
	view   sync.RWMutex

	machine *fsm.FSM
	combat  *systems.CombatSystem
	world   *domain.World
	log     *domain.OutcomeLog

	roster []*domain.Entity // порядок ростера
	byID   map[domain.EntityID]*domain.Entity
	traps  []*domain.Entity
	ranks  map[domain.EntityID]int
	queue  *TurnManager

	maxRounds int
	regen     int

	round      int
	current    *domain.Entity
	overReason string
	scheduled  []scheduledCall
	due        []scheduledCall // сработали, ждут снятия state

	logger *logrus.Entry
}

// BeginEncounter строит очередь ходов: инициатива по убыванию, ничьи по
// политике tie-break. Ловушки и мирные NPC остаются в ростере (для
// проверок фракций и ловушек), но курсор хода не получают.
func BeginEncounter(roster []*domain.Entity, opts Options) (*TurnSystem, error) {
	if len(roster) == 0 {
		return nil, errors.New("begin encounter: empty roster")
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakRoster
	}
	if opts.Log == nil {
		opts.Log = domain.NewOutcomeLog()
	}
	if opts.Rules.MeleeRange == 0 {
		opts.Rules = systems.DefaultRules()
	}

	ts := &TurnSystem{
		combat: systems.NewCombatSystem(opts.Rules, opts.Roller),
		world:  opts.World,
		log:    opts.Log,
		roster: make([]*domain.Entity, 0, len(roster)),
		byID:   make(map[domain.EntityID]*domain.Entity, len(roster)),
		queue:     NewTurnManager(),
		maxRounds: opts.MaxRounds,
		regen:     opts.ResourceRegen,
		round:     1,
		logger:    logger.Log.WithField("component", "turn_system"),
	}

	for _, e := range roster {
		if e == nil || e.ID.IsNil() {
			return nil, fmt.Errorf("begin encounter: entity without id: %w", domain.ErrInvalidTarget)
		}
		if _, dup := ts.byID[e.ID]; dup {
			return nil, fmt.Errorf("begin encounter: duplicate entity %s: %w", e.ID, domain.ErrInvalidTarget)
		}
		ts.roster = append(ts.roster, e)
		ts.byID[e.ID] = e
		if e.Trap != nil {
			ts.traps = append(ts.traps, e)
		}
	}

	ts.ranks = rankRoster(ts.roster, opts.TieBreak)
	for _, e := range ts.roster {
		if e.TakesTurns() && e.IsAlive() {
			ts.queue.AddEntity(e, ts.round, ts.ranks[e.ID])
		}
	}

	ts.machine = fsm.NewFSM(
		StateAwaitingAction,
		fsm.Events{
			{Name: eventSubmit, Src: []string{StateAwaitingAction}, Dst: StateResolving},
			{Name: eventAdvance, Src: []string{StateResolving}, Dst: StateAwaitingAction},
			{Name: eventCancel, Src: []string{StateResolving}, Dst: StateAwaitingAction},
			{Name: eventFinish, Src: []string{StateAwaitingAction, StateResolving}, Dst: StateEncounterOver},
		},
		fsm.Callbacks{
			"enter_" + StateEncounterOver: func(_ context.Context, e *fsm.Event) {
				ts.logger.WithFields(logrus.Fields{
					"from":   e.Src,
					"round":  ts.round,
					"reason": ts.overReason,
				}).Info("Encounter over.")
			},
		},
	)

	ts.logger.WithFields(logrus.Fields{
		"participants": len(ts.roster),
		"turn_takers":  ts.queue.Len(),
		"tie_break":    opts.TieBreak,
		"max_rounds":   opts.MaxRounds,
	}).Info("Encounter started.")

	ts.startRound()
	if !ts.checkOver() {
		ts.selectNext()
	}
	return ts, nil
}

// rankRoster раздает уникальные ранги для разрешения равной инициативы
func rankRoster(roster []*domain.Entity, policy TieBreak) map[domain.EntityID]int {
	idx := make(map[domain.EntityID]int, len(roster))
	for i, e := range roster {
		idx[e.ID] = i
	}
	sorted := make([]*domain.Entity, len(roster))
	copy(sorted, roster)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch policy {
		case TieBreakDefense:
			if a.DefenseValue() != b.DefenseValue() {
				return a.DefenseValue() > b.DefenseValue()
			}
		case TieBreakName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		}
		return idx[a.ID] < idx[b.ID]
	})

	ranks := make(map[domain.EntityID]int, len(sorted))
	for i, e := range sorted {
		ranks[e.ID] = i
	}
	return ranks
}

// --- Чтение (безопасно для наблюдателей) ---

// CurrentActor - чей сейчас ход
func (ts *TurnSystem) CurrentActor() (*domain.Entity, error) {
	ts.view.RLock()
	defer ts.view.RUnlock()
	if ts.current == nil || ts.overReason != "" {
		return nil, domain.ErrEncounterNotActive
	}
	return ts.current, nil
}

func (ts *TurnSystem) Round() int {
	ts.view.RLock()
	defer ts.view.RUnlock()
	return ts.round
}

// State - текущее состояние автомата
func (ts *TurnSystem) State() string {
	return ts.machine.Current()
}

func (ts *TurnSystem) IsOver() bool {
	return ts.machine.Is(StateEncounterOver)
}

// OverReason - почему бой закончился ("" пока идет)
func (ts *TurnSystem) OverReason() string {
	ts.view.RLock()
	defer ts.view.RUnlock()
	return ts.overReason
}

func (ts *TurnSystem) Log() *domain.OutcomeLog {
	return ts.log
}

func (ts *TurnSystem) World() *domain.World {
	return ts.world
}

func (ts *TurnSystem) Rules() systems.Rules {
	return ts.combat.Rules()
}

// GetEntity - поиск по стабильному ID (живые и мертвые). Таблица не меняется
// после BeginEncounter, поэтому замок не нужен.
func (ts *TurnSystem) GetEntity(id domain.EntityID) *domain.Entity {
	return ts.byID[id]
}

// Alive разрешает ID через таблицу живых участников
func (ts *TurnSystem) Alive(id domain.EntityID) bool {
	ts.state.RLock()
	defer ts.state.RUnlock()
	e, ok := ts.byID[id]
	return ok && e.IsAlive()
}

// Entities - ростер в исходном порядке
func (ts *TurnSystem) Entities() []*domain.Entity {
	out := make([]*domain.Entity, len(ts.roster))
	copy(out, ts.roster)
	return out
}

// Order - ID участников, у которых еще есть ход, в порядке ходов
func (ts *TurnSystem) Order() []domain.EntityID {
	ts.view.RLock()
	defer ts.view.RUnlock()
	items := ts.queue.Order()
	ids := make([]domain.EntityID, len(items))
	for i, it := range items {
		ids[i] = it.Value.ID
	}
	return ids
}

// Winner - фракция, оставшаяся на поле (пусто при ничьей или пока бой идет)
func (ts *TurnSystem) Winner() domain.Faction {
	if !ts.IsOver() {
		return ""
	}
	factions := ts.livingFactions()
	if len(factions) == 1 {
		return factions[0]
	}
	return ""
}

// --- Действия ---

// SubmitAction разрешает действие текущего участника.
// Отклоненная заявка ничего не меняет: ни состояние сущностей, ни курсор.
func (ts *TurnSystem) SubmitAction(actorID domain.EntityID, action domain.Action, targetIDs []domain.EntityID) (domain.CombatOutcome, error) {
	if !ts.submit.TryLock() {
		return domain.CombatOutcome{}, domain.ErrEncounterBusy
	}
	defer ts.submit.Unlock()

	outcome, err := ts.submitLocked(actorID, action, targetIDs)
	// state уже снят: колбэки могут читать систему
	ts.runDue()
	return outcome, err
}

func (ts *TurnSystem) submitLocked(actorID domain.EntityID, action domain.Action, targetIDs []domain.EntityID) (domain.CombatOutcome, error) {
	ts.state.Lock()
	defer ts.state.Unlock()

	if ts.IsOver() {
		return domain.CombatOutcome{}, domain.ErrEncounterNotActive
	}
	actor := ts.current
	if actor == nil {
		return domain.CombatOutcome{}, domain.ErrEncounterNotActive
	}
	if actor.ID != actorID {
		return domain.CombatOutcome{}, fmt.Errorf("%s acts now, not %s: %w", actor.ID, actorID, domain.ErrNotYourTurn)
	}

	targets, err := systems.ResolveTargets(targetIDs, ts)
	if err != nil {
		return domain.CombatOutcome{}, err
	}

	ctx := context.Background()
	if err := ts.machine.Event(ctx, eventSubmit); err != nil {
		return domain.CombatOutcome{}, fmt.Errorf("submit: %w", err)
	}

	outcome, err := ts.resolve(actor, action, targets)
	if err != nil {
		_ = ts.machine.Event(ctx, eventCancel)
		return domain.CombatOutcome{}, err
	}

	outcome = ts.log.Append(outcome)
	ts.prune(outcome.Deaths())
	ts.queue.UpdatePriority(actor.ID, ts.round+1)

	if ts.checkOver() {
		return outcome, nil
	}
	_ = ts.machine.Event(ctx, eventAdvance)
	ts.selectNext()
	return outcome, nil
}

func (ts *TurnSystem) resolve(actor *domain.Entity, action domain.Action, targets []*domain.Entity) (domain.CombatOutcome, error) {
	switch action.Type {
	case domain.ActionMove:
		return ts.combat.Move(actor, action.To, ts.world, ts.traps)
	case domain.ActionWait:
		return ts.combat.Wait(actor)
	default:
		return ts.combat.ResolveAction(actor, action, targets, ts.world)
	}
}

// Move - сахар над SubmitAction
func (ts *TurnSystem) Move(actorID domain.EntityID, to domain.Position) (domain.CombatOutcome, error) {
	return ts.SubmitAction(actorID, domain.MoveTo(to), nil)
}

// Wait - пропуск хода
func (ts *TurnSystem) Wait(actorID domain.EntityID) (domain.CombatOutcome, error) {
	return ts.SubmitAction(actorID, domain.Wait(), nil)
}

// Abort принудительно завершает энкаунтер. Ждет окончания текущего
// разрешения: бой никогда не обрывается посреди применения эффекта.
func (ts *TurnSystem) Abort(reason string) error {
	ts.submit.Lock()
	defer ts.submit.Unlock()
	ts.state.Lock()
	defer ts.state.Unlock()
	if ts.IsOver() {
		return domain.ErrEncounterNotActive
	}
	if reason == "" {
		reason = "aborted"
	}
	ts.finish(reason)
	return nil
}

// ScheduleIn регистрирует fn на начало раунда round+rounds.
// Колбэк вызывается после разрешения, которое открыло раунд, уже без
// замка состояния: Alive, Snapshot и виды из него доступны. Заявка изнутри
// колбэка получит ErrEncounterBusy, Abort из колбэка вызывать нельзя.
func (ts *TurnSystem) ScheduleIn(rounds int, fn func(round int)) {
	ts.view.Lock()
	defer ts.view.Unlock()
	if rounds < 1 {
		rounds = 1
	}
	ts.scheduled = append(ts.scheduled, scheduledCall{round: ts.round + rounds, fn: fn})
}

// --- Внутренняя механика ---

// selectNext двигает курсор к следующему живому участнику.
// Переход через конец раунда запускает начало нового раунда.
func (ts *TurnSystem) selectNext() {
	for {
		item := ts.queue.PeekNext()
		if item == nil {
			ts.finish("no participants left")
			return
		}

		if item.Priority > ts.round {
			if ts.maxRounds > 0 && item.Priority > ts.maxRounds {
				ts.finish("round limit")
				return
			}
			ts.view.Lock()
			ts.round = item.Priority
			ts.view.Unlock()
			ts.startRound()
			if ts.checkOver() {
				return
			}
			continue
		}

		e := item.Value
		if !e.IsAlive() {
			ts.queue.RemoveEntity(e.ID)
			continue
		}

		// Оглушенный теряет ход
		if e.HasStatus(enums.StatusStunned) {
			if out, err := ts.combat.Wait(e); err == nil {
				ts.log.Append(out)
			}
			ts.queue.UpdatePriority(e.ID, ts.round+1)
			continue
		}

		ts.view.Lock()
		ts.current = e
		ts.view.Unlock()

		ts.logger.WithFields(logrus.Fields{
			"round":      ts.round,
			"actor_id":   e.ID,
			"actor_name": e.Name,
		}).Debug("Turn started.")
		return
	}
}

// startRound: тик статусов, перезарядка ловушек, реген ресурса.
// Колбэки этого раунда только откладываются в due, их вызывает runDue.
func (ts *TurnSystem) startRound() {
	r := ts.round
	ts.combat.SetRound(r)

	systems.ResetTraps(ts.traps, r)

	if r > 1 && ts.regen > 0 {
		for _, e := range ts.roster {
			if e.HasVitality() && e.IsAlive() && e.Stats.MaxResource > 0 {
				e.Stats.RestoreResource(ts.regen)
			}
		}
	}

	for _, e := range ts.roster {
		if out, ok := ts.combat.TickStatuses(e); ok && len(out.Targets) > 0 {
			out = ts.log.Append(out)
			ts.prune(out.Deaths())
		}
	}

	ts.view.Lock()
	var due, later []scheduledCall
	for _, c := range ts.scheduled {
		if c.round <= r {
			c.round = r
			due = append(due, c)
		} else {
			later = append(later, c)
		}
	}
	ts.scheduled = later
	ts.due = append(ts.due, due...)
	ts.view.Unlock()

	ts.logger.WithFields(logrus.Fields{
		"round": r,
		"queue": ts.queue.DebugDump(),
	}).Debug("Round started.")
}

// runDue вызывает сработавшие колбэки. Вызывающий держит submit, но не state.
func (ts *TurnSystem) runDue() {
	ts.view.Lock()
	due := ts.due
	ts.due = nil
	ts.view.Unlock()

	for _, c := range due {
		c.fn(c.round)
	}
}

// prune убирает мертвых из очереди. Трупы остаются в ростере и на карте.
func (ts *TurnSystem) prune(dead []domain.EntityID) {
	for _, id := range dead {
		ts.queue.RemoveEntity(id)
	}
}

// livingFactions - фракции, у которых остался живой участник с ходом
func (ts *TurnSystem) livingFactions() []domain.Faction {
	seen := make(map[domain.Faction]struct{})
	var out []domain.Faction
	for _, e := range ts.roster {
		if !e.IsAlive() || !e.TakesTurns() || e.Faction == domain.FactionHazard {
			continue
		}
		if _, ok := seen[e.Faction]; !ok {
			seen[e.Faction] = struct{}{}
			out = append(out, e.Faction)
		}
	}
	return out
}

// checkOver завершает бой, если противоборствующих фракций меньше двух
func (ts *TurnSystem) checkOver() bool {
	if ts.IsOver() {
		return true
	}
	factions := ts.livingFactions()
	if len(factions) >= 2 {
		return false
	}
	reason := "no opposing factions left"
	if len(factions) == 1 {
		reason = fmt.Sprintf("faction %s prevails", factions[0])
	}
	ts.finish(reason)
	return true
}

func (ts *TurnSystem) finish(reason string) {
	ts.view.Lock()
	ts.overReason = reason
	ts.current = nil
	ts.view.Unlock()
	_ = ts.machine.Event(context.Background(), eventFinish)
}

// Snapshot снимает состояние между разрешениями
func (ts *TurnSystem) Snapshot(encounterID string) domain.Snapshot {
	ts.state.RLock()
	defer ts.state.RUnlock()

	snap := domain.Snapshot{
		EncounterID: encounterID,
		Round:       ts.Round(),
		State:       ts.State(),
		Outcomes:    ts.log.Len(),
		Entities:    make([]domain.EntitySnapshot, 0, len(ts.roster)),
		World:       domain.SnapshotWorld(ts.world),
	}
	if cur, err := ts.CurrentActor(); err == nil {
		snap.Active = cur.ID
	}
	for _, e := range ts.roster {
		snap.Entities = append(snap.Entities, domain.SnapshotEntity(e))
	}
	snap.SortEntities()
	return snap
}
