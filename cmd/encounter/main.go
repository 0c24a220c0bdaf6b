package main

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine"
	"cognitive-encounter/internal/infrastructure/storage"
	"cognitive-encounter/internal/infrastructure/storage/sqlite"
	"cognitive-encounter/internal/systems"
	"cognitive-encounter/internal/version"
	"cognitive-encounter/pkg/logger"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Флаги
	var (
		configPath   string
		scenarioPath string
		seed         int64
		replayPath   string
	)
	flag.StringVar(&configPath, "config", "", "Path to encounter TOML config (empty = defaults + env)")
	flag.StringVar(&scenarioPath, "scenario", "", "Path to scenario TOML file")
	flag.Int64Var(&seed, "seed", 0, "Encounter seed (0 = from config or random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .cerp replay file to verify")
	flag.Parse()

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warnf("Failed to load .env: %v", err)
	}

	cfg, err := engine.Load(configPath)
	if err != nil {
		logger.Log.Fatalf("Config error: %v", err)
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)

	logger.Log.WithFields(version.Fields()).Infof("Starting Cognitive Encounter: %s", version.String())

	if scenarioPath == "" {
		logger.Log.Fatal("-scenario is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if replayPath != "" {
		if err := verifyReplay(*cfg, scenarioPath, replayPath); err != nil {
			logger.Log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	if err := run(ctx, *cfg, scenarioPath, seed); err != nil {
		logger.Log.Fatalf("Encounter failed: %v", err)
	}
}

// run проигрывает энкаунтер под AI-контроллерами до конца и сохраняет результат
func run(ctx context.Context, cfg engine.Config, scenarioPath string, seed int64) error {
	lib, err := engine.LoadLibrary(cfg.Data.Dir)
	if err != nil {
		return err
	}
	sc, err := engine.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(ctx, cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := engine.NewEncounterService(cfg, lib, store)
	enc, err := svc.Start(sc, seed)
	if err != nil {
		return err
	}
	id := enc.ID.String()
	logger.Log.Infof("🎲 Encounter %s (%s) seed %d", id, sc.Name, enc.Seed)

	// В CLI нет живого игрока: за human-контроллеры ходит autopilot
	for !enc.Turns.IsOver() {
		if err := ctx.Err(); err != nil {
			if abortErr := svc.Abort(id, "interrupted"); abortErr != nil {
				logger.Log.Warnf("Abort: %v", abortErr)
			}
			break
		}
		acted, err := enc.StepAI()
		if err != nil {
			if errors.Is(err, domain.ErrEncounterNotActive) {
				break
			}
			return err
		}
		if !acted {
			if err := autopilot(enc); err != nil {
				return err
			}
		}
	}

	for _, o := range enc.Turns.Log().All() {
		logOutcome(enc, o)
	}
	logger.Log.WithFields(logrus.Fields{
		"round":  enc.Turns.Round(),
		"winner": enc.Turns.Winner(),
	}).Infof("🏁 %s", enc.Turns.OverReason())

	replays, err := storage.NewReplayService(cfg.Data.ReplayDir)
	if err != nil {
		return err
	}
	path, err := replays.Save(enc.Replay)
	if err != nil {
		return err
	}
	logger.Log.Infof("💾 Replay saved: %s", path)
	if err := store.SaveReplay(ctx, enc.Replay); err != nil {
		return err
	}
	return svc.Save(ctx, id)
}

// verifyReplay заново проигрывает запись и сверяет итог
func verifyReplay(cfg engine.Config, scenarioPath, replayPath string) error {
	logger.Log.Info("💿 Mode: Replay Verification")

	lib, err := engine.LoadLibrary(cfg.Data.Dir)
	if err != nil {
		return err
	}
	sc, err := engine.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	session, err := storage.LoadReplay(replayPath)
	if err != nil {
		return err
	}
	if session.Scenario != sc.Name {
		return fmt.Errorf("replay recorded on scenario %q, got %q", session.Scenario, sc.Name)
	}

	enc, err := engine.ReplayEncounter(sc, lib, cfg, session)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"actions":  len(session.Actions),
		"outcomes": enc.Turns.Log().Len(),
		"round":    enc.Turns.Round(),
	}).Infof("✅ Replay is deterministic: %s", enc.Turns.OverReason())
	return nil
}

// autopilot выбирает ход за человека тем же скриптом, что и у ИИ
func autopilot(enc *engine.Encounter) error {
	actor, err := enc.Turns.CurrentActor()
	if err != nil {
		return nil
	}
	cmd := systems.ChooseAction(actor, enc.Turns.Entities(), enc.Turns.World(), enc.Turns.Rules())
	if _, err := enc.Execute(cmd); err != nil {
		logger.Log.WithField("actor", actor.Name).WithError(err).Warn("Autopilot action rejected, waiting instead.")
		if _, err := enc.Execute(domain.Command{Action: domain.ActionWait, Token: actor.ID}); err != nil {
			return fmt.Errorf("autopilot wait: %w", err)
		}
	}
	return nil
}

func logOutcome(enc *engine.Encounter, o domain.CombatOutcome) {
	name := o.ActorID.Token()
	if actor := enc.Turns.GetEntity(o.ActorID); actor != nil {
		name = actor.Name
	}
	fields := logrus.Fields{"seq": o.Seq, "round": o.Round, "actor": name, "action": o.Action}
	if o.Spell != "" {
		fields["spell"] = o.Spell
	}
	if o.To != nil {
		fields["to"] = fmt.Sprintf("%d,%d", o.To.X, o.To.Y)
	}
	for _, t := range o.Targets {
		logger.Log.WithFields(fields).Infof("%s: %s %+d (%d -> %d)", t.Name, t.Effect, t.Delta, t.HealthBefore, t.HealthAfter)
	}
	if len(o.Targets) == 0 {
		logger.Log.WithFields(fields).Info("-")
	}
	for _, sub := range o.Triggered {
		logOutcome(enc, sub)
	}
}
