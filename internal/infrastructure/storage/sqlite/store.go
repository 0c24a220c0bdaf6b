// Package sqlite хранит снимки энкаунтеров и ленты реплеев в SQLite.
package sqlite

import (
	"bytes"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/infrastructure/storage"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound - записи нет
var ErrNotFound = errors.New("not found")

// Store - снимки и реплеи в одном файле SQLite
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open открывает базу и применяет встроенные миграции
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot пишет снимок. Ключ - (энкаунтер, длина лога исходов):
// повторное сохранение того же момента перезаписывает запись.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if snap.EncounterID == "" {
		return fmt.Errorf("encounter id is required")
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO snapshots (encounter_id, outcomes, round, state, saved_at, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (encounter_id, outcomes) DO UPDATE SET
			round = excluded.round,
			state = excluded.state,
			saved_at = excluded.saved_at,
			body = excluded.body`,
		snap.EncounterID, snap.Outcomes, snap.Round, snap.State, s.now().UTC().UnixMilli(), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot - самый поздний снимок энкаунтера
func (s *Store) LatestSnapshot(ctx context.Context, encounterID string) (domain.Snapshot, error) {
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT body FROM snapshots
		WHERE encounter_id = ?
		ORDER BY outcomes DESC
		LIMIT 1`, encounterID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, fmt.Errorf("snapshot %s: %w", encounterID, ErrNotFound)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", encounterID, err)
	}
	return snap, nil
}

// SnapshotSummary - строка списка сохранений
type SnapshotSummary struct {
	EncounterID string
	Outcomes    int
	Round       int
	State       string
	SavedAt     time.Time
}

// ListSnapshots - все сохранения энкаунтера по порядку
func (s *Store) ListSnapshots(ctx context.Context, encounterID string) ([]SnapshotSummary, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT encounter_id, outcomes, round, state, saved_at FROM snapshots
		WHERE encounter_id = ?
		ORDER BY outcomes`, encounterID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotSummary
	for rows.Next() {
		var (
			row     SnapshotSummary
			savedAt int64
		)
		if err := rows.Scan(&row.EncounterID, &row.Outcomes, &row.Round, &row.State, &savedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		row.SavedAt = time.UnixMilli(savedAt).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveReplay кладет ленту в бинарном формате .cerp
func (s *Store) SaveReplay(ctx context.Context, session *domain.ReplaySession) error {
	if session.EncounterID == "" {
		return fmt.Errorf("encounter id is required")
	}
	var buf bytes.Buffer
	if err := storage.WriteReplay(&buf, session); err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO replays (encounter_id, scenario, seed, actions, saved_at, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (encounter_id) DO UPDATE SET
			actions = excluded.actions,
			saved_at = excluded.saved_at,
			body = excluded.body`,
		session.EncounterID, session.Scenario, session.Seed, len(session.Actions), s.now().UTC().UnixMilli(), buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("insert replay: %w", err)
	}
	return nil
}

// LoadReplay достает ленту энкаунтера
func (s *Store) LoadReplay(ctx context.Context, encounterID string) (*domain.ReplaySession, error) {
	var body []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM replays WHERE encounter_id = ?`, encounterID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("replay %s: %w", encounterID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query replay: %w", err)
	}
	return storage.ReadReplay(bytes.NewReader(body))
}
