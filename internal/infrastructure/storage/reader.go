package storage

import (
	"bufio"
	"cognitive-encounter/internal/domain"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrInvalidReplay = errors.New("invalid replay file")

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	return LoadReplay(path)
}

// LoadReplay читает .cerp файл по пути
func LoadReplay(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadReplay(bufio.NewReader(f))
}

func ReadReplay(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("magic %q: %w", header.Magic[:], ErrInvalidReplay)
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d): %w", header.Version, Version1, ErrInvalidReplay)
	}
	if header.ActionCount < 0 {
		return nil, fmt.Errorf("negative action count: %w", ErrInvalidReplay)
	}

	idBuf := make([]byte, header.IDLen)
	if _, err := io.ReadFull(r, idBuf); err != nil {
		return nil, fmt.Errorf("failed to read encounter id: %w", err)
	}
	scenarioBuf := make([]byte, header.ScenarioLen)
	if _, err := io.ReadFull(r, scenarioBuf); err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	session := &domain.ReplaySession{
		EncounterID: string(idBuf),
		Scenario:    string(scenarioBuf),
		Seed:        header.Seed,
		Timestamp:   header.Timestamp,
		Actions:     make([]domain.ReplayAction, header.ActionCount),
	}

	// 2. Читаем Actions
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}

		act := domain.ReplayAction{
			Round:  int(ah.Round),
			Token:  domain.EntityID(ah.Token),
			Action: domain.ActionType(ah.ActionType),
		}
		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, fmt.Errorf("action %d payload: %w", i, err)
			}
		} else {
			act.Payload = json.RawMessage{}
		}

		session.Actions[i] = act
	}

	return session, nil
}
