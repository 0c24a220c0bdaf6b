package storage

import (
	"bufio"
	"cognitive-encounter/internal/domain"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	MagicHeader string = `CERP` // 4 байта
	Version1    uint32 = 1
	Extension          = ".cerp"
)

// ReplayFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	ActionCount int32   // 4 байта
	IDLen       uint8   // 1 байт, длина ID энкаунтера
	ScenarioLen uint16  // 2 байта
}

// ActionHeader - заголовок каждой записи действия.
// Токен - EntityID фиксированной длины, поэтому идет прямо в заголовке.
type ActionHeader struct {
	Round      int32  // 4
	ActionType uint8  // 1
	Token      uint64 // 8
	PayloadLen uint16 // 2
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir %s: %w", dir, err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет ленту в SaveDir и возвращает путь к файлу
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%s_%d%s", session.EncounterID, session.Seed, Extension)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteReplay(bw, session); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReplay сериализует ленту в бинарный формат .cerp
func WriteReplay(w io.Writer, s *domain.ReplaySession) error {
	if len(s.EncounterID) > 255 {
		return fmt.Errorf("encounter id too long: %d", len(s.EncounterID))
	}
	if len(s.Scenario) > 65535 {
		return fmt.Errorf("scenario name too long: %d", len(s.Scenario))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		ActionCount: int32(len(s.Actions)),
		IDLen:       uint8(len(s.EncounterID)),
		ScenarioLen: uint16(len(s.Scenario)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, s.EncounterID); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.Scenario); err != nil {
		return err
	}

	// 2. Пишем действия
	for _, act := range s.Actions {
		payloadLen := len(act.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("payload too long: %d", payloadLen)
		}

		actHeader := ActionHeader{
			Round:      int32(act.Round),
			ActionType: uint8(act.Action),
			Token:      uint64(act.Token),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}
		if payloadLen > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
