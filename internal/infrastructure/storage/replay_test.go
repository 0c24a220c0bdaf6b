package storage

import (
	"bytes"
	"cognitive-encounter/internal/domain"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *domain.ReplaySession {
	s := &domain.ReplaySession{
		EncounterID: "01HZX3M8Q4W7V2JH9K5T6R1B0C",
		Scenario:    "crypt",
		Seed:        42,
		Timestamp:   1700000000,
	}
	s.Record(1, domain.Command{Action: domain.ActionMove, Token: 7, Payload: json.RawMessage(`{"x":2,"y":3}`)})
	s.Record(1, domain.Command{Action: domain.ActionWait, Token: 9})
	s.Record(2, domain.Command{Action: domain.ActionAttack, Token: 7, Payload: json.RawMessage(`{"targetIds":["9"]}`)})
	return s
}

func TestReplay_WriteRead(t *testing.T) {
	in := sampleSession()

	var buf bytes.Buffer
	require.NoError(t, WriteReplay(&buf, in))
	assert.Equal(t, MagicHeader, string(buf.Bytes()[:4]))

	out, err := ReadReplay(&buf)
	require.NoError(t, err)

	assert.Equal(t, in.EncounterID, out.EncounterID)
	assert.Equal(t, in.Scenario, out.Scenario)
	assert.Equal(t, in.Seed, out.Seed)
	require.Len(t, out.Actions, 3)
	assert.Equal(t, domain.ActionMove, out.Actions[0].Action)
	assert.Equal(t, domain.EntityID(7), out.Actions[0].Token)
	assert.JSONEq(t, `{"x":2,"y":3}`, string(out.Actions[0].Payload))
	assert.Empty(t, out.Actions[1].Payload)
	assert.Equal(t, 2, out.Actions[2].Round)
}

func TestReplay_Rejects(t *testing.T) {
	var good bytes.Buffer
	require.NoError(t, WriteReplay(&good, sampleSession()))

	t.Run("bad magic", func(t *testing.T) {
		raw := append([]byte(nil), good.Bytes()...)
		copy(raw, "CDRP")
		_, err := ReadReplay(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrInvalidReplay)
	})

	t.Run("truncated", func(t *testing.T) {
		raw := good.Bytes()[:good.Len()-3]
		_, err := ReadReplay(bytes.NewReader(raw))
		assert.Error(t, err)
	})

	t.Run("payload too long", func(t *testing.T) {
		s := &domain.ReplaySession{EncounterID: "x"}
		s.Actions = append(s.Actions, domain.ReplayAction{Action: domain.ActionWait, Payload: make([]byte, 70000)})
		assert.Error(t, WriteReplay(&bytes.Buffer{}, s))
	})
}

func TestReplayService_SaveLoad(t *testing.T) {
	svc, err := NewReplayService(t.TempDir())
	require.NoError(t, err)

	path, err := svc.Save(sampleSession())
	require.NoError(t, err)
	assert.Contains(t, path, Extension)

	loaded, err := svc.Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Actions, 3)
}
