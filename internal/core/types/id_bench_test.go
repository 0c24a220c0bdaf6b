package types

import (
	"cognitive-encounter/internal/core/types/enums"
	"testing"
)

// Sinks нужны, чтобы компилятор не выкинул вычисления.
var (
	sinkID  EntityID
	sinkStr string
)

// Токены разбираются на каждой команде контроллера и каждом шаге реплея
func BenchmarkEntityID_Token(b *testing.B) {
	id := PackEntityID(1, enums.EntityKindEnemy, 0, 4)

	b.Run("Format", func(b *testing.B) {
		var v string
		for i := 0; i < b.N; i++ {
			v = id.Token()
		}
		sinkStr = v
	})

	b.Run("Parse", func(b *testing.B) {
		token := id.Token()
		var v EntityID
		for i := 0; i < b.N; i++ {
			v, _ = ParseEntityID(token)
		}
		sinkID = v
	})
}

func BenchmarkEntityID_JSON(b *testing.B) {
	id := PackEntityID(1, enums.EntityKindEnemy, 0, 4)
	data, _ := id.MarshalJSON()
	var v EntityID
	for i := 0; i < b.N; i++ {
		_ = v.UnmarshalJSON(data)
	}
	sinkID = v
}
