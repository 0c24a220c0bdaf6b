package domain

import "errors"

// Ошибки ядра. Все восстановимы на границе вызывающего: контроллер может
// повторить с другим действием/целью. Отклоненный запрос ничего не меняет.
var (
	ErrActorIncapacitated   = errors.New("actor incapacitated")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrOutOfBounds          = errors.New("out of bounds")
	ErrTileOccupied         = errors.New("tile occupied")
	ErrTileBlocked          = errors.New("tile blocked")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrEncounterNotActive   = errors.New("encounter not active")
	ErrEncounterBusy        = errors.New("encounter busy")
	ErrInvalidAction        = errors.New("invalid action")
	ErrUnknownEntity        = errors.New("unknown entity")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrActorIncapacitated, "ACTOR_INCAPACITATED"},
	{ErrInvalidTarget, "INVALID_TARGET"},
	{ErrInsufficientResource, "INSUFFICIENT_RESOURCE"},
	{ErrOutOfBounds, "OUT_OF_BOUNDS"},
	{ErrTileOccupied, "TILE_OCCUPIED"},
	{ErrTileBlocked, "TILE_BLOCKED"},
	{ErrNotYourTurn, "NOT_YOUR_TURN"},
	{ErrEncounterNotActive, "ENCOUNTER_NOT_ACTIVE"},
	{ErrEncounterBusy, "ENCOUNTER_BUSY"},
	{ErrInvalidAction, "INVALID_ACTION"},
	{ErrUnknownEntity, "UNKNOWN_ENTITY"},
}

// ErrorKind - стабильное имя вида ошибки для контроллеров.
// "" для nil, "INTERNAL" для всего, что не является ошибкой ядра.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "INTERNAL"
}
