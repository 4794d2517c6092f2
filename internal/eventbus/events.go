package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/wilds-game/internal/vec"
	"github.com/google/uuid"
)

// Типы игровых событий. Презентационный слой (UI, звук) подписывается
// на них вместо того, чтобы физика вызывала его напрямую.
const (
	EventEnterBuilding = "player.enter_building"
	EventExitBuilding  = "player.exit_building"
	EventPlayerJump    = "player.jump"
	EventUIHint        = "ui.hint"
)

// BuildingEventPayload — полезная нагрузка событий входа/выхода.
type BuildingEventPayload struct {
	BuildingID uint64   `json:"building_id"`
	Position   vec.Vec3 `json:"position"`
}

// HintPayload — транзиентная подсказка игроку
// ("подойдите к двери, чтобы выйти").
type HintPayload struct {
	Message string `json:"message"`
}

// NewEnvelope собирает конверт события с UUID и сериализованной
// в JSON полезной нагрузкой.
func NewEnvelope(eventType, source string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("eventbus: сериализация payload: %w", err)
	}

	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Payload:   data,
	}, nil
}
