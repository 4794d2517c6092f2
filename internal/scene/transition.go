package scene

import (
	"context"

	"github.com/annel0/wilds-game/internal/eventbus"
	"github.com/annel0/wilds-game/internal/logging"
	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/player"
	"github.com/annel0/wilds-game/internal/vec"
	"github.com/annel0/wilds-game/internal/world"
)

// Пороговые расстояния переходов
const (
	DefaultInteractThreshold = 3.0 // Дальность взаимодействия с дверью
	DefaultExitClearance     = 1.5 // Отступ наружу при выходе, чтобы не сработал повторный вход
)

// InteriorSession — транзиентное состояние "внутри конкретного здания".
// Существует тогда и только тогда, когда аватар в режиме интерьера;
// уничтожается при выходе.
type InteriorSession struct {
	Source         world.BuildingFootprint
	ReturnPosition vec.Vec3 // Позиция в экстерьере на момент входа
	Layout         *InteriorLayout
}

// SceneTransition — машина состояний экстерьер/интерьер.
// Владеет InteriorSession и переключает активный набор коллайдеров;
// сборка самой комнаты делегирована BuildInterior. Вход оценивается
// только в режиме экстерьера, поэтому вложенные интерьеры недостижимы.
type SceneTransition struct {
	registry  *world.StructureRegistry
	index     *physics.CollisionIndex
	exterior  []physics.Collider
	session   *InteriorSession
	eyeHeight float64

	InteractThreshold float64
	ExitClearance     float64
}

// NewSceneTransition создаёт машину переходов. exterior — статичный
// набор коллайдеров открытого мира, который восстанавливается при выходе.
func NewSceneTransition(registry *world.StructureRegistry, index *physics.CollisionIndex, exterior []physics.Collider, eyeHeight float64) *SceneTransition {
	return &SceneTransition{
		registry:          registry,
		index:             index,
		exterior:          exterior,
		eyeHeight:         eyeHeight,
		InteractThreshold: DefaultInteractThreshold,
		ExitClearance:     DefaultExitClearance,
	}
}

// Session возвращает активную сессию интерьера или nil.
func (t *SceneTransition) Session() *InteriorSession {
	return t.session
}

// Consistent проверяет инвариант: сессия существует тогда и только
// тогда, когда аватар в режиме интерьера.
func (t *SceneTransition) Consistent(avatar *player.AvatarState) bool {
	return (t.session != nil) == (avatar.Mode == player.ModeInterior)
}

// Interact обрабатывает действие взаимодействия: вход в здание по лучу
// взгляда в экстерьере, выход у двери в интерьере. Возвращает true,
// если переход состоялся. Невалидная цель — тихий no-op с транзиентной
// подсказкой, без ошибки.
func (t *SceneTransition) Interact(ctx context.Context, avatar *player.AvatarState, origin, dir vec.Vec3) bool {
	if avatar.Mode == player.ModeExterior {
		return t.tryEnter(ctx, avatar, origin, dir)
	}
	return t.tryExit(ctx, avatar)
}

// tryEnter ищет дверь по лучу взгляда и входит в её здание.
func (t *SceneTransition) tryEnter(ctx context.Context, avatar *player.AvatarState, origin, dir vec.Vec3) bool {
	hit, ok := t.index.CastRayKind(origin, dir, t.InteractThreshold, physics.KindDoor)
	if !ok {
		t.publishHint(ctx, "Здесь не с чем взаимодействовать")
		return false
	}

	fp, ok := t.registry.Get(hit.Collider.Owner)
	if !ok {
		// Дверь без футпринта — ошибка данных генерации, не игрока
		logging.Warn("Дверь %d без владельца-здания (owner=%d)", hit.Collider.ID, hit.Collider.Owner)
		t.publishHint(ctx, "Здесь не с чем взаимодействовать")
		return false
	}

	layout := BuildInterior(fp, t.index, t.eyeHeight)

	t.session = &InteriorSession{
		Source:         fp,
		ReturnPosition: avatar.Position,
		Layout:         layout,
	}

	// Экстерьер деактивируется, но не уничтожается: набор вернётся
	// при выходе без повторной генерации
	t.index.SetActive(layout.Colliders)

	avatar.Position = layout.SpawnPoint
	avatar.Velocity = vec.Vec3{}
	avatar.Mode = player.ModeInterior

	logging.Info("🚪 Вход в здание %d (вход %s)", fp.ID, fp.Entrance)
	t.publishBuildingEvent(ctx, eventbus.EventEnterBuilding, fp.ID, avatar.Position)
	return true
}

// tryExit выполняет выход, если аватар достаточно близко к двери.
// Дверь интерьера — фиксированная точка, лучевой запрос не нужен.
func (t *SceneTransition) tryExit(ctx context.Context, avatar *player.AvatarState) bool {
	if t.session == nil {
		return false
	}

	doorDist := avatar.Position.Horizontal().DistanceTo(t.session.Layout.DoorPoint.Horizontal())
	if doorDist > t.InteractThreshold {
		t.publishHint(ctx, "Подойдите к двери, чтобы выйти")
		return false
	}

	// Возврат в точку входа со сдвигом наружу вдоль нормали входа
	fp := t.session.Source
	avatar.Position = fp.Entrance.Offset(t.session.ReturnPosition, t.ExitClearance)
	avatar.Velocity = vec.Vec3{}
	avatar.Mode = player.ModeExterior

	t.index.SetActive(t.exterior)
	t.session = nil

	logging.Info("🚪 Выход из здания %d", fp.ID)
	t.publishBuildingEvent(ctx, eventbus.EventExitBuilding, fp.ID, avatar.Position)
	return true
}

func (t *SceneTransition) publishBuildingEvent(ctx context.Context, eventType string, buildingID uint64, pos vec.Vec3) {
	ev, err := eventbus.NewEnvelope(eventType, "scene", eventbus.BuildingEventPayload{
		BuildingID: buildingID,
		Position:   pos,
	})
	if err != nil {
		logging.Error("Ошибка сборки события %s: %v", eventType, err)
		return
	}
	if err := eventbus.Publish(ctx, ev); err != nil {
		logging.Error("Ошибка публикации события %s: %v", eventType, err)
	}
}

func (t *SceneTransition) publishHint(ctx context.Context, message string) {
	ev, err := eventbus.NewEnvelope(eventbus.EventUIHint, "scene", eventbus.HintPayload{Message: message})
	if err != nil {
		return
	}
	_ = eventbus.Publish(ctx, ev)
}
