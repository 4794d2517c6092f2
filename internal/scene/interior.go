package scene

import (
	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/vec"
	"github.com/annel0/wilds-game/internal/world"
)

// Размеры внутреннего убранства
const (
	wallThickness   = 0.3
	fireplaceWidth  = 1.5
	fireplaceHeight = 1.2
	fireplaceDepth  = 0.8
	tableSize       = 1.2
	tableHeight     = 0.8
	chestSize       = 0.8
	spawnInset      = 1.2 // Насколько точка появления отстоит от двери внутрь
)

// InteriorLayout — коллайдеры комнаты и её опорные точки.
// Комната живёт в собственной локальной системе координат:
// пол на высоте 0, центр комнаты в начале координат, дверь всегда
// в середине стены +Z — фиксированная точка для проверки выхода.
type InteriorLayout struct {
	Source     world.BuildingFootprint
	Colliders  []physics.Collider
	SpawnPoint vec.Vec3 // Позиция глаз при появлении внутри
	DoorPoint  vec.Vec3 // Точка двери на уровне пола
}

// BuildInterior строит набор коллайдеров комнаты для входа в здание:
// стены, потолок, очаг, стол и сундук. Пол не входит в набор —
// его высоту (константный 0) даёт функция опоры интерьера.
func BuildInterior(fp world.BuildingFootprint, index *physics.CollisionIndex, eyeHeight float64) *InteriorLayout {
	halfW := fp.Width / 2
	halfD := fp.Depth / 2
	h := fp.Height

	layout := &InteriorLayout{
		Source:     fp,
		DoorPoint:  vec.Vec3{Z: halfD},
		SpawnPoint: vec.Vec3{Y: eyeHeight, Z: halfD - spawnInset},
	}

	add := func(b physics.AABB) {
		layout.Colliders = append(layout.Colliders,
			index.NewCollider(physics.KindObstacle, 0, b))
	}

	// Четыре стены и потолок
	add(physics.AABBFromCenter(vec.Vec3{X: halfW, Y: h / 2}, wallThickness, h, fp.Depth))
	add(physics.AABBFromCenter(vec.Vec3{X: -halfW, Y: h / 2}, wallThickness, h, fp.Depth))
	add(physics.AABBFromCenter(vec.Vec3{Y: h / 2, Z: halfD}, fp.Width, h, wallThickness))
	add(physics.AABBFromCenter(vec.Vec3{Y: h / 2, Z: -halfD}, fp.Width, h, wallThickness))
	add(physics.AABBFromCenter(vec.Vec3{Y: h}, fp.Width, wallThickness, fp.Depth))

	// Очаг у стены напротив двери
	add(physics.AABBFromCenter(
		vec.Vec3{Y: fireplaceHeight / 2, Z: -halfD + fireplaceDepth/2 + wallThickness},
		fireplaceWidth, fireplaceHeight, fireplaceDepth))

	// Стол в левой половине комнаты
	add(physics.AABBFromCenter(
		vec.Vec3{X: -halfW / 2, Y: tableHeight / 2},
		tableSize, tableHeight, tableSize))

	// Сундук у правой стены
	add(physics.AABBFromCenter(
		vec.Vec3{X: halfW - chestSize/2 - wallThickness, Y: chestSize / 2},
		chestSize, chestSize, chestSize))

	return layout
}

// FloorHeight — функция опоры интерьера: пол всегда на нулевой высоте.
func (il *InteriorLayout) FloorHeight(x, z float64) float64 {
	return 0
}
