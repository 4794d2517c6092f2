package physics

import (
	"sync"

	"github.com/annel0/wilds-game/internal/vec"
)

// ColliderKind различает препятствия и интерактивные объекты.
// Для физики оба вида одинаково блокируют движение.
type ColliderKind int

const (
	KindObstacle ColliderKind = iota // Стены, мебель, стволы деревьев
	KindDoor                         // Дверь здания, цель взаимодействия
)

// Collider описывает твёрдый объект в плоском реестре коллизий:
// явная запись {ID, вид, владелец, границы} вместо обхода графа сцены
// с тегами на произвольных узлах.
type Collider struct {
	ID     uint64
	Kind   ColliderKind
	Owner  uint64 // ID футпринта здания для дверей, иначе 0
	Bounds AABB
}

// RayHit описывает результат попадания луча.
type RayHit struct {
	Collider Collider
	Distance float64
}

// CollisionIndex — перестраиваемый на смену сцены набор твёрдых
// препятствий. Ландшафт в индекс не входит: его высота запрашивается
// через HeightField. Активный набор заменяется целиком при переходе
// экстерьер/интерьер; мутация только из тика симуляции.
type CollisionIndex struct {
	mu     sync.RWMutex
	active []Collider
	nextID uint64
}

// NewCollisionIndex создаёт индекс с пустым активным набором
func NewCollisionIndex() *CollisionIndex {
	return &CollisionIndex{nextID: 1}
}

// NewCollider присваивает ID и возвращает коллайдер.
func (ci *CollisionIndex) NewCollider(kind ColliderKind, owner uint64, bounds AABB) Collider {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	c := Collider{ID: ci.nextID, Kind: kind, Owner: owner, Bounds: bounds}
	ci.nextID++
	return c
}

// SetActive заменяет активный набор коллайдеров.
func (ci *CollisionIndex) SetActive(colliders []Collider) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	ci.active = colliders
}

// Clear очищает активный набор
func (ci *CollisionIndex) Clear() {
	ci.SetActive(nil)
}

// ActiveCount возвращает размер активного набора
func (ci *CollisionIndex) ActiveCount() int {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	return len(ci.active)
}

// CastRay возвращает ближайшее попадание луча в активный набор.
// Пустой набор — корректная ситуация "нет попадания", не ошибка.
func (ci *CollisionIndex) CastRay(origin, dir vec.Vec3, maxDist float64) (RayHit, bool) {
	return ci.castRay(origin, dir, maxDist, func(Collider) bool { return true })
}

// CastRayKind возвращает ближайшее попадание в коллайдер указанного вида.
func (ci *CollisionIndex) CastRayKind(origin, dir vec.Vec3, maxDist float64, kind ColliderKind) (RayHit, bool) {
	return ci.castRay(origin, dir, maxDist, func(c Collider) bool { return c.Kind == kind })
}

func (ci *CollisionIndex) castRay(origin, dir vec.Vec3, maxDist float64, accept func(Collider) bool) (RayHit, bool) {
	dir = dir.Normalized()
	if dir.Length() == 0 {
		return RayHit{}, false
	}

	ci.mu.RLock()
	defer ci.mu.RUnlock()

	best := RayHit{Distance: maxDist}
	found := false

	for _, c := range ci.active {
		if !accept(c) {
			continue
		}
		// Грубая отсечка по расстоянию до объёма перед точным тестом:
		// запрос выполняется много раз за тик.
		if c.Bounds.DistanceToPoint(origin) > maxDist {
			continue
		}
		dist, ok := c.Bounds.IntersectRay(origin, dir, maxDist)
		if !ok {
			continue
		}
		if !found || dist < best.Distance {
			best = RayHit{Collider: c, Distance: dist}
			found = true
		}
	}

	return best, found
}
