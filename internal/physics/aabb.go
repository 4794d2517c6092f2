package physics

import (
	"math"

	"github.com/annel0/wilds-game/internal/vec"
)

// AABB представляет осевыравненный ограничивающий объём.
type AABB struct {
	Min vec.Vec3
	Max vec.Vec3
}

// NewAABB создаёт AABB по двум углам
func NewAABB(min, max vec.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// AABBFromCenter создаёт AABB по центру и полным размерам.
func AABBFromCenter(center vec.Vec3, width, height, depth float64) AABB {
	half := vec.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center возвращает центр объёма
func (b AABB) Center() vec.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains проверяет, находится ли точка внутри объёма
func (b AABB) Contains(p vec.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects проверяет пересечение двух объёмов
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// DistanceToPoint возвращает расстояние от объёма до точки.
// Для точки внутри объёма расстояние равно нулю.
func (b AABB) DistanceToPoint(p vec.Vec3) float64 {
	dx := math.Max(b.Min.X-p.X, math.Max(0, p.X-b.Max.X))
	dy := math.Max(b.Min.Y-p.Y, math.Max(0, p.Y-b.Max.Y))
	dz := math.Max(b.Min.Z-p.Z, math.Max(0, p.Z-b.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IntersectRay пересекает луч с объёмом (метод слэбов).
// dir должен быть нормализован. Возвращает расстояние до входа
// в объём и true при попадании в пределах maxDist; для начала луча
// внутри объёма расстояние равно нулю.
func (b AABB) IntersectRay(origin, dir vec.Vec3, maxDist float64) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	axes := [3][3]float64{
		{origin.X, dir.X, 0},
		{origin.Y, dir.Y, 0},
		{origin.Z, dir.Z, 0},
	}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		o, d := axes[i][0], axes[i][1]
		if d == 0 {
			// Луч параллелен слэбу: промах, если начало вне него
			if o < mins[i] || o > maxs[i] {
				return 0, false
			}
			continue
		}

		t1 := (mins[i] - o) / d
		t2 := (maxs[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}

	dist := tMin
	if dist < 0 {
		dist = 0 // начало луча внутри объёма
	}
	if dist > maxDist {
		return 0, false
	}
	return dist, true
}
