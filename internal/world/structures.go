package world

import (
	"math"
	"sync"

	"github.com/annel0/wilds-game/internal/vec"
)

// EntranceSide указывает сторону здания, на которой расположен вход.
// Именованный тип вместо магических чисел 0-3 при выборе стороны.
type EntranceSide int

const (
	EntrancePlusZ  EntranceSide = iota // 0: вход со стороны +Z
	EntrancePlusX                      // 1: вход со стороны +X
	EntranceMinusZ                     // 2: вход со стороны -Z
	EntranceMinusX                     // 3: вход со стороны -X
)

// String возвращает строковое представление стороны входа
func (s EntranceSide) String() string {
	switch s {
	case EntrancePlusZ:
		return "+Z"
	case EntrancePlusX:
		return "+X"
	case EntranceMinusZ:
		return "-Z"
	case EntranceMinusX:
		return "-X"
	default:
		return "?"
	}
}

// Normal возвращает единичную внешнюю нормаль стороны входа.
// Единственная параметрическая функция вместо четырёх ветвей
// позиционно-поворотной математики.
func (s EntranceSide) Normal() vec.Vec3 {
	switch s {
	case EntrancePlusZ:
		return vec.Vec3{Z: 1}
	case EntrancePlusX:
		return vec.Vec3{X: 1}
	case EntranceMinusZ:
		return vec.Vec3{Z: -1}
	default:
		return vec.Vec3{X: -1}
	}
}

// Offset смещает точку наружу вдоль нормали входа на dist единиц.
func (s EntranceSide) Offset(p vec.Vec3, dist float64) vec.Vec3 {
	return p.Add(s.Normal().Mul(dist))
}

// BuildingFootprint описывает объём, занимаемый зданием, независимо
// от его визуального меша. Создаётся при генерации мира и неизменяем.
type BuildingFootprint struct {
	ID       uint64
	Center   vec.Vec3 // Центр основания (Y — уровень пола)
	Width    float64  // Размер по X
	Depth    float64  // Размер по Z
	Height   float64  // Размер по Y от Center.Y
	Entrance EntranceSide
}

// Contains проверяет, находится ли точка внутри объёма здания.
func (bf BuildingFootprint) Contains(p vec.Vec3) bool {
	halfW := bf.Width / 2
	halfD := bf.Depth / 2

	return p.X >= bf.Center.X-halfW && p.X <= bf.Center.X+halfW &&
		p.Z >= bf.Center.Z-halfD && p.Z <= bf.Center.Z+halfD &&
		p.Y >= bf.Center.Y && p.Y <= bf.Center.Y+bf.Height
}

// DoorPosition возвращает середину стены входа на уровне пола.
func (bf BuildingFootprint) DoorPosition() vec.Vec3 {
	n := bf.Entrance.Normal()
	halfW := bf.Width / 2
	halfD := bf.Depth / 2
	return vec.Vec3{
		X: bf.Center.X + n.X*halfW,
		Y: bf.Center.Y,
		Z: bf.Center.Z + n.Z*halfD,
	}
}

// StructureRegistry хранит футпринты всех размещённых зданий.
// Заполняется генератором мира; после генерации только читается.
// Линейный перебор достаточен при десятках зданий — это
// задокументированный предел масштабирования.
type StructureRegistry struct {
	mu         sync.RWMutex
	footprints []BuildingFootprint
	nextID     uint64
}

// NewStructureRegistry создаёт пустой реестр зданий
func NewStructureRegistry() *StructureRegistry {
	return &StructureRegistry{nextID: 1}
}

// Register добавляет футпринт здания и возвращает присвоенный ID.
func (sr *StructureRegistry) Register(bf BuildingFootprint) uint64 {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	bf.ID = sr.nextID
	sr.nextID++
	sr.footprints = append(sr.footprints, bf)
	return bf.ID
}

// Get возвращает футпринт по ID.
func (sr *StructureRegistry) Get(id uint64) (BuildingFootprint, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	for _, bf := range sr.footprints {
		if bf.ID == id {
			return bf, true
		}
	}
	return BuildingFootprint{}, false
}

// IsInside проверяет, находится ли точка внутри объёма какого-либо здания.
func (sr *StructureRegistry) IsInside(p vec.Vec3) bool {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	for _, bf := range sr.footprints {
		if bf.Contains(p) {
			return true
		}
	}
	return false
}

// All возвращает копию списка футпринтов.
func (sr *StructureRegistry) All() []BuildingFootprint {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	out := make([]BuildingFootprint, len(sr.footprints))
	copy(out, sr.footprints)
	return out
}

// Count возвращает количество зарегистрированных зданий
func (sr *StructureRegistry) Count() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.footprints)
}

// Nearest возвращает ближайшее к точке здание и горизонтальное
// расстояние до его центра. Используется отладочной телеметрией.
func (sr *StructureRegistry) Nearest(p vec.Vec3) (BuildingFootprint, float64, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	best := BuildingFootprint{}
	bestDist := math.MaxFloat64
	found := false

	for _, bf := range sr.footprints {
		d := p.Horizontal().DistanceTo(bf.Center.Horizontal())
		if d < bestDist {
			best = bf
			bestDist = d
			found = true
		}
	}
	return best, bestDist, found
}
