package world

import (
	"math"
	"math/rand"

	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/util"
	"github.com/annel0/wilds-game/internal/vec"
)

// Размеры генерируемых объектов
const (
	buildingMinSize = 6.0
	buildingVarSize = 2.0
	buildingHeight  = 4.0
	doorWidth       = 1.2
	doorHeight      = 2.2
	doorThickness   = 0.3
	trunkSize       = 0.6
	trunkHeight     = 3.0
	treeCellStep    = 4.0 // Шаг сетки кандидатов на дерево
)

// WorldParams задаёт параметры генерации мира.
type WorldParams struct {
	Seed           string
	Size           int
	VillageRadius  float64
	VillageBand    float64
	Buildings      int
	TreeDensity    float64
	NoiseAmplitude float64
	NoiseFrequency float64
}

// World — результат генерации: поле высот, реестр зданий и статичный
// набор коллайдеров экстерьера. Всё строится один раз при создании мира.
type World struct {
	Heights           *HeightField
	Structures        *StructureRegistry
	ExteriorColliders []physics.Collider
	Trees             []vec.Vec3
}

// WorldGenerator генерирует ландшафт, поселение и деревья.
type WorldGenerator struct {
	params WorldParams
}

// NewWorldGenerator создаёт генератор мира с указанными параметрами
func NewWorldGenerator(params WorldParams) *WorldGenerator {
	return &WorldGenerator{params: params}
}

// Generate строит мир. Коллайдеры регистрируются через index, чтобы
// их ID были уникальны в пределах сессии. Детерминированность: один
// сид даёт одинаковый мир, включая размещение зданий и деревьев.
func (wg *WorldGenerator) Generate(index *physics.CollisionIndex) (*World, error) {
	p := wg.params

	clearing := Clearing{
		Center: vec.Vec2Float{},
		Radius: p.VillageRadius,
		Band:   p.VillageBand,
	}

	heights, err := NewHeightField(p.Size, p.Seed, clearing, p.NoiseAmplitude, p.NoiseFrequency)
	if err != nil {
		return nil, err
	}

	w := &World{
		Heights:    heights,
		Structures: NewStructureRegistry(),
	}

	// Локальный rng на основе сида — тот же приём, что и для чанков:
	// генерация не зависит от глобального состояния.
	rng := rand.New(rand.NewSource(util.SeedFromString(p.Seed)))

	wg.placeBuildings(w, index, rng)
	wg.placeTrees(w, index, rng)

	return w, nil
}

// placeBuildings расставляет здания по кольцу внутри плоской зоны,
// входами к центру поселения.
func (wg *WorldGenerator) placeBuildings(w *World, index *physics.CollisionIndex, rng *rand.Rand) {
	count := wg.params.Buildings
	if count <= 0 {
		return
	}

	ringRadius := wg.params.VillageRadius * 0.6

	for i := 0; i < count; i++ {
		angle := 2*math.Pi*float64(i)/float64(count) + (rng.Float64()-0.5)*0.3

		center := vec.Vec3{
			X: math.Cos(angle) * ringRadius,
			Y: 0, // Плоская зона: пол на нулевой высоте
			Z: math.Sin(angle) * ringRadius,
		}

		bf := BuildingFootprint{
			Center:   center,
			Width:    buildingMinSize + rng.Float64()*buildingVarSize,
			Depth:    buildingMinSize + rng.Float64()*buildingVarSize,
			Height:   buildingHeight,
			Entrance: entranceTowards(center, vec.Vec3{}),
		}
		id := w.Structures.Register(bf)
		bf.ID = id

		// Корпус здания — сплошное препятствие
		shell := physics.AABBFromCenter(
			center.Add(vec.Vec3{Y: bf.Height / 2}),
			bf.Width, bf.Height, bf.Depth,
		)
		w.ExteriorColliders = append(w.ExteriorColliders,
			index.NewCollider(physics.KindObstacle, 0, shell))

		// Дверь — тонкий объём чуть снаружи стены входа,
		// владелец — футпринт здания
		door := doorBounds(bf)
		w.ExteriorColliders = append(w.ExteriorColliders,
			index.NewCollider(physics.KindDoor, id, door))
	}
}

// entranceTowards выбирает сторону входа, нормаль которой ближе всего
// к направлению на target.
func entranceTowards(center, target vec.Vec3) EntranceSide {
	d := target.Sub(center)
	if math.Abs(d.X) > math.Abs(d.Z) {
		if d.X > 0 {
			return EntrancePlusX
		}
		return EntranceMinusX
	}
	if d.Z > 0 {
		return EntrancePlusZ
	}
	return EntranceMinusZ
}

// doorBounds возвращает объём дверного триггера здания.
func doorBounds(bf BuildingFootprint) physics.AABB {
	pos := bf.Entrance.Offset(bf.DoorPosition(), doorThickness/2)
	center := pos.Add(vec.Vec3{Y: doorHeight / 2})

	n := bf.Entrance.Normal()
	if n.X != 0 {
		// Дверь в стене ±X: тонкая по X, широкая по Z
		return physics.AABBFromCenter(center, doorThickness, doorHeight, doorWidth)
	}
	return physics.AABBFromCenter(center, doorWidth, doorHeight, doorThickness)
}

// placeTrees расставляет деревья за пределами поселения по сетке
// кандидатов с вероятностью TreeDensity на ячейку.
func (wg *WorldGenerator) placeTrees(w *World, index *physics.CollisionIndex, rng *rand.Rand) {
	half := float64(wg.params.Size) / 2
	margin := wg.params.VillageRadius + 2

	for z := -half; z < half; z += treeCellStep {
		for x := -half; x < half; x += treeCellStep {
			if rng.Float64() >= wg.params.TreeDensity {
				continue
			}

			// Смещение внутри ячейки, чтобы деревья не стояли по сетке
			tx := x + rng.Float64()*treeCellStep
			tz := z + rng.Float64()*treeCellStep

			if math.Sqrt(tx*tx+tz*tz) < margin {
				continue // Поселение остаётся проходимым
			}

			h := w.Heights.HeightAt(tx, tz)
			pos := vec.Vec3{X: tx, Y: h, Z: tz}
			w.Trees = append(w.Trees, pos)

			trunk := physics.AABBFromCenter(
				pos.Add(vec.Vec3{Y: trunkHeight / 2}),
				trunkSize, trunkHeight, trunkSize,
			)
			w.ExteriorColliders = append(w.ExteriorColliders,
				index.NewCollider(physics.KindObstacle, 0, trunk))
		}
	}
}

// GroundHeight возвращает интерполированную высоту ландшафта —
// функция опоры для режима экстерьера.
func (w *World) GroundHeight(x, z float64) float64 {
	return w.Heights.InterpolatedHeightAt(x, z)
}

// NearestTree возвращает горизонтальное расстояние до ближайшего дерева.
func (w *World) NearestTree(p vec.Vec3) (float64, bool) {
	best := math.MaxFloat64
	found := false
	for _, t := range w.Trees {
		d := p.Horizontal().DistanceTo(t.Horizontal())
		if d < best {
			best = d
			found = true
		}
	}
	return best, found
}
