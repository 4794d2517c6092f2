package world

import (
	"testing"

	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntranceSideNormal(t *testing.T) {
	tests := []struct {
		side EntranceSide
		want vec.Vec3
	}{
		{EntrancePlusZ, vec.Vec3{Z: 1}},
		{EntrancePlusX, vec.Vec3{X: 1}},
		{EntranceMinusZ, vec.Vec3{Z: -1}},
		{EntranceMinusX, vec.Vec3{X: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.side.Normal())
			assert.InDelta(t, 1.0, tt.side.Normal().Length(), 1e-9, "нормаль должна быть единичной")
		})
	}
}

func TestEntranceSideOffset(t *testing.T) {
	p := vec.Vec3{X: 1, Y: 2, Z: 3}

	assert.Equal(t, vec.Vec3{X: 1, Y: 2, Z: 4.5}, EntrancePlusZ.Offset(p, 1.5))
	assert.Equal(t, vec.Vec3{X: -1, Y: 2, Z: 3}, EntranceMinusX.Offset(p, 2))
}

func TestBuildingFootprintContains(t *testing.T) {
	bf := BuildingFootprint{
		Center: vec.Vec3{X: 10, Y: 0, Z: -5},
		Width:  6,
		Depth:  8,
		Height: 4,
	}

	assert.True(t, bf.Contains(vec.Vec3{X: 10, Y: 2, Z: -5}), "центр объёма внутри")
	assert.True(t, bf.Contains(vec.Vec3{X: 13, Y: 0, Z: -1}), "угол на границе внутри")
	assert.False(t, bf.Contains(vec.Vec3{X: 13.1, Y: 2, Z: -5}), "за стеной X")
	assert.False(t, bf.Contains(vec.Vec3{X: 10, Y: 4.5, Z: -5}), "над крышей")
	assert.False(t, bf.Contains(vec.Vec3{X: 10, Y: -0.1, Z: -5}), "под полом")
}

func TestBuildingFootprintDoorPosition(t *testing.T) {
	bf := BuildingFootprint{
		Center:   vec.Vec3{X: 4, Y: 0, Z: 4},
		Width:    6,
		Depth:    8,
		Height:   4,
		Entrance: EntranceMinusZ,
	}

	// Дверь в середине стены входа на уровне пола
	assert.Equal(t, vec.Vec3{X: 4, Y: 0, Z: 0}, bf.DoorPosition())

	bf.Entrance = EntrancePlusX
	assert.Equal(t, vec.Vec3{X: 7, Y: 0, Z: 4}, bf.DoorPosition())
}

func TestStructureRegistry(t *testing.T) {
	sr := NewStructureRegistry()
	assert.Zero(t, sr.Count())

	id1 := sr.Register(BuildingFootprint{Center: vec.Vec3{X: 5}, Width: 4, Depth: 4, Height: 3})
	id2 := sr.Register(BuildingFootprint{Center: vec.Vec3{X: -20}, Width: 4, Depth: 4, Height: 3})

	assert.NotEqual(t, id1, id2, "ID зданий должны быть уникальны")
	assert.Equal(t, 2, sr.Count())

	bf, ok := sr.Get(id1)
	require.True(t, ok)
	assert.Equal(t, id1, bf.ID)
	assert.Equal(t, 5.0, bf.Center.X)

	_, ok = sr.Get(999)
	assert.False(t, ok, "несуществующий ID не должен находиться")

	assert.True(t, sr.IsInside(vec.Vec3{X: 5, Y: 1}), "точка внутри первого здания")
	assert.False(t, sr.IsInside(vec.Vec3{X: 100, Y: 1}), "точка вне всех зданий")
}

func TestStructureRegistryNearest(t *testing.T) {
	sr := NewStructureRegistry()

	_, _, found := sr.Nearest(vec.Vec3{})
	assert.False(t, found, "пустой реестр — нет ближайшего")

	idNear := sr.Register(BuildingFootprint{Center: vec.Vec3{X: 3}, Width: 4, Depth: 4, Height: 3})
	sr.Register(BuildingFootprint{Center: vec.Vec3{X: -30}, Width: 4, Depth: 4, Height: 3})

	bf, dist, found := sr.Nearest(vec.Vec3{})
	require.True(t, found)
	assert.Equal(t, idNear, bf.ID, "ближайшим должно быть здание на X=3")
	assert.InDelta(t, 3.0, dist, 1e-9)
}

func TestWorldGeneratorDeterminism(t *testing.T) {
	params := WorldParams{
		Seed:          "test-v1",
		Size:          128,
		VillageRadius: 24,
		VillageBand:   12,
		Buildings:     6,
		TreeDensity:   0.1,
	}

	w1, err := NewWorldGenerator(params).Generate(physics.NewCollisionIndex())
	require.NoError(t, err)
	w2, err := NewWorldGenerator(params).Generate(physics.NewCollisionIndex())
	require.NoError(t, err)

	require.Equal(t, w1.Structures.Count(), w2.Structures.Count())
	a, b := w1.Structures.All(), w2.Structures.All()
	for i := range a {
		assert.Equal(t, a[i].Center, b[i].Center, "здание %d должно стоять там же", i)
		assert.Equal(t, a[i].Entrance, b[i].Entrance)
	}

	require.Equal(t, len(w1.Trees), len(w2.Trees), "число деревьев должно совпадать")
	for i := range w1.Trees {
		assert.Equal(t, w1.Trees[i], w2.Trees[i])
	}
}

func TestWorldGeneratorPlacement(t *testing.T) {
	params := WorldParams{
		Seed:          "test-v1",
		Size:          128,
		VillageRadius: 24,
		VillageBand:   12,
		Buildings:     6,
		TreeDensity:   0.1,
	}

	w, err := NewWorldGenerator(params).Generate(physics.NewCollisionIndex())
	require.NoError(t, err)

	assert.Equal(t, 6, w.Structures.Count())

	for _, bf := range w.Structures.All() {
		// Здания стоят внутри плоской зоны на нулевой высоте
		d := bf.Center.Horizontal().Length()
		assert.Less(t, d, params.VillageRadius, "здание %d внутри поселения", bf.ID)
		assert.Zero(t, bf.Center.Y, "пол здания на нулевой высоте")

		// Вход смотрит в сторону центра поселения
		n := bf.Entrance.Normal()
		toCenter := vec.Vec3{}.Sub(bf.Center).Normalized()
		assert.Greater(t, n.Dot(toCenter), 0.0, "вход здания %d обращён к центру", bf.ID)
	}

	// Деревья не вторгаются в поселение
	margin := params.VillageRadius + 2
	for _, tree := range w.Trees {
		assert.GreaterOrEqual(t, tree.Horizontal().Length(), margin,
			"дерево не должно стоять в поселении")
	}
	assert.NotEmpty(t, w.Trees, "при плотности 0.1 деревья должны появиться")

	// Каждому зданию соответствуют корпус и дверь
	doors := 0
	for _, c := range w.ExteriorColliders {
		if c.Kind == physics.KindDoor {
			doors++
			_, ok := w.Structures.Get(c.Owner)
			assert.True(t, ok, "дверь должна ссылаться на существующее здание")
		}
	}
	assert.Equal(t, 6, doors, "по одной двери на здание")
}

func TestWorldGroundHeight(t *testing.T) {
	params := WorldParams{
		Seed:          "test-v1",
		Size:          64,
		VillageRadius: 24,
		VillageBand:   12,
	}
	w, err := NewWorldGenerator(params).Generate(physics.NewCollisionIndex())
	require.NoError(t, err)

	assert.Zero(t, w.GroundHeight(0, 0), "в центре поселения опора на нуле")
}

func TestNearestTree(t *testing.T) {
	w := &World{Trees: []vec.Vec3{{X: 10}, {X: -3}}}

	dist, found := w.NearestTree(vec.Vec3{})
	require.True(t, found)
	assert.InDelta(t, 3.0, dist, 1e-9)

	empty := &World{}
	_, found = empty.NearestTree(vec.Vec3{})
	assert.False(t, found)
}
