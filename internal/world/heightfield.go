package world

import (
	"fmt"
	"math"

	"github.com/annel0/wilds-game/internal/util"
	"github.com/annel0/wilds-game/internal/vec"
)

// Количество октав шума для генерации высот
const heightOctaves = 3

// Clearing описывает плоскую зону поселения: внутри Radius высота
// равна нулю, в полосе Band шум плавно возвращается к полной силе.
type Clearing struct {
	Center vec.Vec2Float
	Radius float64
	Band   float64
}

// HeightField владеет сеткой высот N×N с центром в начале координат.
// После конструирования поле неизменяемо, запросы безопасны для
// конкурентного чтения.
type HeightField struct {
	size     int
	seed     string
	clearing Clearing
	heights  []float64 // row-major: heights[iz*size+ix]
}

// NewHeightField генерирует сетку высот по сиду.
// Одинаковый сид даёт бит-в-бит одинаковое поле.
func NewHeightField(size int, seed string, clearing Clearing, amplitude, frequency float64) (*HeightField, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heightfield: недопустимый размер сетки %d", size)
	}
	if seed == "" {
		return nil, fmt.Errorf("heightfield: пустой сид")
	}
	if amplitude <= 0 {
		amplitude = 6.0
	}
	if frequency <= 0 {
		frequency = 0.03
	}

	noise := util.NewNoiseGenerator(util.SeedFromString(seed))
	half := float64(size) / 2

	hf := &HeightField{
		size:     size,
		seed:     seed,
		clearing: clearing,
		heights:  make([]float64, size*size),
	}

	for iz := 0; iz < size; iz++ {
		for ix := 0; ix < size; ix++ {
			wx := float64(ix) - half
			wz := float64(iz) - half

			h := noise.OctaveNoise2D(wx, wz, heightOctaves, amplitude, frequency)

			// Радиальное сглаживание: внутри поселения ровно 0,
			// в переходной полосе шум возвращается линейно.
			d := clearing.Center.DistanceTo(vec.Vec2Float{X: wx, Y: wz})
			h *= clearing.blend(d)

			hf.heights[iz*size+ix] = h
		}
	}

	return hf, nil
}

// blend возвращает множитель шума [0,1] для расстояния d до центра поселения.
func (c Clearing) blend(d float64) float64 {
	if d <= c.Radius {
		return 0
	}
	if c.Band <= 0 {
		return 1
	}
	t := (d - c.Radius) / c.Band
	if t > 1 {
		t = 1
	}
	return t
}

// Size возвращает размер сетки N
func (hf *HeightField) Size() int { return hf.size }

// Seed возвращает сид мира
func (hf *HeightField) Seed() string { return hf.seed }

// Clearing возвращает параметры зоны поселения
func (hf *HeightField) Clearing() Clearing { return hf.clearing }

// CellOf возвращает индекс ячейки сетки (ix, iz) для мировых координат.
// Второе значение false — точка вне сетки.
func (hf *HeightField) CellOf(x, z float64) (vec.Vec2, bool) {
	half := float64(hf.size) / 2
	ix := int(math.Floor(x + half))
	iz := int(math.Floor(z + half))

	if ix < 0 || ix >= hf.size || iz < 0 || iz >= hf.size {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: ix, Y: iz}, true
}

// HeightAt возвращает высоту ближайшей ячейки сетки для мировых
// координат (x, z). За пределами сетки возвращает 0.
func (hf *HeightField) HeightAt(x, z float64) float64 {
	cell, ok := hf.CellOf(x, z)
	if !ok {
		return 0
	}
	return hf.heights[cell.Y*hf.size+cell.X]
}

// InterpolatedHeightAt возвращает билинейно интерполированную высоту
// по четырём окружающим ячейкам. Если хотя бы одна из четырёх ячеек
// вне сетки (включая верхний/правый край), используется HeightAt —
// сознательное упрощение границы, сохранённое для совместимости
// с существующими мирами.
func (hf *HeightField) InterpolatedHeightAt(x, z float64) float64 {
	half := float64(hf.size) / 2
	gx := x + half
	gz := z + half

	ix0 := int(math.Floor(gx))
	iz0 := int(math.Floor(gz))
	ix1 := ix0 + 1
	iz1 := iz0 + 1

	if ix0 < 0 || iz0 < 0 || ix1 >= hf.size || iz1 >= hf.size {
		return hf.HeightAt(x, z)
	}

	fx := gx - float64(ix0)
	fz := gz - float64(iz0)

	h00 := hf.heights[iz0*hf.size+ix0]
	h10 := hf.heights[iz0*hf.size+ix1]
	h01 := hf.heights[iz1*hf.size+ix0]
	h11 := hf.heights[iz1*hf.size+ix1]

	return h00*(1-fx)*(1-fz) +
		h10*fx*(1-fz) +
		h01*(1-fx)*fz +
		h11*fx*fz
}
