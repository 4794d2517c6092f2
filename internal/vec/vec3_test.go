package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -1, Y: 0.5, Z: 2}

	assert.Equal(t, Vec3{X: 0, Y: 2.5, Z: 5}, a.Add(b))
	assert.Equal(t, Vec3{X: 2, Y: 1.5, Z: 1}, a.Sub(b))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, a.Mul(2))
	assert.InDelta(t, 6.0, a.Dot(b), 1e-9)
}

func TestVec3Normalized(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}
	n := v.Normalized()

	assert.InDelta(t, 1.0, n.Length(), 1e-9)
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Z, 1e-9)

	// Нулевой вектор остаётся нулевым, без деления на ноль
	assert.Equal(t, Vec3{}, Vec3{}.Normalized())
}

func TestVec3Horizontal(t *testing.T) {
	v := Vec3{X: 2, Y: 99, Z: -3}
	h := v.Horizontal()

	assert.Equal(t, Vec2Float{X: 2, Y: -3}, h, "проекция отбрасывает Y")
	assert.InDelta(t, math.Sqrt(13), h.Length(), 1e-9)
}

func TestVec3IsValid(t *testing.T) {
	assert.True(t, Vec3{X: 1, Y: 2, Z: 3}.IsValid())
	assert.True(t, Vec3{}.IsValid())
	assert.False(t, Vec3{X: math.NaN()}.IsValid())
	assert.False(t, Vec3{Z: math.Inf(-1)}.IsValid())
}

func TestVec2FloatNormalized(t *testing.T) {
	v := Vec2Float{X: 0, Y: -5}
	assert.Equal(t, Vec2Float{X: 0, Y: -1}, v.Normalized())
	assert.Equal(t, Vec2Float{}, Vec2Float{}.Normalized())
}

func TestVec2FloatDistanceTo(t *testing.T) {
	assert.InDelta(t, 5.0, Vec2Float{X: 0, Y: 0}.DistanceTo(Vec2Float{X: 3, Y: 4}), 1e-9)
}
