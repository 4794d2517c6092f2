package player

import (
	"math"
	"testing"

	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = 1.0 / 60

func testParams() LocomotionParams {
	return LocomotionParams{
		Gravity:     22.0,
		Speed:       5.0,
		JumpImpulse: 8.0,
		EyeHeight:   1.7,
		SlopeLimit:  1.0,
		MaxDelta:    0.1,
	}
}

func flatGround(x, z float64) float64 { return 0 }

func newTestAvatar(spawn vec.Vec3) *AvatarState {
	return NewAvatarState(spawn, 1.8, 0.4)
}

func TestStepGroundedInvariant(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	// Наклонная, но проходимая опора
	slope := func(x, z float64) float64 { return -0.02 * z }

	for i := 0; i < 120; i++ {
		require.NoError(t, loco.Step(st, InputIntent{Forward: true}, slope, testDt))

		// Оставаясь на опоре, глаза строго на EyeHeight над ней
		groundH := slope(st.Position.X, st.Position.Z)
		assert.InDelta(t, groundH+1.7, st.Position.Y, 1e-9,
			"на тике %d глаза должны быть на высоте опоры + EyeHeight", i)
	}

	assert.Less(t, st.Position.Z, 0.0, "Forward двигает в -Z")
	assert.Zero(t, st.Position.X, "без бокового намерения X не меняется")
}

func TestStepIntentDirections(t *testing.T) {
	tests := []struct {
		name   string
		in     InputIntent
		wantDX float64
		wantDZ float64
	}{
		{"forward", InputIntent{Forward: true}, 0, -1},
		{"backward", InputIntent{Backward: true}, 0, 1},
		{"left", InputIntent{Left: true}, -1, 0},
		{"right", InputIntent{Right: true}, 1, 0},
		{"diagonal", InputIntent{Forward: true, Right: true}, math.Sqrt2 / 2, -math.Sqrt2 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
			st := newTestAvatar(vec.Vec3{Y: 1.7})

			require.NoError(t, loco.Step(st, tt.in, flatGround, testDt))

			// Скорость 5 ед/с, диагональ нормализуется до единичной длины
			assert.InDelta(t, tt.wantDX*5*testDt, st.Position.X, 1e-9)
			assert.InDelta(t, tt.wantDZ*5*testDt, st.Position.Z, 1e-9)
		})
	}
}

func TestStepOpposingIntentCancels(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	require.NoError(t, loco.Step(st, InputIntent{Left: true, Right: true}, flatGround, testDt))
	assert.Zero(t, st.Position.X, "противоположные намерения гасятся")
	assert.Zero(t, st.Position.Z)
}

func TestStepSlopeVeto(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	// Обрыв: любой шаг вперёд поднимает опору выше SlopeLimit
	cliff := func(x, z float64) float64 {
		if z < 0 {
			return 5
		}
		return 0
	}

	for i := 0; i < 30; i++ {
		require.NoError(t, loco.Step(st, InputIntent{Forward: true}, cliff, testDt))
	}

	assert.Zero(t, st.Position.X, "вето по уклону не даёт горизонтального смещения")
	assert.Zero(t, st.Position.Z, "аватар упирается в слишком крутой подъём")
	assert.InDelta(t, 1.7, st.Position.Y, 1e-9)
}

func TestStepJumpArc(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	require.NoError(t, loco.Step(st, InputIntent{Jump: true}, flatGround, testDt))
	assert.False(t, st.CanJump, "в воздухе прыжок недоступен")
	assert.Greater(t, st.Position.Y, 1.7, "прыжок поднимает аватара")

	// Повторный Jump в воздухе не даёт второго импульса
	vyAfterJump := st.Velocity.Y
	require.NoError(t, loco.Step(st, InputIntent{Jump: true}, flatGround, testDt))
	assert.Less(t, st.Velocity.Y, vyAfterJump, "гравитация тормозит подъём, двойного прыжка нет")

	// Доигрываем дугу до приземления
	peak := st.Position.Y
	landed := false
	for i := 0; i < 600; i++ {
		require.NoError(t, loco.Step(st, InputIntent{}, flatGround, testDt))
		peak = math.Max(peak, st.Position.Y)
		if st.CanJump {
			landed = true
			break
		}
	}

	require.True(t, landed, "дуга прыжка должна завершиться приземлением")
	assert.InDelta(t, 1.7, st.Position.Y, 1e-9, "после приземления глаза снова на EyeHeight")
	assert.Greater(t, peak, 2.5, "дуга должна иметь заметную высоту")
}

func TestStepAirborneGravity(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 10})

	require.NoError(t, loco.Step(st, InputIntent{}, flatGround, testDt))
	assert.False(t, st.CanJump)
	assert.Negative(t, st.Velocity.Y, "в свободном падении скорость направлена вниз")
	assert.Less(t, st.Position.Y, 10.0)

	// Падение заканчивается ровно на опоре, без провала под неё
	for i := 0; i < 600; i++ {
		require.NoError(t, loco.Step(st, InputIntent{}, flatGround, testDt))
		require.GreaterOrEqual(t, st.Position.Y, 1.7-1e-9, "аватар не проваливается под опору")
	}
	assert.InDelta(t, 1.7, st.Position.Y, 1e-9)
	assert.True(t, st.CanJump)
}

func TestStepWallStopsAtRadius(t *testing.T) {
	index := physics.NewCollisionIndex()
	wall := index.NewCollider(physics.KindObstacle, 0,
		physics.AABBFromCenter(vec.Vec3{X: 5, Y: 0.5, Z: 5}, 1, 1, 1))
	index.SetActive([]physics.Collider{wall})

	loco := NewLocomotion(index, testParams())
	st := newTestAvatar(vec.Vec3{X: 0, Y: 1.7, Z: 5})

	for i := 0; i < 120; i++ {
		require.NoError(t, loco.Step(st, InputIntent{Right: true}, flatGround, testDt))
	}

	// Аватар останавливается, когда грань препятствия на расстоянии
	// радиуса: 4.5 - 0.4 = 4.1
	assert.InDelta(t, 4.1, st.Position.X, 1e-6,
		"аватар должен остановиться на расстоянии радиуса от стены")
	assert.InDelta(t, 5.0, st.Position.Z, 1e-9)
}

func TestStepCeilingStopsAscent(t *testing.T) {
	index := physics.NewCollisionIndex()
	ceiling := index.NewCollider(physics.KindObstacle, 0,
		physics.AABBFromCenter(vec.Vec3{Y: 2.2}, 4, 0.3, 4))
	index.SetActive([]physics.Collider{ceiling})

	loco := NewLocomotion(index, testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	require.NoError(t, loco.Step(st, InputIntent{Jump: true}, flatGround, testDt))
	for i := 0; i < 10; i++ {
		require.NoError(t, loco.Step(st, InputIntent{}, flatGround, testDt))
	}

	assert.LessOrEqual(t, st.Velocity.Y, 0.0, "потолок гасит подъём")
	assert.Less(t, st.Position.Y, 2.2, "голова не проходит сквозь потолок")
}

func TestStepInvalidState(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())

	st := newTestAvatar(vec.Vec3{X: math.NaN(), Y: 1.7})
	assert.Error(t, loco.Step(st, InputIntent{}, flatGround, testDt),
		"NaN в позиции — нарушение предусловия")

	st = newTestAvatar(vec.Vec3{Y: 1.7})
	st.Velocity.Y = math.Inf(1)
	assert.Error(t, loco.Step(st, InputIntent{}, flatGround, testDt),
		"Inf в скорости — нарушение предусловия")
}

func TestStepDeltaHandling(t *testing.T) {
	loco := NewLocomotion(physics.NewCollisionIndex(), testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	// Нулевая и отрицательная дельта — no-op без ошибки
	require.NoError(t, loco.Step(st, InputIntent{Forward: true}, flatGround, 0))
	require.NoError(t, loco.Step(st, InputIntent{Forward: true}, flatGround, -1))
	assert.Zero(t, st.Position.Z)

	// Огромная дельта зажимается до MaxDelta: максимум Speed*0.1 за шаг
	require.NoError(t, loco.Step(st, InputIntent{Forward: true}, flatGround, 10))
	assert.InDelta(t, -0.5, st.Position.Z, 1e-9, "дельта тика ограничена MaxDelta")
}

func BenchmarkStep(b *testing.B) {
	index := physics.NewCollisionIndex()
	colliders := make([]physics.Collider, 0, 50)
	for i := 0; i < 50; i++ {
		center := vec.Vec3{X: float64(i%10)*4 - 20, Y: 0.5, Z: float64(i/10)*4 - 10}
		colliders = append(colliders, index.NewCollider(physics.KindObstacle, 0,
			physics.AABBFromCenter(center, 1, 1, 1)))
	}
	index.SetActive(colliders)

	loco := NewLocomotion(index, testParams())
	st := newTestAvatar(vec.Vec3{Y: 1.7})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = loco.Step(st, InputIntent{Forward: true, Right: i%2 == 0}, flatGround, testDt)
	}
}
