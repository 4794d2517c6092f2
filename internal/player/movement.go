package player

import (
	"fmt"
	"math"

	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/vec"
)

// GroundFunc возвращает высоту опоры под точкой (x, z).
// Экстерьер подставляет интерполированную высоту ландшафта,
// интерьер — константный пол. Общая процедура интеграции
// параметризуется этой функцией.
type GroundFunc func(x, z float64) float64

// ceilingNudge — насколько аватар отжимается вниз при ударе о потолок
const ceilingNudge = 0.05

// Восемь горизонтальных направлений лучей: оси и диагонали.
var horizontalRayDirs = [8]vec.Vec3{
	{X: 1},
	{X: -1},
	{Z: 1},
	{Z: -1},
	{X: math.Sqrt2 / 2, Z: math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Z: -math.Sqrt2 / 2},
	{X: -math.Sqrt2 / 2, Z: math.Sqrt2 / 2},
	{X: -math.Sqrt2 / 2, Z: -math.Sqrt2 / 2},
}

// LocomotionParams — константы интегратора движения.
type LocomotionParams struct {
	Gravity     float64 // ед/с²
	Speed       float64 // ед/с
	JumpImpulse float64 // ед/с
	EyeHeight   float64 // Высота глаз над опорой
	SlopeLimit  float64 // Максимальный подъём опоры за тик
	MaxDelta    float64 // Верхняя граница дельты тика, с
}

// Locomotion — интегратор движения аватара на один тик.
// Не имеет собственного состояния между тиками: всё состояние
// находится в AvatarState.
type Locomotion struct {
	params LocomotionParams
	index  *physics.CollisionIndex
}

// NewLocomotion создаёт интегратор с указанными константами.
func NewLocomotion(index *physics.CollisionIndex, params LocomotionParams) *Locomotion {
	if params.MaxDelta <= 0 {
		params.MaxDelta = 0.1
	}
	return &Locomotion{params: params, index: index}
}

// Step выполняет один тик движения: вертикальная интеграция,
// горизонтальное намерение, вето по уклону, коллизии с объектами,
// фиксация позиции. Ошибка возвращается только при нарушении
// предусловий (NaN в состоянии) — это баг вызывающего кода.
func (l *Locomotion) Step(st *AvatarState, in InputIntent, ground GroundFunc, dt float64) error {
	if !st.Position.IsValid() || !st.Velocity.IsValid() {
		return fmt.Errorf("locomotion: невалидное состояние аватара pos=%+v vel=%+v", st.Position, st.Velocity)
	}
	if dt <= 0 {
		return nil
	}
	// Ограничение дельты сохраняет корректность одиночного шага
	// на медленных кадрах
	if dt > l.params.MaxDelta {
		dt = l.params.MaxDelta
	}

	// 1. Вертикальная интеграция против функции опоры
	groundH := ground(st.Position.X, st.Position.Z)
	grounded := st.Position.Y-groundH <= l.params.EyeHeight

	if grounded {
		if st.Velocity.Y < 0 {
			st.Velocity.Y = 0
		}
		st.Position.Y = groundH + l.params.EyeHeight
		st.CanJump = true
	} else {
		st.Velocity.Y -= l.params.Gravity * dt
		st.CanJump = false
	}

	// Прыжок: фронт сигнала, без двойного прыжка
	jumped := false
	if in.Jump && st.CanJump {
		st.Velocity.Y = l.params.JumpImpulse
		st.CanJump = false
		jumped = true
	}

	// 2. Горизонтальное намерение
	intent := vec.Vec2Float{}
	if in.Forward {
		intent.Y -= 1
	}
	if in.Backward {
		intent.Y += 1
	}
	if in.Left {
		intent.X -= 1
	}
	if in.Right {
		intent.X += 1
	}
	horizontal := intent.Normalized().Mul(l.params.Speed)

	// 3. Кандидат позиции и вето по уклону: единственный механизм,
	// не дающий забираться на почти вертикальный ландшафт
	candX := st.Position.X + horizontal.X*dt
	candZ := st.Position.Z + horizontal.Y*dt

	if grounded && !jumped {
		if ground(candX, candZ)-groundH > l.params.SlopeLimit {
			candX = st.Position.X
			candZ = st.Position.Z
		}
	}

	// Фиксация горизонтали и вертикальный шаг
	st.Position.X = candX
	st.Position.Z = candZ
	st.Position.Y += st.Velocity.Y * dt

	newGroundH := ground(st.Position.X, st.Position.Z)
	if grounded && !jumped {
		// Оставаясь на опоре, следуем её высоте в новой точке
		st.Position.Y = newGroundH + l.params.EyeHeight
	} else if st.Position.Y < newGroundH+l.params.EyeHeight {
		// Приземление: один шаг никогда не уводит под опору
		st.Position.Y = newGroundH + l.params.EyeHeight
		if st.Velocity.Y < 0 {
			st.Velocity.Y = 0
		}
		st.CanJump = true
	}

	// 4. Выталкивание из твёрдых объектов
	l.resolveCollisions(st)

	return nil
}

// resolveCollisions выполняет лучевые запросы в восьми горизонтальных
// направлениях, вниз и вверх, выталкивая аватара на глубину
// проникновения. Ландшафт в индексе отсутствует.
func (l *Locomotion) resolveCollisions(st *AvatarState) {
	// Горизонтальные лучи идут с высоты колена, чтобы видеть
	// и низкие препятствия
	kneeOffset := -l.params.EyeHeight + st.Height/4

	for _, dir := range horizontalRayDirs {
		probe := st.Position.Add(vec.Vec3{Y: kneeOffset})
		hit, ok := l.index.CastRay(probe, dir, st.Radius)
		if !ok || hit.Distance >= st.Radius {
			continue
		}
		push := st.Radius - hit.Distance
		st.Position = st.Position.Sub(dir.Mul(push))
	}

	halfHeight := st.Height / 2
	midOffset := -l.params.EyeHeight + halfHeight

	// Луч вниз: стоять на мебели и полах — так же, как на ландшафте
	mid := st.Position.Add(vec.Vec3{Y: midOffset})
	if hit, ok := l.index.CastRay(mid, vec.Vec3{Y: -1}, halfHeight); ok && hit.Distance < halfHeight {
		st.Position.Y += halfHeight - hit.Distance
		if st.Velocity.Y < 0 {
			st.Velocity.Y = 0
		}
		st.CanJump = true
	}

	// Луч вверх: потолок гасит только положительную вертикальную скорость
	mid = st.Position.Add(vec.Vec3{Y: midOffset})
	if hit, ok := l.index.CastRay(mid, vec.Vec3{Y: 1}, halfHeight); ok && hit.Distance < halfHeight {
		if st.Velocity.Y > 0 {
			st.Velocity.Y = 0
		}
		st.Position.Y -= ceilingNudge
	}
}
