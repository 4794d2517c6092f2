package player

import (
	"github.com/annel0/wilds-game/internal/vec"
)

// Mode указывает активную сцену аватара.
// В каждый момент действует ровно один режим; переключает его только
// машина переходов сцены.
type Mode int

const (
	ModeExterior Mode = iota // Открытый мир
	ModeInterior             // Внутри здания
)

// String возвращает строковое представление режима
func (m Mode) String() string {
	switch m {
	case ModeExterior:
		return "exterior"
	case ModeInterior:
		return "interior"
	default:
		return "unknown"
	}
}

// InputIntent — намерение движения на текущий тик.
// Jump действует как фронт сигнала: обрабатывается один раз.
type InputIntent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
}

// AvatarState — состояние аватара. Position хранит позицию глаз.
// Мутируется один раз за тик интегратором движения; Mode — только
// машиной переходов сцены. Время жизни — игровая сессия.
type AvatarState struct {
	Position vec.Vec3
	Velocity vec.Vec3
	Height   float64
	Radius   float64
	CanJump  bool
	Mode     Mode
}

// NewAvatarState создаёт аватара в указанной точке (позиция глаз).
func NewAvatarState(spawn vec.Vec3, height, radius float64) *AvatarState {
	return &AvatarState{
		Position: spawn,
		Height:   height,
		Radius:   radius,
		CanJump:  true,
		Mode:     ModeExterior,
	}
}
