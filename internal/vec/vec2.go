package vec

// Vec2 представляет двумерные целочисленные координаты.
// Используется для индексации ячеек сетки высот (ix, iz).
type Vec2 struct {
	X int
	Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Equals проверяет равенство векторов
func (v Vec2) Equals(other Vec2) bool {
	return v.X == other.X && v.Y == other.Y
}
