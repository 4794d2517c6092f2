package util

import (
	"hash/fnv"

	"github.com/aquilax/go-perlin"
)

// Параметры генератора шума Перлина
const (
	noiseAlpha = 2.0 // Сглаживание шума
	noiseBeta  = 2.0 // Частота шума
)

// NoiseGenerator инкапсулирует детерминированный генератор шума Перлина.
// Отдельный экземпляр на каждый мир: два мира с разными сидами
// могут существовать одновременно.
type NoiseGenerator struct {
	perlin *perlin.Perlin
}

// NewNoiseGenerator создаёт генератор шума с указанным сидом.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	// Октавы суммируются явно в OctaveNoise2D, поэтому n=1
	return &NoiseGenerator{
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, 1, seed),
	}
}

// Noise2D возвращает значение шума для указанных координат (от -1 до 1)
func (ng *NoiseGenerator) Noise2D(x, y float64) float64 {
	return ng.perlin.Noise2D(x, y)
}

// OctaveNoise2D суммирует octaves октав шума: каждая следующая октава
// вдвое меньше по амплитуде и вдвое выше по частоте.
func (ng *NoiseGenerator) OctaveNoise2D(x, y float64, octaves int, amplitude, frequency float64) float64 {
	total := 0.0
	for i := 0; i < octaves; i++ {
		total += ng.perlin.Noise2D(x*frequency, y*frequency) * amplitude
		amplitude *= 0.5
		frequency *= 2.0
	}
	return total
}

// SeedFromString преобразует строковый сид в числовой (FNV-1a).
// Одинаковая строка всегда даёт одинаковый сид на любой платформе.
func SeedFromString(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}
