package utils

import (
	"hash/fnv"
	mrand "math/rand"

	"github.com/google/uuid"
)

// RandomSource - абстракция над равномерной выборкой.
// Генератор слоев получает её через конструктор, чтобы тесты могли подставить детерминированный источник.
type RandomSource interface {
	// UniformFloat возвращает число в [min, max).
	UniformFloat(min, max float64) float64
	// UniformInt возвращает целое в [min, maxExclusive).
	UniformInt(min, maxExclusive int) int
}

// SeededRandom - RandomSource поверх math/rand с явным сидом.
// Не потокобезопасен: каждый движок держит свой экземпляр.
type SeededRandom struct {
	seed int64
	rng  *mrand.Rand
}

// NewSeededRandom создает источник с заданным сидом.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Seed возвращает сид, с которого начался источник.
func (r *SeededRandom) Seed() int64 {
	return r.seed
}

// Reseed перезапускает последовательность с новым сидом.
func (r *SeededRandom) Reseed(seed int64) {
	r.seed = seed
	r.rng = mrand.New(mrand.NewSource(seed))
}

func (r *SeededRandom) UniformFloat(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.rng.Float64()*(max-min)
}

func (r *SeededRandom) UniformInt(min, maxExclusive int) int {
	if maxExclusive <= min {
		return min
	}
	return min + r.rng.Intn(maxExclusive-min)
}

// Roll возвращает значение в [0, 1) - аналог броска кубика для вероятностей.
func Roll(src RandomSource) float64 {
	return src.UniformFloat(0, 1)
}

// GenerateID создает уникальный ID для наблюдателей и записей журнала.
func GenerateID() string {
	return uuid.NewString()
}

// StringToSeed превращает строку (например, имя забега) в детерминированный сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}
