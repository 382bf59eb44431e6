// Package dice 战斗里所有随机数的来源，可按种子复现。
package dice

import (
	"math/rand"
	"time"
)

// Rng 引擎只用到这两个方法，*rand.Rand 直接满足。
type Rng interface {
	Float64() float64
	Intn(n int) int
}

// New 固定种子，任何 seed（含 0）都可复现。
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Unseeded 按当前时间取种子，不需要复现的场合用。
func Unseeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Script 按顺序回放预设值的 Rng，用完后 Float64 返回 Fallback、Intn 返回 0。
type Script struct {
	Floats   []float64
	Ints     []int
	Fallback float64
}

func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return s.Fallback
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Script) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v % n
}

// Pick 从非空切片里均匀随机取一个。
func Pick[T any](rng Rng, items []T) T {
	return items[rng.Intn(len(items))]
}
