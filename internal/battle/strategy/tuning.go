package strategy

import "time"

// Tuning 各策略的平衡参数。
type Tuning struct {
	BasicMultiplier        float64
	BackRowMultiplier      float64
	AoEMultiplier          float64
	AoEInterval            time.Duration
	FullAoEMultiplier      float64
	FullAoEInterval        time.Duration
	LowestHealthMultiplier float64

	HealAmount        int
	HealMaxTargets    int
	HealCanTargetSelf bool
	HealInterval      time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		BasicMultiplier:        1.0,
		BackRowMultiplier:      1.2,
		AoEMultiplier:          0.7,
		AoEInterval:            150 * time.Millisecond,
		FullAoEMultiplier:      1.0,
		LowestHealthMultiplier: 1.0,
		HealAmount:             20,
		HealMaxTargets:         2,
		HealCanTargetSelf:      true,
		HealInterval:           300 * time.Millisecond,
	}
}

// Normalize 非法值回退到缺省。
func (t Tuning) Normalize() Tuning {
	d := DefaultTuning()
	if t.BasicMultiplier <= 0 {
		t.BasicMultiplier = d.BasicMultiplier
	}
	if t.BackRowMultiplier <= 0 {
		t.BackRowMultiplier = d.BackRowMultiplier
	}
	if t.AoEMultiplier <= 0 {
		t.AoEMultiplier = d.AoEMultiplier
	}
	if t.FullAoEMultiplier <= 0 {
		t.FullAoEMultiplier = d.FullAoEMultiplier
	}
	if t.LowestHealthMultiplier <= 0 {
		t.LowestHealthMultiplier = d.LowestHealthMultiplier
	}
	if t.HealAmount < 1 {
		t.HealAmount = 1
	}
	if t.HealMaxTargets < 1 {
		t.HealMaxTargets = d.HealMaxTargets
	}
	t.AoEInterval = max(t.AoEInterval, 0)
	t.FullAoEInterval = max(t.FullAoEInterval, 0)
	t.HealInterval = max(t.HealInterval, 0)
	return t
}
