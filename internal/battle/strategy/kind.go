package strategy

import (
	"fmt"
	"strings"
)

// Kind 封闭的策略集合，经 table 统一分发。
type Kind uint8

const (
	Basic Kind = iota
	BackRow
	BackRowAoE
	FullAoE
	LowestHealth
	Heal
	kindCount
)

var kindNames = [kindCount]string{
	Basic:        "Basic",
	BackRow:      "BackRow",
	BackRowAoE:   "BackRowAoE",
	FullAoE:      "FullAoE",
	LowestHealth: "LowestHealth",
	Heal:         "Heal",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds 全部策略，按枚举顺序。
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Parse 名字不区分大小写，忽略 '_'、'-' 和空格。
func Parse(name string) (Kind, bool) {
	norm := normalize(name)
	if norm == "" {
		return Basic, false
	}
	for k, n := range kindNames {
		if strings.ToLower(n) == norm {
			return Kind(k), true
		}
	}
	return Basic, false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
