// Package catalogue 战斗内容配置：平衡参数、策略轮换、单位模板和阵容预设。
package catalogue

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/rotation"
	"CardBattle/internal/battle/strategy"
	"CardBattle/modules/kit/logx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_units.yml
var defaultContent []byte

// File 内容文件的 YAML 结构。
type File struct {
	Tuning     TuningConfig              `yaml:"tuning"`
	Strategies map[string]StrategyConfig `yaml:"strategies"`
	Templates  []Template                `yaml:"templates"`
	Formations []Formation               `yaml:"formations"`
}

// TuningConfig 时长以 "150ms" 形式书写。
type TuningConfig struct {
	BasicMultiplier        float64 `yaml:"basic_multiplier"`
	BackRowMultiplier      float64 `yaml:"back_row_multiplier"`
	AoEMultiplier          float64 `yaml:"aoe_multiplier"`
	AoEInterval            string  `yaml:"aoe_interval"`
	FullAoEMultiplier      float64 `yaml:"full_aoe_multiplier"`
	FullAoEInterval        string  `yaml:"full_aoe_interval"`
	LowestHealthMultiplier float64 `yaml:"lowest_health_multiplier"`
	HealAmount             int     `yaml:"heal_amount"`
	HealMaxTargets         int     `yaml:"heal_max_targets"`
	HealCanTargetSelf      *bool   `yaml:"heal_can_target_self"`
	HealInterval           string  `yaml:"heal_interval"`
}

type StrategyEntry struct {
	Name string `yaml:"name"`
	Uses int    `yaml:"uses"`
}

type StrategyConfig struct {
	Entries             []StrategyEntry `yaml:"entries"`
	RandomizeAfterCycle bool            `yaml:"randomize_after_cycle"`
}

// Template 单位模板。出生时满血，Health 取 MaxHealth。
type Template struct {
	Key       string           `yaml:"key"`
	Name      string           `yaml:"name"`
	Archetype domain.Archetype `yaml:"archetype"`
	Stats     domain.Stats     `yaml:"stats"`
	// Strategy 引用 strategies 下的配置名，空则按职业缺省。
	Strategy string `yaml:"strategy"`
}

// UnmarshalYAML 未写的数值沿用 domain.DefaultStats；health 与 max_health
// 只写其一时互相补齐。
func (t *Template) UnmarshalYAML(n *yaml.Node) error {
	type plain Template
	const unset = -1
	p := plain{Stats: domain.DefaultStats()}
	p.Stats.Health, p.Stats.MaxHealth = unset, unset
	if err := n.Decode(&p); err != nil {
		return err
	}
	def := domain.DefaultStats()
	switch {
	case p.Stats.Health == unset && p.Stats.MaxHealth == unset:
		p.Stats.Health, p.Stats.MaxHealth = def.Health, def.MaxHealth
	case p.Stats.MaxHealth == unset:
		p.Stats.MaxHealth = p.Stats.Health
	case p.Stats.Health == unset:
		p.Stats.Health = p.Stats.MaxHealth
	}
	*t = Template(p)
	return nil
}

type Slot struct {
	Template string      `yaml:"template"`
	Side     domain.Side `yaml:"side"`
	Row      int         `yaml:"row"`
	Column   int         `yaml:"column"`
}

func (s Slot) Position() domain.Position {
	return domain.NewPosition(s.Side, s.Row, s.Column)
}

type Formation struct {
	Name  string `yaml:"name"`
	Slots []Slot `yaml:"slots"`
}

// Placement 阵容展开后的一个落位。
type Placement struct {
	Unit     *domain.Unit
	Position domain.Position
	Strategy *rotation.Assignment
}

// Catalogue 解析完成后的只读内容表，可并发读取。
type Catalogue struct {
	tuning      strategy.Tuning
	strategies  map[string]rotation.Assignment
	templates   map[string]Template
	formations  map[string]Formation
	templateIDs []string
	newID       func() domain.UnitID
}

// Default 内置内容。
func Default() *Catalogue {
	c, err := Parse(defaultContent, nil)
	if err != nil {
		panic(fmt.Errorf("catalogue: builtin content: %w", err))
	}
	return c
}

// Load 读取内容文件；文件不存在时回退到内置内容。
func Load(path string, l logx.Logger) (*Catalogue, error) {
	l = logx.OrNop(l)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		l.Warn("catalogue file missing, using builtin content", zap.String("path", path))
		return Parse(defaultContent, l)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogue: read %s: %w", path, err)
	}
	c, err := Parse(b, l)
	if err != nil {
		return nil, fmt.Errorf("catalogue: %s: %w", path, err)
	}
	l.Info("catalogue loaded", zap.String("path", path),
		zap.Int("templates", len(c.templates)), zap.Int("formations", len(c.formations)))
	return c, nil
}

func Parse(b []byte, l logx.Logger) (*Catalogue, error) {
	l = logx.OrNop(l)
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	tuning, err := f.Tuning.build()
	if err != nil {
		return nil, err
	}
	c := &Catalogue{
		tuning:     tuning,
		strategies: make(map[string]rotation.Assignment, len(f.Strategies)),
		templates:  make(map[string]Template, len(f.Templates)),
		formations: make(map[string]Formation, len(f.Formations)),
		newID:      func() domain.UnitID { return domain.UnitID(uuid.NewString()) },
	}
	for name, sc := range f.Strategies {
		a, err := sc.Resolve(name, l)
		if err != nil {
			return nil, err
		}
		c.strategies[name] = a
	}
	for _, t := range f.Templates {
		if t.Key == "" {
			return nil, fmt.Errorf("template without key (name %q)", t.Name)
		}
		if _, dup := c.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Key)
		}
		if t.Strategy != "" {
			if _, ok := c.strategies[t.Strategy]; !ok {
				l.Warn("unknown strategy config, using archetype default",
					zap.String("template", t.Key), zap.String("strategy", t.Strategy))
				t.Strategy = ""
			}
		}
		if t.Name == "" {
			t.Name = t.Key
		}
		c.templates[t.Key] = t
		c.templateIDs = append(c.templateIDs, t.Key)
	}
	for _, fm := range f.Formations {
		if err := c.checkFormation(fm); err != nil {
			return nil, err
		}
		c.formations[fm.Name] = fm
	}
	return c, nil
}

func (c *Catalogue) checkFormation(fm Formation) error {
	seen := make(map[domain.Position]struct{}, len(fm.Slots))
	for _, s := range fm.Slots {
		if _, ok := c.templates[s.Template]; !ok {
			return fmt.Errorf("formation %q: unknown template %q", fm.Name, s.Template)
		}
		pos := s.Position()
		if !pos.Valid() {
			return fmt.Errorf("formation %q: invalid position %s", fm.Name, pos)
		}
		if _, dup := seen[pos]; dup {
			return fmt.Errorf("formation %q: position %s used twice", fm.Name, pos)
		}
		seen[pos] = struct{}{}
	}
	return nil
}

func (t TuningConfig) build() (strategy.Tuning, error) {
	d := strategy.DefaultTuning()
	out := strategy.Tuning{
		BasicMultiplier:        t.BasicMultiplier,
		BackRowMultiplier:      t.BackRowMultiplier,
		AoEMultiplier:          t.AoEMultiplier,
		FullAoEMultiplier:      t.FullAoEMultiplier,
		LowestHealthMultiplier: t.LowestHealthMultiplier,
		HealAmount:             t.HealAmount,
		HealMaxTargets:         t.HealMaxTargets,
		HealCanTargetSelf:      d.HealCanTargetSelf,
	}
	if t.HealAmount == 0 {
		out.HealAmount = d.HealAmount
	}
	if t.HealCanTargetSelf != nil {
		out.HealCanTargetSelf = *t.HealCanTargetSelf
	}
	var err error
	if out.AoEInterval, err = duration("aoe_interval", t.AoEInterval, d.AoEInterval); err != nil {
		return out, err
	}
	if out.FullAoEInterval, err = duration("full_aoe_interval", t.FullAoEInterval, d.FullAoEInterval); err != nil {
		return out, err
	}
	if out.HealInterval, err = duration("heal_interval", t.HealInterval, d.HealInterval); err != nil {
		return out, err
	}
	return out.Normalize(), nil
}

func duration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("tuning.%s: %w", field, err)
	}
	return v, nil
}

// Resolve 转成轮换配置，未知策略名按 Basic 处理并告警。
func (sc StrategyConfig) Resolve(name string, l logx.Logger) (rotation.Assignment, error) {
	a := rotation.Assignment{RandomizeAfterCycle: sc.RandomizeAfterCycle}
	for _, e := range sc.Entries {
		k, ok := strategy.Parse(e.Name)
		if !ok {
			l.Warn("unknown strategy name, using Basic",
				zap.String("config", name), zap.String("strategy", e.Name))
		}
		a.Entries = append(a.Entries, rotation.Entry{Kind: k, UsesBeforeSwitch: e.Uses})
	}
	v, err := a.Validate()
	if err != nil {
		return v, fmt.Errorf("strategy config %q: %w", name, err)
	}
	return v, nil
}

func (c *Catalogue) Tuning() strategy.Tuning {
	return c.tuning
}

// Assignment 按配置名取策略轮换，返回副本。
func (c *Catalogue) Assignment(name string) (rotation.Assignment, bool) {
	a, ok := c.strategies[name]
	if !ok {
		return rotation.Assignment{}, false
	}
	a.Entries = slices.Clone(a.Entries)
	return a, true
}

func (c *Catalogue) Template(key string) (Template, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// Templates 模板 key，按文件顺序。
func (c *Catalogue) Templates() []string {
	return slices.Clone(c.templateIDs)
}

func (c *Catalogue) Formation(name string) (Formation, bool) {
	f, ok := c.formations[name]
	return f, ok
}

func (c *Catalogue) Formations() []string {
	names := make([]string, 0, len(c.formations))
	for n := range c.formations {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Spawn 按模板生成新单位，id 为 uuid。策略为空表示按职业缺省。
func (c *Catalogue) Spawn(key string) (*domain.Unit, *rotation.Assignment, error) {
	t, ok := c.templates[key]
	if !ok {
		return nil, nil, ErrUnknownTemplate.WithData("template", key)
	}
	stats := t.Stats
	stats.Health = stats.MaxHealth
	u := domain.NewUnit(c.newID(), t.Name, t.Archetype, stats)
	if t.Strategy == "" {
		return u, nil, nil
	}
	a, _ := c.Assignment(t.Strategy)
	return u, &a, nil
}

// Deploy 展开阵容，每个槽位生成一个新单位。
func (c *Catalogue) Deploy(name string) ([]Placement, error) {
	fm, ok := c.formations[name]
	if !ok {
		return nil, ErrUnknownFormation.WithData("formation", name)
	}
	out := make([]Placement, 0, len(fm.Slots))
	for _, s := range fm.Slots {
		u, a, err := c.Spawn(s.Template)
		if err != nil {
			return nil, err
		}
		out = append(out, Placement{Unit: u, Position: s.Position(), Strategy: a})
	}
	return out, nil
}
