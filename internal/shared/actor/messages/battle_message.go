package messages

// BattleMessage 投递给战斗 actor 的请求，manager 按 BattleID 路由。
type BattleMessage interface {
	BattleID() int64
	Trace() string
}

type BattleBaseMessage struct {
	Battle  int64
	TraceID string
}

func (m BattleBaseMessage) BattleID() int64 {
	return m.Battle
}

func (m BattleBaseMessage) Trace() string {
	return m.TraceID
}

// Reply 战斗 actor 的统一应答；Err 为 errx 错误时原样透传给接口层。
type Reply struct {
	Err  error
	Data any
}

type StrategyEntry struct {
	Name string `json:"name" mapstructure:"name"`
	Uses int    `json:"uses" mapstructure:"uses"`
}

// CreateBattle 新建战斗，Formation 非空时按阵容预设布阵。
type CreateBattle struct {
	BattleBaseMessage
	Formation string
}

// CloseBattle 停止并回收战斗 actor。
type CloseBattle struct {
	BattleBaseMessage
}

// PlaceUnit 按模板生成单位落位。AutoPosition 时忽略 Row/Column，取该方第一个空位。
type PlaceUnit struct {
	BattleBaseMessage
	Template     string
	Side         string
	Row          int
	Column       int
	AutoPosition bool
	// Strategies 为空时沿用模板的轮换配置
	Strategies          []StrategyEntry
	RandomizeAfterCycle bool
}

type RemoveUnit struct {
	BattleBaseMessage
	UnitID string
}

type StunUnit struct {
	BattleBaseMessage
	UnitID string
	Turns  int
}

// StartBattle MaxRounds 为 0 时取服务配置的缺省回合数。
type StartBattle struct {
	BattleBaseMessage
	MaxRounds int
}

type StopBattle struct {
	BattleBaseMessage
}

// AckAction 表现层播放完当前动作后的确认。
type AckAction struct {
	BattleBaseMessage
}

type ResetBattle struct {
	BattleBaseMessage
}

type GetSnapshot struct {
	BattleBaseMessage
}

// WatchBattle 订阅事件流，应答 Data 为 *Watch。
type WatchBattle struct {
	BattleBaseMessage
}
