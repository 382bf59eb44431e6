package serverconfig

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Battle     BattleConfig     `yaml:"battle" mapstructure:"battle"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// 允许跨域的来源，空表示不限制
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// BattleConfig 战斗服务运行参数。
type BattleConfig struct {
	DefaultMaxRounds int           `yaml:"default_max_rounds" mapstructure:"default_max_rounds"`
	AskTimeout       time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	// AutoAck 为 true 时 actor 在 AckDelay 后自行确认动作完成（无表现层的自动战斗）
	AutoAck     bool          `yaml:"auto_ack" mapstructure:"auto_ack"`
	AckDelay    time.Duration `yaml:"ack_delay" mapstructure:"ack_delay"`
	EventBuffer int           `yaml:"event_buffer" mapstructure:"event_buffer"`
	// Seed 为 0 时使用时间种子
	Seed      int64  `yaml:"seed" mapstructure:"seed"`
	Catalogue string `yaml:"catalogue" mapstructure:"catalogue"`
	NodeID    int64  `yaml:"node_id" mapstructure:"node_id"`
}

// Normalize 补齐缺省值。
func (c *BattleConfig) Normalize() {
	if c.DefaultMaxRounds <= 0 {
		c.DefaultMaxRounds = 30
	}
	if c.AskTimeout <= 0 {
		c.AskTimeout = 3 * time.Second
	}
	if c.AckDelay < 0 {
		c.AckDelay = 0
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 256
	}
	if c.Catalogue == "" {
		c.Catalogue = "configs/units.yml"
	}
	if c.NodeID <= 0 {
		c.NodeID = 1
	}
}
