package serverconfig

import (
	"CardBattle/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

// Load 读取 configs/conf.yml（向上查找），失败直接 panic，进程启动阶段使用。
func Load() {
	if err := config.Load(defaultConfigRelPath, &Conf); err != nil {
		panic(err)
	}
	Conf.Battle.Normalize()
}

// LoadWithReload 同 Load，另外监听配置文件，变更后重新解码并回调。
// 只有日志级别这类运行期可调的参数应在回调里生效。
func LoadWithReload(onChange func(Config)) {
	err := config.LoadWithReload(defaultConfigRelPath, &Conf, func() {
		Conf.Battle.Normalize()
		if onChange != nil {
			onChange(Conf)
		}
	})
	if err != nil {
		panic(err)
	}
	Conf.Battle.Normalize()
}
