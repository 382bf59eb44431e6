package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// 热更新与业务读取可能并发，解码时串行化。
var reloadMu sync.Mutex

func load(configPath string, out any, onChange func()) error {
	if !fileExist(configPath) {
		return errConfigNotExist(configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("viper read config: %w", err)
	}
	if err := decode(v, out); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("配置文件变更: %s", e.Name)
		if err := decode(v, out); err != nil {
			log.Printf("配置热更新失败，沿用旧配置: %v", err)
			return
		}
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
	return nil
}

func decode(v *viper.Viper, out any) error {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	err := v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return fmt.Errorf("viper unmarshal config data: %w", err)
	}
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}

func errConfigNotExist(path string) error {
	return fmt.Errorf("config file not exist, configPath=%v", path)
}
