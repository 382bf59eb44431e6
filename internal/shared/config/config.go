package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Load 解析 cfgName 并把配置解码进 out，同时开启热更新监听。
//
// 约定：
//  1. 传入 cfgName（相对/绝对路径）且文件存在则优先使用；
//  2. 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any) error {
	path, err := Resolve(cfgName)
	if err != nil {
		return err
	}
	return load(path, out, nil)
}

// LoadWithReload 与 Load 相同，配置文件变更并重新解码成功后回调 onChange。
func LoadWithReload(cfgName string, out any, onChange func()) error {
	path, err := Resolve(cfgName)
	if err != nil {
		return err
	}
	return load(path, out, onChange)
}

// Resolve 返回实际使用的配置文件绝对路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		p := cfgName
		if !filepath.IsAbs(p) {
			p = filepath.Join(curDir, cfgName)
		}
		if fileExist(p) {
			return p, nil
		}
		if filepath.IsAbs(cfgName) {
			return "", errConfigNotExist(p)
		}
	}
	rel := cfgName
	if rel == "" {
		rel = defaultConfigRelPath
	}
	return findConfigUpward(curDir, rel)
}

func findConfigUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errConfigNotExist(filepath.Join(startDir, rel))
		}
		dir = parent
	}
}
