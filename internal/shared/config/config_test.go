package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
	Tags    []string      `mapstructure:"tags"`
}

func TestLoad_解析duration与切片(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	body := "name: battle\ntimeout: 1500ms\ntags: a,b\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out sample
	if err := Load(p, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != "battle" || out.Timeout != 1500*time.Millisecond {
		t.Fatalf("got=%+v", out)
	}
	if len(out.Tags) != 2 || out.Tags[1] != "b" {
		t.Fatalf("tags=%v", out.Tags)
	}
}

func TestLoad_绝对路径不存在返回错误(t *testing.T) {
	var out sample
	if err := Load(filepath.Join(t.TempDir(), "missing.yml"), &out); err == nil {
		t.Fatalf("期望返回错误")
	}
}
