package cmd

import (
	"testing"

	"CardBattle/internal/shared/logs"
	"CardBattle/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func TestReadConfig(t *testing.T) {
	serverconfig.Load()
	if err := logs.Init("TestReadConfig", serverconfig.LogConfig{Level: serverconfig.Conf.Log.Level}); err != nil {
		t.Fatalf("init log: %v", err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))
	if serverconfig.Conf.HTTPServer.Port == 0 {
		t.Fatalf("httpserver.port not loaded")
	}
	if serverconfig.Conf.Battle.DefaultMaxRounds <= 0 {
		t.Fatalf("battle.default_max_rounds = %d", serverconfig.Conf.Battle.DefaultMaxRounds)
	}
}
