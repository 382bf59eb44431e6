package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/actors"
	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/interfaces"
	"CardBattle/internal/shared/logs"
	"CardBattle/internal/shared/serverconfig"
	transporthttp "CardBattle/internal/shared/transport/http"
	"CardBattle/internal/shared/utils"
	"CardBattle/modules/kit/logx"

	"go.uber.org/zap"
)

func main() {
	serverconfig.LoadWithReload(func(c serverconfig.Config) {
		logs.Info("配置文件已变更，运行中的战斗参数需重启生效", zap.Any("battle", c.Battle))
	})
	if err := logs.Init("battle", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	battleConf := serverconfig.Conf.Battle
	serverConfig := serverconfig.Conf.HTTPServer
	host := serverConfig.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, serverConfig.Port)

	baseLogger := logx.NewZapLogger(logs.L())

	content, err := catalogue.Load(battleConf.Catalogue, baseLogger)
	if err != nil {
		logs.Fatal("load catalogue failed", zap.Error(err))
	}
	ids, err := utils.NewSnowflake(battleConf.NodeID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	runtime := actor.NewRuntime(actors.Deps{
		Catalogue: content,
		Battle:    battleConf,
		Logger:    baseLogger,
	}, ids, battleConf.AskTimeout)
	defer runtime.Shutdown()

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger, serverConfig.AllowOrigins...)
	httpServer.Register(interfaces.New(runtime, baseLogger, battleConf.EventBuffer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("battle server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("battle server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
