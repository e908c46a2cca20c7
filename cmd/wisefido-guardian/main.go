package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
	"wisefido-guardian/internal/logger"
	"wisefido-guardian/internal/service"
	"wisefido-guardian/internal/setup"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-guardian")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	in := bufio.NewReader(os.Stdin)
	out := os.Stdout

	// 3. 交互式会话配置（基线心率、安全 PIN）
	if cfg.Monitor.Interactive {
		if err := setup.Run(in, out, cfg, zapLogger); err != nil {
			zapLogger.Fatal("Failed to configure session",
				zap.Error(err),
			)
		}
	}

	// 4. 创建服务
	guardianService, err := service.NewGuardianService(cfg, zapLogger, in, out)
	if err != nil {
		zapLogger.Fatal("Failed to create guardian service",
			zap.Error(err),
		)
	}
	defer guardianService.Stop()

	// 5. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. 启动监测循环（在 goroutine 中）
	runErrChan := make(chan error, 1)
	go func() {
		runErrChan <- guardianService.Run(ctx)
	}()

	// 7. 等待信号或循环结束
	// 中断信号取消上下文后，循环会先完成最终安全确认再返回
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		zapLogger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
		if err := <-runErrChan; err != nil {
			zapLogger.Error("Monitoring ended with error",
				zap.Error(err),
			)
		}
	case err := <-runErrChan:
		if err != nil {
			zapLogger.Error("Monitoring ended with error",
				zap.Error(err),
			)
		}
	}

	zapLogger.Info("Guardian service stopped")
}
