package main

import (
	"alertbot/internal/broker/alpaca"
	"alertbot/internal/config"
	"alertbot/internal/engine"
	"alertbot/internal/logger"
	"alertbot/internal/registry"
	"alertbot/internal/server"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	logger.Info("Агент запущен.")

	reg, err := registry.New(cfg.Runtime.RegistryPath)
	if err != nil {
		logger.WithError(err).Fatal("Не удалось открыть реестр символов.")
	}
	defer reg.Close()

	client := alpaca.New(cfg.Broker.BaseUrl, cfg.Broker.StreamUrl, cfg.Broker.ApiKey, cfg.Broker.Secret, cfg.Broker.Paper, logger)
	defer client.Close()

	eng := engine.New(cfg, client, reg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eng.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Не удалось запустить агент.")
	}

	srv := server.New(cfg.Runtime.ListenAddr, eng, logger)
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.WithError(err).Fatal("HTTP сервер завершился с ошибкой.")
		}
	}()

	<-sigCh
	cancel()
	logger.Info("Остановка...")
}
