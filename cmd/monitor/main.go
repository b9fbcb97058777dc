package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/api"
	"github.com/mdemidenko/homework-bot/internal/logger"
	"github.com/mdemidenko/homework-bot/internal/monitor"
	"github.com/mdemidenko/homework-bot/internal/notifier"
	"github.com/mdemidenko/homework-bot/internal/observability"
	"github.com/mdemidenko/homework-bot/internal/practicum"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к YAML конфигурации")
	envFile := pflag.String("env-file", ".env", "путь к .env файлу")
	fromDate := pflag.Int64("from-date", 0, "unix время, с которого запрашивать статусы (0 - момент запуска)")
	pflag.Parse()

	// Загружаем конфигурацию. Без токенов дальше идти нельзя.
	cfg, err := config.LoadConfig(config.Options{ConfigPath: *configPath, EnvFile: *envFile})
	if err != nil {
		fallback := fallbackLogger()
		fallback.Fatal("Отсутствуют обязательные переменные окружения или конфигурация некорректна",
			zap.Error(err))
	}

	log, err := logger.New(cfg.Logging, cfg.App.Name)
	if err != nil {
		fallbackLogger().Fatal("Не удалось создать логгер", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Конфигурация загружена",
		zap.String("endpoint", cfg.Practicum.Endpoint),
		zap.Duration("retry_time", cfg.Practicum.RetryTime),
		zap.String("environment", cfg.App.Environment),
		zap.Bool("server", cfg.Server.Enabled),
	)

	// Создаем контекст с graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("Получен сигнал остановки. Начинаем graceful shutdown...")
		cancel()

		// Второй сигнал - принудительный выход
		<-stop
		log.Warn("Принудительный выход!")
		_ = log.Sync()
		os.Exit(1)
	}()

	storage := repository.NewMemoryStorage(repository.DefaultCapacity)
	metrics := observability.NewMetrics()

	tracer, err := observability.NewTracer(cfg.Tracing, cfg.App, os.Stdout)
	if err != nil {
		log.Fatal("Не удалось инициализировать трассировку", zap.Error(err))
	}

	// сбои сети при старте повторяются, неверный токен завершает процесс
	telegram, err := notifier.NewTelegramService(ctx, cfg.Telegram, cfg.Credentials, cfg.Practicum.RetryTime, storage, log.Named("telegram"))
	if err != nil {
		if ctx.Err() != nil {
			log.Info("👋 Остановлено до подключения к Telegram")
			return
		}
		log.Fatal("Telegram отверг токен бота", zap.Error(err))
	}

	client := practicum.NewClient(cfg.Practicum, cfg.Credentials.PracticumToken, log.Named("practicum"))

	poller := monitor.New(monitor.Config{
		Interval: cfg.Practicum.RetryTime,
		FromDate: *fromDate,
		Metrics:  metrics,
		Tracer:   tracer,
	}, client, telegram, storage, log)

	var server *api.Server
	if cfg.Server.Enabled {
		server = api.NewServer(cfg, telegram, storage, metrics.Handler(), log.Named("api"))
		go func() {
			if err := server.Start(); err != nil {
				log.Error("Сервер статуса остановлен с ошибкой", zap.Error(err))
			}
		}()
	}

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Цикл опроса завершился с ошибкой", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("Сервер статуса не остановился вовремя", zap.Error(err))
		}
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Не удалось завершить трассировку", zap.Error(err))
	}

	log.Info("👋 Приложение завершено")
}

// fallbackLogger пишет в stderr и main.log до того, как прочитана конфигурация
func fallbackLogger() *zap.Logger {
	log, err := logger.New(config.DefaultConfig().Logging, "homework-bot")
	if err != nil {
		return zap.NewExample()
	}
	return log
}
