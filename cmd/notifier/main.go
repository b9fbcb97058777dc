package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/logger"
	"github.com/mdemidenko/homework-bot/internal/notifier"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// Разовая отправка сообщения: проверяет токен бота и chat id без запуска опроса
func main() {
	configPath := pflag.StringP("config", "c", "", "путь к YAML конфигурации")
	envFile := pflag.String("env-file", ".env", "путь к .env файлу")
	text := pflag.StringP("text", "t", "🔔 Проверка системы!", "текст сообщения")
	timeout := pflag.Duration("timeout", 30*time.Second, "ограничение на отправку")
	pflag.Parse()

	cfg, err := config.LoadConfig(config.Options{ConfigPath: *configPath, EnvFile: *envFile})
	if err != nil {
		zap.NewExample().Fatal("Конфигурация некорректна", zap.Error(err))
	}

	// в файл пишет только демон
	cfg.Logging.File = ""
	log, err := logger.New(cfg.Logging, "notifier")
	if err != nil {
		zap.NewExample().Fatal("Не удалось создать логгер", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if strings.TrimSpace(*text) == "" {
		log.Fatal("Пустой текст сообщения")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	storage := repository.NewMemoryStorage(1)
	telegram, err := notifier.NewTelegramService(ctx, cfg.Telegram, cfg.Credentials, 2*time.Second, storage, log)
	if err != nil {
		log.Fatal("Не удалось подключиться к Telegram", zap.Error(err))
	}

	sent, err := telegram.SendMessage(ctx, *text)
	if err != nil {
		log.Fatal("Сообщение не отправлено", zap.Error(err))
	}

	log.Info("✅ Проверка прошла успешно",
		zap.String("bot", telegram.Username()),
		zap.Int64("message_id", sent.MessageID),
		zap.Int64("chat_id", sent.ChatID),
	)
}
