package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// TelegramService отправляет сообщения в один заранее заданный чат
type TelegramService struct {
	bot     *tgbotapi.BotAPI
	chatID  string
	limiter *rate.Limiter
	storage repository.Storage
	logger  *zap.Logger
}

// NewTelegramService создает бота и проверяет токен через getMe.
// Отказ Telegram в токене (401) возвращается сразу. Прочие сбои getMe
// повторяются каждые retry, пока не отменен ctx.
func NewTelegramService(ctx context.Context, cfg config.TelegramConfig, creds config.Credentials, retry time.Duration, storage repository.Storage, logger *zap.Logger) (*TelegramService, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	if err := tgbotapi.SetLogger(zap.NewStdLog(logger.Named("tgbotapi"))); err != nil {
		return nil, fmt.Errorf("failed to set bot logger: %w", err)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	bot, err := connect(ctx, creds.TelegramToken, endpoint, client, retry, logger)
	if err != nil {
		return nil, err
	}
	bot.Debug = cfg.Debug

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	logger.Info("Бот авторизован", zap.String("username", bot.Self.UserName))

	return &TelegramService{
		bot:     bot,
		chatID:  creds.TelegramChatID,
		limiter: rate.NewLimiter(limit, 1),
		storage: storage,
		logger:  logger,
	}, nil
}

func connect(ctx context.Context, token, endpoint string, client *http.Client, retry time.Duration, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	for attempt := 1; ; attempt++ {
		bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
		if err == nil {
			return bot, nil
		}
		if IsUnauthorized(err) {
			return nil, models.NewError(models.KindConfig, "telegram rejected bot token", err)
		}

		logger.Warn("Telegram недоступен, повторная попытка",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", retry),
			zap.Error(err),
		)

		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, models.NewError(models.KindSend, "telegram health check failed", ctx.Err())
		case <-timer.C:
		}
	}
}

// IsUnauthorized сообщает, что Telegram отверг токен бота
func IsUnauthorized(err error) bool {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) {
		return ptr.Code == http.StatusUnauthorized
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return val.Code == http.StatusUnauthorized
	}
	return false
}

// SendMessage отправляет текст в чат. Любой сбой возвращается как models.KindSend.
func (s *TelegramService) SendMessage(ctx context.Context, text string) (*models.SentNotification, error) {
	notification := models.NewNotification(s.chatID, text)
	if err := s.storage.Store(notification); err != nil {
		s.logger.Warn("Failed to store notification", zap.Error(err))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, models.NewError(models.KindSend, "failed to send message", err)
	}

	msg, err := s.newMessage(text)
	if err != nil {
		return nil, err
	}

	sent, err := s.bot.Send(msg)
	if err != nil {
		s.logger.Error("Сбой при отправке сообщения", zap.String("chat_id", s.chatID), zap.Error(err))
		return nil, models.NewError(models.KindSend, "failed to send message", err)
	}

	s.logger.Info("Сообщение отправлено", zap.String("chat_id", s.chatID), zap.Int("message_id", sent.MessageID))

	sentNotification := &models.SentNotification{
		MessageID: int64(sent.MessageID),
		SentAt:    sent.Time(),
	}
	if sent.Chat != nil {
		sentNotification.ChatID = sent.Chat.ID
	}
	if err := s.storage.Store(sentNotification); err != nil {
		s.logger.Warn("Failed to store sent notification", zap.Error(err))
	}

	return sentNotification, nil
}

// newMessage адресует сообщение числовому chat id или каналу вида @name
func (s *TelegramService) newMessage(text string) (tgbotapi.MessageConfig, error) {
	if id, err := strconv.ParseInt(s.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text), nil
	}
	if strings.HasPrefix(s.chatID, "@") {
		return tgbotapi.NewMessageToChannel(s.chatID, text), nil
	}
	return tgbotapi.MessageConfig{}, models.Errorf(models.KindSend, "invalid chat id %q", s.chatID)
}

// HealthCheck проверяет доступность бота
func (s *TelegramService) HealthCheck() error {
	if _, err := s.bot.GetMe(); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Username имя бота, полученное при авторизации
func (s *TelegramService) Username() string {
	return s.bot.Self.UserName
}
