package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/middleware"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// HealthChecker проверка доступности Telegram бота
type HealthChecker interface {
	HealthCheck() error
}

type Handler struct {
	health  HealthChecker
	storage repository.Storage
	app     config.AppConfig
	auth    config.AuthConfig
	// staleAfter после этого времени без цикла опроса сервис считается нездоровым
	staleAfter time.Duration
	now        func() time.Time
}

func NewHandler(health HealthChecker, storage repository.Storage, cfg *config.Config) *Handler {
	return &Handler{
		health:     health,
		storage:    storage,
		app:        cfg.App,
		auth:       cfg.Auth,
		staleAfter: 2*cfg.Practicum.RetryTime + cfg.Practicum.Timeout,
		now:        time.Now,
	}
}

// HealthHandler проверяет здоровье сервиса
// @Summary Проверка состояния сервиса
// @Description Проверяет доступность Telegram API и то, что цикл опроса не завис
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Сервис работает корректно"
// @Failure 503 {object} models.ErrorResponse "Сервис недоступен"
// @Router /api/health [get]
func (h *Handler) HealthHandler(c *gin.Context) {
	if err := h.health.HealthCheck(); err != nil {
		middleware.Abort(c, models.ServiceUnavailableError("Telegram service unavailable", err.Error()))
		return
	}

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		App:       h.app.Name,
		Version:   h.app.Version,
	}
	if state, ok := h.storage.LastPoll(); ok {
		resp.LastPoll = state.StartedAt.UTC().Format(time.RFC3339)
		if h.now().Sub(state.StartedAt) > h.staleAfter {
			middleware.Abort(c, models.ServiceUnavailableError("Poll loop is stalled", resp))
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// StatusHandler возвращает итог последнего цикла опроса
// @Summary Статус опроса
// @Description Возвращает результат последнего цикла опроса API Практикума и статистику уведомлений
// @Tags status
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse "Статус сервиса"
// @Failure 401 {object} models.ErrorResponse "Требуется авторизация"
// @Router /api/status [get]
func (h *Handler) StatusHandler(c *gin.Context) {
	resp := StatusResponse{Success: true}
	resp.Data.Status = "starting"
	if state, ok := h.storage.LastPoll(); ok {
		resp.Data.Status = "running"
		resp.Data.LastPoll = &state
	}
	resp.Data.Stats.TotalNotifications = len(h.storage.GetNotifications())
	resp.Data.Stats.TotalSentNotifications = len(h.storage.GetSentNotifications())
	resp.Data.Config.AppName = h.app.Name
	resp.Data.Config.AppVersion = h.app.Version
	resp.Data.Config.Environment = h.app.Environment
	resp.Data.Timestamp = h.now().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, resp)
}

// NotificationsHandler возвращает журнал уведомлений
// @Summary Журнал уведомлений
// @Description Возвращает последние созданные уведомления, включая неотправленные
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NotificationsResponse "Список уведомлений"
// @Failure 401 {object} models.ErrorResponse "Требуется авторизация"
// @Router /api/notifications [get]
func (h *Handler) NotificationsHandler(c *gin.Context) {
	notifications := h.storage.GetNotifications()

	resp := NotificationsResponse{Success: true}
	resp.Data.Count = len(notifications)
	resp.Data.Notifications = notifications
	c.JSON(http.StatusOK, resp)
}

// SentNotificationsHandler возвращает список отправленных уведомлений
// @Summary Отправленные уведомления
// @Description Возвращает уведомления, доставленные в Telegram
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SentNotificationsResponse "Список отправленных уведомлений"
// @Failure 401 {object} models.ErrorResponse "Требуется авторизация"
// @Router /api/notifications/sent [get]
func (h *Handler) SentNotificationsHandler(c *gin.Context) {
	sent := h.storage.GetSentNotifications()

	resp := SentNotificationsResponse{Success: true}
	resp.Data.Count = len(sent)
	resp.Data.SentNotifications = sent
	c.JSON(http.StatusOK, resp)
}

// HealthResponse представляет ответ на запрос проверки здоровья
// @Description Ответ сервиса на запрос проверки состояния
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00Z"`
	App       string `json:"app" example:"homework-bot"`
	Version   string `json:"version" example:"1.0.0"`
	// Время начала последнего цикла опроса
	LastPoll string `json:"last_poll,omitempty" example:"2024-01-01T11:50:00Z"`
}

// StatusResponse представляет ответ со статусом сервиса
// @Description Ответ с текущим статусом и статистикой сервиса
type StatusResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		// starting до первого цикла, затем running
		Status   string            `json:"status" example:"running"`
		LastPoll *models.PollState `json:"last_poll,omitempty"`
		Stats    struct {
			TotalNotifications     int `json:"total_notifications" example:"15"`
			TotalSentNotifications int `json:"total_sent_notifications" example:"12"`
		} `json:"stats"`
		Config struct {
			AppName     string `json:"app_name" example:"homework-bot"`
			AppVersion  string `json:"app_version" example:"1.0.0"`
			Environment string `json:"environment" example:"development"`
		} `json:"config"`
		Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00Z"`
	} `json:"data"`
}

// NotificationsResponse представляет ответ со списком уведомлений
// @Description Ответ со списком всех созданных уведомлений
type NotificationsResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		Count         int                    `json:"count" example:"5"`
		Notifications []*models.Notification `json:"notifications"`
	} `json:"data"`
}

// SentNotificationsResponse представляет ответ со списком отправленных уведомлений
// @Description Ответ со списком отправленных уведомлений
type SentNotificationsResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		Count             int                        `json:"count" example:"3"`
		SentNotifications []*models.SentNotification `json:"sent_notifications"`
	} `json:"data"`
}
