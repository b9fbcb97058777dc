package practicum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/models"
)

// maxResponseSize ограничение на тело ответа API
const maxResponseSize = 4 << 20

// Client делает запросы к единственному эндпоинту API Практикума
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *zap.Logger
	now      func() time.Time
}

func NewClient(cfg config.PracticumConfig, token string, logger *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		token:    token,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
		now:      time.Now,
	}
}

// GetAPIAnswer запрашивает статусы работ, измененные начиная с timestamp.
// Нулевой timestamp означает текущее время. Повторов нет: их делает цикл опроса.
func (c *Client) GetAPIAnswer(ctx context.Context, timestamp int64) (any, error) {
	if timestamp == 0 {
		timestamp = c.now().Unix()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, models.NewError(models.KindConfig, "invalid endpoint", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(timestamp, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, models.NewError(models.KindUnreachable, "failed to create request", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Эндпоинт недоступен", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, models.NewError(models.KindUnreachable, "endpoint is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("API недоступен: status code is not 200",
			zap.String("endpoint", c.endpoint),
			zap.Int("status_code", resp.StatusCode),
		)
		// тело не нужно, но соединение стоит переиспользовать
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, models.Errorf(models.KindUnavailable,
			"API недоступен: status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		c.logger.Error("Ошибка чтения ответа", zap.Error(err))
		return nil, models.NewError(models.KindUnreachable, "failed to read response", err)
	}
	if len(body) > maxResponseSize {
		c.logger.Error("Ответ API слишком большой", zap.Int("limit_bytes", maxResponseSize))
		return nil, models.Errorf(models.KindDecode, "ответ API больше %d байт", maxResponseSize)
	}

	var answer any
	if err := json.Unmarshal(body, &answer); err != nil {
		c.logger.Error("Ошибка конвертации JSON", zap.Error(err))
		return nil, models.NewError(models.KindDecode, "ошибка конвертации JSON", err)
	}

	c.logger.Debug("Получен ответ API", zap.Int64("from_date", timestamp), zap.Int("bytes", len(body)))
	return answer, nil
}
