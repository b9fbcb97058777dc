package monitor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/observability"
	"github.com/mdemidenko/homework-bot/internal/practicum"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

const (
	PendingMessage = "Работа ожидает поступления на проверку"
	FailurePrefix  = "Сбой в работе программы: "
)

// Fetcher источник ответов API Практикума
type Fetcher interface {
	GetAPIAnswer(ctx context.Context, timestamp int64) (any, error)
}

// Notifier отправляет сообщения пользователю
type Notifier interface {
	SendMessage(ctx context.Context, text string) (*models.SentNotification, error)
}

// Condition о чем было последнее уведомление
type Condition uint8

const (
	ConditionNone Condition = iota
	ConditionPending
	ConditionStatus
	ConditionFailure
)

func (c Condition) String() string {
	switch c {
	case ConditionPending:
		return "pending"
	case ConditionStatus:
		return "status"
	case ConditionFailure:
		return "failure"
	default:
		return "none"
	}
}

// lastNotified последнее доставленное сообщение. Текст статуса хранится отдельно:
// сбой между двумя одинаковыми статусами не должен вызывать повторную отправку.
type lastNotified struct {
	condition Condition
	text      string
	status    string
}

// Config параметры цикла опроса
type Config struct {
	// Interval пауза между циклами
	Interval time.Duration
	// FromDate метка времени для from_date; 0 - момент запуска
	FromDate int64
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer
}

// Poller цикл опроса: запрос, проверка, уведомление, пауза.
// Работает в одной горутине; Storage читается API параллельно.
type Poller struct {
	fetcher  Fetcher
	notifier Notifier
	storage  repository.Storage
	logger   *zap.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	interval time.Duration
	fromDate int64

	cycle int64
	last  lastNotified
}

func New(cfg Config, fetcher Fetcher, notifier Notifier, storage repository.Storage, logger *zap.Logger) *Poller {
	fromDate := cfg.FromDate
	if fromDate == 0 {
		fromDate = time.Now().Unix()
	}
	return &Poller{
		fetcher:  fetcher,
		notifier: notifier,
		storage:  storage,
		logger:   logger,
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
		interval: cfg.Interval,
		fromDate: fromDate,
	}
}

// Run крутит цикл опроса до отмены ctx. Ни успешный, ни неудачный цикл его не останавливает.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Опрос API запущен",
		zap.Duration("interval", p.interval),
		zap.Int64("from_date", p.fromDate),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Опрос API остановлен", zap.Int64("cycles", p.cycle))
			return ctx.Err()
		case <-timer.C:
			p.Cycle(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Cycle выполняет один цикл опроса и возвращает его итог
func (p *Poller) Cycle(ctx context.Context) models.PollState {
	p.cycle++
	started := time.Now()

	ctx, span := p.tracer.StartSpan(ctx, "poll_cycle",
		attribute.Int64("cycle", p.cycle),
		attribute.Int64("from_date", p.fromDate),
	)
	defer span.End()

	state := models.PollState{
		Cycle:     p.cycle,
		StartedAt: started,
		FromDate:  p.fromDate,
	}

	count, notified, err := p.poll(ctx)
	state.Homeworks = count
	state.Notified = notified

	if err != nil && ctx.Err() == nil {
		kind := models.KindOf(err)
		state.ErrorKind = kind.String()
		state.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		p.handleFailure(ctx, err)
	}

	elapsed := time.Since(started)
	state.Duration = elapsed.String()
	span.SetAttributes(attribute.Int("homeworks", count), attribute.Bool("notified", notified))
	p.metrics.ObserveCycle(elapsed, count, state.ErrorKind)

	if err := p.storage.Store(state); err != nil {
		p.logger.Warn("Failed to store poll state", zap.Error(err))
	}
	return state
}

// poll возвращает число работ в ответе и было ли отправлено уведомление
func (p *Poller) poll(ctx context.Context) (int, bool, error) {
	answer, err := p.fetcher.GetAPIAnswer(ctx, p.fromDate)
	if err != nil {
		return 0, false, err
	}

	homeworks, err := practicum.CheckResponse(answer)
	if err != nil {
		return 0, false, err
	}

	if len(homeworks) == 0 {
		p.logger.Info("Список работ пуст")
		if p.last.condition == ConditionPending {
			return 0, false, nil
		}
		if err := p.notify(ctx, ConditionPending, PendingMessage); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	}

	message, err := practicum.ParseStatus(homeworks[0])
	if err != nil {
		return len(homeworks), false, err
	}
	if p.last.status == message {
		p.logger.Debug("Статус работы не изменился", zap.String("message", message))
		// условие сменилось, хотя отправлять нечего
		p.last.condition = ConditionStatus
		p.last.text = message
		return len(homeworks), false, nil
	}
	if err := p.notify(ctx, ConditionStatus, message); err != nil {
		return len(homeworks), false, err
	}
	return len(homeworks), true, nil
}

// handleFailure логирует сбой и сообщает о нем в чат, если о нем еще не сообщали
func (p *Poller) handleFailure(ctx context.Context, err error) {
	text := FailurePrefix + err.Error()
	kind := models.KindOf(err)
	p.logger.Error(text, zap.Stringer("kind", kind))

	// чат недоступен, пересылать сбой отправки некуда
	if kind == models.KindSend {
		return
	}
	if p.last.condition == ConditionFailure && p.last.text == text {
		return
	}
	if err := p.notify(ctx, ConditionFailure, text); err != nil {
		p.logger.Error("Не удалось сообщить о сбое", zap.Error(err))
	}
}

func (p *Poller) notify(ctx context.Context, condition Condition, text string) error {
	_, err := p.notifier.SendMessage(ctx, text)
	p.metrics.ObserveMessage(condition.String(), err)
	if err != nil {
		return err
	}
	p.last.condition = condition
	p.last.text = text
	if condition == ConditionStatus {
		p.last.status = text
	}
	return nil
}
