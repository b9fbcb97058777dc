package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/observability"
	"github.com/mdemidenko/homework-bot/internal/practicum"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

type answer struct {
	body any
	err  error
}

// scriptedFetcher отдает заранее заданные ответы, последний повторяется
type scriptedFetcher struct {
	mu      sync.Mutex
	answers []answer
	calls   []int64
}

func (f *scriptedFetcher) GetAPIAnswer(_ context.Context, timestamp int64) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, timestamp)
	a := f.answers[0]
	if len(f.answers) > 1 {
		f.answers = f.answers[1:]
	}
	return a.body, a.err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) SendMessage(_ context.Context, text string) (*models.SentNotification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, models.NewError(models.KindSend, "failed to send message", n.err)
	}
	n.sent = append(n.sent, text)
	return &models.SentNotification{MessageID: int64(len(n.sent))}, nil
}

func (n *recordingNotifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func homeworks(records ...any) map[string]any {
	if records == nil {
		records = []any{}
	}
	return map[string]any{"homeworks": records, "current_date": 1700000600.0}
}

func record(name, status string) map[string]any {
	return map[string]any{"homework_name": name, "status": status}
}

func newTestPoller(fetcher Fetcher, notifier Notifier) (*Poller, *repository.MemoryStorage, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	storage := repository.NewMemoryStorage(10)
	cfg := Config{Interval: 10 * time.Millisecond, FromDate: 1700000000, Metrics: observability.NewMetrics()}
	return New(cfg, fetcher, notifier, storage, zap.New(core)), storage, logs
}

func TestCycle_StatusChange(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{{body: homeworks(record("X", "approved"))}}}
	notifier := &recordingNotifier{}
	poller, storage, _ := newTestPoller(fetcher, notifier)

	state := poller.Cycle(context.Background())

	assert.True(t, state.OK())
	assert.True(t, state.Notified)
	assert.Equal(t, 1, state.Homeworks)
	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа проверена: ревьюеру всё понравилось. Ура!`,
	}, notifier.Sent())

	last, ok := storage.LastPoll()
	require.True(t, ok)
	assert.Equal(t, state, last)
}

func TestCycle_SameStatusNotRepeated(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{
		{body: homeworks(record("X", "reviewing"))},
		{body: homeworks(record("X", "reviewing"))},
		{body: homeworks(record("X", "approved"))},
	}}
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(fetcher, notifier)

	for i := 0; i < 3; i++ {
		poller.Cycle(context.Background())
	}

	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа взята на проверку ревьюером.`,
		`Изменился статус проверки работы "X". Работа проверена: ревьюеру всё понравилось. Ура!`,
	}, notifier.Sent())
}

func TestCycle_SameStatusAfterFailureNotRepeated(t *testing.T) {
	unavailable := models.Errorf(models.KindUnavailable, "API недоступен: status code 503")
	fetcher := &scriptedFetcher{answers: []answer{
		{body: homeworks(record("X", "approved"))},
		{err: unavailable},
		{body: homeworks(record("X", "approved"))},
		{err: unavailable},
		{body: homeworks(record("X", "rejected"))},
	}}
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(fetcher, notifier)

	var states []models.PollState
	for i := 0; i < 5; i++ {
		states = append(states, poller.Cycle(context.Background()))
	}

	assert.False(t, states[2].Notified)
	// после восстановления тот же сбой снова считается новым
	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа проверена: ревьюеру всё понравилось. Ура!`,
		FailurePrefix + unavailable.Error(),
		FailurePrefix + unavailable.Error(),
		`Изменился статус проверки работы "X". Работа проверена: у ревьюера есть замечания.`,
	}, notifier.Sent())
}

func TestCycle_PendingSentOnce(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{
		{body: homeworks()},
		{body: homeworks()},
		{body: homeworks()},
		{body: homeworks(record("X", "reviewing"))},
		{body: homeworks()},
		{body: homeworks()},
	}}
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(fetcher, notifier)

	for i := 0; i < 6; i++ {
		poller.Cycle(context.Background())
	}

	assert.Equal(t, []string{
		PendingMessage,
		`Изменился статус проверки работы "X". Работа взята на проверку ревьюером.`,
		PendingMessage,
	}, notifier.Sent())
}

func TestCycle_EmptyListSkipsFormatter(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{{body: homeworks()}}}
	notifier := &recordingNotifier{}
	poller, _, logs := newTestPoller(fetcher, notifier)

	state := poller.Cycle(context.Background())

	assert.True(t, state.OK())
	assert.Equal(t, 0, state.Homeworks)
	assert.Equal(t, 1, logs.FilterMessage("Список работ пуст").Len())
	assert.Equal(t, []string{PendingMessage}, notifier.Sent())
}

func TestCycle_FetchFailure(t *testing.T) {
	unavailable := models.Errorf(models.KindUnavailable, "API недоступен: status code 503")
	fetcher := &scriptedFetcher{answers: []answer{{err: unavailable}}}
	notifier := &recordingNotifier{}
	poller, _, logs := newTestPoller(fetcher, notifier)

	state := poller.Cycle(context.Background())

	assert.False(t, state.OK())
	assert.Equal(t, "endpoint_unavailable", state.ErrorKind)
	assert.Equal(t, 0, state.Homeworks)
	// only the failure relay reaches the chat, no status or pending message
	assert.Equal(t, []string{FailurePrefix + "API недоступен: status code 503"}, notifier.Sent())
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestCycle_ShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantKind string
	}{
		{name: "not a mapping", body: []any{}, wantKind: "shape"},
		{name: "missing key", body: map[string]any{}, wantKind: "missing_key"},
		{name: "homeworks not a list", body: map[string]any{"homeworks": "none"}, wantKind: "shape"},
		{name: "unknown status", body: homeworks(record("X", "lost")), wantKind: "unknown_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			poller, _, _ := newTestPoller(&scriptedFetcher{answers: []answer{{body: tt.body}}}, notifier)

			state := poller.Cycle(context.Background())
			assert.Equal(t, tt.wantKind, state.ErrorKind)

			sent := notifier.Sent()
			require.Len(t, sent, 1)
			assert.Contains(t, sent[0], FailurePrefix)
		})
	}
}

func TestCycle_IdenticalFailuresSuppressed(t *testing.T) {
	unavailable := models.Errorf(models.KindUnavailable, "API недоступен: status code 503")
	unreachable := models.NewError(models.KindUnreachable, "endpoint is unreachable", errors.New("dial tcp: connection refused"))
	fetcher := &scriptedFetcher{answers: []answer{
		{err: unavailable},
		{err: unavailable},
		{err: unreachable},
		{err: unreachable},
		{err: unavailable},
	}}
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(fetcher, notifier)

	for i := 0; i < 5; i++ {
		poller.Cycle(context.Background())
	}

	assert.Equal(t, []string{
		FailurePrefix + unavailable.Error(),
		FailurePrefix + unreachable.Error(),
		FailurePrefix + unavailable.Error(),
	}, notifier.Sent())
}

func TestCycle_SendFailureNotRelayed(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{
		{body: homeworks(record("X", "rejected"))},
		{body: homeworks(record("X", "rejected"))},
	}}
	notifier := &recordingNotifier{err: errors.New("Bad Request: chat not found")}
	poller, _, _ := newTestPoller(fetcher, notifier)

	state := poller.Cycle(context.Background())
	assert.Equal(t, "send", state.ErrorKind)
	assert.False(t, state.Notified)

	// the status was never delivered, so the next cycle tries again
	notifier.mu.Lock()
	notifier.err = nil
	notifier.mu.Unlock()

	state = poller.Cycle(context.Background())
	assert.True(t, state.OK())
	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа проверена: у ревьюера есть замечания.`,
	}, notifier.Sent())
}

func TestRun_ContinuesAfterSuccessAndFailure(t *testing.T) {
	fetcher := &scriptedFetcher{answers: []answer{
		{body: homeworks(record("X", "approved"))},
		{err: models.Errorf(models.KindDecode, "ошибка конвертации JSON")},
		{body: homeworks(record("X", "approved"))},
	}}
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(fetcher, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	assert.Eventually(t, func() bool { return fetcher.Calls() >= 5 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	for _, ts := range fetcher.calls {
		assert.Equal(t, int64(1700000000), ts)
	}
	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа проверена: ревьюеру всё понравилось. Ура!`,
		FailurePrefix + "ошибка конвертации JSON",
	}, notifier.Sent())
}

func TestRun_EndToEnd(t *testing.T) {
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		assert.Equal(t, "OAuth practicum-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1700000000", r.URL.Query().Get("from_date"))
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"X","status":"approved"}],"current_date":1700000600}`))
	}))
	defer srv.Close()

	client := practicum.NewClient(
		config.PracticumConfig{Endpoint: srv.URL, Timeout: time.Second},
		"practicum-token",
		zap.NewNop(),
	)
	notifier := &recordingNotifier{}
	poller, _, _ := newTestPoller(client, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hits >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{
		`Изменился статус проверки работы "X". Работа проверена: ревьюеру всё понравилось. Ура!`,
	}, notifier.Sent())
}

func TestNew_DefaultFromDate(t *testing.T) {
	before := time.Now().Unix()
	poller := New(Config{Interval: time.Second}, &scriptedFetcher{}, &recordingNotifier{}, repository.NewMemoryStorage(1), zap.NewNop())
	assert.GreaterOrEqual(t, poller.fromDate, before)
}
