package repository

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mdemidenko/homework-bot/internal/models"
)

// DefaultCapacity сколько последних уведомлений хранит журнал
const DefaultCapacity = 100

type Storage interface {
	Store(entity any) error
	GetNotifications() []*models.Notification
	GetSentNotifications() []*models.SentNotification
	LastPoll() (models.PollState, bool)
}

// MemoryStorage журнал уведомлений и состояния опроса в памяти.
// Размер ограничен: старые записи вытесняются новыми.
type MemoryStorage struct {
	mu                sync.RWMutex
	capacity          int
	notifications     []*models.Notification
	sentNotifications []*models.SentNotification
	lastPoll          *models.PollState
}

func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStorage{
		capacity:          capacity,
		notifications:     make([]*models.Notification, 0, capacity),
		sentNotifications: make([]*models.SentNotification, 0, capacity),
	}
}

func (m *MemoryStorage) Store(entity any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := entity.(type) {
	case *models.Notification:
		m.notifications = appendBounded(m.notifications, v, m.capacity)
		return nil
	case *models.SentNotification:
		m.sentNotifications = appendBounded(m.sentNotifications, v, m.capacity)
		return nil
	case models.PollState:
		m.lastPoll = &v
		return nil
	default:
		return fmt.Errorf("unsupported entity type: %T", v)
	}
}

func appendBounded[T any](items []T, item T, capacity int) []T {
	if len(items) >= capacity {
		copy(items, items[1:])
		items = items[:len(items)-1]
	}
	return append(items, item)
}

func (m *MemoryStorage) GetNotifications() []*models.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.notifications)
}

func (m *MemoryStorage) GetSentNotifications() []*models.SentNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sentNotifications)
}

// LastPoll возвращает результат последнего цикла опроса
func (m *MemoryStorage) LastPoll() (models.PollState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastPoll == nil {
		return models.PollState{}, false
	}
	return *m.lastPoll, true
}
