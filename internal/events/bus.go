package events

import (
	"runtime/debug"
	"sync"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// Subscriber получает событие жизненного цикла сделки.
// Подписчик не должен влиять на судьбу уже зафиксированного перехода:
// его ошибки и паники остаются его собственной проблемой.
type Subscriber interface {
	HandleDealEvent(eventType string, deal *models.DealRequest)
}

// SubscriberFunc адаптер функции под интерфейс Subscriber.
type SubscriberFunc func(eventType string, deal *models.DealRequest)

func (f SubscriberFunc) HandleDealEvent(eventType string, deal *models.DealRequest) {
	f(eventType, deal)
}

// Bus внутрипроцессная шина событий сделок. Заменяет одиночный callback:
// подписчиков может быть сколько угодно (уведомления, метрики, аудит),
// и новые добавляются без изменения источника событий.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBus создаёт пустую шину.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует подписчика. Порядок доставки совпадает с порядком регистрации.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish синхронно доставляет событие всем подписчикам.
// Вызывается после успешной фиксации перехода в хранилище; паника
// подписчика логируется и не прерывает ни доставку остальным, ни вызвавшую операцию.
func (b *Bus) Publish(eventType string, deal *models.DealRequest) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(s, eventType, deal)
	}
}

func deliver(s Subscriber, eventType string, deal *models.DealRequest) {
	defer func() {
		if r := recover(); r != nil {
			if logger.Log != nil {
				logger.Log.Errorf("events: паника подписчика на %s: %v\n%s", eventType, r, debug.Stack())
			}
		}
	}()
	s.HandleDealEvent(eventType, deal)
}
