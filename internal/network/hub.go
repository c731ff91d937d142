package network

import (
	"sync"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
)

// SubscriberBuffer - размер личного канала подписчика.
const SubscriberBuffer = 100

type subscriber struct {
	faction domain.Faction
	ch      chan api.ServerResponse
}

// Broadcaster занимается только рассылкой сообщений подписчикам одного боя.
// Каждый подписчик смотрит на бой глазами одной стороны.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SubscriberID -> сторона и личный канал
	subscribers map[string]subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]subscriber),
	}
}

// Register создает личный канал подписчика за сторону faction
func (b *Broadcaster) Register(id string, faction domain.Faction) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old.ch)
	}

	ch := make(chan api.ServerResponse, SubscriberBuffer)
	b.subscribers[id] = subscriber{faction: faction, ch: ch}
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному подписчику (Unicast)
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if sub, ok := b.subscribers[id]; ok {
		b.push(id, sub, msg)
	}
}

// BroadcastTo отправляет сообщение всем, кто смотрит за сторону faction
func (b *Broadcaster) BroadcastTo(faction domain.Faction, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		if sub.faction == faction {
			b.push(id, sub, msg)
		}
	}
}

// push не блокируется: медленный клиент теряет сообщение, а не тормозит бой.
func (b *Broadcaster) push(id string, sub subscriber, msg api.ServerResponse) {
	select {
	case sub.ch <- msg:
	default:
		logger.Log.WithField("subscriber_id", id).Warn("Hub: channel full, message dropped")
	}
}

// HasSubscriber проверяет, подключен ли подписчик
func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// Watching - есть ли хоть один подписчик за сторону faction.
func (b *Broadcaster) Watching(faction domain.Faction) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		if sub.faction == faction {
			return true
		}
	}
	return false
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close отключает всех подписчиков (бой удалён).
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
