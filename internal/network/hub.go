package network

import (
	"sync"

	"exodus-server/pkg/api"
)

// Broadcaster занимается только рассылкой сообщений наблюдателям
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ObserverID -> Личный канал
	subscribers map[string]chan api.ServerResponse
	dropped     uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал для наблюдателя
func (b *Broadcaster) Register(observerID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[observerID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[observerID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(observerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[observerID]; ok {
		close(ch)
		delete(b.subscribers, observerID)
	}
}

// SendTo отправляет сообщение конкретному наблюдателю (Unicast)
func (b *Broadcaster) SendTo(observerID string, msg api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[observerID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		// Канал переполнен: медленный клиент пропускает снимок
		b.dropped++
		return false
	}
}

// Broadcast отправляет всем
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			b.dropped++
		}
	}
}

// HasSubscriber проверяет, подключен ли наблюдатель
func (b *Broadcaster) HasSubscriber(observerID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[observerID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько сообщений не влезло в каналы подписчиков.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
