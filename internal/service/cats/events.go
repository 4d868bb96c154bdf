package cats

import (
	"sync"

	"cats-service/internal/model"
)

// EventService управляет подписчиками на события создания котов
type EventService struct {
	subscribers map[chan model.Cat]bool
	mu          sync.RWMutex
}

// NewEventService создает новый экземпляр EventService
func NewEventService() *EventService {
	return &EventService{
		subscribers: make(map[chan model.Cat]bool),
	}
}

// Subscribe добавляет нового подписчика и возвращает канал для получения событий
func (s *EventService) Subscribe() chan model.Cat {
	ch := make(chan model.Cat, 10) // Буферизованный канал для защиты от backpressure
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[ch] = true
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (s *EventService) Unsubscribe(ch chan model.Cat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		close(ch)
		delete(s.subscribers, ch)
	}
}

// Publish отправляет событие всем подписчикам
// Если канал подписчика переполнен, событие пропускается (защита от backpressure)
func (s *EventService) Publish(cat model.Cat) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- cat:
			// Событие успешно отправлено
		default:
			// Канал переполнен, пропускаем (защита от backpressure)
		}
	}
}
