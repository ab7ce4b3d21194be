package session

import "sync"

const subscriberBuffer = 16

// Event публикуется после каждого примененного изменения токенов.
type Event struct {
	Authenticated bool
}

type subscriber struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]*subscriber)}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	s := &subscriber{
		ch:   make(chan Event, subscriberBuffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(s.done)
		})
	}
	return s.ch, cancel
}

// publish доставляет событие всем подписчикам в порядке изменений и не блокируется.
// Если буфер подписчика заполнен, самое старое событие вытесняется: последнее
// состояние доходит всегда.
func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.offer(ev)
	}
}

func (s *subscriber) offer(ev Event) {
	for {
		select {
		case <-s.done:
			return
		case s.ch <- ev:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
