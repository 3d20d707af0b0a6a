// Package notifications carries NewRequest events from the engine to whoever listens.
// Publishing never waits for subscribers: each subscriber has its own unbounded FIFO drained by
// its own goroutine, and receives every notification published after it subscribed, once, in order.
package notifications

import (
	"time"

	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
)

const NewRequest = "new_request"

type Notification struct {
	Seq       uint64          `json:"seq"`
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Authority library.Address `json:"authority"`
	Identity  library.Address `json:"identity"`
	Mask      []byte          `json:"mask"`
	At        time.Time       `json:"at"`
}

type Bus struct {
	mu   *deadlock.Mutex
	subs map[uint64]*subscriber
	next uint64
	seq  uint64
}

type subscriber struct {
	mu    *deadlock.Mutex
	queue *library.Stack[Notification]
	wake  chan struct{}
	done  chan struct{}
	out   chan Notification
}

func NewBus() *Bus {
	return &Bus{
		mu:   &deadlock.Mutex{},
		subs: make(map[uint64]*subscriber),
	}
}

// Default is the bus the authority registry publishes to.
var Default = NewBus()

// Subscribe returns a channel of notifications and a func that unsubscribes and closes the channel.
func (b *Bus) Subscribe() (<-chan Notification, func()) {
	s := &subscriber{
		mu:    &deadlock.Mutex{},
		queue: library.NewStack[Notification](16),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		out:   make(chan Notification),
	}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = s
	b.mu.Unlock()
	go s.drain()

	var once deadlock.Once
	return s.out, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(s.done)
		})
	}
}

// Publish stamps n with the next sequence number and queues it for every subscriber.
func (b *Bus) Publish(n Notification) Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	n.Seq = b.seq
	for _, s := range b.subs {
		s.push(n)
	}
	return n
}

func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (s *subscriber) push(n Notification) {
	s.mu.Lock()
	s.queue.Push(n)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Pop()
}

func (s *subscriber) drain() {
	defer close(s.out)
	for {
		n, ok := s.pop()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		select {
		case s.out <- n:
		case <-s.done:
			return
		}
	}
}
