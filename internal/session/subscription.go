package session

import "sync"

// Event is one notification received from the editor.
type Event struct {
	Name string
	Args []Value
}

// Subscription is a lazily consumed, ordered stream of events.
//
// Delivery never blocks the connection reader: events are queued until the
// consumer reads them from C.
type Subscription struct {
	name   string
	out    chan Event
	remove func(*Subscription)

	mu      sync.Mutex
	queue   []Event
	ended   bool
	signal  chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSubscription(name string, remove func(*Subscription)) *Subscription {
	sub := &Subscription{
		name:    name,
		out:     make(chan Event),
		remove:  remove,
		signal:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go sub.pump()
	return sub
}

// Name is the event the subscription matches.
func (s *Subscription) Name() string {
	return s.name
}

// C yields events in order. It is closed when the stream ends; events
// queued before the end are still delivered.
func (s *Subscription) C() <-chan Event {
	return s.out
}

// Cancel stops the subscription. Queued events are dropped.
func (s *Subscription) Cancel() {
	s.once.Do(func() { close(s.stopped) })
	if s.remove != nil {
		s.remove(s)
	}
}

func (s *Subscription) push(ev Event) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			ended := s.ended
			s.mu.Unlock()
			if ended {
				return
			}
			select {
			case <-s.signal:
				continue
			case <-s.stopped:
				return
			}
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.stopped:
			return
		}
	}
}
