package taskmanager

import "github.com/theapemachine/a2a-go/pkg/a2a"

// eventBus is a small in-process pub/sub keyed by task id. Publish hands
// the event straight to the bus goroutine, which fans it out to the
// current subscribers before it serves any other Subscribe, Unsubscribe
// or Publish call, so delivery follows the order Publish calls were made
// and a subscriber registered after Publish returns never sees that
// event; listeners must not block — each
// subscriber channel is buffered generously to absorb bursty token
// emission without the publisher stalling.
type eventBus struct {
	subscribe   chan subscribeRequest
	unsubscribe chan unsubscribeRequest
	publish     chan a2a.Event
}

type subscribeRequest struct {
	taskID string
	reply  chan chan a2a.Event
}

type unsubscribeRequest struct {
	taskID string
	ch     chan a2a.Event
}

func newEventBus() *eventBus {
	b := &eventBus{
		subscribe:   make(chan subscribeRequest),
		unsubscribe: make(chan unsubscribeRequest),
		publish:     make(chan a2a.Event),
	}
	go b.run()
	return b
}

func (b *eventBus) run() {
	subs := make(map[string][]chan a2a.Event)

	for {
		select {
		case req := <-b.subscribe:
			ch := make(chan a2a.Event, 64)
			subs[req.taskID] = append(subs[req.taskID], ch)
			req.reply <- ch
		case req := <-b.unsubscribe:
			list := subs[req.taskID]
			for i, c := range list {
				if c == req.ch {
					subs[req.taskID] = append(list[:i], list[i+1:]...)
					break
				}
			}
			close(req.ch)
		case event := <-b.publish:
			for _, ch := range subs[event.TaskID] {
				ch <- event
			}
		}
	}
}

// Subscribe registers a listener for taskID. The returned unsubscribe func
// must be called exactly once when the caller's scope exits.
func (b *eventBus) Subscribe(taskID string) (<-chan a2a.Event, func()) {
	reply := make(chan chan a2a.Event)
	b.subscribe <- subscribeRequest{taskID: taskID, reply: reply}
	ch := <-reply

	unsub := func() {
		b.unsubscribe <- unsubscribeRequest{taskID: taskID, ch: ch}
	}
	return ch, unsub
}

// Publish delivers event to every live subscriber of event.TaskID, in the
// order Publish was called.
func (b *eventBus) Publish(event a2a.Event) {
	b.publish <- event
}
