package ccl

import "sync"

// Event enumerates the mutation notifications a container can raise.
type Event int8

const (
	EventAdd Event = iota
	EventAddRange
	EventInsert
	EventInsertAt
	EventInsertIn
	EventEraseAt
	EventClear
	EventReplace
	EventReplaceAt
	EventPush
	EventPop
	EventCopy
	EventAppend
	EventFinalize
)

// ObserverFunc is a subscribed callback, invoked with the container, the
// event that fired, and up to two event-specific payloads.
type ObserverFunc func(container any, event Event, info1, info2 any)

type subscription struct {
	id       uint64
	callback ObserverFunc
	mask     map[Event]bool // nil mask means "all events"
}

// observerBus is the process-wide subscription registry: a single-owner
// datum, like the default allocator and error hook, mutated only through its
// explicit Subscribe/Unsubscribe setters.
type observerBus struct {
	mu      sync.Mutex
	nextID  uint64
	byOwner map[any][]*subscription
}

var bus = &observerBus{byOwner: make(map[any][]*subscription)}

// Subscribe registers callback for the given container, optionally filtered
// to a subset of events. A nil/empty eventMask subscribes to every event.
// The container's HasObserver flag must also be set for notifications to
// fire. Returns an id usable with Unsubscribe.
func Subscribe(container any, callback ObserverFunc, eventMask []Event) uint64 {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.nextID++
	sub := &subscription{id: bus.nextID, callback: callback}
	if len(eventMask) > 0 {
		sub.mask = make(map[Event]bool, len(eventMask))
		for _, e := range eventMask {
			sub.mask[e] = true
		}
	}
	bus.byOwner[container] = append(bus.byOwner[container], sub)
	return sub.id
}

// Unsubscribe removes a previously registered subscription by id.
func Unsubscribe(container any, id uint64) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	subs := bus.byOwner[container]
	for i, s := range subs {
		if s.id == id {
			bus.byOwner[container] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Notify dispatches event to every subscriber of container whose mask
// admits it. Callers should gate this on the HasObserver flag; the
// container headers do so automatically via Header.notify.
func Notify(container any, event Event, info1, info2 any) {
	bus.mu.Lock()
	subs := append([]*subscription(nil), bus.byOwner[container]...)
	bus.mu.Unlock()

	for _, s := range subs {
		if s.mask != nil && !s.mask[event] {
			continue
		}
		s.callback(container, event, info1, info2)
	}
}

// unsubscribeAll drops every subscription for container, called from
// Finalize-equivalent teardown paths.
func unsubscribeAll(container any) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.byOwner, container)
}
