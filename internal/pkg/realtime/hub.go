package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Hub fans row-change events out to subscriptions. Publishing never blocks:
// a subscriber whose buffer is full misses the event and gets a warning in
// the log, which for the feed's refetch-on-any-change strategy costs one
// redundant refetch at most.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string][]*hubSubscription
	buffer int
	logger zerolog.Logger
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int, logger zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[string][]*hubSubscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a change-feed channel for one table. ops defaults to
// every operation when empty; filter narrows delivery to rows whose column
// equals the given value.
func (h *Hub) Subscribe(table string, ops []Operation, filter *Filter) (Subscription, error) {
	if table == "" {
		return nil, fmt.Errorf("realtime: table is required")
	}

	sub := &hubSubscription{
		hub:    h,
		table:  table,
		ops:    make(map[Operation]bool, len(ops)),
		filter: filter,
		ch:     make(chan Event, h.buffer),
	}
	for _, op := range ops {
		sub.ops[op] = true
	}

	h.mu.Lock()
	h.subs[table] = append(h.subs[table], sub)
	count := len(h.subs[table])
	h.mu.Unlock()

	h.logger.Debug().
		Str("table", table).
		Int("subscribers", count).
		Msg("Subscription registered")

	return sub, nil
}

// Publish delivers an event to every matching subscription.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[event.Table] {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Slow subscriber; skip rather than block the publisher.
			h.logger.Warn().
				Str("table", event.Table).
				Str("op", string(event.Op)).
				Msg("Skipped slow realtime subscriber")
		}
	}
}

// PublishChange marshals record and publishes it as a row change.
func (h *Hub) PublishChange(table string, op Operation, record interface{}) {
	data, err := json.Marshal(record)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("table", table).
			Str("op", string(op)).
			Msg("Failed to marshal realtime record")
		return
	}
	h.Publish(Event{Table: table, Op: op, Record: data})
}

// SubscriberCount returns the number of live subscriptions for a table.
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

func (h *Hub) unsubscribe(sub *hubSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.subs[sub.table]
	for i, s := range list {
		if s == sub {
			list[i] = list[len(list)-1]
			h.subs[sub.table] = list[:len(list)-1]
			close(sub.ch)
			return
		}
	}
}

type hubSubscription struct {
	hub    *Hub
	table  string
	ops    map[Operation]bool
	filter *Filter
	ch     chan Event
	once   sync.Once
}

func (s *hubSubscription) wants(event Event) bool {
	if len(s.ops) > 0 && !s.ops[event.Op] {
		return false
	}
	return s.filter.Matches(event.Record)
}

// Events implements Subscription.
func (s *hubSubscription) Events() <-chan Event {
	return s.ch
}

// Close implements Subscription. Safe to call more than once.
func (s *hubSubscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}
