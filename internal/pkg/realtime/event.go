// Package realtime implements the row-change feed: services publish an
// event for every committed insert or delete, and subscribers receive the
// events for one table, optionally narrowed by an equality predicate on a
// single column. Delivery is in commit order within one subscription;
// nothing is guaranteed across subscriptions.
package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operation is the row-level change type carried by an event.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Table names subscribers can watch.
const (
	TableProfiles       = "profiles"
	TablePosts          = "posts"
	TableParticipations = "participations"
	TableMessages       = "messages"
)

// Event is one row-level change. Record is the JSON form of the new row,
// or of the deleted row for OpDelete. Record keys are the table's column
// names, so a Filter addresses the same column a wire filter like
// "post_id=eq.5" names.
type Event struct {
	Table  string          `json:"table"`
	Op     Operation       `json:"op"`
	Record json.RawMessage `json:"record"`
}

// Filter is an equality predicate on one column of the event record.
type Filter struct {
	Column string
	Value  string
}

// Matches reports whether the record's column equals the filter value.
// Numeric columns compare by their literal JSON representation, so an
// int64 id filter like {post_id, "5"} matches without float rounding.
func (f *Filter) Matches(record json.RawMessage) bool {
	if f == nil {
		return true
	}

	dec := json.NewDecoder(bytes.NewReader(record))
	dec.UseNumber()

	var row map[string]interface{}
	if err := dec.Decode(&row); err != nil {
		return false
	}

	value, ok := row[f.Column]
	if !ok {
		return false
	}
	return fmt.Sprint(value) == f.Value
}

// Subscription is one live change-feed channel. Close must be called before
// the consumer's state container is torn down, so no event is delivered
// into stale state.
type Subscription interface {
	// Events yields changes in commit order. The channel closes after Close.
	Events() <-chan Event
	Close()
}

// Subscriber is the subscription surface the client controllers depend on.
// The in-process Hub and the WebSocket client both implement it.
type Subscriber interface {
	Subscribe(table string, ops []Operation, filter *Filter) (Subscription, error)
}
