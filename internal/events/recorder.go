package events

import (
	"context"
	"sync"
)

type Recorded struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	Err    error
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Recorded{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types(topic string) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Topic != topic {
			continue
		}
		if ev, ok := e.Event.(Event); ok {
			out = append(out, ev.Type)
		}
	}
	return out
}
