package testutil

import (
	"context"
	"encoding/json"
	"sync"
)

type RecordedEvent struct {
	Topic string
	Key   string
	Body  map[string]any
}

// Recorder is an in-memory events.Publisher.
type Recorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{Topic: topic, Key: key, Body: body})
	return nil
}

func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

// Types lists the "type" field of every event published to topic.
func (r *Recorder) Types(topic string) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Topic == topic {
			if t, ok := e.Body["type"].(string); ok {
				out = append(out, t)
			}
		}
	}
	return out
}
