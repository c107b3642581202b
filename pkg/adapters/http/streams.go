package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/tracebench/pkg/domain"
)

// AllFixtures is the topic receiving the events of every fixture.
const AllFixtures = "*"

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // Topic -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(topic string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan<- string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[topic]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, topic)
			}
		}
	}
}

// Broadcast sends msg to the subscribers of topic and of AllFixtures.
func (sm *StreamManager) Broadcast(topic string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	slog.Debug("StreamManager: Broadcasting", "topic", topic, "payload_size", len(msg))

	for _, t := range []string{topic, AllFixtures} {
		for ch := range sm.subscribers[t] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: Client buffer full, dropping message", "topic", t)
			}
		}
		if topic == AllFixtures {
			break
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every run event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(ctx context.Context, e *domain.RunEvent) {
		payload, err := json.Marshal(e)
		if err != nil {
			slog.Error("StreamManager: Event encode failed", "error", err)
			return
		}
		sm.Broadcast(e.Fixture, string(payload))
	}
	return domain.LifecycleHooks{OnRunStart: publish, OnRunFinish: publish}
}
