package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
)

// AllDocuments is the topic that receives the events of every document.
const AllDocuments = "*"

// StreamManager fans lifecycle events out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // Topic -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for topic. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(topic string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan<- string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[topic]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, topic)
				}
			}
		})
	}
}

// Broadcast sends msg to the subscribers of documentID and of AllDocuments.
func (sm *StreamManager) Broadcast(documentID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, topic := range []string{documentID, AllDocuments} {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				sm.logger.Warn("SSE: Client buffer full, dropping message", "document", documentID)
			}
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(documentID string, event any) {
		data, err := json.Marshal(event)
		if err != nil {
			sm.logger.Error("SSE: Event encode failed", "err", err)
			return
		}
		sm.Broadcast(documentID, string(data))
	}
	return domain.LifecycleHooks{
		OnRescan:     func(e *domain.RescanEvent) { publish(e.DocumentID, e) },
		OnBlockDirty: func(e *domain.BlockEvent) { publish(e.DocumentID, e) },
		OnRegenerate: func(e *domain.BlockEvent) { publish(e.DocumentID, e) },
		OnDamaged:    func(e *domain.BlockEvent) { publish(e.DocumentID, e) },
	}
}
