package http

import (
	"log/slog"
	"sync"
)

// streamBuffer is the number of pending messages a slow subscriber may hold
// before new ones are dropped.
const streamBuffer = 16

// StreamManager fans game updates out to live SSE and WebSocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // GameID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for one game. The returned function
// unregisters it and closes the channel; it is safe to call more than once.
func (sm *StreamManager) Subscribe(gameID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, streamBuffer)
	if _, ok := sm.subscribers[gameID]; !ok {
		sm.subscribers[gameID] = make(map[chan string]struct{})
	}
	sm.subscribers[gameID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[gameID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, gameID)
				}
			}
		})
	}
}

// HasSubscribers reports whether anyone is listening to a game.
func (sm *StreamManager) HasSubscribers(gameID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[gameID]) > 0
}

// Broadcast sends msg to every subscriber of a game without blocking.
func (sm *StreamManager) Broadcast(gameID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[gameID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("stream: subscriber buffer full, dropping message", "game_id", gameID)
		}
	}
}
