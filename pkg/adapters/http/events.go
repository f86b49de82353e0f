package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Watchers only send control frames.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served with open CORS; the feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SubscribeEvents handles GET /api/game/{gameId}/events (SSE).
// The optional watch parameter keeps only diffs touching the listed field groups.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	if _, err := s.Engine.GetGame(r.Context(), gameID); err != nil {
		s.fail(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "streaming not supported"})
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, field := range strings.Split(watch, ",") {
			if field = strings.TrimSpace(field); field != "" {
				watchList = append(watchList, field)
			}
		}
	}

	ch, cancel := s.Streams.Subscribe(gameID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed to game", "game_id", gameID, "watch", watchList)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "game_id", gameID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !wanted(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func wanted(msg string, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	var diff domain.GameDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, group := range watchList {
		if diff.Touches(group) {
			return true
		}
	}
	return false
}

// feedMessage is one WebSocket frame of the live game feed.
type feedMessage struct {
	Type     string           `json:"type"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Diff     json.RawMessage  `json:"diff,omitempty"`
}

// WatchGame handles GET /api/game/{gameId}/ws. The feed starts with a
// snapshot of the current state, then carries every diff.
func (s *Server) WatchGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	state, err := s.Engine.GetGame(r.Context(), gameID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "game_id", gameID, "err", err)
		return
	}
	defer conn.Close()

	ch, cancel := s.Streams.Subscribe(gameID)
	defer cancel()

	// Drain the read side so control frames are processed and a closed peer is noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := state.Snapshot()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(feedMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(feedMessage{Type: "diff", Diff: json.RawMessage(msg)}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
