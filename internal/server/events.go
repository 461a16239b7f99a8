package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vanshika/vizdash/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4 * 1024
)

// connectTopics is sent once on connect so the client renders everything.
const connectTopics = store.TopicData | store.TopicGeo | store.TopicFilter | store.TopicSelection | store.TopicStatus

// Event is pushed to websocket subscribers after each store update.
type Event struct {
	Topics []string `json:"topics"`
}

// originChecker accepts requests without an Origin header and origins with
// one of the allowed prefixes. An empty allow list accepts everything.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.HasPrefix(origin, a) {
				return true
			}
		}
		return false
	}
}

// eventStream coalesces store topics between writes so a slow client sees
// the union of changes instead of a backlog.
type eventStream struct {
	mu      sync.Mutex
	pending store.Topic
	notify  chan struct{}
}

func newEventStream() *eventStream {
	return &eventStream{notify: make(chan struct{}, 1)}
}

func (s *eventStream) push(t store.Topic) {
	s.mu.Lock()
	s.pending |= t
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *eventStream) take() store.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.pending
	s.pending = 0
	return t
}

func encodeEvent(t store.Topic) ([]byte, error) {
	return sonic.ConfigDefault.Marshal(Event{Topics: t.Names()})
}

type eventsHandler struct {
	sessions *Sessions
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func newEventsHandler(sessions *Sessions, allowedOrigins []string, log *zap.Logger) *eventsHandler {
	return &eventsHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		log:      log.Named("events"),
	}
}

func (h *eventsHandler) serve(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return err
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already wrote the failure response.
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	stream := newEventStream()
	unsubscribe := sess.Subscribe(stream.push)
	stream.push(connectTopics)
	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, stream, done, sess.Done())
	unsubscribe()
	return nil
}

// readPump discards client messages and closes done when the peer leaves.
func (h *eventsHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *eventsHandler) writePump(conn *websocket.Conn, stream *eventStream, done, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case <-closed:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			return
		case <-stream.notify:
			t := stream.take()
			if t == 0 {
				continue
			}
			msg, err := encodeEvent(t)
			if err != nil {
				h.log.Error("encode event failed", zap.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
