package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Server wraps the Socket.IO server. Clients subscribe to documents by
// joining rooms ("session:{id}", "user:{id}") and receive a full snapshot on
// every change; unsubscribing leaves the room. It implements
// services.Broadcaster.
type Server struct {
	io *socketio.Server
}

// NewServer initializes and returns a new Socket.IO server
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// A subscription is scoped to the connection: dropping the connection or
	// sending "unsubscribe" cancels it. Leaving a session must be paired with
	// an unsubscribe by the client; the partner's subscriptions are untouched.
	io.OnEvent("/", "subscribe", func(c socketio.Conn, data map[string]string) {
		room := roomFor(data)
		if room == "" {
			log.Println("❌ Invalid subscribe request from", c.ID())
			return
		}
		c.Join(room)
	})

	io.OnEvent("/", "unsubscribe", func(c socketio.Conn, data map[string]string) {
		if room := roomFor(data); room != "" {
			c.Leave(room)
		}
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return &Server{io: io}
}

func roomFor(data map[string]string) string {
	if id := data["sessionId"]; id != "" {
		return "session:" + id
	}
	if id := data["userId"]; id != "" {
		return "user:" + id
	}
	return ""
}

// BroadcastToUser emits an event to every connection subscribed to the user.
func (s *Server) BroadcastToUser(userID, event string, payload interface{}) {
	s.io.BroadcastToRoom("/", "user:"+userID, event, payload)
}

// BroadcastToSession emits an event to every connection subscribed to the session.
func (s *Server) BroadcastToSession(sessionID, event string, payload interface{}) {
	s.io.BroadcastToRoom("/", "session:"+sessionID, event, payload)
}

// Serve runs the Socket.IO event loop.
func (s *Server) Serve() error { return s.io.Serve() }

// Close shuts the event loop down.
func (s *Server) Close() error { return s.io.Close() }

// IO exposes the underlying server for HTTP mounting.
func (s *Server) IO() *socketio.Server { return s.io }
