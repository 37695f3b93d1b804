package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/session"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// checkOrigin accepts same-host pages and the configured origin.
func checkOrigin(allowed string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == allowed {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// handleWebSocket streams the session state: once on connect and again after
// every change. Bursts of changes are coalesced into the latest state.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := s.view(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	changed := make(chan struct{}, 1)
	unsubscribe := sess.Subscribe(func(model.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// The page never sends anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debugf("websocket read: %v", err)
				}
				return
			}
		}
	}()

	if !sendState(conn, sess) {
		return
	}
	for {
		select {
		case <-changed:
			if !sendState(conn, sess) {
				return
			}
		case <-closed:
			return
		case <-s.ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func sendState(conn *websocket.Conn, sess *session.Session) bool {
	if err := conn.WriteJSON(snapshot(sess)); err != nil {
		log.Debugf("ws write: %v", err)
		return false
	}
	return true
}
