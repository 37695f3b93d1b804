// Package web implements the browser front-end for codescore.
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aezell/codescore/internal/config"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const sessionCookie = "codescore_session"

// DefaultSessionTTL is how long an untouched browser session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Options configures New.
type Options struct {
	AllowedOrigin string
	Theme         config.ThemeConfig
	SessionTTL    time.Duration // 0 means DefaultSessionTTL
}

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

// Server serves the upload page and its state stream. Every browser gets
// its own session, keyed by a cookie.
type Server struct {
	addr      string
	submitter session.Submitter
	theme     config.ThemeConfig
	router    *mux.Router
	handler   http.Handler
	server    *http.Server
	upgrader  websocket.Upgrader

	mu         sync.Mutex
	sessions   map[string]*entry
	sessionTTL time.Duration

	// Requests outlive the POST that started them.
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// New creates a server that submits files through sub.
func New(addr string, sub session.Submitter, opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      addr,
		submitter: sub,
		theme:     opts.Theme,
		sessions:  make(map[string]*entry),
		ctx:       ctx,
		cancel:    cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024 * 16,
		},
	}
	if opts.AllowedOrigin != "" {
		s.upgrader.CheckOrigin = checkOrigin(opts.AllowedOrigin)
	}
	s.sessionTTL = opts.SessionTTL
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	go s.sweepLoop()

	s.router = mux.NewRouter()
	s.registerRoutes()

	var corsOptions []handlers.CORSOption
	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With"}))
	if opts.AllowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{opts.AllowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"}))
	s.handler = handlers.CustomLoggingHandler(io.Discard, handlers.CORS(corsOptions...)(s.router), logRequest)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Handle("/", handlers.CompressHandler(http.HandlerFunc(s.handleIndex))).Methods(http.MethodGet)
	s.router.HandleFunc("/select", s.handleSelect).Methods(http.MethodPost)
	s.router.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	s.router.HandleFunc("/api/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Infof("codescore web front-end listening on http://%s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections, then cancels running analyses and
// closes state streams.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.cancel()
	s.inflight.Wait()
	return err
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// find returns the session named by the request cookie, or nil.
func (s *Server) find(r *http.Request) *session.Session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[c.Value]
	if !ok {
		return nil
	}
	e.lastSeen = time.Now()
	return e.sess
}

// view returns the caller's session for read-only handlers. Callers without
// one see an idle session that is not stored.
func (s *Server) view(r *http.Request) *session.Session {
	if sess := s.find(r); sess != nil {
		return sess
	}
	return session.New(s.submitter)
}

// sessionFor returns the caller's session, creating it and setting the
// cookie on w when there is none. Only state-changing handlers call it.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if sess := s.find(r); sess != nil {
		return sess
	}

	id := uuid.NewString()
	sess := session.New(s.submitter)
	s.mu.Lock()
	s.sessions[id] = &entry{sess: sess, lastSeen: time.Now()}
	s.mu.Unlock()
	log.Debugf("New browser session %s", id)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// sweepLoop evicts idle sessions until the server shuts down.
func (s *Server) sweepLoop() {
	ticker := time.NewTicker(max(s.sessionTTL/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep drops sessions unused for longer than the TTL. Sessions with a
// request in flight are kept.
func (s *Server) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) < s.sessionTTL || model.IsLoading(e.sess.State()) {
			continue
		}
		delete(s.sessions, id)
		log.Debugf("Evicted idle browser session %s", id)
	}
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	log.WithFields(log.Fields{
		"method": p.Request.Method,
		"path":   p.URL.Path,
		"status": p.StatusCode,
		"size":   p.Size,
	}).Debug("request")
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Warnf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
