package advisor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const defaultListLimit = 10

// Server is the mock advisory backend.
type Server struct {
	store   *store
	logger  *zap.Logger
	latency time.Duration
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLatency delays every answer to mimic model processing time.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// NewServer creates a mock backend with an empty conversation store.
func NewServer(opts ...Option) *Server {
	s := &Server{
		store:  newStore(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/ask", s.ask)
		r.Post("/follow-up/{id}", s.followUp)
		r.Get("/history/{id}", s.history)

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", s.createConversation)
			r.Get("/", s.listConversations)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.deleteConversation)
				r.Get("/stats", s.stats)
				r.Delete("/messages", s.clearMessages)
			})
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

type askRequest struct {
	Question string   `json:"question"`
	Images   []string `json:"images,omitempty"`
}

type askResponse struct {
	Question       string    `json:"question"`
	ConversationID string    `json:"conversationId"`
	Timestamp      time.Time `json:"timestamp"`
	Reply
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAsk(w, r)
	if !ok {
		return
	}
	conv := s.store.create(titleFor(req.Question), r.URL.Query().Get("userId"))
	s.answer(w, r, conv.ID, req)
}

func (s *Server) followUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.get(id); !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	req, ok := decodeAsk(w, r)
	if !ok {
		return
	}
	s.answer(w, r, id, req)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, conversationID string, req askRequest) {
	start := time.Now()
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	reply := Respond(req.Question)
	if !s.store.appendTurn(conversationID, req.Question, reply.Text, time.Since(start)) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	s.logger.Debug("answered", zap.String("conversation", conversationID), zap.Int("images", len(req.Images)))

	writeJSON(w, http.StatusOK, askResponse{
		Question:       req.Question,
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
		Reply:          reply,
	})
}

func decodeAsk(w http.ResponseWriter, r *http.Request) (askRequest, bool) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return req, false
	}
	return req, true
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		req.Title = "New Chat"
	}
	conv := s.store.create(req.Title, req.UserID)
	writeJSON(w, http.StatusCreated, map[string]string{"conversationId": conv.ID})
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	writeJSON(w, http.StatusOK, s.store.list(r.URL.Query().Get("userId"), limit))
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	resp := map[string]any{
		"conversationId": conv.ID,
		"messageCount":   len(conv.Messages),
	}
	if n := len(conv.Messages); n > 0 {
		resp["firstMessageDate"] = conv.Messages[0].CreatedAt
		resp["lastMessageDate"] = conv.Messages[n-1].CreatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// history serves the paginated shape when limit or offset is given and the
// full shape otherwise.
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	q := r.URL.Query()
	if !q.Has("limit") && !q.Has("offset") {
		writeJSON(w, http.StatusOK, map[string]any{
			"conversationId": conv.ID,
			"messages":       conv.Messages,
			"createdAt":      conv.CreatedAt,
			"updatedAt":      conv.UpdatedAt,
		})
		return
	}

	total := len(conv.Messages)
	offset, _ := strconv.Atoi(q.Get("offset"))
	offset = min(max(offset, 0), total)
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = total
	}
	end := min(offset+limit, total)

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": conv.Messages[offset:end],
		"hasMore":  end < total,
		"total":    total,
	})
}

func (s *Server) clearMessages(w http.ResponseWriter, r *http.Request) {
	if !s.store.clear(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if !s.store.delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func titleFor(question string) string {
	q := strings.TrimSpace(question)
	if r := []rune(q); len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
