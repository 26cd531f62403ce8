package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"biomni-chat/internal/application/port/input"
	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/usecase/conversation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// maxChatBodyBytes bounds a chat request, history included.
var maxChatBodyBytes int64 = 8 << 20

type Page struct {
	Title       string
	Description string
}

type Server struct {
	responder input.ChatResponder
	logger    output.LoggerPort
	page      Page
	http      *http.Server
}

func New(responder input.ChatResponder, logger output.LoggerPort, page Page) *Server {
	s := &Server{
		responder: responder,
		logger:    logger,
		page:      page,
	}
	s.http = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	accessLog := httplog.NewLogger("biomni-chat", httplog.Options{JSON: true, Concise: true})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/api/chat", s.handleChat)
	return r
}

// Serve blocks until ln is closed or ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Chat UI listening", "url", "http://"+ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, s.page); err != nil {
		s.logger.Error("Render index failed", "error", err)
	}
}

type chatRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, chatResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	history, err := DecodeHistory(req.History)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: err.Error()})
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.Message, history)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("Chat turn failed", "error", err)
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
