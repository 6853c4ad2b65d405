// Package admin serves the operator HTTP endpoints: pairing, connection
// status, logout, manual sends and a task progress feed.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/whatsapp"
)

// Linker is the WhatsApp side. *whatsapp.Client implements it.
type Linker interface {
	Status() whatsapp.Status
	Pair(ctx context.Context, phone string) (string, error)
	Logout(ctx context.Context) error
	SendText(ctx context.Context, to, text string) error
}

// Store is the persistence the endpoints read and write. *db.Gateway
// implements it.
type Store interface {
	LatestDevice(ctx context.Context) (*db.Device, error)
	QueueMessage(ctx context.Context, to, text string) (*db.Message, error)
	SetMessageStatus(ctx context.Context, id uint, status string) error
	RecentMessages(ctx context.Context, limit int) ([]db.Message, error)
	TaskProgress(ctx context.Context) ([]db.TaskProgress, error)
}

var (
	_ Linker = (*whatsapp.Client)(nil)
	_ Store  = (*db.Gateway)(nil)
)

const defaultMessageLimit = 20

type Server struct {
	wa    Linker
	store Store
	log   *zap.Logger
	mux   *http.ServeMux
}

func New(wa Linker, store Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{wa: wa, store: store, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /pair", s.handlePair)
	s.mux.HandleFunc("GET /api/info", s.handleInfo)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/send", s.handleSend)
	s.mux.HandleFunc("GET /api/tasks", s.handleTasks)
	s.mux.HandleFunc("GET /api/messages", s.handleMessages)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("admin server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "Phone number is required", http.StatusBadRequest)
		return
	}

	code, err := s.wa.Pair(r.Context(), phone)
	if errors.Is(err, whatsapp.ErrAlreadyLinked) {
		_, _ = w.Write([]byte("Already Linked"))
		return
	}
	if err != nil {
		s.log.Error("pairing failed", zap.Error(err))
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(code))
}

type infoResponse struct {
	whatsapp.Status
	Device *db.Device `json:"device,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	resp := infoResponse{Status: s.wa.Status()}
	device, err := s.store.LatestDevice(r.Context())
	switch {
	case err == nil:
		resp.Device = device
	case !errors.Is(err, db.ErrNotFound):
		s.serverError(w, "failed to load device", err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	err := s.wa.Logout(r.Context())
	if errors.Is(err, whatsapp.ErrNotLinked) {
		_, _ = w.Write([]byte("Not logged in"))
		return
	}
	if err != nil {
		s.log.Error("logout failed", zap.Error(err))
		http.Error(w, "Failed to logout", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("Logged out successfully"))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	phone := r.FormValue("phone")
	text := r.FormValue("text")
	if phone == "" || text == "" {
		http.Error(w, "Missing phone or text", http.StatusBadRequest)
		return
	}

	msg, err := s.store.QueueMessage(r.Context(), phone, text)
	if err != nil {
		s.serverError(w, "failed to queue message", err)
		return
	}

	status := db.MessageSent
	sendErr := s.wa.SendText(r.Context(), phone, text)
	if sendErr != nil {
		status = db.MessageFailed
	}
	if err := s.store.SetMessageStatus(r.Context(), msg.ID, status); err != nil {
		s.log.Warn("failed to record message status", zap.Uint("id", msg.ID), zap.Error(err))
	}
	if sendErr != nil {
		s.log.Warn("send failed", zap.String("to", phone), zap.Error(sendErr))
		http.Error(w, "Send failed: "+sendErr.Error(), http.StatusBadGateway)
		return
	}
	_, _ = w.Write([]byte("Success"))
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	progress, err := s.store.TaskProgress(r.Context())
	if err != nil {
		s.serverError(w, "failed to load tasks", err)
		return
	}
	if progress == nil {
		progress = []db.TaskProgress{}
	}
	writeJSON(w, progress)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultMessageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	msgs, err := s.store.RecentMessages(r.Context(), limit)
	if err != nil {
		s.serverError(w, "failed to load messages", err)
		return
	}
	if msgs == nil {
		msgs = []db.Message{}
	}
	writeJSON(w, msgs)
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
