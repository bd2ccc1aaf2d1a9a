package server

import (
	"net/http"
	"strconv"
	"time"

	"sketch-stars/internal/config"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Server struct {
	db  *gorm.DB
	cfg config.Config
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		db:  conn,
		cfg: cfg,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/cron/check-phases", s.handleCheckPhases).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms", s.handleCreateRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/state", s.handleRoomState).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms/{roomId}/join", s.handleJoinRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/start", s.handleStartRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/drawings", s.handleSubmitDrawing).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/stars", s.handleRateDrawing).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/results", s.handleRoomResults).Methods(http.MethodGet)
	return r
}

func roomIDFromRequest(r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["roomId"]
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
