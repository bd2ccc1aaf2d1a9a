package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"sketch-stars/internal/db"

	"gorm.io/gorm"
)

const (
	maxRoundsPerRoom = 10
	maxPhaseSeconds  = 600
	minPhaseSeconds  = 10
)

type createRoomRequest struct {
	Rounds      int `json:"rounds"`
	DrawingTime int `json:"drawingTime"`
	VotingTime  int `json:"votingTime"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticateRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rounds := req.Rounds
	if rounds <= 0 {
		rounds = s.cfg.DefaultRounds
	}
	if rounds > maxRoundsPerRoom {
		writeError(w, http.StatusBadRequest, "too many rounds")
		return
	}
	drawingTime := clampSeconds(req.DrawingTime, s.cfg.DrawingSeconds)
	votingTime := clampSeconds(req.VotingTime, s.cfg.VotingSeconds)

	room := db.Room{
		HostID:       user.ID,
		Status:       db.StatusWaiting,
		CurrentPhase: db.PhaseDrawing,
		CurrentRound: 1,
		Rounds:       rounds,
		DrawingTime:  drawingTime,
		VotingTime:   votingTime,
	}
	if err := s.db.Create(&room).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if err := db.AddRoomMember(s.db, room.ID, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	log.Printf("room created room_id=%d host_id=%d rounds=%d", room.ID, user.ID, rounds)
	writeJSON(w, http.StatusCreated, map[string]any{
		"roomId":      room.ID,
		"rounds":      room.Rounds,
		"drawingTime": room.DrawingTime,
		"votingTime":  room.VotingTime,
	})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticateRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	room, ok := s.loadRoom(w, r)
	if !ok {
		return
	}
	if room.Status != db.StatusWaiting {
		writeError(w, http.StatusConflict, "game already started")
		return
	}
	if err := db.AddRoomMember(s.db, room.ID, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roomId": room.ID,
	})
}

func (s *Server) handleStartRoom(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticateRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	room, ok := s.loadRoom(w, r)
	if !ok {
		return
	}
	if room.HostID != user.ID {
		writeError(w, http.StatusForbidden, "only the host can start the game")
		return
	}
	prompt, err := db.RandomPrompt(s.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusConflict, "no prompts loaded")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	deadline := timeNowUTC().Add(time.Duration(room.DrawingTime) * time.Second)
	started, err := db.StartRoom(s.db, room.ID, prompt.ID, deadline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !started {
		writeError(w, http.StatusConflict, "game already started")
		return
	}
	s.recordRoomEvent(room.ID, "room_started", eventPayload{To: db.PhaseDrawing, Round: 1})
	log.Printf("room started room_id=%d prompt_id=%d", room.ID, prompt.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"roomId": room.ID,
		"phase":  db.PhaseDrawing,
		"round":  1,
	})
}

func (s *Server) handleRoomResults(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticateRequest(r)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	room, ok := s.loadRoom(w, r)
	if !ok {
		return
	}
	member, err := db.IsRoomMember(s.db, room.ID, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !member {
		writeError(w, http.StatusForbidden, "you are not in this room")
		return
	}
	if room.Status != db.StatusCompleted {
		writeError(w, http.StatusConflict, "game is not finished")
		return
	}
	results, err := db.RoomResults(s.db, room.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	standings := make([]map[string]any, 0, len(results))
	for _, result := range results {
		standings = append(standings, map[string]any{
			"userId":   result.UserID,
			"username": result.Username,
			"score":    result.Score,
			"rank":     result.Rank,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roomId":  room.ID,
		"results": standings,
	})
}

func (s *Server) loadRoom(w http.ResponseWriter, r *http.Request) (*db.Room, bool) {
	roomID, ok := roomIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return nil, false
	}
	room, err := db.GetRoom(s.db, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
		} else {
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return nil, false
	}
	return room, true
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNoSession) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeError(w, http.StatusInternalServerError, "server error")
}

func clampSeconds(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	if value < minPhaseSeconds {
		return minPhaseSeconds
	}
	if value > maxPhaseSeconds {
		return maxPhaseSeconds
	}
	return value
}
