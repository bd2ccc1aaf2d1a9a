package server

import (
	"encoding/base64"
	"errors"
	"net/http"

	"sketch-stars/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxImageBytes = 250 * 1024

type submitDrawingRequest struct {
	Image string `json:"image"`
}

// handleSubmitDrawing records the caller's drawing for the current round.
// One drawing per artist per round; the unique index is the arbiter when
// two submissions race.
func (s *Server) handleSubmitDrawing(w http.ResponseWriter, r *http.Request) {
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
	if room.Status != db.StatusPlaying || room.CurrentPhase != db.PhaseDrawing {
		writeError(w, http.StatusConflict, "drawing phase is over")
		return
	}
	var req submitDrawingRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil || len(image) == 0 {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusBadRequest, "image is too large")
		return
	}
	promptID := uint(0)
	if room.CurrentPromptID != nil {
		promptID = *room.CurrentPromptID
	}
	drawing := db.Drawing{
		RoomID:      room.ID,
		RoundNumber: room.CurrentRound,
		ArtistID:    user.ID,
		PromptID:    promptID,
		ImageData:   image,
	}
	if err := s.db.Create(&drawing).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "drawing already submitted")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"drawingId": drawing.ID,
		"round":     drawing.RoundNumber,
	})
}

type rateDrawingRequest struct {
	Rating int `json:"rating"`
}

// handleRateDrawing stars the drawing currently on display. The drawing is
// addressed by the room's voting index, not by id, so a vote that arrives
// after the scheduler moved on lands on the next drawing or is rejected.
func (s *Server) handleRateDrawing(w http.ResponseWriter, r *http.Request) {
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
	if room.Status != db.StatusPlaying || room.CurrentPhase != db.PhaseVoting {
		writeError(w, http.StatusConflict, "voting is not open")
		return
	}
	var req rateDrawingRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	drawing, err := db.RoundDrawingAt(s.db, room.ID, room.CurrentRound, room.CurrentDrawingIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusConflict, "no drawing on display")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if drawing.ArtistID == user.ID {
		writeError(w, http.StatusConflict, "you cannot rate your own drawing")
		return
	}
	star := db.Star{
		DrawingID: drawing.ID,
		VoterID:   user.ID,
		Rating:    req.Rating,
	}
	if err := s.db.Create(&star).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "rating already submitted")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"drawingId": drawing.ID,
		"rating":    star.Rating,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
