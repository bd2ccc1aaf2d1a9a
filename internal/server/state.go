package server

import (
	"errors"
	"net/http"

	"sketch-stars/internal/db"

	"gorm.io/gorm"
)

type roomStateResponse struct {
	RoomID       uint   `json:"roomId"`
	Phase        string `json:"phase"`
	Round        int    `json:"round"`
	TotalRounds  int    `json:"totalRounds"`
	Prompt       string `json:"prompt"`
	TimeLeft     int    `json:"timeLeft"`
	HasSubmitted bool   `json:"hasSubmitted"`
}

// handleRoomState is the polling endpoint clients use to follow the game.
// It reads phase and timing but never mutates them; the scheduler may be
// advancing the same room concurrently and the response simply lags by at
// most one pass.
func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticateRequest(r)
	if err != nil {
		if errors.Is(err, errNoSession) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	roomID, ok := roomIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	room, err := db.GetRoom(s.db, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	member, err := db.IsRoomMember(s.db, room.ID, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !member {
		// A drawing in the current round means the player was here before
		// the session dropped; let them back in.
		returning, err := db.HasRoundDrawing(s.db, room.ID, room.CurrentRound, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if !returning {
			writeError(w, http.StatusForbidden, "you are not in this room")
			return
		}
		if err := db.AddRoomMember(s.db, room.ID, user.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
	}

	prompt := ""
	if room.CurrentPromptID != nil {
		text, err := db.PromptText(s.db, *room.CurrentPromptID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		prompt = text
	}

	timeLeft := 0
	if room.PhaseEndTime != nil {
		if remaining := int(room.PhaseEndTime.Sub(timeNowUTC()).Seconds()); remaining > 0 {
			timeLeft = remaining
		}
	}

	hasSubmitted := false
	if room.CurrentPhase == db.PhaseDrawing {
		hasSubmitted, err = db.HasRoundDrawing(s.db, room.ID, room.CurrentRound, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, roomStateResponse{
		RoomID:       room.ID,
		Phase:        room.CurrentPhase,
		Round:        room.CurrentRound,
		TotalRounds:  room.Rounds,
		Prompt:       prompt,
		TimeLeft:     timeLeft,
		HasSubmitted: hasSubmitted,
	})
}
