package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"sketch-stars/internal/db"
)

// advanceExpiredRooms runs one scheduler pass: every playing room whose
// deadline has elapsed gets exactly one transition attempt. Rooms fail
// independently; only the listing query can abort the pass. Safe to run
// concurrently with itself — the conditional writes make the overlapping
// pass a no-op per room.
func (s *Server) advanceExpiredRooms(now time.Time) (int, error) {
	rooms, err := db.ExpiredRooms(s.db, now)
	if err != nil {
		return 0, err
	}
	processed := 0
	for i := range rooms {
		room := &rooms[i]
		next, applied, err := s.advanceRoom(room, now)
		if err != nil {
			log.Printf("phase advance failed room_id=%d phase=%s round=%d error=%v",
				room.ID, room.CurrentPhase, room.CurrentRound, err)
			s.recoverRoom(room, now)
			continue
		}
		if !applied {
			continue
		}
		log.Printf("room advanced room_id=%d from=%s to=%s round=%d",
			room.ID, room.CurrentPhase, next, room.CurrentRound)
		processed++
	}
	return processed, nil
}

func (s *Server) handleCheckPhases(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCronRequest(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	processed, err := s.advanceExpiredRooms(timeNowUTC())
	if err != nil {
		log.Printf("expired room listing failed error=%v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": processed,
	})
}

// authorizeCronRequest gates the advancement trigger. An unset secret
// disables the endpoint rather than leaving it open.
func (s *Server) authorizeCronRequest(r *http.Request) bool {
	if s.cfg.CronSecret == "" {
		return false
	}
	provided := r.Header.Get("X-Cron-Key")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.CronSecret)) == 1
}
