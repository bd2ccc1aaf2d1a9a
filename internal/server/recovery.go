package server

import (
	"log"
	"time"

	"sketch-stars/internal/db"
)

// recoverRoom runs after a transition attempt failed. It is best effort, not
// a correctness guarantee: if the failed write never landed, the deadline is
// pushed out so the next scheduler pass retries the same transition. If the
// phase did change, the failure happened downstream of the commit and the
// room is left alone. Errors here are logged and swallowed.
func (s *Server) recoverRoom(snapshot *db.Room, now time.Time) {
	current, err := db.GetRoom(s.db, snapshot.ID)
	if err != nil {
		log.Printf("recovery read failed room_id=%d error=%v", snapshot.ID, err)
		return
	}
	if current.CurrentPhase != snapshot.CurrentPhase {
		return
	}
	deadline := now.Add(time.Duration(s.cfg.RecoverySeconds) * time.Second)
	if _, err := db.ExtendDeadline(s.db, current, deadline); err != nil {
		log.Printf("recovery extend failed room_id=%d error=%v", current.ID, err)
	}
}
