package server

import (
	"fmt"
	"time"

	"sketch-stars/internal/db"
)

// A phaseAdvance applies the single transition owed to an expired room. It
// reports the phase entered and whether the conditional write landed; a
// false return with nil error means another pass already advanced the room.
type phaseAdvance func(s *Server, room *db.Room, now time.Time) (string, bool, error)

var phaseTransitions = map[string]phaseAdvance{
	db.PhaseDrawing: advanceFromDrawing,
	db.PhaseVoting:  advanceFromVoting,
}

func (s *Server) advanceRoom(room *db.Room, now time.Time) (string, bool, error) {
	advance, ok := phaseTransitions[room.CurrentPhase]
	if !ok {
		return "", false, fmt.Errorf("no transition from phase %q", room.CurrentPhase)
	}
	return advance(s, room, now)
}

// Drawing time ran out: start voting at the first drawing. Unconditional,
// even when nobody submitted — the voting branch handles the empty round.
func advanceFromDrawing(s *Server, room *db.Room, now time.Time) (string, bool, error) {
	deadline := now.Add(time.Duration(room.VotingTime) * time.Second)
	applied, err := db.StartVoting(s.db, room, deadline)
	if err != nil || !applied {
		return "", false, err
	}
	s.recordRoomEvent(room.ID, "phase_advanced", eventPayload{
		From:  db.PhaseDrawing,
		To:    db.PhaseVoting,
		Round: room.CurrentRound,
	})
	return db.PhaseVoting, true, nil
}

func advanceFromVoting(s *Server, room *db.Room, now time.Time) (string, bool, error) {
	total, err := db.CountRoundDrawings(s.db, room.ID, room.CurrentRound)
	if err != nil {
		return "", false, err
	}
	switch {
	case total == 0:
		// Nothing was submitted this round, so there is nothing to vote on
		// and nothing to score.
		if room.CurrentRound >= room.Rounds {
			return s.finalizeRoom(room, false)
		}
		return s.startNextRound(room, now)
	case int64(room.CurrentDrawingIndex) >= total-1:
		if room.CurrentRound >= room.Rounds {
			return s.finalizeRoom(room, true)
		}
		return s.startNextRound(room, now)
	default:
		deadline := now.Add(time.Duration(room.VotingTime) * time.Second)
		applied, err := db.ShowNextDrawing(s.db, room, deadline)
		if err != nil || !applied {
			return "", false, err
		}
		return db.PhaseVoting, true, nil
	}
}

func (s *Server) startNextRound(room *db.Room, now time.Time) (string, bool, error) {
	prompt, err := db.RandomPrompt(s.db)
	if err != nil {
		return "", false, fmt.Errorf("select prompt: %w", err)
	}
	deadline := now.Add(time.Duration(room.DrawingTime) * time.Second)
	applied, err := db.StartNextRound(s.db, room, prompt.ID, deadline)
	if err != nil || !applied {
		return "", false, err
	}
	s.recordRoomEvent(room.ID, "phase_advanced", eventPayload{
		From:  room.CurrentPhase,
		To:    db.PhaseDrawing,
		Round: room.CurrentRound + 1,
	})
	return db.PhaseDrawing, true, nil
}

// finalizeRoom ends the game. Scores must all be written before the room
// flips to results; a failure anywhere leaves the room un-finalized so the
// next pass can try again.
func (s *Server) finalizeRoom(room *db.Room, withScores bool) (string, bool, error) {
	if withScores {
		if err := s.computeFinalScores(room); err != nil {
			return "", false, err
		}
	}
	applied, err := db.FinalizeRoom(s.db, room)
	if err != nil || !applied {
		return "", false, err
	}
	s.recordRoomEvent(room.ID, "room_completed", eventPayload{
		From:  room.CurrentPhase,
		To:    db.PhaseResults,
		Round: room.CurrentRound,
	})
	return db.PhaseResults, true, nil
}
