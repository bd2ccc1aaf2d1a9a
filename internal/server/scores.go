package server

import (
	"fmt"
	"math"

	"sketch-stars/internal/db"
)

// computeFinalScores upserts one result row per current member. A member's
// score is the mean star rating over their drawings in the room, scaled to
// 0-100; members with no rated drawings score 0. Rank is stored as 0 for
// every row; it is a reserved column that has never been computed here.
func (s *Server) computeFinalScores(room *db.Room) error {
	members, err := db.RoomMembers(s.db, room.ID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, member := range members {
		avg, err := db.AverageArtistRating(s.db, room.ID, member.UserID)
		if err != nil {
			return fmt.Errorf("average rating user_id=%d: %w", member.UserID, err)
		}
		result := db.GameResult{
			RoomID:   room.ID,
			UserID:   member.UserID,
			Username: member.Username,
			Score:    int(math.Round(avg * 20)),
			Rank:     0,
		}
		if err := db.UpsertGameResult(s.db, &result); err != nil {
			return fmt.Errorf("upsert result user_id=%d: %w", member.UserID, err)
		}
	}
	return nil
}
