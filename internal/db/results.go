package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AverageArtistRating returns the mean star rating across every drawing the
// artist made in the room, 0 when nothing of theirs was rated.
func AverageArtistRating(conn *gorm.DB, roomID, artistID uint) (float64, error) {
	var avg float64
	err := conn.Model(&Star{}).
		Joins("JOIN drawings ON drawings.id = stars.drawing_id").
		Where("drawings.room_id = ? AND drawings.artist_id = ?", roomID, artistID).
		Select("COALESCE(AVG(stars.rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// UpsertGameResult writes one final-standing row per (room, user),
// overwriting the score if it is recomputed.
func UpsertGameResult(conn *gorm.DB, result *GameResult) error {
	return conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "score", "rank"}),
	}).Create(result).Error
}

// RoomResults lists final standings for a room, highest score first.
func RoomResults(conn *gorm.DB, roomID uint) ([]GameResult, error) {
	var results []GameResult
	err := conn.
		Where("room_id = ?", roomID).
		Order("score DESC, user_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
