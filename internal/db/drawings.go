package db

import (
	"errors"

	"gorm.io/gorm"
)

// CountRoundDrawings counts submissions for one round of a room.
func CountRoundDrawings(conn *gorm.DB, roomID uint, round int) (int64, error) {
	var count int64
	err := conn.Model(&Drawing{}).
		Where("room_id = ? AND round_number = ?", roomID, round).
		Count(&count).Error
	return count, err
}

// HasRoundDrawing reports whether the artist submitted in the given round.
func HasRoundDrawing(conn *gorm.DB, roomID uint, round int, artistID uint) (bool, error) {
	var count int64
	err := conn.Model(&Drawing{}).
		Where("room_id = ? AND round_number = ? AND artist_id = ?", roomID, round, artistID).
		Count(&count).Error
	return count > 0, err
}

// RoundDrawingAt returns the drawing at a voting index, ordered by insertion.
func RoundDrawingAt(conn *gorm.DB, roomID uint, round int, index int) (*Drawing, error) {
	if index < 0 {
		return nil, errors.New("drawing index out of range")
	}
	var drawing Drawing
	err := conn.
		Where("room_id = ? AND round_number = ?", roomID, round).
		Order("id").
		Offset(index).
		First(&drawing).Error
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}
