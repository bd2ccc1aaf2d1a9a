package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomMember pairs a membership row with the player's username.
type RoomMember struct {
	UserID   uint
	Username string
}

// RoomMembers lists current members of a room with their usernames.
func RoomMembers(conn *gorm.DB, roomID uint) ([]RoomMember, error) {
	var members []RoomMember
	err := conn.Model(&RoomPlayer{}).
		Select("room_players.user_id, users.username").
		Joins("JOIN users ON users.id = room_players.user_id").
		Where("room_players.room_id = ?", roomID).
		Order("room_players.id").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func IsRoomMember(conn *gorm.DB, roomID, userID uint) (bool, error) {
	var count int64
	err := conn.Model(&RoomPlayer{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddRoomMember inserts a membership row, ignoring duplicates.
func AddRoomMember(conn *gorm.DB, roomID, userID uint) error {
	member := RoomPlayer{RoomID: roomID, UserID: userID}
	return conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}
