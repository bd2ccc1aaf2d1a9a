package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ExpiredRooms returns playing rooms whose phase deadline has passed.
func ExpiredRooms(conn *gorm.DB, now time.Time) ([]Room, error) {
	var rooms []Room
	err := conn.
		Where("status = ? AND phase_end_time IS NOT NULL AND phase_end_time < ?", StatusPlaying, now).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func GetRoom(conn *gorm.DB, id uint) (*Room, error) {
	var room Room
	if err := conn.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// updateRoomIfUnchanged applies updates only while the room still holds the
// phase and deadline captured in the snapshot. Returns false when another
// writer got there first.
func updateRoomIfUnchanged(conn *gorm.DB, snapshot *Room, updates map[string]any) (bool, error) {
	if snapshot == nil {
		return false, errors.New("room snapshot is nil")
	}
	tx := conn.Model(&Room{}).
		Where("id = ? AND current_phase = ?", snapshot.ID, snapshot.CurrentPhase)
	if snapshot.PhaseEndTime == nil {
		tx = tx.Where("phase_end_time IS NULL")
	} else {
		tx = tx.Where("phase_end_time = ?", *snapshot.PhaseEndTime)
	}
	tx = tx.Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// StartVoting moves an expired drawing phase into voting at the first drawing.
func StartVoting(conn *gorm.DB, snapshot *Room, deadline time.Time) (bool, error) {
	return updateRoomIfUnchanged(conn, snapshot, map[string]any{
		"current_phase":         PhaseVoting,
		"current_drawing_index": 0,
		"phase_end_time":        deadline,
	})
}

// ShowNextDrawing advances the voting phase to the next drawing.
func ShowNextDrawing(conn *gorm.DB, snapshot *Room, deadline time.Time) (bool, error) {
	return updateRoomIfUnchanged(conn, snapshot, map[string]any{
		"current_drawing_index": snapshot.CurrentDrawingIndex + 1,
		"phase_end_time":        deadline,
	})
}

// StartNextRound begins the next drawing round with a freshly selected prompt.
func StartNextRound(conn *gorm.DB, snapshot *Room, promptID uint, deadline time.Time) (bool, error) {
	return updateRoomIfUnchanged(conn, snapshot, map[string]any{
		"current_phase":     PhaseDrawing,
		"current_round":     snapshot.CurrentRound + 1,
		"current_prompt_id": promptID,
		"phase_end_time":    deadline,
	})
}

// FinalizeRoom moves the room into its terminal results state. The NULL
// deadline is what keeps finished rooms out of the expiry query.
func FinalizeRoom(conn *gorm.DB, snapshot *Room) (bool, error) {
	return updateRoomIfUnchanged(conn, snapshot, map[string]any{
		"current_phase":  PhaseResults,
		"status":         StatusCompleted,
		"phase_end_time": nil,
	})
}

// ExtendDeadline bumps only the phase deadline, leaving every other field
// alone. Used by recovery to give a stuck room another pass.
func ExtendDeadline(conn *gorm.DB, snapshot *Room, deadline time.Time) (bool, error) {
	return updateRoomIfUnchanged(conn, snapshot, map[string]any{
		"phase_end_time": deadline,
	})
}

// StartRoom flips a waiting room into its first drawing phase. Conditional on
// the room still waiting so a double start is a no-op.
func StartRoom(conn *gorm.DB, roomID uint, promptID uint, deadline time.Time) (bool, error) {
	tx := conn.Model(&Room{}).
		Where("id = ? AND status = ?", roomID, StatusWaiting).
		Updates(map[string]any{
			"status":                StatusPlaying,
			"current_phase":         PhaseDrawing,
			"current_round":         1,
			"current_drawing_index": 0,
			"current_prompt_id":     promptID,
			"phase_end_time":        deadline,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
