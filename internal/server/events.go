package server

import (
	"encoding/json"
	"log"

	"sketch-stars/internal/db"

	"gorm.io/datatypes"
)

type eventPayload struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Round int    `json:"round,omitempty"`
}

// recordRoomEvent appends to the room's event log. The log is observability,
// not state: a failed append never unwinds a committed transition.
func (s *Server) recordRoomEvent(roomID uint, eventType string, payload eventPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event encode failed room_id=%d type=%s error=%v", roomID, eventType, err)
		return
	}
	event := db.RoomEvent{
		RoomID:  roomID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("event write failed room_id=%d type=%s error=%v", roomID, eventType, err)
	}
}
