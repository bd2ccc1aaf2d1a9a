package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusWaiting   = "waiting"
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
)

const (
	PhaseDrawing = "drawing"
	PhaseVoting  = "voting"
	PhaseResults = "results"
)

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Room struct {
	ID                  uint       `gorm:"primaryKey"`
	HostID              uint       `gorm:"index;not null"`
	Status              string     `gorm:"size:32;not null;default:'waiting'"`
	CurrentPhase        string     `gorm:"size:32;not null;default:'drawing'"`
	CurrentRound        int        `gorm:"not null;default:1"`
	Rounds              int        `gorm:"not null"`
	CurrentDrawingIndex int        `gorm:"not null;default:0"`
	CurrentPromptID     *uint      `gorm:"index"`
	PhaseEndTime        *time.Time `gorm:"index"`
	DrawingTime         int        `gorm:"not null"`
	VotingTime          int        `gorm:"not null"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
	Players             []RoomPlayer
	Drawings            []Drawing
	Results             []GameResult
	Events              []RoomEvent
}

type RoomPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_user"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_user"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Prompt struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:280;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Drawing struct {
	ID          uint      `gorm:"primaryKey"`
	RoomID      uint      `gorm:"index;not null;uniqueIndex:idx_drawings_room_round_artist"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_drawings_room_round_artist"`
	ArtistID    uint      `gorm:"index;not null;uniqueIndex:idx_drawings_room_round_artist"`
	PromptID    uint      `gorm:"index;not null"`
	ImageData   []byte    `gorm:"type:bytea"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Stars       []Star
}

type Star struct {
	ID        uint      `gorm:"primaryKey"`
	DrawingID uint      `gorm:"index;not null;uniqueIndex:idx_stars_drawing_voter"`
	VoterID   uint      `gorm:"index;not null;uniqueIndex:idx_stars_drawing_voter"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type GameResult struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_game_results_room_user"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_game_results_room_user"`
	Username  string    `gorm:"size:64;not null"`
	Score     int       `gorm:"not null"`
	Rank      int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RoomEvent struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
