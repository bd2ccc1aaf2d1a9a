package server

import (
	"testing"
	"time"

	"sketch-stars/internal/config"
	"sketch-stars/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer backs the server with an in-memory SQLite database so the
// store paths run for real. The pool is pinned to one connection; each
// :memory: connection would otherwise be a separate database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default()
	cfg.CronSecret = "test-secret"
	return New(conn, cfg)
}

func createUser(t *testing.T, s *Server, name string) *db.User {
	t.Helper()
	user := db.User{Username: name}
	if err := s.db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}

func createSessionToken(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	session := db.Session{Token: newSessionToken(), UserID: userID}
	if err := s.db.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session.Token
}

func seedPrompt(t *testing.T, s *Server, text string) *db.Prompt {
	t.Helper()
	prompt := db.Prompt{Text: text}
	if err := s.db.Create(&prompt).Error; err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	return &prompt
}

// insertRoom fills in sane defaults so tests only spell out what they are
// exercising.
func insertRoom(t *testing.T, s *Server, room db.Room) *db.Room {
	t.Helper()
	if room.Status == "" {
		room.Status = db.StatusPlaying
	}
	if room.CurrentPhase == "" {
		room.CurrentPhase = db.PhaseDrawing
	}
	if room.CurrentRound == 0 {
		room.CurrentRound = 1
	}
	if room.Rounds == 0 {
		room.Rounds = 1
	}
	if room.DrawingTime == 0 {
		room.DrawingTime = 60
	}
	if room.VotingTime == 0 {
		room.VotingTime = 15
	}
	if err := s.db.Create(&room).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return &room
}

func addMember(t *testing.T, s *Server, roomID, userID uint) {
	t.Helper()
	if err := db.AddRoomMember(s.db, roomID, userID); err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func addDrawing(t *testing.T, s *Server, roomID uint, round int, artistID uint) *db.Drawing {
	t.Helper()
	drawing := db.Drawing{
		RoomID:      roomID,
		RoundNumber: round,
		ArtistID:    artistID,
		ImageData:   []byte{0x1},
	}
	if err := s.db.Create(&drawing).Error; err != nil {
		t.Fatalf("create drawing: %v", err)
	}
	return &drawing
}

func addStar(t *testing.T, s *Server, drawingID, voterID uint, rating int) {
	t.Helper()
	star := db.Star{DrawingID: drawingID, VoterID: voterID, Rating: rating}
	if err := s.db.Create(&star).Error; err != nil {
		t.Fatalf("create star: %v", err)
	}
}

func reloadRoom(t *testing.T, s *Server, id uint) *db.Room {
	t.Helper()
	room, err := db.GetRoom(s.db, id)
	if err != nil {
		t.Fatalf("reload room %d: %v", id, err)
	}
	return room
}

func pastDeadline() *time.Time {
	at := timeNowUTC().Add(-5 * time.Second)
	return &at
}

func futureDeadline(seconds int) *time.Time {
	at := timeNowUTC().Add(time.Duration(seconds) * time.Second)
	return &at
}

// within reports whether got lands inside the tolerance around want.
func within(got, want time.Time, tolerance time.Duration) bool {
	delta := got.Sub(want)
	if delta < 0 {
		delta = -delta
	}
	return delta <= tolerance
}
