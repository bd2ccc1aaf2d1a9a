package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sketch-stars/internal/db"
)

func TestCheckPhasesRejectsUnknownCaller(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/cron/check-phases", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cron key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/cron/check-phases", nil)
	req.Header.Set("X-Cron-Key", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad cron key, got %d", rec.Code)
	}
}

func TestCheckPhasesReportsProcessedCount(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseDrawing,
		Rounds:       2,
		PhaseEndTime: pastDeadline(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/check-phases", nil)
	req.Header.Set("X-Cron-Key", "test-secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != "{\"processed\":1}\n" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestCheckPhasesListingFailureIsFatal(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.db.Migrator().DropTable(&db.Room{}); err != nil {
		t.Fatalf("drop rooms table: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/cron/check-phases", nil)
	req.Header.Set("X-Cron-Key", "test-secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when listing fails, got %d", rec.Code)
	}
}

// One room is poisoned: it needs a new prompt but the pool is empty, so its
// transition fails. The healthy room must still advance, and the poisoned
// one must come out of recovery with its phase intact and a pushed-out
// deadline.
func TestPerRoomFailureIsIsolatedAndRecovered(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	poisoned := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseVoting,
		CurrentRound: 1,
		Rounds:       2,
		PhaseEndTime: pastDeadline(),
	})
	healthy := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseDrawing,
		Rounds:       2,
		PhaseEndTime: pastDeadline(),
	})

	now := timeNowUTC()
	processed, err := srv.advanceExpiredRooms(now)
	if err != nil {
		t.Fatalf("advance pass: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected only the healthy room processed, got %d", processed)
	}

	gotHealthy := reloadRoom(t, srv, healthy.ID)
	if gotHealthy.CurrentPhase != db.PhaseVoting {
		t.Fatalf("expected healthy room in voting, got %s", gotHealthy.CurrentPhase)
	}

	gotPoisoned := reloadRoom(t, srv, poisoned.ID)
	if gotPoisoned.CurrentPhase != db.PhaseVoting {
		t.Fatalf("expected poisoned room phase unchanged, got %s", gotPoisoned.CurrentPhase)
	}
	if gotPoisoned.CurrentRound != 1 {
		t.Fatalf("expected poisoned room round unchanged, got %d", gotPoisoned.CurrentRound)
	}
	if gotPoisoned.PhaseEndTime == nil ||
		!within(*gotPoisoned.PhaseEndTime, now.Add(30*time.Second), 2*time.Second) {
		t.Fatalf("expected recovery deadline near now+30s, got %v", gotPoisoned.PhaseEndTime)
	}
}

func TestRecoveryLeavesCommittedRoomAlone(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	deadline := futureDeadline(60)
	room := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseVoting,
		Rounds:       2,
		PhaseEndTime: deadline,
	})

	// Snapshot claims the room was still drawing; the stored phase differs,
	// meaning the failed attempt actually committed. No corrective write.
	stale := *room
	stale.CurrentPhase = db.PhaseDrawing
	srv.recoverRoom(&stale, timeNowUTC())

	got := reloadRoom(t, srv, room.ID)
	if got.PhaseEndTime == nil || !got.PhaseEndTime.Equal(*deadline) {
		t.Fatalf("expected deadline untouched, got %v want %v", got.PhaseEndTime, deadline)
	}
}
