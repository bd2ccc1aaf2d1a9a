package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sketch-stars/internal/db"
)

func getRoomState(t *testing.T, srv *Server, roomID uint, token string) (*httptest.ResponseRecorder, roomStateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/rooms/%d/state", roomID), nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	var state roomStateResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
	}
	return rec, state
}

func TestRoomStateRequiresAuthentication(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := getRoomState(t, srv, 1, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRoomStateUnknownRoom(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "ada")
	token := createSessionToken(t, srv, user.ID)

	rec, _ := getRoomState(t, srv, 999, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRoomStateForbiddenForStrangers(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	stranger := createUser(t, srv, "ben")
	token := createSessionToken(t, srv, stranger.ID)
	room := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseDrawing,
		Rounds:       2,
		PhaseEndTime: futureDeadline(60),
	})
	addMember(t, srv, room.ID, host.ID)

	rec, _ := getRoomState(t, srv, room.ID, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", rec.Code)
	}
}

// A player with a drawing in the current round lost their membership row;
// the state endpoint quietly re-adds them.
func TestRoomStateImplicitRejoin(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	returning := createUser(t, srv, "ben")
	token := createSessionToken(t, srv, returning.ID)
	room := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		CurrentPhase: db.PhaseDrawing,
		CurrentRound: 2,
		Rounds:       3,
		PhaseEndTime: futureDeadline(60),
	})
	addMember(t, srv, room.ID, host.ID)
	addDrawing(t, srv, room.ID, 2, returning.ID)

	rec, state := getRoomState(t, srv, room.ID, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after implicit rejoin, got %d: %s", rec.Code, rec.Body.String())
	}
	if !state.HasSubmitted {
		t.Fatalf("expected hasSubmitted true for returning artist")
	}

	member, err := db.IsRoomMember(srv.db, room.ID, returning.ID)
	if err != nil {
		t.Fatalf("membership check: %v", err)
	}
	if !member {
		t.Fatalf("expected membership row after implicit rejoin")
	}
}

func TestRoomStateFields(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	token := createSessionToken(t, srv, host.ID)
	prompt := seedPrompt(t, srv, "a cat playing chess")
	room := insertRoom(t, srv, db.Room{
		HostID:          host.ID,
		CurrentPhase:    db.PhaseDrawing,
		CurrentRound:    1,
		Rounds:          3,
		CurrentPromptID: &prompt.ID,
		PhaseEndTime:    futureDeadline(45),
	})
	addMember(t, srv, room.ID, host.ID)

	rec, state := getRoomState(t, srv, room.ID, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if state.RoomID != room.ID || state.Phase != db.PhaseDrawing {
		t.Fatalf("unexpected identity fields: %+v", state)
	}
	if state.Round != 1 || state.TotalRounds != 3 {
		t.Fatalf("unexpected round fields: %+v", state)
	}
	if state.Prompt != "a cat playing chess" {
		t.Fatalf("unexpected prompt: %q", state.Prompt)
	}
	if state.TimeLeft <= 0 || state.TimeLeft > 45 {
		t.Fatalf("expected timeLeft in (0, 45], got %d", state.TimeLeft)
	}
	if state.HasSubmitted {
		t.Fatalf("expected hasSubmitted false before submitting")
	}
}

func TestRoomStateTimeLeftZeroWhenCompleted(t *testing.T) {
	srv := newTestServer(t)
	host := createUser(t, srv, "ada")
	token := createSessionToken(t, srv, host.ID)
	room := insertRoom(t, srv, db.Room{
		HostID:       host.ID,
		Status:       db.StatusCompleted,
		CurrentPhase: db.PhaseResults,
		CurrentRound: 2,
		Rounds:       2,
	})
	addMember(t, srv, room.ID, host.ID)

	rec, state := getRoomState(t, srv, room.ID, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if state.TimeLeft != 0 {
		t.Fatalf("expected timeLeft 0 for completed room, got %d", state.TimeLeft)
	}
	if state.Phase != db.PhaseResults {
		t.Fatalf("expected results phase, got %s", state.Phase)
	}
}
