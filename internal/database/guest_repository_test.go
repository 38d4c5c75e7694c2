package database

import (
	"testing"

	"everafter/models"
)

func TestUpsertRSVP_CreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	inv := createTestInvitation(t, db, user.ID, "rsvp-slug")

	first := &models.Guest{
		InvitationID:    inv.ID,
		Name:            "Carol",
		RSVPStatus:      models.RSVPAttending,
		AttendanceCount: 2,
		Message:         "See you there!",
	}
	if err := db.Guests.UpsertRSVP(first); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected guest ID to be backfilled")
	}

	second := &models.Guest{
		InvitationID:    inv.ID,
		Name:            "Carol",
		RSVPStatus:      models.RSVPNotAttending,
		AttendanceCount: 0,
		Message:         "Sorry, can't make it",
	}
	if err := db.Guests.UpsertRSVP(second); err != nil {
		t.Fatalf("failed to upsert again: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same row (id %d), got %d", first.ID, second.ID)
	}

	guests, err := db.Guests.ListByInvitation(inv.ID)
	if err != nil {
		t.Fatalf("failed to list guests: %v", err)
	}
	if len(guests) != 1 {
		t.Fatalf("expected 1 guest after resubmission, got %d", len(guests))
	}
	if guests[0].RSVPStatus != models.RSVPNotAttending {
		t.Errorf("expected updated status, got %q", guests[0].RSVPStatus)
	}
	if guests[0].Message != "Sorry, can't make it" {
		t.Errorf("expected updated message, got %q", guests[0].Message)
	}
}

func TestCreateGuest_DuplicateNameFails(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	inv := createTestInvitation(t, db, user.ID, "dup-slug")

	if err := db.Guests.CreateGuest(&models.Guest{InvitationID: inv.ID, Name: "Carol"}); err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}
	if err := db.Guests.CreateGuest(&models.Guest{InvitationID: inv.ID, Name: "Carol"}); err == nil {
		t.Error("expected duplicate guest name to fail")
	}
}

func TestCreateGuest_DefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	inv := createTestInvitation(t, db, user.ID, "pending-slug")

	guest := &models.Guest{InvitationID: inv.ID, Name: "Dave"}
	if err := db.Guests.CreateGuest(guest); err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}
	if guest.RSVPStatus != models.RSVPPending {
		t.Errorf("expected pending status, got %q", guest.RSVPStatus)
	}
}

func TestListWithMessages(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@example.com")
	inv := createTestInvitation(t, db, user.ID, "msg-slug")

	for _, g := range []*models.Guest{
		{InvitationID: inv.ID, Name: "Quiet"},
		{InvitationID: inv.ID, Name: "Chatty", Message: "Congrats!"},
	} {
		if err := db.Guests.CreateGuest(g); err != nil {
			t.Fatalf("failed to create guest: %v", err)
		}
	}

	withMessages, err := db.Guests.ListWithMessages(inv.ID)
	if err != nil {
		t.Fatalf("failed to list messages: %v", err)
	}
	if len(withMessages) != 1 {
		t.Fatalf("expected 1 guest with a message, got %d", len(withMessages))
	}
	if withMessages[0].Name != "Chatty" {
		t.Errorf("expected Chatty, got %q", withMessages[0].Name)
	}
}
