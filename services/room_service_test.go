package services

import (
	"context"
	"strings"
	"testing"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
)

func TestCreateRoomDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	_, err := f.rooms.CreateRoom(context.Background(), RoomInput{RoomNumber: "101", TypeID: f.suite.ID})
	assertConflict(t, err)
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected 'already exists' message, got %q", err.Error())
	}
}

func TestCreateRoomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "", TypeID: f.suite.ID})
	assertValidation(t, err)
	_, err = f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "1-01", TypeID: f.suite.ID})
	assertValidation(t, err)
	_, err = f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "201"})
	assertValidation(t, err)
	_, err = f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "201", TypeID: 999})
	assertNotFound(t, err)

	room, err := f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: " 305 ", TypeID: f.suite.ID})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.RoomNumber != "305" || room.Floor() != "3" || room.Status != models.RoomAvailable {
		t.Fatalf("unexpected room %+v", room)
	}
	if room.RoomType.TypeName != "Suite" {
		t.Fatalf("expected room type joined, got %+v", room.RoomType)
	}
}

func TestUpdateRoomStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rooms.UpdateStatus(ctx, f.room101.ID, "")
	assertValidation(t, err)
	_, err = f.rooms.UpdateStatus(ctx, f.room101.ID, "Haunted")
	assertValidation(t, err)
	_, err = f.rooms.UpdateStatus(ctx, 999, models.RoomDirty)
	assertNotFound(t, err)

	room, err := f.rooms.UpdateStatus(ctx, f.room101.ID, models.RoomDirty)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if room.Status != models.RoomDirty {
		t.Fatalf("expected Dirty, got %s", room.Status)
	}
}

func TestDeleteRoomTypeInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assertConflict(t, f.rooms.DeleteRoomType(ctx, f.suite.ID))

	price := dec("800")
	spare, err := f.rooms.CreateRoomType(ctx, RoomTypeInput{TypeName: "Hostel Bed", BasePrice: &price})
	if err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	if err := f.rooms.DeleteRoomType(ctx, spare.ID); err != nil {
		t.Fatalf("DeleteRoomType: %v", err)
	}
	assertNotFound(t, f.rooms.DeleteRoomType(ctx, spare.ID))
}

func TestRoomTypeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	negative := dec("-5")
	_, err := f.rooms.CreateRoomType(ctx, RoomTypeInput{TypeName: "Broken", BasePrice: &negative})
	assertValidation(t, err)
	_, err = f.rooms.CreateRoomType(ctx, RoomTypeInput{TypeName: "NoPrice"})
	assertValidation(t, err)
	_, err = f.rooms.UpdateRoomType(ctx, f.suite.ID, repository.RoomTypePatch{})
	assertValidation(t, err)
}
