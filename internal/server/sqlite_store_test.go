package server_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cdrpl/missions"
	. "github.com/cdrpl/missions/internal/server"
)

func insertTestUser(t *testing.T, store Store, name string) User {
	t.Helper()

	user, err := CreateUser(name, name+"@example.com", "password")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.InsertUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	return user
}

func TestSQLiteStoreUser(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	user := insertTestUser(t, store, "alice")

	found, err := store.FindUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}

	if found.ID != user.ID || !found.CheckPassword("password") {
		t.Errorf("expect to find user %v, received: %+v", user.ID, found)
	}

	if _, err := store.FindUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect ErrNotFound, received: %v", err)
	}

	duplicate, _ := CreateUser("other", "alice@example.com", "password")
	if err := store.InsertUser(ctx, duplicate); !errors.Is(err, ErrUserExists) {
		t.Errorf("expect ErrUserExists for a taken email, received: %v", err)
	}

	namesake, _ := CreateUser("alice", "alice2@example.com", "password")
	if err := store.InsertUser(ctx, namesake); err != nil {
		t.Errorf("expect a shared name to be accepted, received: %v", err)
	}

	exp, err := store.FindExp(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if exp != 0 {
		t.Errorf("expect 0 exp for a new user, received: %v", exp)
	}

	insertTestUser(t, store, "bob")
	if err := store.RenameUser(ctx, user.ID, "bob"); err != nil {
		t.Errorf("expect rename to a shared name to succeed, received: %v", err)
	}
}

func TestSQLiteStoreMissionCapacity(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	user := insertTestUser(t, store, "alice")

	for i := 0; i < MISSION_CAPACITY; i++ {
		m := CreateDailyMission(user.ID, missions.DailyMissionInput{Title: "mission"})

		if err := store.InsertMission(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	m := CreateDailyMission(user.ID, missions.DailyMissionInput{Title: "one too many"})
	if err := store.InsertMission(ctx, m); !errors.Is(err, ErrCapacity) {
		t.Errorf("expect ErrCapacity, received: %v", err)
	}
}

func TestSQLiteStoreMissionOrderAndScope(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	alice := insertTestUser(t, store, "alice")
	bob := insertTestUser(t, store, "bob")

	titles := []string{"A", "B", "C"}
	for _, title := range titles {
		if err := store.InsertMission(ctx, CreateDailyMission(alice.ID, missions.DailyMissionInput{Title: title})); err != nil {
			t.Fatal(err)
		}
	}

	ms, err := store.FindMissions(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(ms) != len(titles) {
		t.Fatalf("expect %v missions, received: %v", len(titles), len(ms))
	}

	for i, m := range ms {
		if m.Title != titles[i] {
			t.Errorf("expect mission %v to be %v, received: %v", i, titles[i], m.Title)
		}
	}

	if _, err := store.FindMission(ctx, bob.ID, ms[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect another user's mission to be hidden, received: %v", err)
	}

	if err := store.DeleteMission(ctx, bob.ID, ms[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect ErrNotFound deleting another user's mission, received: %v", err)
	}

	empty, err := store.FindMissions(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(empty) != 0 {
		t.Errorf("expect no missions for bob, received: %v", len(empty))
	}
}

func TestSQLiteStoreCompleteAndReset(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	user := insertTestUser(t, store, "alice")

	m := CreateDailyMission(user.ID, missions.DailyMissionInput{Title: "Read"})
	if err := store.InsertMission(ctx, m); err != nil {
		t.Fatal(err)
	}

	if err := store.CompleteMission(ctx, user.ID, m.ID, COMPLETE_EXP); err != nil {
		t.Fatal(err)
	}

	if err := store.CompleteMission(ctx, user.ID, m.ID, COMPLETE_EXP); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expect ErrAlreadyCompleted, received: %v", err)
	}

	if err := store.CompleteMission(ctx, user.ID, "missing", COMPLETE_EXP); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect ErrNotFound, received: %v", err)
	}

	exp, err := store.FindExp(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if exp != COMPLETE_EXP {
		t.Errorf("expect %v exp, received: %v", COMPLETE_EXP, exp)
	}

	count, err := store.ResetMissions(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("expect 1 mission reset, received: %v", count)
	}

	found, err := store.FindMission(ctx, user.ID, m.ID)
	if err != nil {
		t.Fatal(err)
	}

	if found.IsComplete {
		t.Error("expect mission to be incomplete after reset")
	}
}

func TestSQLiteStoreDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	user := insertTestUser(t, store, "alice")

	m := CreateDailyMission(user.ID, missions.DailyMissionInput{Title: "Read"})
	if err := store.InsertMission(ctx, m); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := store.FindExp(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect exp row to be deleted, received: %v", err)
	}

	if _, err := store.FindMission(ctx, user.ID, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect mission to be deleted, received: %v", err)
	}

	if err := store.DeleteUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expect ErrNotFound deleting twice, received: %v", err)
	}
}
