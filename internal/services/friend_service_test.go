package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/models"
)

func TestMutualFriends(t *testing.T) {
	owner := models.NewRelationship(uuid.New())
	mutual := models.NewRelationship(uuid.New())
	oneSided := models.NewRelationship(uuid.New())
	orphan := uuid.New()

	owner.Friends = append(owner.Friends, mutual.OwnerID, oneSided.OwnerID, orphan)
	mutual.Friends = append(mutual.Friends, owner.OwnerID)
	// oneSided has no mirror entry; orphan has no record at all.

	got := mutualFriends(owner, []models.Relationship{*mutual, *oneSided})

	if len(got) != 1 || got[0] != mutual.OwnerID {
		t.Fatalf("mutualFriends = %v, want only %v", got, mutual.OwnerID)
	}
	// The stored set keeps its entries; only the read result shrinks.
	if len(owner.Friends) != 3 {
		t.Fatalf("stored friends = %v, want 3 entries untouched", owner.Friends)
	}
}

func TestMutualFriendsEmpty(t *testing.T) {
	owner := models.NewRelationship(uuid.New())
	if got := mutualFriends(owner, nil); len(got) != 0 {
		t.Fatalf("mutualFriends on empty record = %v", got)
	}
}

func TestOrderedActive(t *testing.T) {
	first := uuid.New()
	disabled := uuid.New()
	second := uuid.New()
	ids := []uuid.UUID{first, disabled, second}
	directory := map[uuid.UUID]models.User{
		first:  {ID: first, Username: "ada"},
		second: {ID: second, Username: "brian"},
	}

	users := orderedActive(ids, directory)

	if len(users) != 2 || users[0].ID != first || users[1].ID != second {
		t.Fatalf("orderedActive = %v, want [ada brian] in stored order", users)
	}
	if len(ids) != 3 {
		t.Fatalf("stored ids = %v, want the dropped entry kept", ids)
	}
}
