package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"gorm.io/datatypes"
)

// Relationship is the per-user record of the friendship graph: confirmed
// friends plus pending requests in both directions, stored as JSONB id
// arrays. A pair of users appears in at most one of the three relations.
type Relationship struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex" json:"owner_id"`
	Friends          datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"friends"`
	IncomingRequests datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"incoming_requests"`
	SentRequests     datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"sent_requests"`
	CreatedAt        time.Time                      `json:"created_at"`
	UpdatedAt        time.Time                      `json:"updated_at"`
}

// NewRelationship returns the empty record created alongside an account.
func NewRelationship(ownerID uuid.UUID) *Relationship {
	return &Relationship{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Friends:          datatypes.JSONSlice[uuid.UUID]{},
		IncomingRequests: datatypes.JSONSlice[uuid.UUID]{},
		SentRequests:     datatypes.JSONSlice[uuid.UUID]{},
	}
}

// PairState is the friendship state of an ordered pair (A,B).
type PairState int

const (
	PairNone PairState = iota
	PairRequestedByA
	PairRequestedByB
	PairFriends
)

// StateOf derives the state of the pair (a.Owner, b.Owner). Friendship
// requires the entry on both sides; a one-sided entry is asymmetry left
// by a partial write and does not count as FRIENDS.
func StateOf(a, b *Relationship) PairState {
	if hasID(a.Friends, b.OwnerID) && hasID(b.Friends, a.OwnerID) {
		return PairFriends
	}
	if hasID(a.SentRequests, b.OwnerID) || hasID(b.IncomingRequests, a.OwnerID) {
		return PairRequestedByA
	}
	if hasID(b.SentRequests, a.OwnerID) || hasID(a.IncomingRequests, b.OwnerID) {
		return PairRequestedByB
	}
	if hasID(a.Friends, b.OwnerID) || hasID(b.Friends, a.OwnerID) {
		// Asymmetric friendship still blocks new requests until repaired.
		return PairFriends
	}
	return PairNone
}

// SendRequest transitions (from, to) from NONE to REQUESTED.
func SendRequest(from, to *Relationship) error {
	if from.OwnerID == to.OwnerID {
		return apperr.InvalidRequest("cannot send a friend request to yourself")
	}
	switch StateOf(from, to) {
	case PairFriends:
		return apperr.InvalidState("already friends with this user")
	case PairRequestedByA:
		return apperr.InvalidState("friend request already sent to this user")
	case PairRequestedByB:
		return apperr.InvalidState("this user has already sent you a friend request")
	}
	from.SentRequests = appendID(from.SentRequests, to.OwnerID)
	to.IncomingRequests = appendID(to.IncomingRequests, from.OwnerID)
	return nil
}

// WithdrawRequest removes a pending request the owner of from sent.
func WithdrawRequest(from, to *Relationship) error {
	if !hasID(from.SentRequests, to.OwnerID) && !hasID(to.IncomingRequests, from.OwnerID) {
		return apperr.NotFound("no pending friend request to this user")
	}
	from.SentRequests = removeID(from.SentRequests, to.OwnerID)
	to.IncomingRequests = removeID(to.IncomingRequests, from.OwnerID)
	return nil
}

// AcceptRequest resolves a pending request from requester into mutual
// friendship. owner is the accepting side.
func AcceptRequest(owner, requester *Relationship) error {
	if !hasID(owner.IncomingRequests, requester.OwnerID) {
		return apperr.NotFound("no pending friend request from this user")
	}
	owner.IncomingRequests = removeID(owner.IncomingRequests, requester.OwnerID)
	requester.SentRequests = removeID(requester.SentRequests, owner.OwnerID)
	owner.Friends = appendID(owner.Friends, requester.OwnerID)
	requester.Friends = appendID(requester.Friends, owner.OwnerID)
	return nil
}

// DeclineRequest resolves a pending request without creating friendship.
func DeclineRequest(owner, requester *Relationship) error {
	if !hasID(owner.IncomingRequests, requester.OwnerID) {
		return apperr.NotFound("no pending friend request from this user")
	}
	owner.IncomingRequests = removeID(owner.IncomingRequests, requester.OwnerID)
	requester.SentRequests = removeID(requester.SentRequests, owner.OwnerID)
	return nil
}

// RemoveFriend removes the mutual friend entries. A one-sided entry is
// accepted and removed from both sides, which also heals asymmetry.
func RemoveFriend(a, b *Relationship) error {
	if !hasID(a.Friends, b.OwnerID) && !hasID(b.Friends, a.OwnerID) {
		return apperr.NotFound("not currently friends with this user")
	}
	a.Friends = removeID(a.Friends, b.OwnerID)
	b.Friends = removeID(b.Friends, a.OwnerID)
	return nil
}

// HasFriend reports a confirmed entry on this side only.
func (r *Relationship) HasFriend(id uuid.UUID) bool {
	return hasID(r.Friends, id)
}

func hasID(s datatypes.JSONSlice[uuid.UUID], id uuid.UUID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func appendID(s datatypes.JSONSlice[uuid.UUID], id uuid.UUID) datatypes.JSONSlice[uuid.UUID] {
	if hasID(s, id) {
		return s
	}
	return append(s, id)
}

func removeID(s datatypes.JSONSlice[uuid.UUID], id uuid.UUID) datatypes.JSONSlice[uuid.UUID] {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
