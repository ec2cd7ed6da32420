package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
)

func pair(t *testing.T) (*Relationship, *Relationship) {
	t.Helper()
	return NewRelationship(uuid.New()), NewRelationship(uuid.New())
}

func TestSendRequest(t *testing.T) {
	a, b := pair(t)

	if err := SendRequest(a, b); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if got := StateOf(a, b); got != PairRequestedByA {
		t.Fatalf("state after send = %v, want PairRequestedByA", got)
	}
	if !hasID(a.SentRequests, b.OwnerID) || !hasID(b.IncomingRequests, a.OwnerID) {
		t.Fatal("request not recorded on both sides")
	}
}

func TestSendRequestToSelf(t *testing.T) {
	a := NewRelationship(uuid.New())
	err := SendRequest(a, a)
	if apperr.KindOf(err) != apperr.KindInvalidRequest {
		t.Fatalf("self request: kind = %v, want KindInvalidRequest", apperr.KindOf(err))
	}
}

func TestSendRequestDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a, b *Relationship)
		// sender and receiver for the attempted duplicate, in terms of (a, b)
		swap bool
	}{
		{
			name:  "repeat in same direction",
			setup: func(a, b *Relationship) { _ = SendRequest(a, b) },
		},
		{
			name:  "reverse while pending",
			setup: func(a, b *Relationship) { _ = SendRequest(b, a) },
		},
		{
			name: "already friends",
			setup: func(a, b *Relationship) {
				_ = SendRequest(a, b)
				_ = AcceptRequest(b, a)
			},
		},
		{
			name: "already friends, reversed",
			setup: func(a, b *Relationship) {
				_ = SendRequest(a, b)
				_ = AcceptRequest(b, a)
			},
			swap: true,
		},
		{
			name: "one-sided friend entry blocks until repaired",
			setup: func(a, b *Relationship) {
				a.Friends = appendID(a.Friends, b.OwnerID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := pair(t)
			tt.setup(a, b)
			from, to := a, b
			if tt.swap {
				from, to = b, a
			}
			err := SendRequest(from, to)
			if apperr.KindOf(err) != apperr.KindInvalidState {
				t.Fatalf("duplicate send: kind = %v, want KindInvalidState (err %v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestAcceptRequest(t *testing.T) {
	a, b := pair(t)
	if err := SendRequest(a, b); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := AcceptRequest(b, a); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if got := StateOf(a, b); got != PairFriends {
		t.Fatalf("state after accept = %v, want PairFriends", got)
	}
	// Friendship is symmetric and all pending entries are consumed.
	if !a.HasFriend(b.OwnerID) || !b.HasFriend(a.OwnerID) {
		t.Fatal("friendship not recorded on both sides")
	}
	if len(a.SentRequests) != 0 || len(b.IncomingRequests) != 0 {
		t.Fatal("pending request entries not cleared")
	}
}

func TestAcceptWithoutRequest(t *testing.T) {
	a, b := pair(t)
	err := AcceptRequest(b, a)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("accept with nothing pending: kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestDeclineThenResend(t *testing.T) {
	a, b := pair(t)
	if err := SendRequest(a, b); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := DeclineRequest(b, a); err != nil {
		t.Fatalf("DeclineRequest: %v", err)
	}
	if got := StateOf(a, b); got != PairNone {
		t.Fatalf("state after decline = %v, want PairNone", got)
	}
	// Declining leaves no residue: the same request can be sent again.
	if err := SendRequest(a, b); err != nil {
		t.Fatalf("resend after decline: %v", err)
	}
}

func TestWithdrawRequest(t *testing.T) {
	a, b := pair(t)
	if err := SendRequest(a, b); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := WithdrawRequest(a, b); err != nil {
		t.Fatalf("WithdrawRequest: %v", err)
	}
	if got := StateOf(a, b); got != PairNone {
		t.Fatalf("state after withdraw = %v, want PairNone", got)
	}

	err := WithdrawRequest(a, b)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("withdraw with nothing pending: kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestRemoveFriend(t *testing.T) {
	a, b := pair(t)
	_ = SendRequest(a, b)
	_ = AcceptRequest(b, a)

	if err := RemoveFriend(a, b); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}
	if got := StateOf(a, b); got != PairNone {
		t.Fatalf("state after remove = %v, want PairNone", got)
	}

	err := RemoveFriend(a, b)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("remove non-friend: kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestRemoveFriendHealsAsymmetry(t *testing.T) {
	a, b := pair(t)
	// Simulate a partial write: only one side carries the entry.
	a.Friends = appendID(a.Friends, b.OwnerID)

	if err := RemoveFriend(b, a); err != nil {
		t.Fatalf("RemoveFriend on one-sided entry: %v", err)
	}
	if len(a.Friends) != 0 || len(b.Friends) != 0 {
		t.Fatal("asymmetric entry not cleared from both sides")
	}
}

func TestStateOfErrorsAreAppErrors(t *testing.T) {
	a, b := pair(t)
	err := AcceptRequest(b, a)
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("transition error %T does not unwrap to *apperr.Error", err)
	}
}

func TestAppendIDIdempotent(t *testing.T) {
	id := uuid.New()
	s := appendID(nil, id)
	s = appendID(s, id)
	if len(s) != 1 {
		t.Fatalf("len = %d, want 1", len(s))
	}
}
