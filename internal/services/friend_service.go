package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/models"
	"github.com/jellup/jellup-backend/internal/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendService owns the friend-request state machine. Every mutation
// touches the two relationship records of the pair; both rows are
// locked and written inside one transaction, in a deterministic order,
// so the graph never acknowledges an asymmetric write.
type FriendService struct {
	db       *gorm.DB
	identity *IdentityService
	notifier notify.Notifier
}

func NewFriendService(db *gorm.DB, identity *IdentityService, notifier notify.Notifier) *FriendService {
	return &FriendService{db: db, identity: identity, notifier: notifier}
}

type friendEvent struct {
	FromID uuid.UUID `json:"from_id"`
	ToID   uuid.UUID `json:"to_id"`
}

// SendRequest sends a friend request from caller to target.
func (s *FriendService) SendRequest(ctx context.Context, callerID, targetID uuid.UUID) error {
	if callerID == targetID {
		return apperr.InvalidRequest("cannot send a friend request to yourself")
	}
	target, err := s.identity.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !target.Active() {
		return apperr.NotFound("user not found")
	}

	err = s.mutatePair(ctx, callerID, targetID, func(caller, other *models.Relationship) error {
		return models.SendRequest(caller, other)
	})
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, notify.KindFriendRequest, friendEvent{FromID: callerID, ToID: targetID})
	return nil
}

// WithdrawRequest withdraws a pending request the caller sent.
func (s *FriendService) WithdrawRequest(ctx context.Context, callerID, targetID uuid.UUID) error {
	return s.mutatePair(ctx, callerID, targetID, func(caller, other *models.Relationship) error {
		return models.WithdrawRequest(caller, other)
	})
}

// AcceptRequest accepts a pending request from requester and returns
// the requester's profile for the confirmation response.
func (s *FriendService) AcceptRequest(ctx context.Context, callerID, requesterID uuid.UUID) (*models.User, error) {
	requester, err := s.identity.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	err = s.mutatePair(ctx, callerID, requesterID, func(caller, other *models.Relationship) error {
		return models.AcceptRequest(caller, other)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Send(ctx, notify.KindFriendAccepted, friendEvent{FromID: callerID, ToID: requesterID})
	return requester, nil
}

// DeclineRequest declines a pending request without creating friendship.
func (s *FriendService) DeclineRequest(ctx context.Context, callerID, requesterID uuid.UUID) error {
	return s.mutatePair(ctx, callerID, requesterID, func(caller, other *models.Relationship) error {
		return models.DeclineRequest(caller, other)
	})
}

// RemoveFriend removes the mutual friendship.
func (s *FriendService) RemoveFriend(ctx context.Context, callerID, friendID uuid.UUID) error {
	return s.mutatePair(ctx, callerID, friendID, func(caller, other *models.Relationship) error {
		return models.RemoveFriend(caller, other)
	})
}

// ListFriends returns the caller's friends, lazily filtered: entries
// whose account is deleted or disabled are dropped from the response
// while the stored set keeps them. Only reciprocal entries count; a
// one-sided entry is a partial-write artifact and is never surfaced.
func (s *FriendService) ListFriends(ctx context.Context, callerID uuid.UUID) ([]models.User, error) {
	rel, err := s.relationship(ctx, callerID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.confirmedFriends(ctx, rel)
	if err != nil {
		return nil, err
	}
	return s.resolveActive(ctx, confirmed)
}

// ListIncomingRequests returns pending requests sent to the caller.
func (s *FriendService) ListIncomingRequests(ctx context.Context, callerID uuid.UUID) ([]models.User, error) {
	rel, err := s.relationship(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.resolveActive(ctx, rel.IncomingRequests)
}

// ListSentRequests returns pending requests the caller has sent.
func (s *FriendService) ListSentRequests(ctx context.Context, callerID uuid.UUID) ([]models.User, error) {
	rel, err := s.relationship(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.resolveActive(ctx, rel.SentRequests)
}

// FriendSet re-derives the caller's confirmed friend ids for visibility
// checks. Derived per request, never cached, and intersected with the
// other side's record so an asymmetric entry grants nothing.
func (s *FriendService) FriendSet(ctx context.Context, callerID uuid.UUID) (map[uuid.UUID]bool, error) {
	rel, err := s.relationship(ctx, callerID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.confirmedFriends(ctx, rel)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(confirmed))
	for _, id := range confirmed {
		set[id] = true
	}
	return set, nil
}

// RepairReport summarizes a reconciliation pass.
type RepairReport struct {
	MirroredFriends int `json:"mirrored_friends"`
	DroppedOrphans  int `json:"dropped_orphans"`
}

// Repair reconciles asymmetry left by partial writes around the given
// owner: a one-sided friends entry gets its mirror completed, a
// one-sided pending entry is dropped, and entries pointing at deleted
// accounts are removed. When a mirror write fails after the owner's row
// was already fixed, the error is a PartialFailure — the caller reruns
// the pass, it never rolls back.
func (s *FriendService) Repair(ctx context.Context, ownerID uuid.UUID) (*RepairReport, error) {
	rel, err := s.relationship(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &RepairReport{}

	for _, friendID := range append([]uuid.UUID{}, rel.Friends...) {
		other, err := s.lookupRelationship(ctx, friendID)
		if err != nil {
			return report, err
		}
		if other == nil {
			rel.Friends = removeFromSlice(rel.Friends, friendID)
			report.DroppedOrphans++
			continue
		}
		if !other.HasFriend(ownerID) {
			other.Friends = append(other.Friends, ownerID)
			if err := s.db.WithContext(ctx).Save(other).Error; err != nil {
				return report, apperr.PartialFailure(
					fmt.Sprintf("friendship mirror for %s not written, rerun repair", friendID), err)
			}
			report.MirroredFriends++
		}
	}

	for _, targetID := range append([]uuid.UUID{}, rel.SentRequests...) {
		other, err := s.lookupRelationship(ctx, targetID)
		if err != nil {
			return report, err
		}
		if other == nil || !containsID(other.IncomingRequests, ownerID) {
			rel.SentRequests = removeFromSlice(rel.SentRequests, targetID)
			report.DroppedOrphans++
		}
	}

	for _, requesterID := range append([]uuid.UUID{}, rel.IncomingRequests...) {
		other, err := s.lookupRelationship(ctx, requesterID)
		if err != nil {
			return report, err
		}
		if other == nil || !containsID(other.SentRequests, ownerID) {
			rel.IncomingRequests = removeFromSlice(rel.IncomingRequests, requesterID)
			report.DroppedOrphans++
		}
	}

	if err := s.db.WithContext(ctx).Save(rel).Error; err != nil {
		return report, apperr.Storage(err)
	}
	return report, nil
}

// CreateRecord creates the empty relationship row for a new account.
func CreateRecord(tx *gorm.DB, ownerID uuid.UUID) error {
	return tx.Create(models.NewRelationship(ownerID)).Error
}

// mutatePair loads both relationship records FOR UPDATE in a fixed lock
// order, applies the transition, and writes both rows or neither.
func (s *FriendService) mutatePair(ctx context.Context, callerID, otherID uuid.UUID, apply func(caller, other *models.Relationship) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		firstID, secondID := callerID, otherID
		if bytes.Compare(otherID[:], callerID[:]) < 0 {
			firstID, secondID = otherID, callerID
		}

		first, err := lockRelationship(tx, firstID)
		if err != nil {
			return err
		}
		second, err := lockRelationship(tx, secondID)
		if err != nil {
			return err
		}

		caller, other := first, second
		if caller.OwnerID != callerID {
			caller, other = second, first
		}

		if err := apply(caller, other); err != nil {
			return err
		}

		if err := tx.Save(caller).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Save(other).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
}

// lockRelationship loads a record with a row lock, creating the empty
// record if the account predates relationship rows.
func lockRelationship(tx *gorm.DB, ownerID uuid.UUID) (*models.Relationship, error) {
	var rel models.Relationship
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rel, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := models.NewRelationship(ownerID)
		if err := tx.Create(fresh).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &rel, nil
}

func (s *FriendService) relationship(ctx context.Context, ownerID uuid.UUID) (*models.Relationship, error) {
	var rel models.Relationship
	err := s.db.WithContext(ctx).First(&rel, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewRelationship(ownerID), nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &rel, nil
}

// lookupRelationship returns nil without error when neither the record
// nor the account exists anymore.
func (s *FriendService) lookupRelationship(ctx context.Context, ownerID uuid.UUID) (*models.Relationship, error) {
	exists, err := s.identity.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	var rel models.Relationship
	err = s.db.WithContext(ctx).First(&rel, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewRelationship(ownerID), nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &rel, nil
}

// confirmedFriends resolves the owner's friends entries against the
// other side's records and keeps only ids with a reciprocal entry.
func (s *FriendService) confirmedFriends(ctx context.Context, rel *models.Relationship) ([]uuid.UUID, error) {
	if len(rel.Friends) == 0 {
		return nil, nil
	}
	var others []models.Relationship
	if err := s.db.WithContext(ctx).
		Where("owner_id IN ?", []uuid.UUID(rel.Friends)).
		Find(&others).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return mutualFriends(rel, others), nil
}

// mutualFriends intersects the owner's friends with the mirror entries,
// preserving the stored order. An id without a record, or whose record
// lacks the mirror entry, is dropped; the stored set is not touched.
func mutualFriends(rel *models.Relationship, others []models.Relationship) []uuid.UUID {
	byOwner := make(map[uuid.UUID]*models.Relationship, len(others))
	for i := range others {
		byOwner[others[i].OwnerID] = &others[i]
	}
	out := make([]uuid.UUID, 0, len(rel.Friends))
	for _, id := range rel.Friends {
		if other, ok := byOwner[id]; ok && other.HasFriend(rel.OwnerID) {
			out = append(out, id)
		}
	}
	return out
}

// resolveActive maps stored ids to users, dropping inactive accounts
// while preserving the stored order.
func (s *FriendService) resolveActive(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	active, err := s.identity.ActiveSet(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderedActive(ids, active), nil
}

// orderedActive keeps the ids present in the active directory, in
// stored order. Dropped entries stay in the stored slice untouched.
func orderedActive(ids []uuid.UUID, active map[uuid.UUID]models.User) []models.User {
	out := make([]models.User, 0, len(active))
	for _, id := range ids {
		if u, ok := active[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func containsID(s []uuid.UUID, id uuid.UUID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func removeFromSlice[T ~[]uuid.UUID](s T, id uuid.UUID) T {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
