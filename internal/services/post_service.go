package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/authctx"
	"github.com/jellup/jellup-backend/internal/models"
	"github.com/jellup/jellup-backend/internal/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostService owns the post lifecycle and the like/comment sub-entities.
type PostService struct {
	db       *gorm.DB
	friends  *FriendService
	identity *IdentityService
	notifier notify.Notifier
}

func NewPostService(db *gorm.DB, friends *FriendService, identity *IdentityService, notifier notify.Notifier) *PostService {
	return &PostService{db: db, friends: friends, identity: identity, notifier: notifier}
}

type postEvent struct {
	PostID   uuid.UUID `json:"post_id"`
	AuthorID uuid.UUID `json:"author_id"`
	ActorID  uuid.UUID `json:"actor_id"`
}

// CreatePost creates a post; at least one of media and caption is
// required, visibility defaults to public.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, mediaURL, caption string, visibility models.Visibility) (*models.Post, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	caption = strings.TrimSpace(caption)
	if mediaURL == "" && caption == "" {
		return nil, apperr.InvalidRequest("post needs a media url or a caption")
	}
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, apperr.InvalidRequest("visibility must be public or private")
	}

	post := &models.Post{
		ID:         uuid.New(),
		AuthorID:   authorID,
		MediaURL:   mediaURL,
		Caption:    caption,
		Visibility: visibility,
		Likes:      nil,
		Comments:   nil,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return post, nil
}

// GetPost fetches one post by id. Visibility applies to direct lookup
// too; a disabled post stays fetchable by id only for its author and
// admins. Likes and comments are filtered before returning.
func (s *PostService) GetPost(ctx context.Context, caller authctx.Caller, postID uuid.UUID) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, caller, post); err != nil {
		return nil, err
	}
	if err := s.filterInteractions(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePostInput carries optional field updates; nil leaves a field as is.
type UpdatePostInput struct {
	MediaURL   *string
	Caption    *string
	Visibility *models.Visibility
}

// UpdatePost applies author edits. Only the author (or an admin) may edit.
func (s *PostService) UpdatePost(ctx context.Context, caller authctx.Caller, postID uuid.UUID, in UpdatePostInput) (*models.Post, error) {
	var updated *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != caller.ID && !caller.Admin() {
			return apperr.Forbidden("only the author can edit this post")
		}

		if in.MediaURL != nil {
			post.MediaURL = strings.TrimSpace(*in.MediaURL)
		}
		if in.Caption != nil {
			post.Caption = strings.TrimSpace(*in.Caption)
		}
		if in.Visibility != nil {
			if !in.Visibility.Valid() {
				return apperr.InvalidRequest("visibility must be public or private")
			}
			post.Visibility = *in.Visibility
		}
		if post.MediaURL == "" && post.Caption == "" {
			return apperr.InvalidRequest("post needs a media url or a caption")
		}

		if err := tx.Save(post).Error; err != nil {
			return apperr.Storage(err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost removes a post permanently; author or admin only.
func (s *PostService) DeletePost(ctx context.Context, caller authctx.Caller, postID uuid.UUID) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.ID && !caller.Admin() {
		return apperr.Forbidden("only the author can delete this post")
	}
	if err := s.db.WithContext(ctx).Delete(post).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ToggleLike flips the caller's like under a row lock so concurrent
// toggles by the same user cannot duplicate or lose it. Reports whether
// the like was added and the resulting count.
func (s *PostService) ToggleLike(ctx context.Context, caller authctx.Caller, postID uuid.UUID) (added bool, count int, err error) {
	var authorID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}
		if err := s.authorizeView(ctx, caller, post); err != nil {
			return err
		}
		if post.IsDisabled && !caller.Admin() {
			return apperr.InvalidState("post is disabled")
		}

		added = post.ToggleLike(caller.ID)
		count = len(post.Likes)
		authorID = post.AuthorID
		if err := tx.Save(post).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	if added && authorID != caller.ID {
		s.notifier.Send(ctx, notify.KindPostLiked, postEvent{PostID: postID, AuthorID: authorID, ActorID: caller.ID})
	}
	return added, count, nil
}

// AddComment appends a comment; insertion order is kept by writing
// under the same row lock as likes.
func (s *PostService) AddComment(ctx context.Context, caller authctx.Caller, postID uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.InvalidRequest("comment text is required")
	}

	var comment models.Comment
	var authorID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}
		if err := s.authorizeView(ctx, caller, post); err != nil {
			return err
		}
		if post.IsDisabled && !caller.Admin() {
			return apperr.InvalidState("post is disabled")
		}

		comment = post.AddComment(caller.ID, text, time.Now().UTC())
		authorID = post.AuthorID
		if err := tx.Save(post).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if authorID != caller.ID {
		s.notifier.Send(ctx, notify.KindPostCommented, postEvent{PostID: postID, AuthorID: authorID, ActorID: caller.ID})
	}
	return &comment, nil
}

// UpdateComment edits a comment's text. Restricted to the comment
// author, the post author, or an admin.
func (s *PostService) UpdateComment(ctx context.Context, caller authctx.Caller, postID, commentID uuid.UUID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.InvalidRequest("comment text is required")
	}

	var updated *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}
		comment, i := post.FindComment(commentID)
		if i < 0 {
			return apperr.NotFound("comment not found")
		}
		if err := authorizeCommentMutation(caller, post, comment); err != nil {
			return err
		}

		post.Comments[i].Text = text
		if err := tx.Save(post).Error; err != nil {
			return apperr.Storage(err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveComment deletes a single comment; same ownership rule as edit.
func (s *PostService) RemoveComment(ctx context.Context, caller authctx.Caller, postID, commentID uuid.UUID) (*models.Post, error) {
	var updated *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, postID)
		if err != nil {
			return err
		}
		comment, i := post.FindComment(commentID)
		if i < 0 {
			return apperr.NotFound("comment not found")
		}
		if err := authorizeCommentMutation(caller, post, comment); err != nil {
			return err
		}

		post.RemoveCommentAt(i)
		if err := tx.Save(post).Error; err != nil {
			return apperr.Storage(err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetDisabled flips the moderation flag. Admin only (enforced by the
// route); disabled posts drop out of all feeds but keep their row.
func (s *PostService) SetDisabled(ctx context.Context, postID uuid.UUID, disabled bool) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.IsDisabled = disabled
	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return post, nil
}

func (s *PostService) load(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		return nil, notFoundOr(err, "post not found")
	}
	return &post, nil
}

func lockPost(tx *gorm.DB, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, "id = ?", postID).Error
	if err != nil {
		return nil, notFoundOr(err, "post not found")
	}
	return &post, nil
}

// authorizeView enforces the visibility rule on direct access: the
// friend set is re-derived here, never read from a cached flag. A
// disabled post is invisible to everyone but its author and admins,
// even by direct id.
func (s *PostService) authorizeView(ctx context.Context, caller authctx.Caller, post *models.Post) error {
	if caller.Admin() || post.AuthorID == caller.ID {
		return nil
	}
	if post.IsDisabled {
		return apperr.NotFound("post not found")
	}
	if post.Visibility == models.VisibilityPublic {
		return nil
	}
	friends, err := s.friends.FriendSet(ctx, caller.ID)
	if err != nil {
		return err
	}
	if !friends[post.AuthorID] {
		return apperr.NotFound("post not found")
	}
	return nil
}

func authorizeCommentMutation(caller authctx.Caller, post *models.Post, comment models.Comment) error {
	if caller.Admin() || comment.AuthorID == caller.ID || post.AuthorID == caller.ID {
		return nil
	}
	return apperr.Forbidden("only the comment author or the post author can modify this comment")
}

func (s *PostService) filterInteractions(ctx context.Context, post *models.Post) error {
	refs := make([]uuid.UUID, 0, len(post.Likes)+len(post.Comments))
	refs = append(refs, post.Likes...)
	for _, c := range post.Comments {
		refs = append(refs, c.AuthorID)
	}
	active, err := s.identity.ActiveSet(ctx, refs)
	if err != nil {
		return err
	}
	post.FilterInactive(func(id uuid.UUID) bool {
		_, ok := active[id]
		return ok
	})
	return nil
}
