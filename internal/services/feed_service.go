package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/authctx"
	"github.com/jellup/jellup-backend/internal/models"
	"gorm.io/gorm"
)

// FeedService assembles the filtered, ranked post set for a viewer. It
// owns no state of its own: every call re-derives the viewer's friend
// set and re-checks disabled/deleted status through the identity
// directory, because friendships and moderation change independently
// of posts.
type FeedService struct {
	db       *gorm.DB
	friends  *FriendService
	identity *IdentityService

	trendingWindow time.Duration
	trendingLimit  int
}

func NewFeedService(db *gorm.DB, friends *FriendService, identity *IdentityService, trendingWindow time.Duration, trendingLimit int) *FeedService {
	return &FeedService{
		db:             db,
		friends:        friends,
		identity:       identity,
		trendingWindow: trendingWindow,
		trendingLimit:  trendingLimit,
	}
}

// ListFeed returns the posts visible to the viewer, newest first:
// not disabled, and public or authored by the viewer or a friend.
// Admins see everything, disabled posts included.
func (s *FeedService) ListFeed(ctx context.Context, caller authctx.Caller) ([]models.Post, error) {
	return s.assemble(ctx, caller, uuid.Nil, time.Time{})
}

// ListUserPosts is ListFeed scoped to a single author. An admin viewer
// bypasses the visibility rule and sees disabled posts.
func (s *FeedService) ListUserPosts(ctx context.Context, caller authctx.Caller, targetID uuid.UUID) ([]models.Post, error) {
	if _, err := s.identity.FindByID(ctx, targetID); err != nil {
		return nil, err
	}
	return s.assemble(ctx, caller, targetID, time.Time{})
}

// Trending ranks the viewer's visible posts from the trending window by
// like count (counted after interaction filtering), ties broken by
// recency, capped at the configured limit.
func (s *FeedService) Trending(ctx context.Context, caller authctx.Caller) ([]models.Post, error) {
	since := time.Now().Add(-s.trendingWindow)
	posts, err := s.assemble(ctx, caller, uuid.Nil, since)
	if err != nil {
		return nil, err
	}
	return rankByLikes(posts, s.trendingLimit), nil
}

// assemble runs the shared pipeline: candidate query, author liveness
// filter, visibility filter, interaction filter.
func (s *FeedService) assemble(ctx context.Context, caller authctx.Caller, authorID uuid.UUID, since time.Time) ([]models.Post, error) {
	query := s.db.WithContext(ctx).Model(&models.Post{}).Order("created_at DESC")
	if authorID != uuid.Nil {
		query = query.Where("author_id = ?", authorID)
	}
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if !caller.Admin() {
		query = query.Where("is_disabled = false")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	friends := map[uuid.UUID]bool{}
	if !caller.Admin() {
		var err error
		friends, err = s.friends.FriendSet(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
	}

	// One directory lookup covers authors and every like/comment ref.
	refs := make([]uuid.UUID, 0, len(posts))
	for i := range posts {
		refs = append(refs, posts[i].AuthorID)
		refs = append(refs, posts[i].Likes...)
		for _, c := range posts[i].Comments {
			refs = append(refs, c.AuthorID)
		}
	}
	active, err := s.identity.ActiveSet(ctx, refs)
	if err != nil {
		return nil, err
	}
	isActive := func(id uuid.UUID) bool {
		_, ok := active[id]
		return ok
	}

	out := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if !caller.Admin() {
			if !isActive(post.AuthorID) && post.AuthorID != caller.ID {
				continue
			}
			if !post.VisibleTo(caller.ID, friends) {
				continue
			}
		}
		post.FilterInactive(isActive)
		out = append(out, post)
	}
	return out, nil
}

// rankByLikes orders by descending like count; ties keep the incoming
// createdAt-descending order. Stable sort preserves that tiebreak.
func rankByLikes(posts []models.Post, limit int) []models.Post {
	ranked := make([]models.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Likes) > len(ranked[j].Likes)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
