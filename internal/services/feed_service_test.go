package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/models"
	"gorm.io/datatypes"
)

func postWithLikes(n int, createdAt time.Time) models.Post {
	likes := make(datatypes.JSONSlice[uuid.UUID], n)
	for i := range likes {
		likes[i] = uuid.New()
	}
	return models.Post{ID: uuid.New(), Likes: likes, CreatedAt: createdAt}
}

func TestRankByLikes(t *testing.T) {
	now := time.Now()
	// Incoming order is createdAt descending, like the feed query.
	posts := []models.Post{
		postWithLikes(3, now),
		postWithLikes(1, now.Add(-1*time.Hour)),
		postWithLikes(5, now.Add(-2*time.Hour)),
		postWithLikes(3, now.Add(-3*time.Hour)),
	}

	ranked := rankByLikes(posts, 0)

	wantLikes := []int{5, 3, 3, 1}
	if len(ranked) != len(wantLikes) {
		t.Fatalf("len = %d, want %d", len(ranked), len(wantLikes))
	}
	for i, want := range wantLikes {
		if got := len(ranked[i].Likes); got != want {
			t.Fatalf("ranked[%d] has %d likes, want %d", i, got, want)
		}
	}
	// Ties keep the newest-first input order.
	if !ranked[1].CreatedAt.After(ranked[2].CreatedAt) {
		t.Fatal("tie between equal like counts did not keep recency order")
	}
	// Input slice must not be reordered.
	if len(posts[0].Likes) != 3 || len(posts[2].Likes) != 5 {
		t.Fatal("rankByLikes mutated its input")
	}
}

func TestRankByLikesLimit(t *testing.T) {
	now := time.Now()
	posts := make([]models.Post, 6)
	for i := range posts {
		posts[i] = postWithLikes(i, now.Add(-time.Duration(i)*time.Minute))
	}

	ranked := rankByLikes(posts, 4)
	if len(ranked) != 4 {
		t.Fatalf("len = %d, want 4", len(ranked))
	}
	if got := len(ranked[0].Likes); got != 5 {
		t.Fatalf("top post has %d likes, want 5", got)
	}

	if got := rankByLikes(posts[:2], 4); len(got) != 2 {
		t.Fatalf("limit above input size: len = %d, want 2", len(got))
	}
	if got := rankByLikes(nil, 4); len(got) != 0 {
		t.Fatalf("nil input: len = %d, want 0", len(got))
	}
}
