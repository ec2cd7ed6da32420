package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestToggleLike(t *testing.T) {
	p := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	user := uuid.New()

	if added := p.ToggleLike(user); !added {
		t.Fatal("first toggle should add the like")
	}
	if !p.LikedBy(user) || len(p.Likes) != 1 {
		t.Fatalf("likes = %v after add", p.Likes)
	}

	if added := p.ToggleLike(user); added {
		t.Fatal("second toggle should remove the like")
	}
	if p.LikedBy(user) || len(p.Likes) != 0 {
		t.Fatalf("likes = %v after remove", p.Likes)
	}
}

func TestToggleLikeIndependentUsers(t *testing.T) {
	p := &Post{ID: uuid.New()}
	u1, u2 := uuid.New(), uuid.New()
	p.ToggleLike(u1)
	p.ToggleLike(u2)
	p.ToggleLike(u1)
	if p.LikedBy(u1) {
		t.Fatal("u1's like should be removed")
	}
	if !p.LikedBy(u2) {
		t.Fatal("u2's like should survive u1's toggles")
	}
}

func TestComments(t *testing.T) {
	p := &Post{ID: uuid.New()}
	author := uuid.New()
	now := time.Now()

	first := p.AddComment(author, "first", now)
	second := p.AddComment(author, "second", now.Add(time.Second))

	if len(p.Comments) != 2 || p.Comments[0].ID != first.ID || p.Comments[1].ID != second.ID {
		t.Fatal("comments not kept in insertion order")
	}

	if _, i := p.FindComment(uuid.New()); i != -1 {
		t.Fatalf("FindComment on unknown id returned index %d", i)
	}
	got, i := p.FindComment(first.ID)
	if i != 0 || got.Text != "first" {
		t.Fatalf("FindComment = (%v, %d)", got, i)
	}

	p.RemoveCommentAt(i)
	if len(p.Comments) != 1 || p.Comments[0].ID != second.ID {
		t.Fatalf("comments after removal = %v", p.Comments)
	}
}

func TestVisibleTo(t *testing.T) {
	author := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()
	friends := map[uuid.UUID]bool{author: true}

	tests := []struct {
		name    string
		post    Post
		viewer  uuid.UUID
		friends map[uuid.UUID]bool
		want    bool
	}{
		{"public to stranger", Post{AuthorID: author, Visibility: VisibilityPublic}, stranger, nil, true},
		{"private to stranger", Post{AuthorID: author, Visibility: VisibilityPrivate}, stranger, nil, false},
		{"private to friend", Post{AuthorID: author, Visibility: VisibilityPrivate}, friend, friends, true},
		{"private to author", Post{AuthorID: author, Visibility: VisibilityPrivate}, author, nil, true},
		{"disabled public", Post{AuthorID: author, Visibility: VisibilityPublic, IsDisabled: true}, stranger, nil, false},
		{"disabled to author", Post{AuthorID: author, Visibility: VisibilityPublic, IsDisabled: true}, author, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.VisibleTo(tt.viewer, tt.friends); got != tt.want {
				t.Fatalf("VisibleTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterInactive(t *testing.T) {
	alive := uuid.New()
	gone := uuid.New()
	p := &Post{ID: uuid.New()}
	p.ToggleLike(alive)
	p.ToggleLike(gone)
	p.AddComment(alive, "still here", time.Now())
	p.AddComment(gone, "vanished", time.Now())

	p.FilterInactive(func(id uuid.UUID) bool { return id == alive })

	if len(p.Likes) != 1 || p.Likes[0] != alive {
		t.Fatalf("likes after filter = %v", p.Likes)
	}
	if len(p.Comments) != 1 || p.Comments[0].AuthorID != alive {
		t.Fatalf("comments after filter = %v", p.Comments)
	}
}

func TestVisibilityValid(t *testing.T) {
	if !VisibilityPublic.Valid() || !VisibilityPrivate.Valid() {
		t.Fatal("known visibilities should be valid")
	}
	if Visibility("friends-only").Valid() {
		t.Fatal("unknown visibility should be invalid")
	}
}
