package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Comment is embedded in the post record; insertion order is preserved.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID         uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   uuid.UUID                      `gorm:"type:uuid;not null;index" json:"author_id"`
	MediaURL   string                         `gorm:"size:2048" json:"media_url"`
	Caption    string                         `gorm:"size:2200" json:"caption"`
	Visibility Visibility                     `gorm:"size:10;not null;default:'public'" json:"visibility"`
	IsDisabled bool                           `gorm:"not null;default:false" json:"is_disabled"`
	Likes      datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"likes"`
	Comments   datatypes.JSONSlice[Comment]   `gorm:"type:jsonb" json:"comments"`
	CreatedAt  time.Time                      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time                      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt                 `gorm:"index" json:"-"`
}

// ToggleLike flips the caller's like and reports whether it was added.
// At most one like per user holds before and after.
func (p *Post) ToggleLike(userID uuid.UUID) bool {
	if hasID(p.Likes, userID) {
		p.Likes = removeID(p.Likes, userID)
		return false
	}
	p.Likes = appendID(p.Likes, userID)
	return true
}

func (p *Post) LikedBy(userID uuid.UUID) bool {
	return hasID(p.Likes, userID)
}

// AddComment appends a comment with a fresh id, preserving order.
func (p *Post) AddComment(authorID uuid.UUID, text string, now time.Time) Comment {
	c := Comment{ID: uuid.New(), AuthorID: authorID, Text: text, CreatedAt: now}
	p.Comments = append(p.Comments, c)
	return c
}

// FindComment returns the comment and its index, or index -1.
func (p *Post) FindComment(commentID uuid.UUID) (Comment, int) {
	for i, c := range p.Comments {
		if c.ID == commentID {
			return c, i
		}
	}
	return Comment{}, -1
}

func (p *Post) RemoveCommentAt(i int) {
	p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
}

// VisibleTo applies the feed visibility rule: not disabled, and public
// or authored by the viewer or one of the viewer's friends. The friend
// set must be derived at request time by the caller.
func (p *Post) VisibleTo(viewerID uuid.UUID, friends map[uuid.UUID]bool) bool {
	if p.IsDisabled {
		return false
	}
	if p.Visibility == VisibilityPublic {
		return true
	}
	return p.AuthorID == viewerID || friends[p.AuthorID]
}

// FilterInactive drops likes and comments referencing users for which
// active returns false. It mutates only the in-memory copy handed to the
// response; the stored record keeps its entries.
func (p *Post) FilterInactive(active func(uuid.UUID) bool) {
	likes := make(datatypes.JSONSlice[uuid.UUID], 0, len(p.Likes))
	for _, id := range p.Likes {
		if active(id) {
			likes = append(likes, id)
		}
	}
	p.Likes = likes

	comments := make(datatypes.JSONSlice[Comment], 0, len(p.Comments))
	for _, c := range p.Comments {
		if active(c.AuthorID) {
			comments = append(comments, c)
		}
	}
	p.Comments = comments
}
