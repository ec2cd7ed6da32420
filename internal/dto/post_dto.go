package dto

import "github.com/jellup/jellup-backend/internal/models"

type CreatePostRequest struct {
	MediaURL   string            `json:"media_url"`
	Caption    string            `json:"caption"`
	Visibility models.Visibility `json:"visibility"`
}

type UpdatePostRequest struct {
	MediaURL   *string            `json:"media_url"`
	Caption    *string            `json:"caption"`
	Visibility *models.Visibility `json:"visibility"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type LikeResponse struct {
	Status    string `json:"status"` // "added" or "removed"
	LikeCount int    `json:"like_count"`
}
