package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/authctx"
	"github.com/jellup/jellup-backend/internal/models"
)

func TestAuthorizeViewDisabledPost(t *testing.T) {
	authorID := uuid.New()
	post := &models.Post{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Visibility: models.VisibilityPublic,
		IsDisabled: true,
	}
	s := &PostService{}

	tests := []struct {
		name    string
		caller  authctx.Caller
		wantErr bool
	}{
		{"author", authctx.Caller{ID: authorID, Role: models.RoleUser}, false},
		{"admin", authctx.Caller{ID: uuid.New(), Role: models.RoleAdmin}, false},
		{"other viewer", authctx.Caller{ID: uuid.New(), Role: models.RoleUser}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.authorizeView(context.Background(), tt.caller, post)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("authorizeView: %v", err)
				}
				return
			}
			// Hidden as missing, not revealed as forbidden.
			if apperr.KindOf(err) != apperr.KindNotFound {
				t.Fatalf("kind = %v (err %v), want KindNotFound", apperr.KindOf(err), err)
			}
		})
	}
}
