package services

import (
	"errors"
	"testing"

	"github.com/jellup/jellup-backend/internal/apperr"
	"gorm.io/gorm"
)

func TestNotFoundOr(t *testing.T) {
	if kind := apperr.KindOf(notFoundOr(gorm.ErrRecordNotFound, "account no longer exists")); kind != apperr.KindNotFound {
		t.Fatalf("missing row: kind = %v, want KindNotFound", kind)
	}
	if kind := apperr.KindOf(notFoundOr(errors.New("dial tcp: refused"), "account no longer exists")); kind != apperr.KindStorage {
		t.Fatalf("storage fault: kind = %v, want KindStorage", kind)
	}
}
