package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid request", InvalidRequest("bad input"), KindInvalidRequest},
		{"not found", NotFound("no such user"), KindNotFound},
		{"invalid state", InvalidState("already friends"), KindInvalidState},
		{"unauthorized", Unauthorized("bad credentials"), KindUnauthorized},
		{"forbidden", Forbidden("admins only"), KindForbidden},
		{"partial failure", PartialFailure("mirror write failed", errors.New("boom")), KindPartialFailure},
		{"storage", Storage(errors.New("connection reset")), KindStorage},
		{"wrapped", fmt.Errorf("accepting request: %w", NotFound("gone")), KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidRequest("x"), fiber.StatusBadRequest},
		{NotFound("x"), fiber.StatusNotFound},
		{InvalidState("x"), fiber.StatusConflict},
		{Unauthorized("x"), fiber.StatusUnauthorized},
		{Forbidden("x"), fiber.StatusForbidden},
		{PartialFailure("x", nil), fiber.StatusInternalServerError},
		{Storage(errors.New("x")), fiber.StatusInternalServerError},
		{errors.New("x"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("loading post: %w", NotFound("post not found"))
	if !errors.Is(err, &Error{Kind: KindNotFound}) {
		t.Fatal("errors.Is failed to match by kind through wrapping")
	}
	if errors.Is(err, &Error{Kind: KindForbidden}) {
		t.Fatal("errors.Is matched the wrong kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Storage(cause)
	if !errors.Is(err, cause) {
		t.Fatal("Storage does not unwrap to its cause")
	}
}

func TestPublic(t *testing.T) {
	if Public(Storage(errors.New("internal detail"))) {
		t.Fatal("storage errors must not be public")
	}
	if Public(errors.New("boom")) {
		t.Fatal("unknown errors must not be public")
	}
	if !Public(NotFound("user not found")) {
		t.Fatal("business errors should be public")
	}
}
