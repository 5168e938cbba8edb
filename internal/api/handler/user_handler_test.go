package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/99minutos/auth-service/internal/core/domain"
)

type stubUserDetails struct {
	principals map[string]*domain.Principal
}

func (s *stubUserDetails) LoadUserByUsername(_ context.Context, username string) (*domain.Principal, error) {
	p, ok := s.principals[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return p, nil
}

func TestUserHandler_Get(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserDetails{principals: map[string]*domain.Principal{
		"alice": {Username: "alice", PasswordHash: "secret-hash", Authorities: []string{"ROLE_ADMIN"}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["username"] != "alice" || resp["disabled"] != false {
		t.Fatalf("unexpected payload: %v", resp)
	}
	if _, leaked := resp["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserDetails{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
