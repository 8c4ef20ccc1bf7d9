package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

type stubDirectory struct {
	gotFilters map[string]string
	gotPage    domain.Page
	searchErr  error
	users      map[string]*domain.UserView
}

func (d *stubDirectory) SearchUsers(_ context.Context, filters map[string]string, page domain.Page) (*domain.UserPage, error) {
	d.gotFilters = filters
	d.gotPage = page
	if d.searchErr != nil {
		return nil, d.searchErr
	}
	return &domain.UserPage{Page: page.Number, Size: page.Size}, nil
}

func (d *stubDirectory) GetUser(_ context.Context, id string) (*domain.UserView, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func TestAdminHandler_ListUsers_ForwardsFiltersAndPage(t *testing.T) {
	e := newEcho()
	dir := &stubDirectory{}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/users?page=2&size=5&role=STAFF&general=ana", nil), rec)

	if err := call(e, NewAdminHandler(dir).ListUsers, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if dir.gotPage != (domain.Page{Number: 2, Size: 5}) {
		t.Fatalf("unexpected page %+v", dir.gotPage)
	}
	if len(dir.gotFilters) != 2 || dir.gotFilters["role"] != "STAFF" || dir.gotFilters["general"] != "ana" {
		t.Fatalf("unexpected filters %+v", dir.gotFilters)
	}
}

func TestAdminHandler_ListUsers_Defaults(t *testing.T) {
	e := newEcho()
	dir := &stubDirectory{}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/users", nil), httptest.NewRecorder())
	if err := NewAdminHandler(dir).ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if dir.gotPage != (domain.Page{Number: 0, Size: domain.DefaultPageSize}) {
		t.Fatalf("unexpected default page %+v", dir.gotPage)
	}
}

func TestAdminHandler_ListUsers_BadPage(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/users?page=two", nil), rec)

	_ = call(e, NewAdminHandler(&stubDirectory{}).ListUsers, c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminHandler_ListUsers_InvalidFilter(t *testing.T) {
	e := newEcho()
	dir := &stubDirectory{searchErr: domain.ErrInvalidFilterValue}
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/users?role=root", nil), httptest.NewRecorder())

	if err := NewAdminHandler(dir).ListUsers(c); !errors.Is(err, domain.ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
}

func TestAdminHandler_GetUser(t *testing.T) {
	e := newEcho()
	dir := &stubDirectory{users: map[string]*domain.UserView{"42": {ID: "42", Email: "ana@example.com"}}}
	h := NewAdminHandler(dir)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/42", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := call(e, h.GetUser, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/users/admin/7", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.GetUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
