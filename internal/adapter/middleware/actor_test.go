package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice-review/internal/domain/profile"
	"backoffice-review/internal/testutil/profilemock"

	"github.com/labstack/echo/v4"
)

func setupActorEcho(repo profile.Repository) *echo.Echo {
	e := echo.New()
	e.Use(Actor(repo))
	e.GET("/admin/ping", func(c echo.Context) error {
		p := ActorFrom(c)
		return c.String(http.StatusOK, p.DisplayName())
	})
	return e
}

func TestActor(t *testing.T) {
	admin := "11111111-2222-4333-8444-555555555555"
	user := "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
	broken := "99999999-9999-4999-8999-999999999999"
	repo := &profilemock.Repo{GetByIDFn: func(_ context.Context, profileID string) (*profile.Profile, error) {
		switch profileID {
		case admin:
			return &profile.Profile{ID: admin, FirstName: "Jane", LastName: "Doe", Role: profile.RoleSuperAdmin}, nil
		case user:
			return &profile.Profile{ID: user, Role: profile.RoleEducator}, nil
		case broken:
			return nil, errors.New("connection reset")
		}
		return nil, profile.ErrNotFound
	}}
	e := setupActorEcho(repo)

	cases := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{"reviewer", admin, http.StatusOK, "Jane Doe"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"not a uuid", "jane", http.StatusUnauthorized, ""},
		{"unknown", "00000000-0000-4000-8000-000000000000", http.StatusUnauthorized, ""},
		{"wrong role", user, http.StatusForbidden, ""},
		{"lookup error", broken, http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if tc.header != "" {
			req.Header.Set(HeaderActorID, tc.header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s: body = %q, want %q", tc.name, rec.Body.String(), tc.body)
		}
	}
}

func TestActorFrom_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if ActorFrom(c) != nil {
		t.Fatalf("expected nil actor on a bare context")
	}
}
