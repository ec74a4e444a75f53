package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domain "backoffice-review/internal/domain/application"
	"backoffice-review/internal/testutil/applicationmock"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// newCtx builds a context with the route params filled in.
func newCtx(e *echo.Echo, method, target string, body io.Reader, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad error json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

// memApps is a map-backed application table honouring version checks.
type memApps struct {
	mu   sync.Mutex
	rows map[string]domain.Application
}

func newMemApps(apps ...domain.Application) *memApps {
	m := &memApps{rows: map[string]domain.Application{}}
	for _, a := range apps {
		m.rows[a.ID] = a
	}
	return m
}

func (m *memApps) row(id string) domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memApps) repo() *applicationmock.Repo {
	get := func(_ context.Context, kind domain.Kind, id string) (*domain.Application, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		a, ok := m.rows[id]
		if !ok || a.Kind != kind {
			return nil, domain.ErrNotFound
		}
		a.AdminNotes = append(domain.AdminNotes(nil), a.AdminNotes...)
		return &a, nil
	}
	return &applicationmock.Repo{
		CreateFn: func(_ context.Context, a *domain.Application) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			a.CreatedAt = time.Now().UTC()
			a.UpdatedAt = a.CreatedAt
			m.rows[a.ID] = *a
			return nil
		},
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		ListFn: func(_ context.Context, kind domain.Kind, f domain.ListFilter) ([]domain.Application, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var out []domain.Application
			for _, a := range m.rows {
				if a.Kind == kind && (f.Status == "" || a.Status == f.Status) {
					out = append(out, a)
				}
			}
			return out, nil
		},
		UpdateFieldsFn: func(_ context.Context, _ domain.Kind, id string, f domain.Fields) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			a, ok := m.rows[id]
			if !ok {
				return domain.ErrNotFound
			}
			if f.OrganizationName != nil {
				a.OrganizationName = strings.TrimSpace(*f.OrganizationName)
			}
			if f.Phone != nil {
				a.Phone = strings.TrimSpace(*f.Phone)
			}
			a.Version++
			m.rows[id] = a
			return nil
		},
		UpdateProgressFn: func(_ context.Context, _ domain.Kind, id string, u domain.ProgressUpdate) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			a, ok := m.rows[id]
			if !ok {
				return domain.ErrNotFound
			}
			if u.Status != nil {
				a.Status = *u.Status
			}
			if u.Notes != nil {
				a.AdminNotes = u.Notes
			}
			if u.Checklist != nil {
				a.VerificationChecklist = u.Checklist
			}
			a.Version++
			m.rows[id] = a
			return nil
		},
		UpdateDecisionFn: func(_ context.Context, _ domain.Kind, id string, version int64, status domain.Status, notes domain.AdminNotes) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			a, ok := m.rows[id]
			if !ok || a.Version != version || a.Status.IsTerminal() {
				return domain.ErrConcurrentUpdate
			}
			a.Status, a.AdminNotes = status, notes
			a.Version++
			m.rows[id] = a
			return nil
		},
	}
}
