package policy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMatch_FirstMatchWins(t *testing.T) {
	// GET /job-offers/5 is public even though PUT on the same path is
	// restricted to companies.
	rule := Match(Table, http.MethodGet, "/job-offers/5")
	require.NotNil(t, rule)
	assert.Equal(t, Public, rule.Requirement)

	rule = Match(Table, http.MethodPut, "/job-offers/5")
	require.NotNil(t, rule)
	assert.Equal(t, Roles, rule.Requirement)
	assert.Equal(t, []models.Role{models.RoleCompany}, rule.AllowedRoles)
}

func TestMatch_PrefixPattern(t *testing.T) {
	// "/auth/**" matches the base, a child and a grandchild for any verb.
	for _, path := range []string{"/auth", "/auth/login", "/auth/login/extra"} {
		rule := Match(Table, http.MethodPost, path)
		require.NotNil(t, rule, path)
		assert.Equal(t, Public, rule.Requirement, path)
	}

	// "/applications" is exact: a child path falls to the later rules.
	rule := Match(Table, http.MethodPost, "/applications")
	require.NotNil(t, rule)
	assert.Equal(t, []models.Role{models.RoleStudent}, rule.AllowedRoles)

	assert.Nil(t, Match(Table, http.MethodPost, "/applications/7"))
}

func TestMatch_NoRule(t *testing.T) {
	assert.Nil(t, Match(Table, http.MethodGet, "/nothing-here"))
	assert.Nil(t, Match(Table, http.MethodGet, "/applications/7"))
}

func TestTable_Decisions(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		authed bool
		want   bool
	}{
		{"anonymous login", http.MethodPost, "/auth/login", "", false, true},
		{"anonymous lists offers", http.MethodGet, "/job-offers", "", false, true},
		{"anonymous reads student", http.MethodGet, "/students/3", "", false, true},
		{"anonymous company signup", http.MethodPost, "/companies", "", false, true},
		{"anonymous student signup", http.MethodPost, "/students", "", false, true},

		{"anonymous creates area", http.MethodPost, "/areas", "", false, false},
		{"student creates area", http.MethodPost, "/areas", models.RoleStudent, true, false},
		{"admin creates area", http.MethodPost, "/areas", models.RoleAdmin, true, true},
		{"admin updates area", http.MethodPut, "/areas/2", models.RoleAdmin, true, true},
		{"company deletes area", http.MethodDelete, "/areas/2", models.RoleCompany, true, false},

		{"company updates company", http.MethodPut, "/companies/4", models.RoleCompany, true, true},
		{"student updates company", http.MethodPut, "/companies/4", models.RoleStudent, true, false},
		{"company deletes company", http.MethodDelete, "/companies/4", models.RoleCompany, true, false},
		{"admin deletes company", http.MethodDelete, "/companies/4", models.RoleAdmin, true, true},

		{"student updates student", http.MethodPut, "/students/3", models.RoleStudent, true, true},
		{"admin updates student", http.MethodPut, "/students/3", models.RoleAdmin, true, true},
		{"anonymous updates student", http.MethodPut, "/students/3", "", false, false},
		{"student deletes student", http.MethodDelete, "/students/3", models.RoleStudent, true, false},

		{"company posts offer", http.MethodPost, "/job-offers", models.RoleCompany, true, true},
		{"student posts offer", http.MethodPost, "/job-offers", models.RoleStudent, true, false},
		{"company closes offer", http.MethodPatch, "/job-offers/9/encerrar", models.RoleCompany, true, true},
		{"admin closes offer", http.MethodPatch, "/job-offers/9/encerrar", models.RoleAdmin, true, false},
		{"admin deletes offer", http.MethodDelete, "/job-offers/9", models.RoleAdmin, true, true},

		{"admin lists applications", http.MethodGet, "/applications", models.RoleAdmin, true, true},
		{"student lists applications", http.MethodGet, "/applications", models.RoleStudent, true, false},
		{"student lists own applications", http.MethodGet, "/applications/student/3", models.RoleStudent, true, true},
		{"company lists student applications", http.MethodGet, "/applications/student/3", models.RoleCompany, true, false},
		{"company lists offer applications", http.MethodGet, "/applications/job-offer/9", models.RoleCompany, true, true},
		{"student applies", http.MethodPost, "/applications", models.RoleStudent, true, true},
		{"company applies", http.MethodPost, "/applications", models.RoleCompany, true, false},
		{"company reviews application", http.MethodPatch, "/applications/7/status", models.RoleCompany, true, true},
		{"admin reviews application", http.MethodPatch, "/applications/7/status", models.RoleAdmin, true, false},
		{"student withdraws", http.MethodDelete, "/applications/7", models.RoleStudent, true, true},
		{"company withdraws", http.MethodDelete, "/applications/7", models.RoleCompany, true, false},

		// Unmatched routes default to any valid token.
		{"anonymous reads application", http.MethodGet, "/applications/7", "", false, false},
		{"student reads application", http.MethodGet, "/applications/7", models.RoleStudent, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Match(Table, tt.method, tt.path)
			if rule == nil {
				rule = &Rule{Requirement: AuthenticatedAny}
			}
			assert.Equal(t, tt.want, rule.Allows(tt.role, tt.authed))
		})
	}
}

func TestMiddleware_Responses(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(Table, "/api", newNoopLogger())(next)

	t.Run("anonymous on protected route gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/areas", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/areas", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, "aluno@teste.com")
		ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleStudent)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/areas", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, "admin@portal.com")
		ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleAdmin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public route passes anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/job-offers", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
