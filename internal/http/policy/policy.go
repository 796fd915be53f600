// Package policy implements the route authorization table: an ordered list
// of (method, pattern) rules mapping requests to the roles allowed to make
// them. Rules are evaluated top-down and the first match wins; requests
// matching no rule require a valid token of any role.
package policy

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Requirement is what a rule demands from the caller.
type Requirement int

const (
	// Public routes accept anonymous callers.
	Public Requirement = iota
	// AuthenticatedAny routes accept any valid token.
	AuthenticatedAny
	// Roles routes accept only the listed roles.
	Roles
)

// Rule binds one (method, pattern) pair to a requirement. Method "*" matches
// every verb. A pattern ending in "/**" matches the base path and everything
// below it; any other pattern matches exactly.
type Rule struct {
	Method       string
	Pattern      string
	Requirement  Requirement
	AllowedRoles []models.Role
}

func public(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Requirement: Public}
}

func roles(method, pattern string, allowed ...models.Role) Rule {
	return Rule{Method: method, Pattern: pattern, Requirement: Roles, AllowedRoles: allowed}
}

func authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Requirement: AuthenticatedAny}
}

// Table is the portal's route policy, relative to the /api mount. Order is
// part of the contract: first match wins.
var Table = []Rule{
	public("*", "/auth/**"),

	public(http.MethodGet, "/areas/**"),
	public(http.MethodGet, "/companies/**"),
	public(http.MethodGet, "/students/**"),
	public(http.MethodGet, "/job-offers/**"),

	public(http.MethodPost, "/companies"),
	public(http.MethodPost, "/students"),

	roles(http.MethodPost, "/areas", models.RoleAdmin),
	roles(http.MethodPut, "/areas/**", models.RoleAdmin),
	roles(http.MethodDelete, "/areas/**", models.RoleAdmin),

	roles(http.MethodPut, "/companies/**", models.RoleAdmin, models.RoleCompany),
	roles(http.MethodDelete, "/companies/**", models.RoleAdmin),

	authenticated(http.MethodPut, "/students/**"),
	roles(http.MethodDelete, "/students/**", models.RoleAdmin),

	roles(http.MethodPost, "/job-offers", models.RoleCompany),
	roles(http.MethodPut, "/job-offers/**", models.RoleCompany),
	roles(http.MethodPatch, "/job-offers/**", models.RoleCompany),
	roles(http.MethodDelete, "/job-offers/**", models.RoleAdmin, models.RoleCompany),

	roles(http.MethodGet, "/applications", models.RoleAdmin, models.RoleCompany),
	roles(http.MethodGet, "/applications/student/**", models.RoleAdmin, models.RoleStudent),
	roles(http.MethodGet, "/applications/job-offer/**", models.RoleAdmin, models.RoleCompany),
	roles(http.MethodPost, "/applications", models.RoleStudent),
	roles(http.MethodPatch, "/applications/**", models.RoleCompany),
	roles(http.MethodDelete, "/applications/**", models.RoleAdmin, models.RoleStudent),
}

// Match returns the first rule matching the method and path, or nil.
func Match(rules []Rule, method, path string) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method != "*" && r.Method != method {
			continue
		}
		if matchPattern(r.Pattern, path) {
			return r
		}
	}
	return nil
}

func matchPattern(pattern, path string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == pattern
}

// Allows reports whether a caller with the given role (anonymous when
// authenticated is false) satisfies the rule.
func (r *Rule) Allows(role models.Role, authenticated bool) bool {
	switch r.Requirement {
	case Public:
		return true
	case AuthenticatedAny:
		return authenticated
	case Roles:
		if !authenticated {
			return false
		}
		for _, allowed := range r.AllowedRoles {
			if role == allowed {
				return true
			}
		}
	}
	return false
}

// Middleware enforces the table on every request under the given mount
// prefix. Anonymous callers on a protected route get 401; authenticated
// callers lacking the required role get 403.
func Middleware(rules []Rule, mount string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "policy.Middleware"

			path := strings.TrimPrefix(r.URL.Path, mount)
			if path == "" {
				path = "/"
			}
			role, authenticated := middlewarectx.UserRole(r.Context())

			rule := Match(rules, r.Method, path)
			if rule == nil {
				rule = &Rule{Requirement: AuthenticatedAny}
			}
			if rule.Allows(role, authenticated) {
				next.ServeHTTP(w, r)
				return
			}

			log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", path),
			).Warn("request rejected by policy")

			if !authenticated {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		})
	}
}
