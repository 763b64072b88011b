// Package authz checks role permissions with Casbin.
//
// Every mutating application operation calls Check (or RequireSelfOrAdmin)
// before touching persistence. The role policy is an embedded RBAC model:
// a principal is allowed when any of its roles, directly or through role
// inheritance, holds (resource, action).
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Roles.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleOperator = "ROLE_OPERATOR"
	RoleClient   = "ROLE_CLIENT"
	RoleMember   = "ROLE_MEMBER"
	RoleVisitor  = "ROLE_VISITOR"
)

// Resources.
const (
	ResourceCategory = "category"
	ResourceProduct  = "product"
	ResourceCity     = "city"
	ResourceEvent    = "event"
	ResourceUser     = "user"
	ResourceOrder    = "order"
	ResourceMovie    = "movie"
	ResourceReview   = "review"
)

// Actions.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionManage = "manage"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uint
	Email  string
	Roles  []string
}

// HasRole reports whether the principal holds role directly.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorizer wraps the Casbin enforcer.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewAuthorizer loads the embedded model and policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// loadPolicy parses "p, sub, obj, act" and "g, child, parent" lines.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Allowed reports whether any role of p may perform action on resource.
func (a *Authorizer) Allowed(p *Principal, resource, action string) (bool, error) {
	if p == nil {
		return false, nil
	}
	for _, role := range p.Roles {
		ok, err := a.enforcer.Enforce(role, resource, action)
		if err != nil {
			return false, fmt.Errorf("enforce %s %s/%s: %w", role, resource, action, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Check returns nil when allowed, ErrUnauthorized without a principal and
// ErrForbidden otherwise.
func (a *Authorizer) Check(p *Principal, resource, action string) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	ok, err := a.Allowed(p, resource, action)
	if err != nil {
		return apperrors.Wrap(err, "Authorization check failed")
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

// RequireSelfOrAdmin allows the owner of a resource and administrators.
func (a *Authorizer) RequireSelfOrAdmin(p *Principal, ownerID uint) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	if p.UserID == ownerID || p.HasRole(RoleAdmin) {
		return nil
	}
	return apperrors.ErrForbidden
}

// RequireAuthenticated only checks that there is a caller.
func (a *Authorizer) RequireAuthenticated(p *Principal) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	return nil
}
