package rbac

import (
	"context"
	"strings"
)

// Checker answers "may this role do that" against a role -> grants
// policy. Grants are resource:action strings; a trailing * matches any
// suffix and a bare * grants everything.
type Checker struct {
	grants map[string][]string
}

// NewChecker builds a checker over the given policy; nil means the
// package default RolePermissions.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	return &Checker{grants: policy}
}

func (c *Checker) Has(role, perm string) bool {
	for _, g := range c.grants[role] {
		if granted(g, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func granted(grant, perm string) bool {
	if grant == "*" || grant == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(grant, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

// ---- role in context ----

type roleKey struct{}

// WithRole stamps the authenticated role onto the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the role set by the auth middleware, or "".
func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(roleKey{}).(string)
	return s
}
