package valueobjects

import (
	"fmt"
	"sort"
	"strings"
)

const maxRoleNameLength = 64

// TargetRoles is the set of role names an announcement is addressed to.
// Names are trimmed and lower-cased; duplicates collapse; order is not significant.
type TargetRoles struct {
	roles []string
}

// NewTargetRoles builds a non-empty role set.
func NewTargetRoles(names []string) (TargetRoles, error) {
	seen := make(map[string]struct{}, len(names))
	roles := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			return TargetRoles{}, fmt.Errorf("role name cannot be empty")
		}
		if len(name) > maxRoleNameLength {
			return TargetRoles{}, fmt.Errorf("role name %q exceeds %d characters", name, maxRoleNameLength)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		roles = append(roles, name)
	}
	if len(roles) == 0 {
		return TargetRoles{}, fmt.Errorf("at least one target role is required")
	}
	sort.Strings(roles)
	return TargetRoles{roles: roles}, nil
}

// Names returns the roles in sorted order.
func (t TargetRoles) Names() []string {
	out := make([]string, len(t.roles))
	copy(out, t.roles)
	return out
}

func (t TargetRoles) Len() int {
	return len(t.roles)
}

func (t TargetRoles) IsEmpty() bool {
	return len(t.roles) == 0
}

// Equals compares as sets.
func (t TargetRoles) Equals(other TargetRoles) bool {
	if len(t.roles) != len(other.roles) {
		return false
	}
	for i := range t.roles {
		if t.roles[i] != other.roles[i] {
			return false
		}
	}
	return true
}
