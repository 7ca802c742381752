package permission

import (
	"context"
	"sort"
	"strconv"
)

// RoleDirectory answers "who holds these roles right now" from casbin's
// grouping policies.
type RoleDirectory struct {
	enforcer *Enforcer
	reload   bool
}

// NewRoleDirectory reads through enforcer. With reload set, policies are
// reloaded from storage before every lookup so assignments made by other
// processes are seen.
func NewRoleDirectory(enforcer *Enforcer, reload bool) *RoleDirectory {
	return &RoleDirectory{enforcer: enforcer, reload: reload}
}

// UsersForRoles returns the sorted, de-duplicated ids of users holding any of
// roles. Subjects that are not numeric user ids, such as roles inheriting
// other roles, are skipped.
func (d *RoleDirectory) UsersForRoles(ctx context.Context, roles []string) ([]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.reload {
		if err := d.enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}

	seen := make(map[uint]struct{})
	for _, role := range roles {
		subjects, err := d.enforcer.subjectsForRole(role)
		if err != nil {
			return nil, err
		}
		for _, s := range subjects {
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil || id == 0 {
				continue
			}
			seen[uint(id)] = struct{}{}
		}
	}

	users := make([]uint, 0, len(seen))
	for id := range seen {
		users = append(users, uint(id))
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}
