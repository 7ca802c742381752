package permission

import (
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
)

// DefaultPolicies lets admins author announcements. Every authenticated user
// may read.
var DefaultPolicies = [][]string{
	{"admin", constants.ResourceAnnouncements, constants.ActionWrite},
	{"admin", constants.ResourceAnnouncements, constants.ActionRead},
}

// SeedDefaultPolicies adds the default policies, leaving existing ones untouched.
func (e *Enforcer) SeedDefaultPolicies() error {
	for _, p := range DefaultPolicies {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}
	e.logger.Infow("announcement permissions initialized", "policies", len(DefaultPolicies))
	return nil
}
