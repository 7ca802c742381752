package models

// All lists every table model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&AnnouncementModel{},
		&AnnouncementTargetRoleModel{},
		&AnnouncementRecipientModel{},
	}
}
