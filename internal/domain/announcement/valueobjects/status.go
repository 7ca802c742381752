package valueobjects

import "fmt"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

var validStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// Archiving is allowed from anywhere; an archived announcement may be
// republished or pulled back to draft for rework.
var statusTransitions = map[Status][]Status{
	StatusDraft: {
		StatusPublished,
		StatusArchived,
	},
	StatusPublished: {
		StatusArchived,
	},
	StatusArchived: {
		StatusPublished,
		StatusDraft,
	},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) IsDraft() bool {
	return s == StatusDraft
}

func (s Status) IsPublished() bool {
	return s == StatusPublished
}

func (s Status) IsArchived() bool {
	return s == StatusArchived
}

// IsCreatable reports whether an announcement may start its life in s.
func (s Status) IsCreatable() bool {
	return s == StatusDraft || s == StatusPublished
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func NewStatus(str string) (Status, error) {
	s := Status(str)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid announcement status: %s", str)
	}
	return s, nil
}
