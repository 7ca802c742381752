package valueobjects

import "fmt"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority applies when the author does not pick one.
const DefaultPriority = PriorityMedium

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// NewPriority parses p; an empty string yields DefaultPriority.
func NewPriority(str string) (Priority, error) {
	if str == "" {
		return DefaultPriority, nil
	}
	p := Priority(str)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid announcement priority: %s", str)
	}
	return p, nil
}
