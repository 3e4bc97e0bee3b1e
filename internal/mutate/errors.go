package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type PermissionError struct {
	ActorID string
	Action  string
}

func (e PermissionError) Error() string {
	// Keep this generic; CLI/TUI can wrap with more specific phrasing.
	return "not permitted"
}
