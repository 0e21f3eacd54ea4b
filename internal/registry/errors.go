package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNamingCollision is the sentinel for duplicate artifact names.
var ErrNamingCollision = errors.New("artifact naming collision")

// NamingCollisionError reports two declared artifacts resolving to the
// same deterministic name. This indicates a builder or configuration
// bug and is never silently overwritten.
type NamingCollisionError struct {
	Name string
	Tags []string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("artifact naming collision on %q (tags: %s)",
		e.Name, strings.Join(e.Tags, " "))
}

func (e *NamingCollisionError) Unwrap() error { return ErrNamingCollision }
