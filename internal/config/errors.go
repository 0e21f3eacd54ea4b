package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel for all fatal configuration faults.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing section/option or a violated
// precondition such as tag arity. It aborts assembly; the fix is to
// correct the configuration and re-run.
type ConfigurationError struct {
	Section string
	Option  string
	JobKind string
	Detail  string
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.JobKind != "" {
		msg += fmt.Sprintf(" [job kind %s]", e.JobKind)
	}
	if e.Section != "" {
		if e.Option != "" {
			msg += fmt.Sprintf(": missing option %q in section [%s]", e.Option, e.Section)
		} else {
			msg += fmt.Sprintf(": missing section [%s]", e.Section)
		}
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingOption builds the error for an absent section/option pair.
func MissingOption(section, option string) error {
	return &ConfigurationError{Section: section, Option: option}
}

// TagArityError reports a job kind invoked with too few tags to fill
// its named tag fields.
func TagArityError(jobKind, field string, position, got int) error {
	return &ConfigurationError{
		JobKind: jobKind,
		Detail: fmt.Sprintf("tag field %q at position %d is unfilled (got %d tags)",
			field, position, got),
	}
}
