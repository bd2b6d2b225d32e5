package config

import (
	"errors"
	"fmt"
)

// ErrMissingPushURL is returned when the push endpoint is not configured.
var ErrMissingPushURL = errors.New("push endpoint URL is not set")

// ConfigurationError reports an invalid or missing setting.
// It is fatal and raised before any network activity.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
