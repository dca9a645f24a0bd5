package store

import "errors"

var (
	ErrDuplicateLabel = errors.New("duplicate category label")
	ErrEmptyLabel     = errors.New("empty category label")
	ErrNoProfiles     = errors.New("no usable category profiles")
	ErrInvalidOptions = errors.New("invalid profile options")
)

// ConfigError reports a store that cannot be built from the given corpus or
// options. Match the cause with errors.Is against the Err* sentinels.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(op string, err error) error {
	return &ConfigError{Op: op, Err: err}
}
