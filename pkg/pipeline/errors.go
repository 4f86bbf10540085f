package pipeline

import "errors"

// Precondition and configuration errors. Node-level anomalies never surface
// as errors; they are recorded as warnings on the Result.
var (
	// ErrNoDocument is returned when the input markup is empty.
	ErrNoDocument = errors.New("no document to convert")

	// ErrNoProfile is returned when the block-comment dialect runs without a
	// site profile.
	ErrNoProfile = errors.New("gutenberg dialect requires a site profile")

	// ErrUnknownDialect is returned for a dialect name that is not registered.
	ErrUnknownDialect = errors.New("unknown dialect")

	// ErrUnknownProfile is returned for a profile id missing from the table.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")
)
