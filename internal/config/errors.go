package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be absolute, e.g. https://example.com/")

	// ErrEmptyTestPath is returned when no artifact directory is configured.
	ErrEmptyTestPath = errors.New("invalid test path: must not be empty")

	// ErrInvalidRecipeID is returned when the recipe id is negative.
	ErrInvalidRecipeID = errors.New("invalid recipe id: must be non-negative")

	// ErrInvalidDebugPort is returned when the debugging port is out of range.
	ErrInvalidDebugPort = errors.New("invalid debug port: must be between 1024 and 65535")

	// ErrInvalidSlowMotion is returned when the slow motion delay is negative.
	ErrInvalidSlowMotion = errors.New("invalid slow motion delay: must be non-negative")

	// ErrInvalidTimeout is returned when a timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidLinkBase is returned when the report link base is not absolute.
	ErrInvalidLinkBase = errors.New("invalid link base: must be an absolute URL")

	// ErrMissingUsername is returned when a login is needed but no username is set.
	ErrMissingUsername = errors.New("username required: use --username or " + EnvUsername)

	// ErrMissingPassword is returned when a login is needed but no password is set.
	ErrMissingPassword = errors.New("password required: use --password or " + EnvPassword)

	// ErrUnknownViewConfig is returned when the config file configures a
	// view that is not in the catalog.
	ErrUnknownViewConfig = errors.New("config file references unknown view")
)
