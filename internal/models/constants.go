package models

const (
	// DefaultMaxAdvanceDays is how far ahead a booking may start.
	DefaultMaxAdvanceDays = 365

	// DefaultCreateRateLimit is the number of create requests per identity per window.
	DefaultCreateRateLimit = 10

	// DefaultCreateRateWindow is the rate-limit window in seconds.
	DefaultCreateRateWindow = 60

	// DefaultStateTTL is the lifetime of state entries in Redis, in seconds.
	DefaultStateTTL = 24 * 60 * 60
)
