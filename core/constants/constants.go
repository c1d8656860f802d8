package constants

const (
	// ContextTokenData is the echo context key holding parsed JWT claims.
	ContextTokenData = "token_data"

	// Working hours window shared by all availability computations,
	// expressed as minutes since midnight. Not per-user configurable.
	WorkingHoursOpenMinute  = 9 * 60
	WorkingHoursCloseMinute = 18 * 60

	// MinimumSlotDurationMinutes is the shortest free slot worth suggesting.
	MinimumSlotDurationMinutes = 30

	// AcceptSearchWindowHours is how far past event creation busy data is fetched.
	AcceptSearchWindowHours = 24

	// Database pool settings
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes

	// EventIDLength is the nanoid length for event handles typed into chat.
	EventIDLength = 7
)
