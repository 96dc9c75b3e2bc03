package postgres

// PostgreSQL error codes
const (
	PgErrorCodeUniqueViolation = "23505"
)
