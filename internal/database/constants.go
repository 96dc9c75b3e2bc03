package database

// Connection Pool Constants
const (
	// DefaultMinConnections is the floor of warm connections kept in the pool
	DefaultMinConnections = 2
)

// Error Messages - Pool Setup
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
)
