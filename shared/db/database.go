package db

import (
	"database/sql"
)

// Database is a store that is connected once, used, and closed.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
	Path() string
}
